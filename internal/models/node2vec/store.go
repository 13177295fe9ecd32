package node2vec

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// Neighbor is one result of a similarity lookup.
type Neighbor struct {
	ID    string
	Score float64
}

// Store maps node ids to trained vectors.
// Vectors are index-addressed; nodes that never appeared in a walk have a nil slot
// and no entry. All accessors return copies.
type Store struct {
	dim     int
	index   map[string]int
	keys    []string
	vectors [][]float64
}

func newStore(dim int, keys []string, vectors [][]float64) *Store {
	s := &Store{
		dim:     dim,
		index:   make(map[string]int, len(keys)),
		keys:    keys,
		vectors: vectors,
	}
	for i, k := range keys {
		if vectors[i] != nil {
			s.index[k] = i
		}
	}
	return s
}

// Dim returns the vector width.
func (s *Store) Dim() int {
	return s.dim
}

// Len returns the number of nodes with an embedding.
func (s *Store) Len() int {
	return len(s.index)
}

// Get returns a copy of the vector of id.
func (s *Store) Get(id string) ([]float64, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), s.vectors[i]...), true
}

// All returns a deep copy of every embedding.
func (s *Store) All() map[string][]float64 {
	out := make(map[string][]float64, len(s.index))
	for id, i := range s.index {
		out[id] = append([]float64(nil), s.vectors[i]...)
	}
	return out
}

// IDs returns the ids with an embedding in sorted order.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.index))
	for i, k := range s.keys {
		if s.vectors[i] != nil {
			ids = append(ids, k)
		}
	}
	return ids
}

// MostSimilar returns up to k other nodes ranked by cosine similarity to id.
// Ties are ordered by id.
func (s *Store) MostSimilar(id string, k int) ([]Neighbor, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	query := s.vectors[i]

	result := make([]Neighbor, 0, len(s.index))
	for j, vec := range s.vectors {
		if vec == nil || j == i {
			continue
		}
		result = append(result, Neighbor{ID: s.keys[j], Score: cosineSimilarity(query, vec)})
	}
	sort.Slice(result, func(a, b int) bool {
		if result[a].Score != result[b].Score {
			return result[a].Score > result[b].Score
		}
		return result[a].ID < result[b].ID
	})

	if k >= 0 && k < len(result) {
		result = result[:k]
	}
	return result, true
}

// Homophily computes the share of edges whose endpoints have cosine similarity above threshold.
// Edges touching a node without an embedding are skipped.
func (s *Store) Homophily(adj map[string][]string, threshold float64) float64 {
	total, similar := 0, 0
	for u, nbs := range adj {
		i, ok := s.index[u]
		if !ok {
			continue
		}
		for _, v := range nbs {
			j, ok := s.index[v]
			if !ok {
				continue
			}
			total++
			if cosineSimilarity(s.vectors[i], s.vectors[j]) > threshold {
				similar++
			}
		}
	}

	if total == 0 {
		return 0.0
	}
	return float64(similar) / float64(total)
}

// WriteTo writes the embeddings in word2vec text format:
// a "<count> <dim>" header followed by one "<id> v1 ... vd" line per node, sorted by id.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64

	c, err := fmt.Fprintf(bw, "%d %d\n", s.Len(), s.dim)
	n += int64(c)
	if err != nil {
		return n, err
	}

	buf := make([]byte, 0, 32)
	for _, id := range s.IDs() {
		c, err = bw.WriteString(id)
		n += int64(c)
		if err != nil {
			return n, err
		}
		for _, x := range s.vectors[s.index[id]] {
			buf = append(buf[:0], ' ')
			buf = strconv.AppendFloat(buf, x, 'f', 6, 64)
			c, err = bw.Write(buf)
			n += int64(c)
			if err != nil {
				return n, err
			}
		}
		if err = bw.WriteByte('\n'); err != nil {
			return n, err
		}
		n++
	}

	return n, bw.Flush()
}

// cosineSimilarity computes cosine similarity between two vectors
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0.0
	}
	return floats.Dot(a, b) / (na * nb)
}
