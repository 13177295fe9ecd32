package pronet

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrDanglingNeighbor is returned when an adjacency references a node that is not one of its keys.
	ErrDanglingNeighbor = errors.New("pronet: neighbor is not a vertex of the graph")

	// ErrInvalidBias is returned when the return or in-out parameter is not positive.
	ErrInvalidBias = errors.New("pronet: p and q must be positive")

	// ErrNotPreprocessed is returned when walks are requested before transition tables exist.
	ErrNotPreprocessed = errors.New("pronet: transition probabilities not preprocessed")
)

// Vertex represents a vertex in the network.
// Its out-edges are Edges[Offset : Offset+Branch].
type Vertex struct {
	Offset int
	Branch int
}

// ProNet is the index arena the walks and the trainer run on.
// Every vertex gets a dense index; adjacency is stored in CSR form.
type ProNet struct {
	Vertices []Vertex
	Edges    []int

	// Hash tables for vertex name mapping
	VertexHash map[string]int
	VertexKeys []string

	// sorted copy of each vertex's neighbor list, for membership tests
	sortedNeighbors [][]int

	nodeAT []AliasTable
	edgeAT []AliasTable
	p, q   float64
}

// NewProNet creates a new, empty ProNet instance
func NewProNet() *ProNet {
	return &ProNet{
		VertexHash: make(map[string]int),
		VertexKeys: make([]string, 0),
	}
}

// LoadAdjacency replaces the network with the given adjacency mapping.
// Vertex indices follow the sorted order of the keys so the layout does not depend
// on map iteration. Neighbor order, duplicates and self-loops are kept as given.
// Every neighbor must also be a key; otherwise ErrDanglingNeighbor is returned and
// the network is left empty.
func (pn *ProNet) LoadAdjacency(adj map[string][]string) error {
	keys := make([]string, 0, len(adj))
	for k := range adj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	hash := make(map[string]int, len(keys))
	for i, k := range keys {
		hash[k] = i
	}

	vertices := make([]Vertex, len(keys))
	edges := make([]int, 0)
	for vid, name := range keys {
		vertices[vid].Offset = len(edges)
		for _, nb := range adj[name] {
			nid, ok := hash[nb]
			if !ok {
				*pn = *NewProNet()
				return fmt.Errorf("%w: %q -> %q", ErrDanglingNeighbor, name, nb)
			}
			edges = append(edges, nid)
		}
		vertices[vid].Branch = len(edges) - vertices[vid].Offset
	}

	*pn = ProNet{
		Vertices:   vertices,
		Edges:      edges,
		VertexHash: hash,
		VertexKeys: keys,
	}
	pn.buildNeighborSets()
	return nil
}

func (pn *ProNet) buildNeighborSets() {
	pn.sortedNeighbors = make([][]int, len(pn.Vertices))
	for vid := range pn.Vertices {
		nbs := append([]int(nil), pn.Neighbors(vid)...)
		sort.Ints(nbs)
		pn.sortedNeighbors[vid] = nbs
	}
}

// NumVertices returns the number of vertices.
func (pn *ProNet) NumVertices() int {
	return len(pn.Vertices)
}

// NumEdges returns the number of directed edges, duplicates included.
func (pn *ProNet) NumEdges() int {
	return len(pn.Edges)
}

// Neighbors returns the out-neighbors of vid in adjacency order.
// The slice aliases the arena and must not be modified.
func (pn *ProNet) Neighbors(vid int) []int {
	v := pn.Vertices[vid]
	return pn.Edges[v.Offset : v.Offset+v.Branch]
}

// HasEdge reports whether u -> v is an edge.
func (pn *ProNet) HasEdge(u, v int) bool {
	nbs := pn.sortedNeighbors[u]
	i := sort.SearchInts(nbs, v)
	return i < len(nbs) && nbs[i] == v
}

// VertexID returns the index of a vertex by name
func (pn *ProNet) VertexID(name string) (int, bool) {
	vid, ok := pn.VertexHash[name]
	return vid, ok
}

// VertexName returns the name of a vertex by ID
func (pn *ProNet) VertexName(vid int) string {
	if vid < 0 || vid >= len(pn.VertexKeys) {
		return ""
	}
	return pn.VertexKeys[vid]
}
