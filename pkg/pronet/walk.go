package pronet

import (
	"math/rand"
)

// BiasedRandomWalk performs a second-order random walk of at most walkLength vertices
// starting from start. The first hop is drawn from the start vertex's table, every
// later hop from the table of the edge just traversed. The walk stops early at a
// vertex without out-edges.
func (pn *ProNet) BiasedRandomWalk(start, walkLength int, rng *rand.Rand) []int {
	walk := make([]int, 0, max(walkLength, 1))
	walk = append(walk, start)

	cur := start
	edge := -1
	for len(walk) < walkLength {
		v := pn.Vertices[cur]
		if v.Branch == 0 {
			break
		}

		var idx int
		if edge < 0 {
			idx = pn.nodeAT[cur].Sample(rng)
		} else {
			idx = pn.edgeAT[edge].Sample(rng)
		}
		if idx < 0 {
			break
		}

		edge = v.Offset + idx
		cur = pn.Edges[edge]
		walk = append(walk, cur)
	}

	return walk
}

// GenerateCorpus emits numWalks rounds of walks. Each round visits every vertex once
// as a start vertex, in a freshly shuffled order.
func (pn *ProNet) GenerateCorpus(numWalks, walkLength int, rng *rand.Rand) ([][]int, error) {
	if !pn.Preprocessed() {
		return nil, ErrNotPreprocessed
	}

	n := len(pn.Vertices)
	corpus := make([][]int, 0, max(numWalks, 0)*n)
	order := make([]int, n)
	for vid := range order {
		order[vid] = vid
	}

	for t := 0; t < numWalks; t++ {
		rng.Shuffle(n, func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		for _, vid := range order {
			corpus = append(corpus, pn.BiasedRandomWalk(vid, walkLength, rng))
		}
	}

	return corpus, nil
}
