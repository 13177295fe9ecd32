package pronet

import (
	"fmt"
)

// PreprocessTransitionProbs builds the alias tables that drive the biased walks.
//
// Every vertex gets a table uniform over its neighbor list, used for the first hop.
// Every edge t -> v gets a table over v's neighbors x with unnormalized weights
// 1/p when x == t, 1 when x is also a neighbor of t, and 1/q otherwise.
// Edge tables are indexed like Edges, so the walk can look one up from the
// position of the edge it just traversed.
func (pn *ProNet) PreprocessTransitionProbs(p, q float64) error {
	if p <= 0 || q <= 0 {
		return fmt.Errorf("%w: p=%v q=%v", ErrInvalidBias, p, q)
	}
	pn.p, pn.q = p, q

	pn.nodeAT = make([]AliasTable, len(pn.Vertices))
	for vid := range pn.Vertices {
		branch := pn.Vertices[vid].Branch
		probs := make([]float64, branch)
		for i := range probs {
			probs[i] = 1.0 / float64(branch)
		}
		pn.nodeAT[vid] = BuildAliasTable(probs)
	}

	pn.edgeAT = make([]AliasTable, len(pn.Edges))
	for t := range pn.Vertices {
		v := pn.Vertices[t]
		for e := v.Offset; e < v.Offset+v.Branch; e++ {
			pn.edgeAT[e] = pn.edgeAliasTable(t, pn.Edges[e])
		}
	}

	return nil
}

// edgeAliasTable computes the second-order distribution over cur's neighbors
// given that the walk arrived from prev.
func (pn *ProNet) edgeAliasTable(prev, cur int) AliasTable {
	neighbors := pn.Neighbors(cur)
	if len(neighbors) == 0 {
		return AliasTable{}
	}

	weights := make([]float64, len(neighbors))
	sum := 0.0
	for i, x := range neighbors {
		switch {
		case x == prev:
			weights[i] = 1.0 / pn.p
		case pn.HasEdge(prev, x):
			weights[i] = 1.0
		default:
			weights[i] = 1.0 / pn.q
		}
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}

	return BuildAliasTable(weights)
}

// Preprocessed reports whether transition tables are available.
func (pn *ProNet) Preprocessed() bool {
	return pn.nodeAT != nil && len(pn.nodeAT) == len(pn.Vertices)
}

// NodeTable returns the first-hop alias table of a vertex.
func (pn *ProNet) NodeTable(name string) (AliasTable, bool) {
	vid, ok := pn.VertexHash[name]
	if !ok || !pn.Preprocessed() {
		return AliasTable{}, false
	}
	return pn.nodeAT[vid], true
}

// EdgeTable returns the alias table used when the walk is at cur having come from prev.
// With duplicate edges the table of the first prev -> cur edge is returned; all of
// them are identical. There is no table when cur has no out-edges.
func (pn *ProNet) EdgeTable(prev, cur string) (AliasTable, bool) {
	t, ok := pn.VertexHash[prev]
	if !ok || !pn.Preprocessed() {
		return AliasTable{}, false
	}
	v, ok := pn.VertexHash[cur]
	if !ok {
		return AliasTable{}, false
	}
	vt := pn.Vertices[t]
	for e := vt.Offset; e < vt.Offset+vt.Branch; e++ {
		if pn.Edges[e] == v {
			at := pn.edgeAT[e]
			return at, at.Len() > 0
		}
	}
	return AliasTable{}, false
}
