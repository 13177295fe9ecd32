package graphsource

import (
	"context"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/graph"
)

// Gonum adapts a gonum directed graph. Node ids are formatted in base 10 and
// neighbors are listed in ascending id order, since gonum iteration order is not stable.
type Gonum struct {
	Graph graph.Directed
}

// Adjacency returns the out-neighbors of every node of the wrapped graph.
func (g Gonum) Adjacency(ctx context.Context) (map[string][]string, error) {
	if g.Graph == nil {
		return nil, ErrNilGraph
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	nodes := graph.NodesOf(g.Graph.Nodes())
	adj := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		from := graph.NodesOf(g.Graph.From(n.ID()))
		ids := make([]int64, len(from))
		for i, m := range from {
			ids[i] = m.ID()
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		nbs := make([]string, len(ids))
		for i, id := range ids {
			nbs[i] = strconv.FormatInt(id, 10)
		}
		adj[strconv.FormatInt(n.ID(), 10)] = nbs
	}

	return adj, nil
}
