// Package graphsource provides adjacency snapshots for embedding training.
//
// Every source returns a mapping from node id to its ordered out-neighbors.
// The mapping is closed: every neighbor is also a key.
package graphsource

import (
	"context"
	"errors"
)

var (
	// ErrNilGraph is returned when a source wraps a nil graph or driver.
	ErrNilGraph = errors.New("graphsource: nil graph")

	// ErrMalformedRecord is returned when a database row cannot be read as an adjacency entry.
	ErrMalformedRecord = errors.New("graphsource: malformed adjacency record")
)

// Static serves a fixed in-memory adjacency.
type Static map[string][]string

// Adjacency returns a copy of the mapping, so callers cannot mutate the source.
func (s Static) Adjacency(ctx context.Context) (map[string][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(map[string][]string, len(s))
	for k, nbs := range s {
		out[k] = append([]string{}, nbs...)
	}
	return out, nil
}

// closeAdjacency adds an empty neighbor list for every referenced node that is not a key.
func closeAdjacency(adj map[string][]string) {
	for _, nbs := range adj {
		for _, nb := range nbs {
			if _, ok := adj[nb]; !ok {
				adj[nb] = []string{}
			}
		}
	}
}
