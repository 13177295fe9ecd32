package graphsource

import (
	"context"
	"fmt"
	"strconv"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// DefaultAdjacencyQuery returns every node with the ids of its outgoing neighbors.
const DefaultAdjacencyQuery = `
MATCH (n)
OPTIONAL MATCH (n)-[r]->(m)
RETURN id(n) AS node_id, collect(id(m)) AS neighbors
`

// Neo4j reads the adjacency from a Neo4j database.
// Query must return a node_id column and a neighbors list column.
type Neo4j struct {
	Driver   neo4j.DriverWithContext
	Database string
	Query    string
}

// Adjacency runs the adjacency query in a read session.
func (n Neo4j) Adjacency(ctx context.Context) (map[string][]string, error) {
	if n.Driver == nil {
		return nil, ErrNilGraph
	}
	query := n.Query
	if query == "" {
		query = DefaultAdjacencyQuery
	}

	session := n.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: n.Database,
	})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query adjacency: %w", err)
	}

	return readAdjacency(ctx, result)
}

// recordIterator is the part of neo4j.ResultWithContext the reader needs.
type recordIterator interface {
	Next(ctx context.Context) bool
	Record() *neo4j.Record
	Err() error
}

// readAdjacency drains the query result. Neighbors are not repaired: a neighbor
// without its own row stays dangling and is rejected when the graph is loaded.
func readAdjacency(ctx context.Context, result recordIterator) (map[string][]string, error) {
	adj := make(map[string][]string)
	for result.Next(ctx) {
		record := result.Record()
		nodeID, ok := record.Get("node_id")
		if !ok {
			return nil, fmt.Errorf("%w: missing column node_id", ErrMalformedRecord)
		}
		neighbors, ok := record.Get("neighbors")
		if !ok {
			return nil, fmt.Errorf("%w: missing column neighbors", ErrMalformedRecord)
		}
		if err := addRecord(adj, nodeID, neighbors); err != nil {
			return nil, err
		}
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read adjacency: %w", err)
	}

	return adj, nil
}

// addRecord appends one node_id/neighbors row. Null neighbors, produced by the
// OPTIONAL MATCH for nodes without out-edges, are skipped.
func addRecord(adj map[string][]string, nodeID, neighbors any) error {
	id, err := formatID(nodeID)
	if err != nil {
		return fmt.Errorf("%w: node_id: %v", ErrMalformedRecord, err)
	}

	nbs := adj[id]
	if nbs == nil {
		nbs = []string{}
	}

	if neighbors != nil {
		list, ok := neighbors.([]any)
		if !ok {
			return fmt.Errorf("%w: neighbors of %s is %T", ErrMalformedRecord, id, neighbors)
		}
		for _, m := range list {
			if m == nil {
				continue
			}
			mid, err := formatID(m)
			if err != nil {
				return fmt.Errorf("%w: neighbor of %s: %v", ErrMalformedRecord, id, err)
			}
			nbs = append(nbs, mid)
		}
	}

	adj[id] = nbs
	return nil
}

func formatID(v any) (string, error) {
	switch id := v.(type) {
	case int64:
		return strconv.FormatInt(id, 10), nil
	case int:
		return strconv.Itoa(id), nil
	case string:
		return id, nil
	default:
		return "", fmt.Errorf("unsupported id type %T", v)
	}
}
