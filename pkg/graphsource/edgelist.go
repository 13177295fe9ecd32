package graphsource

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// EdgeList reads a whitespace separated edge list file.
// Each line is "<from> <to> [weight]"; the weight column is accepted and ignored.
// Blank lines and lines starting with '#' are skipped.
type EdgeList struct {
	Path       string
	Undirected bool
}

// Adjacency loads the network from the edge list file
func (el EdgeList) Adjacency(ctx context.Context) (map[string][]string, error) {
	file, err := os.Open(el.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", el.Path, err)
	}
	defer file.Close()

	return ReadEdgeList(ctx, file, el.Undirected)
}

// ReadEdgeList parses an edge list from r. Nodes only seen as targets get an
// empty neighbor list.
func ReadEdgeList(ctx context.Context, r io.Reader, undirected bool) (map[string][]string, error) {
	adj := make(map[string][]string)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 2 {
			return nil, fmt.Errorf("%w: line %d: %q", ErrMalformedRecord, lineNo, line)
		}

		v1, v2 := parts[0], parts[1]
		adj[v1] = append(adj[v1], v2)
		if undirected {
			adj[v2] = append(adj[v2], v1)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading edge list: %w", err)
	}

	closeAdjacency(adj)
	return adj, nil
}
