package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cnclabs/smore-n2v/internal/models/node2vec"
)

func writeEdgeList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "net.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_TrainAndSave(t *testing.T) {
	train := writeEdgeList(t, "1 2\n2 3\n3 1\n")
	save := filepath.Join(t.TempDir(), "rep.txt")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{
		"-train", train,
		"-save", save,
		"-dimensions", "4",
		"-num_walks", "2",
		"-walk_length", "5",
		"-window_size", "1",
		"-negative_samples", "1",
		"-epochs", "1",
		"-query", "1",
		"-topk", "2",
		"-log_level", "error",
	}, &stdout, &stderr)
	require.NoError(t, err)
	require.Contains(t, stdout.String(), "Homophily ratio:")

	data, err := os.ReadFile(save)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Equal(t, "3 4", lines[0])
	require.Len(t, lines, 4)
}

func TestRun_NoSource(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), nil, &stdout, &stderr)
	require.ErrorIs(t, err, errUsage)
	require.Contains(t, stderr.String(), "-train")
}

func TestRun_ReturnsErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), []string{
		"-train", filepath.Join(t.TempDir(), "missing.txt"),
	}, &stdout, &stderr)
	require.ErrorContains(t, err, "failed to load graph")

	err = run(context.Background(), []string{
		"-train", writeEdgeList(t, "1 2\n"),
		"-p", "-1",
	}, &stdout, &stderr)
	require.ErrorIs(t, err, node2vec.ErrInvalidConfig)
}
