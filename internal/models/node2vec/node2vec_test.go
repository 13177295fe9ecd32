package node2vec

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gonum.org/v1/gonum/floats"

	"github.com/cnclabs/smore-n2v/pkg/graphsource"
	"github.com/cnclabs/smore-n2v/pkg/pronet"
)

const unitTol = 1e-6

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Dimension = 8
	cfg.WalkLength = 4
	cfg.NumWalks = 3
	cfg.Epochs = 2
	return cfg
}

var pathGraph = graphsource.Static{
	"A": {"B"},
	"B": {"A", "C"},
	"C": {"B"},
}

type failingSource struct{ err error }

func (f failingSource) Adjacency(context.Context) (map[string][]string, error) {
	return nil, f.err
}

// FitSuite trains on the three-node path graph.
type FitSuite struct {
	suite.Suite
	ctx context.Context
	n2v *Node2Vec
}

func (s *FitSuite) SetupTest() {
	s.ctx = context.Background()
	n2v, err := New(smallConfig())
	s.Require().NoError(err)
	s.Require().NoError(n2v.Fit(s.ctx, pathGraph))
	s.n2v = n2v
}

func (s *FitSuite) TestEmbeddingShape() {
	vec, ok := s.n2v.Embedding("A")
	s.Require().True(ok)
	s.Require().Len(vec, 8)
	s.Require().InDelta(1.0, floats.Norm(vec, 2), unitTol)

	_, ok = s.n2v.Embedding("Z")
	s.Require().False(ok)
}

func (s *FitSuite) TestCopiesOnRead() {
	vec, _ := s.n2v.Embedding("A")
	vec[0] += 100

	again, _ := s.n2v.Embedding("A")
	s.Require().NotEqual(vec[0], again[0])

	all := s.n2v.Embeddings()
	s.Require().Len(all, 3)
	all["B"][0] += 100
	b, _ := s.n2v.Embedding("B")
	s.Require().NotEqual(all["B"][0], b[0])
}

func (s *FitSuite) TestCorpusShape() {
	s.Require().Len(s.n2v.corpus, 3*3)
	for _, walk := range s.n2v.corpus {
		s.Require().LessOrEqual(len(walk), 4)
		for i := 1; i < len(walk); i++ {
			s.Require().True(s.n2v.net.HasEdge(walk[i-1], walk[i]))
		}
	}
}

func (s *FitSuite) TestAllVectorsUnitNorm() {
	for id, vec := range s.n2v.Embeddings() {
		s.Require().InDelta(1.0, floats.Norm(vec, 2), unitTol, id)
	}
}

func TestFitSuite(t *testing.T) {
	suite.Run(t, new(FitSuite))
}

func TestFit_Deterministic(t *testing.T) {
	fit := func() map[string][]float64 {
		n2v, err := New(smallConfig(), WithRand(rand.New(rand.NewSource(7))))
		require.NoError(t, err)
		require.NoError(t, n2v.Fit(context.Background(), pathGraph))
		return n2v.Embeddings()
	}
	require.Equal(t, fit(), fit())
}

func TestFit_SeedFromConfig(t *testing.T) {
	fit := func(seed int64) map[string][]float64 {
		cfg := smallConfig()
		cfg.Seed = seed
		n2v, err := New(cfg)
		require.NoError(t, err)
		require.NoError(t, n2v.Fit(context.Background(), pathGraph))
		return n2v.Embeddings()
	}
	require.Equal(t, fit(1), fit(1))
	require.NotEqual(t, fit(1), fit(2))
}

func TestFit_VocabularyCoverage(t *testing.T) {
	// D is never a neighbor and E has no out-edges; both still start walks.
	src := graphsource.Static{
		"A": {"B"},
		"B": {"A"},
		"D": {"A"},
		"E": {},
	}
	n2v, err := New(smallConfig())
	require.NoError(t, err)
	require.NoError(t, n2v.Fit(context.Background(), src))

	seen := map[string]bool{}
	for _, walk := range n2v.corpus {
		for _, vid := range walk {
			seen[n2v.net.VertexName(vid)] = true
		}
	}
	all := n2v.Embeddings()
	require.Len(t, all, len(seen))
	for id := range seen {
		require.Contains(t, all, id)
	}
}

func TestFit_NoWalksNoEmbeddings(t *testing.T) {
	cfg := smallConfig()
	cfg.NumWalks = 0
	n2v, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, n2v.Fit(context.Background(), pathGraph))
	require.Empty(t, n2v.Embeddings())
	_, ok := n2v.Embedding("A")
	require.False(t, ok)
}

func TestFit_DanglingNeighbor(t *testing.T) {
	n2v, err := New(smallConfig())
	require.NoError(t, err)
	require.NoError(t, n2v.Fit(context.Background(), pathGraph))

	err = n2v.Fit(context.Background(), graphsource.Static{"A": {"Z"}})
	require.ErrorIs(t, err, pronet.ErrDanglingNeighbor)
	require.Empty(t, n2v.Embeddings(), "a failed fit leaves no stale embeddings")
}

func TestFit_SourceError(t *testing.T) {
	boom := errors.New("boom")
	n2v, err := New(smallConfig())
	require.NoError(t, err)
	err = n2v.Fit(context.Background(), failingSource{err: boom})
	require.ErrorIs(t, err, boom)
}

func TestFit_NilSource(t *testing.T) {
	n2v, err := New(smallConfig())
	require.NoError(t, err)
	require.NoError(t, n2v.Fit(context.Background(), pathGraph))

	err = n2v.Fit(context.Background(), nil)
	require.ErrorIs(t, err, ErrInvalidConfig)
	require.NotEmpty(t, n2v.Embeddings(), "a rejected call does not touch the trained model")
}

func TestFit_ResetsBetweenRuns(t *testing.T) {
	n2v, err := New(smallConfig())
	require.NoError(t, err)
	require.NoError(t, n2v.Fit(context.Background(), pathGraph))
	require.NoError(t, n2v.Fit(context.Background(), graphsource.Static{"X": {"Y"}, "Y": {"X"}}))

	all := n2v.Embeddings()
	require.Len(t, all, 2)
	require.NotContains(t, all, "A")
}

func TestFit_WithoutNormalization(t *testing.T) {
	cfg := smallConfig()
	cfg.NormalizeUpdates = false
	cfg.LearningRate = 0.5
	n2v, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, n2v.Fit(context.Background(), pathGraph))

	vec, ok := n2v.Embedding("B")
	require.True(t, ok)
	require.Len(t, vec, 8)
}

func TestFit_Logs(t *testing.T) {
	var buf bytes.Buffer
	n2v, err := New(smallConfig(), WithLogger(NewLogger("debug", &buf)))
	require.NoError(t, err)
	require.NoError(t, n2v.Fit(context.Background(), pathGraph))

	out := buf.String()
	require.Contains(t, out, "Generated random walks")
	require.Contains(t, out, "Node2Vec training complete")
	require.Contains(t, out, "run_id")
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.P = 0
	_, err := New(cfg)
	require.ErrorIs(t, err, ErrInvalidConfig)
}
