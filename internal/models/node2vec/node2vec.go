package node2vec

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cnclabs/smore-n2v/pkg/pronet"
)

// GraphSource yields an adjacency snapshot: node id -> ordered out-neighbors.
// It is called once per Fit.
type GraphSource interface {
	Adjacency(ctx context.Context) (map[string][]string, error)
}

// Option configures a Node2Vec instance.
type Option func(*Node2Vec)

// WithRand sets the random source driving walks and training.
// By default a source seeded from Config.Seed is used.
func WithRand(rng *rand.Rand) Option {
	return func(n2v *Node2Vec) {
		n2v.rng = rng
	}
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(n2v *Node2Vec) {
		n2v.logger = logger
	}
}

// Node2Vec learns node embeddings from second-order biased random walks
// balanced between BFS and DFS exploration via p (return) and q (in-out).
//
// Fit calls on one instance are serialized and share its random source, so
// concurrent fits should use separate instances. Each Fit replaces the
// previous model entirely.
type Node2Vec struct {
	cfg    Config
	rng    *rand.Rand
	logger zerolog.Logger

	mu     sync.RWMutex
	net    *pronet.ProNet
	corpus [][]int
	store  *Store
}

// New creates a new Node2Vec instance
func New(cfg Config, opts ...Option) (*Node2Vec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n2v := &Node2Vec{
		cfg:    cfg,
		logger: zerolog.Nop(),
		store:  newStore(cfg.Dimension, nil, nil),
	}
	for _, opt := range opts {
		opt(n2v)
	}
	if n2v.rng == nil {
		n2v.rng = rand.New(rand.NewSource(cfg.Seed))
	}

	return n2v, nil
}

// Config returns the parameters the instance was built with.
func (n2v *Node2Vec) Config() Config {
	return n2v.cfg
}

// Fit fetches the graph and runs preprocessing, walk generation and training.
// Only the fetch honours ctx; the rest runs to completion.
// A nil source is rejected without touching the current model; any later
// error leaves the instance with no embeddings.
func (n2v *Node2Vec) Fit(ctx context.Context, src GraphSource) error {
	n2v.mu.Lock()
	defer n2v.mu.Unlock()

	if src == nil {
		return fmt.Errorf("%w: nil graph source", ErrInvalidConfig)
	}

	n2v.net = nil
	n2v.corpus = nil
	n2v.store = newStore(n2v.cfg.Dimension, nil, nil)

	logger := n2v.logger.With().Str("run_id", uuid.NewString()).Logger()
	begin := time.Now()

	logger.Info().Msg("Loading graph structure")
	adj, err := src.Adjacency(ctx)
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}

	return n2v.fitAdjacency(adj, logger, begin)
}

func (n2v *Node2Vec) fitAdjacency(adj map[string][]string, logger zerolog.Logger, begin time.Time) error {
	net := pronet.NewProNet()
	if err := net.LoadAdjacency(adj); err != nil {
		return err
	}
	logger.Info().
		Int("vertices", net.NumVertices()).
		Int("edges", net.NumEdges()).
		Msg("Graph loaded")

	phase := time.Now()
	if err := net.PreprocessTransitionProbs(n2v.cfg.P, n2v.cfg.Q); err != nil {
		return err
	}
	logger.Info().
		Float64("p", n2v.cfg.P).
		Float64("q", n2v.cfg.Q).
		Dur("took", time.Since(phase)).
		Msg("Preprocessed transition probabilities")

	phase = time.Now()
	corpus, err := net.GenerateCorpus(n2v.cfg.NumWalks, n2v.cfg.WalkLength, n2v.rng)
	if err != nil {
		return err
	}
	logger.Info().
		Int("walks", len(corpus)).
		Int("walk_length", n2v.cfg.WalkLength).
		Dur("took", time.Since(phase)).
		Msg("Generated random walks")

	phase = time.Now()
	sg := &pronet.SkipGram{
		Dim:             n2v.cfg.Dimension,
		WindowSize:      n2v.cfg.WindowSize,
		NegativeSamples: n2v.cfg.NumNegSamples,
		Alpha:           n2v.cfg.LearningRate,
		Normalize:       n2v.cfg.NormalizeUpdates,
	}
	vocab := pronet.Vocabulary(corpus, net.NumVertices())
	sg.Init(net.NumVertices(), vocab, n2v.rng)
	logger.Debug().Int("vocabulary", len(vocab)).Int("dimension", sg.Dim).Msg("Initialized embeddings")

	sg.Train(corpus, n2v.cfg.Epochs, n2v.rng)
	logger.Info().
		Int("epochs", n2v.cfg.Epochs).
		Dur("took", time.Since(phase)).
		Msg("Trained embeddings")

	n2v.net = net
	n2v.corpus = corpus
	n2v.store = newStore(n2v.cfg.Dimension, net.VertexKeys, sg.Vectors)

	logger.Info().
		Int("embeddings", n2v.store.Len()).
		Dur("took", time.Since(begin)).
		Msg("Node2Vec training complete")
	return nil
}

// Embedding returns a copy of the vector of a node, or false if the node
// never appeared in a walk.
func (n2v *Node2Vec) Embedding(id string) ([]float64, bool) {
	n2v.mu.RLock()
	defer n2v.mu.RUnlock()
	return n2v.store.Get(id)
}

// Embeddings returns a copy of every trained vector.
func (n2v *Node2Vec) Embeddings() map[string][]float64 {
	n2v.mu.RLock()
	defer n2v.mu.RUnlock()
	return n2v.store.All()
}

// Store returns the embeddings of the last successful Fit.
// The store is never mutated afterwards; a later Fit builds a new one.
func (n2v *Node2Vec) Store() *Store {
	n2v.mu.RLock()
	defer n2v.mu.RUnlock()
	return n2v.store
}
