package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog"

	"github.com/cnclabs/smore-n2v/internal/models/node2vec"
	"github.com/cnclabs/smore-n2v/pkg/graphsource"
)

var errUsage = errors.New("one of -train or -neo4j-uri is required")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
	case errors.Is(err, errUsage):
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "node2vec: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("node2vec", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Define command-line flags
	train := fs.String("train", "", "Train the Network data (edge list)")
	undirected := fs.Bool("undirected", true, "Whether the edge is undirected")
	neo4jURI := fs.String("neo4j-uri", "", "Read the network from Neo4j instead of -train")
	neo4jUser := fs.String("neo4j-user", "neo4j", "Neo4j user")
	neo4jPassword := fs.String("neo4j-password", "", "Neo4j password")
	neo4jDatabase := fs.String("neo4j-database", "", "Neo4j database (default database if empty)")
	configFile := fs.String("config", "", "Config file (yaml, json or toml)")
	save := fs.String("save", "", "Save the representation data")
	dimensions := fs.Int("dimensions", 0, "Dimension of vertex representation")
	walkLength := fs.Int("walk_length", 0, "Length of each random walk")
	numWalks := fs.Int("num_walks", 0, "Times of being starting vertex")
	p := fs.Float64("p", 0, "Return parameter (controls likelihood to return to previous node)")
	q := fs.Float64("q", 0, "In-out parameter (BFS vs DFS: q > 1 = BFS, q < 1 = DFS)")
	windowSize := fs.Int("window_size", -1, "Size of skip-gram window")
	negativeSamples := fs.Int("negative_samples", -1, "Number of negative examples")
	alpha := fs.Float64("alpha", 0, "Learning rate")
	epochs := fs.Int("epochs", -1, "Training epochs over the walk corpus")
	seed := fs.Int64("seed", 0, "Random seed (0 keeps the configured seed)")
	query := fs.String("query", "", "Print the nearest vertices of this vertex after training")
	topK := fs.Int("topk", 10, "Number of neighbors printed for -query")
	logLevel := fs.String("log_level", "", "Log level (debug, info, warn, error)")

	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintln(out, "[node2vec]")
		fmt.Fprintln(out, "\tNode embeddings from biased random walks and skip-gram training")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Flags left at their zero value fall back to the config file and its defaults.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Options Description:")
		fs.PrintDefaults()
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Usage:")
		fmt.Fprintln(out, "./node2vec -train net.txt -save rep.txt -dimensions 64 -p 1 -q 1 -num_walks 10 -walk_length 80 -window_size 5 -negative_samples 5 -alpha 0.025")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Examples:")
		fmt.Fprintln(out, "\t# Homophily (local structure)")
		fmt.Fprintln(out, "\t./node2vec -train net.txt -save rep.txt -p 1 -q 2")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "\t# Structural equivalence (global structure)")
		fmt.Fprintln(out, "\t./node2vec -train net.txt -save rep.txt -p 1 -q 0.5")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "\t# Read the graph from Neo4j and query neighbors")
		fmt.Fprintln(out, "\t./node2vec -neo4j-uri neo4j://localhost:7687 -neo4j-password secret -query 42")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *train == "" && *neo4jURI == "" {
		fs.Usage()
		return errUsage
	}

	cfg, err := node2vec.LoadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	overrideInt(&cfg.Dimension, *dimensions, 0)
	overrideInt(&cfg.WalkLength, *walkLength, 0)
	overrideInt(&cfg.NumWalks, *numWalks, 0)
	overrideInt(&cfg.WindowSize, *windowSize, -1)
	overrideInt(&cfg.NumNegSamples, *negativeSamples, -1)
	overrideInt(&cfg.Epochs, *epochs, -1)
	if *p != 0 {
		cfg.P = *p
	}
	if *q != 0 {
		cfg.Q = *q
	}
	if *alpha != 0 {
		cfg.LearningRate = *alpha
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	logger := node2vec.NewLogger(cfg.LogLevel, stderr)

	n2v, err := node2vec.New(cfg, node2vec.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}

	src, closeSrc, err := openSource(ctx, *train, *undirected, *neo4jURI, *neo4jUser, *neo4jPassword, *neo4jDatabase)
	if err != nil {
		return err
	}
	defer closeSrc()

	logModelSetting(logger, cfg)

	// read once; Fit and the homophily report share the snapshot
	adj, err := src.Adjacency(ctx)
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}
	if err := n2v.Fit(ctx, graphsource.Static(adj)); err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	store := n2v.Store()
	fmt.Fprintf(stdout, "\nHomophily ratio: %.4f\n", store.Homophily(adj, 0.5))

	if *query != "" {
		neighbors, ok := store.MostSimilar(*query, *topK)
		if !ok {
			logger.Warn().Str("vertex", *query).Msg("Vertex has no embedding")
		}
		for _, nb := range neighbors {
			fmt.Fprintf(stdout, "%s\t%.6f\n", nb.ID, nb.Score)
		}
	}

	if *save != "" {
		if err := saveWeights(*save, store); err != nil {
			return fmt.Errorf("failed to save weights: %w", err)
		}
		logger.Info().Str("path", *save).Int("embeddings", store.Len()).Msg("Saved model")
	}

	return nil
}

func overrideInt(dst *int, flagValue, unset int) {
	if flagValue != unset {
		*dst = flagValue
	}
}

func openSource(ctx context.Context, train string, undirected bool, uri, user, password, database string) (node2vec.GraphSource, func(), error) {
	if uri == "" {
		return graphsource.EdgeList{Path: train, Undirected: undirected}, func() {}, nil
	}

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, nil, fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	src := graphsource.Neo4j{Driver: driver, Database: database}
	return src, func() { driver.Close(context.Background()) }, nil
}

func logModelSetting(logger zerolog.Logger, cfg node2vec.Config) {
	mode := "balanced BFS-DFS exploration"
	if cfg.Q > 1.0 {
		mode = "BFS-like exploration: local neighborhood"
	} else if cfg.Q < 1.0 {
		mode = "DFS-like exploration: outward expansion"
	}

	logger.Info().
		Int("dimension", cfg.Dimension).
		Float64("p", cfg.P).
		Float64("q", cfg.Q).
		Str("mode", mode).
		Int("walk_length", cfg.WalkLength).
		Int("num_walks", cfg.NumWalks).
		Int("window_size", cfg.WindowSize).
		Int("negative_samples", cfg.NumNegSamples).
		Float64("alpha", cfg.LearningRate).
		Int("epochs", cfg.Epochs).
		Bool("normalize_updates", cfg.NormalizeUpdates).
		Msg("Model setting")
}

func saveWeights(path string, store *node2vec.Store) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := store.WriteTo(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
