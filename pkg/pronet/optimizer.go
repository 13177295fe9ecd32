package pronet

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// SkipGram trains one vector per vertex with a skip-gram / negative-sampling objective.
// Vectors is index-addressed by vertex id; vertices that never appear in the corpus
// keep a nil vector.
type SkipGram struct {
	Dim             int
	WindowSize      int
	NegativeSamples int
	Alpha           float64

	// Normalize re-projects both vectors onto the unit sphere after every pair update.
	Normalize bool

	Vectors [][]float64
	vocab   []int
}

// Vocabulary returns the vertices appearing in the corpus, in ascending index order.
func Vocabulary(corpus [][]int, numVertices int) []int {
	seen := make([]bool, numVertices)
	for _, walk := range corpus {
		for _, vid := range walk {
			seen[vid] = true
		}
	}

	vocab := make([]int, 0)
	for vid, ok := range seen {
		if ok {
			vocab = append(vocab, vid)
		}
	}
	return vocab
}

// Init draws a standard normal vector for every vocabulary vertex and normalizes it.
func (sg *SkipGram) Init(numVertices int, vocab []int, rng *rand.Rand) {
	sg.Vectors = make([][]float64, numVertices)
	sg.vocab = vocab
	for _, vid := range vocab {
		vec := make([]float64, sg.Dim)
		for d := range vec {
			vec[d] = rng.NormFloat64()
		}
		normalize(vec)
		sg.Vectors[vid] = vec
	}
}

// Train runs a fixed number of epochs over the corpus.
func (sg *SkipGram) Train(corpus [][]int, epochs int, rng *rand.Rand) {
	for epoch := 0; epoch < epochs; epoch++ {
		for _, walk := range corpus {
			sg.TrainWalk(walk, rng)
		}
	}
}

// TrainWalk applies the positive and negative updates for every position of one walk.
func (sg *SkipGram) TrainWalk(walk []int, rng *rand.Rand) {
	for i, center := range walk {
		start := i - sg.WindowSize
		if start < 0 {
			start = 0
		}
		end := i + sg.WindowSize + 1
		if end > len(walk) {
			end = len(walk)
		}
		window := walk[start:end]

		for _, ctx := range window {
			if ctx != center {
				sg.UpdatePair(center, ctx, 1.0)
			}
		}

		if len(sg.vocab) == 0 {
			continue
		}
		for n := 0; n < sg.NegativeSamples; n++ {
			neg := sg.vocab[rng.Intn(len(sg.vocab))]
			if contains(window, neg) {
				continue
			}
			sg.UpdatePair(center, neg, -1.0)
		}
	}
}

// UpdatePair moves the two vectors toward each other (label +1) or apart (label -1).
// The second vector is updated from the already-updated first one.
func (sg *SkipGram) UpdatePair(a, b int, label float64) {
	va, vb := sg.Vectors[a], sg.Vectors[b]

	score := floats.Dot(va, vb)
	grad := label * (1.0 - sigmoid(score))

	floats.AddScaled(va, sg.Alpha*grad, vb)
	floats.AddScaled(vb, sg.Alpha*grad, va)

	if sg.Normalize {
		normalize(va)
		normalize(vb)
	}
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// normalize scales vec to unit length in place; a zero vector is left as is.
func normalize(vec []float64) {
	norm := floats.Norm(vec, 2)
	if norm == 0 {
		return
	}
	floats.Scale(1.0/norm, vec)
}

func contains(walk []int, vid int) bool {
	for _, v := range walk {
		if v == vid {
			return true
		}
	}
	return false
}
