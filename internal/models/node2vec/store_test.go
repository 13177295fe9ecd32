package node2vec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore() *Store {
	return newStore(2, []string{"a", "b", "c", "d"}, [][]float64{
		{1, 0},
		{0.8, 0.6},
		nil,
		{-1, 0},
	})
}

func TestStore_Get(t *testing.T) {
	s := testStore()
	require.Equal(t, 3, s.Len())
	require.Equal(t, 2, s.Dim())
	require.Equal(t, []string{"a", "b", "d"}, s.IDs())

	_, ok := s.Get("c")
	require.False(t, ok, "nil slot has no entry")

	vec, ok := s.Get("a")
	require.True(t, ok)
	vec[0] = 5
	again, _ := s.Get("a")
	require.Equal(t, 1.0, again[0])
}

func TestStore_MostSimilar(t *testing.T) {
	s := testStore()

	got, ok := s.MostSimilar("a", 2)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.InDelta(t, 0.8, got[0].Score, 1e-9)
	assert.Equal(t, "d", got[1].ID)
	assert.InDelta(t, -1.0, got[1].Score, 1e-9)

	all, ok := s.MostSimilar("a", -1)
	require.True(t, ok)
	require.Len(t, all, 2)

	_, ok = s.MostSimilar("zzz", 3)
	require.False(t, ok)
}

func TestStore_Homophily(t *testing.T) {
	s := testStore()
	adj := map[string][]string{
		"a": {"b", "d", "c"},
		"b": {"a"},
		"d": {},
	}
	// a-b twice above 0.5, a-d below, a-c skipped
	require.InDelta(t, 2.0/3.0, s.Homophily(adj, 0.5), 1e-9)
	require.Equal(t, 0.0, s.Homophily(map[string][]string{}, 0.5))
}

func TestStore_WriteTo(t *testing.T) {
	var buf bytes.Buffer
	n, err := testStore().WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)
	require.Equal(t,
		"3 2\n"+
			"a 1.000000 0.000000\n"+
			"b 0.800000 0.600000\n"+
			"d -1.000000 0.000000\n",
		buf.String())
}
