package spatialindex

import (
	"testing"

	"github.com/lintang-b-s/navigatorx-turncost/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// vertices along a parallel, 0.001 degree (~110m) apart. vertex 3 has no edges.
func buildTestIndex(t *testing.T) *Rtree {
	t.Helper()
	gb := datastructure.NewGraphBuilder()
	for i := 0; i < 4; i++ {
		gb.AddVertex(-7.76, 110.37+float64(i)*0.001, int64(i))
	}
	_, err := gb.AddEdge(0, 1, 10, 110, 1, true)
	require.NoError(t, err)
	_, err = gb.AddEdge(1, 2, 10, 110, 1, false)
	require.NoError(t, err)

	rt := NewRtree()
	rt.Build(gb.Build(), zap.NewNop())
	return rt
}

func TestNearestVertex(t *testing.T) {
	rt := buildTestIndex(t)

	testCases := []struct {
		name     string
		lat, lon float64
		expected datastructure.Index
		found    bool
	}{
		{name: "exact vertex", lat: -7.76, lon: 110.37, expected: 0, found: true},
		{name: "closer to 1", lat: -7.7601, lon: 110.3712, expected: 1, found: true},
		{name: "isolated vertex is skipped", lat: -7.76, lon: 110.373, expected: 2, found: true},
		{name: "few hundred meters away", lat: -7.763, lon: 110.372, expected: 2, found: true},
		{name: "too far", lat: -7.0, lon: 110.0, found: false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			v, dist, ok := rt.NearestVertex(tt.lat, tt.lon)
			require.Equal(t, tt.found, ok)
			if !tt.found {
				return
			}
			assert.Equal(t, tt.expected, v)
			assert.GreaterOrEqual(t, dist, 0.0)
		})
	}
}

func TestSearchWithinRadius(t *testing.T) {
	rt := buildTestIndex(t)

	assert.ElementsMatch(t, []datastructure.Index{0}, rt.SearchWithinRadius(-7.76, 110.37, 0.05))
	assert.ElementsMatch(t, []datastructure.Index{0, 1, 2}, rt.SearchWithinRadius(-7.76, 110.371, 0.5))
	assert.Empty(t, rt.SearchWithinRadius(-7.0, 110.0, 1))
}
