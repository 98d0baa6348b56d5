package osmparser

import (
	"math"
	"testing"

	"github.com/lintang-b-s/navigatorx-turncost/pkg"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-turncost/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	southWay int64 = 100
	northWay int64 = 200
	westWay  int64 = 300
	eastWay  int64 = 400
	spurWay  int64 = 500

	junctionOsmId int64 = 11
)

type junction struct {
	graph                          *da.Graph
	south, north, west, east, spur da.Index // original edge ids
	center                         da.Index
}

/*
	        2
	        |
	3 ----- 1 ----- 4 --- 5
	        |
	        0
*/
func buildJunction(t *testing.T) junction {
	t.Helper()
	gb := da.NewGraphBuilder()
	gb.AddVertex(0, 0, 10)
	center := gb.AddVertex(0.001, 0, junctionOsmId)
	gb.AddVertex(0.002, 0, 12)
	gb.AddVertex(0.001, -0.001, 13)
	gb.AddVertex(0.001, 0.001, 14)
	gb.AddVertex(0.002, 0.001, 15)

	addEdge := func(tail, head da.Index, way int64) da.Index {
		ori, err := gb.AddEdge(tail, head, 10, 111, way, true)
		require.NoError(t, err)
		return ori
	}
	j := junction{center: center}
	j.south = addEdge(0, 1, southWay)
	j.north = addEdge(1, 2, northWay)
	j.west = addEdge(1, 3, westWay)
	j.east = addEdge(1, 4, eastWay)
	j.spur = addEdge(4, 5, spurWay)
	j.graph = gb.Build()
	return j
}

func newImporter(t *testing.T, j junction) (*TurnCostImporter, *da.TurnCostStorage, *da.DecimalEncodedValue) {
	t.Helper()
	enc := da.NewDecimalEncodedValue(da.TurnCostChannelName("car"), pkg.DEFAULT_TURN_COST_BITS, 1, true)
	require.NoError(t, da.NewTurnCostEncoder().Add(enc))
	storage := da.NewTurnCostStorage()
	return NewTurnCostImporter(j.graph, storage, enc, zap.NewNop()), storage, enc
}

func TestApplyRestrictions(t *testing.T) {
	j := buildJunction(t)
	inf := math.Inf(1)

	testCases := []struct {
		name        string
		restriction Restriction
		forbidden   int
		expected    map[da.Index]float64 // out edge -> stored value for transitions from south at the junction
	}{
		{
			name:        "no left turn",
			restriction: Restriction{From: 100, Via: 11, To: 300, Kind: NO_LEFT_TURN},
			forbidden:   1,
			expected:    map[da.Index]float64{j.west: inf, j.north: 0, j.east: 0, j.south: 0},
		},
		{
			name:        "only straight on",
			restriction: Restriction{From: 100, Via: 11, To: 200, Kind: ONLY_STRAIGHT_ON},
			forbidden:   2,
			expected:    map[da.Index]float64{j.west: inf, j.north: 0, j.east: inf, j.south: 0},
		},
		{
			name:        "no u-turn is left to the u-turn policy",
			restriction: Restriction{From: 100, Via: 11, To: 100, Kind: NO_U_TURN},
			expected:    map[da.Index]float64{j.west: 0, j.north: 0, j.east: 0, j.south: 0},
		},
		{
			name:        "only u-turn forbids every other exit",
			restriction: Restriction{From: 100, Via: 11, To: 100, Kind: ONLY_U_TURN},
			forbidden:   3,
			expected:    map[da.Index]float64{j.west: inf, j.north: inf, j.east: inf, j.south: 0},
		},
		{
			name:        "other vehicle",
			restriction: Restriction{From: 100, Via: 11, To: 300, Kind: NO_LEFT_TURN, Vehicle: "bicycle"},
			expected:    map[da.Index]float64{j.west: 0},
		},
		{
			name:        "via node not in graph",
			restriction: Restriction{From: 100, Via: 999, To: 300, Kind: NO_LEFT_TURN},
			expected:    map[da.Index]float64{j.west: 0},
		},
		{
			name:        "from way not at via",
			restriction: Restriction{From: 500, Via: 11, To: 300, Kind: NO_LEFT_TURN},
			expected:    map[da.Index]float64{j.west: 0},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			importer, storage, enc := newImporter(t, j)
			forbidden, err := importer.ApplyRestrictions("car", []Restriction{tt.restriction})
			require.NoError(t, err)
			assert.Equal(t, tt.forbidden, forbidden)
			assert.Equal(t, tt.forbidden, storage.Len())
			for out, expected := range tt.expected {
				assert.Equal(t, expected, storage.Get(enc, j.south, j.center, out), "out edge %d", out)
			}
		})
	}
}

func TestMarkDeadEnds(t *testing.T) {
	j := buildJunction(t)
	importer, storage, enc := newImporter(t, j)

	marked, err := importer.MarkDeadEnds()
	require.NoError(t, err)
	assert.Equal(t, 4, marked)

	assert.Equal(t, 1.0, storage.Get(enc, j.south, 0, j.south))
	assert.Equal(t, 1.0, storage.Get(enc, j.north, 2, j.north))
	assert.Equal(t, 1.0, storage.Get(enc, j.west, 3, j.west))
	assert.Equal(t, 1.0, storage.Get(enc, j.spur, 5, j.spur))
	assert.Equal(t, 0.0, storage.Get(enc, j.east, 4, j.east))
	assert.Equal(t, 0.0, storage.Get(enc, j.south, j.center, j.south))

	marked, err = importer.MarkDeadEnds()
	require.NoError(t, err)
	assert.Equal(t, 0, marked, "already flagged")
}

func TestRestrictionsKeepDeadEndMode(t *testing.T) {
	j := buildJunction(t)

	testCases := []struct {
		name        string
		restriction Restriction
	}{
		{name: "no u-turn", restriction: Restriction{From: 100, Via: 11, To: 100, Kind: NO_U_TURN}},
		{name: "only straight on", restriction: Restriction{From: 100, Via: 11, To: 200, Kind: ONLY_STRAIGHT_ON}},
		{name: "only u-turn", restriction: Restriction{From: 100, Via: 11, To: 100, Kind: ONLY_U_TURN}},
		{name: "no u-turn at a dead end", restriction: Restriction{From: 100, Via: 10, To: 100, Kind: NO_U_TURN}},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			importer, storage, enc := newImporter(t, j)
			_, err := importer.ApplyRestrictions("car", []Restriction{tt.restriction})
			require.NoError(t, err)
			_, err = importer.MarkDeadEnds()
			require.NoError(t, err)

			tcp, err := costfunction.NewDefaultTurnCostProvider(enc, storage, 40, true)
			require.NoError(t, err)

			assert.True(t, math.IsInf(tcp.CalcTurnWeight(j.south, j.center, j.south), 1), "u-turn at the junction")
			assert.True(t, math.IsInf(tcp.CalcTurnWeight(j.west, j.center, j.west), 1))
			assert.Equal(t, 40.0, tcp.CalcTurnWeight(j.south, 0, j.south), "u-turn at the dead end")
			assert.Equal(t, 40.0, tcp.CalcTurnWeight(j.spur, 5, j.spur))
		})
	}
}

func TestApplyTurnPenalties(t *testing.T) {
	j := buildJunction(t)
	importer, storage, enc := newImporter(t, j)

	_, err := importer.ApplyRestrictions("car", []Restriction{{From: 100, Via: 11, To: 300, Kind: NO_LEFT_TURN}})
	require.NoError(t, err)

	count, err := importer.ApplyTurnPenalties(TurnPenalties{Left: 5, Right: 2, Sharp: 10})
	require.NoError(t, err)
	assert.Equal(t, 9, count)

	assert.True(t, math.IsInf(storage.Get(enc, j.south, j.center, j.west), 1), "restriction kept")
	assert.Equal(t, 2.0, storage.Get(enc, j.south, j.center, j.east))
	assert.Equal(t, 0.0, storage.Get(enc, j.south, j.center, j.north))
	assert.Equal(t, 5.0, storage.Get(enc, j.west, j.center, j.north))
	assert.Equal(t, 2.0, storage.Get(enc, j.west, j.center, j.south))
	assert.Equal(t, 5.0, storage.Get(enc, j.east, 4, j.spur))
	assert.Equal(t, 2.0, storage.Get(enc, j.spur, 4, j.east))
	assert.Equal(t, 0.0, storage.Get(enc, j.south, j.center, j.south), "u-turns are left to the provider")
}

func TestApplyTurnPenaltiesClamped(t *testing.T) {
	j := buildJunction(t)
	importer, storage, enc := newImporter(t, j)

	_, err := importer.ApplyTurnPenalties(TurnPenalties{Left: 500})
	require.NoError(t, err)
	assert.Equal(t, enc.GetMaxStorableValue(), storage.Get(enc, j.south, j.center, j.west))
	assert.Equal(t, float64(pkg.MAX_TURN_COST_SECONDS), enc.GetMaxStorableValue())
}
