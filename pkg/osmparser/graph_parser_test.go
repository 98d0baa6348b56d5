package osmparser

import (
	"testing"

	da "github.com/lintang-b-s/navigatorx-turncost/pkg/datastructure"
	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWay(id osm.WayID, tags osm.Tags, nodes ...osm.NodeID) *osm.Way {
	wayNodes := make(osm.WayNodes, 0, len(nodes))
	for _, n := range nodes {
		wayNodes = append(wayNodes, osm.WayNode{ID: n})
	}
	return &osm.Way{ID: id, Nodes: wayNodes, Tags: tags}
}

func findEdge(g *da.Graph, tailOsm, headOsm int64) *da.OutEdge {
	tail, ok := g.FindVertexByOsmId(tailOsm)
	if !ok {
		return nil
	}
	var found *da.OutEdge
	g.ForOutEdgesOf(tail, func(e *da.OutEdge) {
		if g.GetVertex(e.GetHead()).GetOsmId() == headOsm {
			found = e
		}
	})
	return found
}

/*
	4       5
	^       |
	|       v
	2 ----- 3
	|
	1
*/
func TestGraphParserBuild(t *testing.T) {
	p := NewGraphParser(nil)

	ways := []struct {
		way      *osm.Way
		accepted bool
	}{
		{way: newWay(100, osm.Tags{{Key: "highway", Value: "residential"}}, 1, 2, 6, 3), accepted: true},
		{way: newWay(200, osm.Tags{{Key: "highway", Value: "primary"}, {Key: "oneway", Value: "yes"}}, 2, 4), accepted: true},
		{way: newWay(300, osm.Tags{{Key: "highway", Value: "tertiary"}, {Key: "oneway", Value: "-1"}}, 3, 5), accepted: true},
		{way: newWay(400, osm.Tags{{Key: "highway", Value: "footway"}}, 1, 5)},
		{way: newWay(500, osm.Tags{{Key: "highway", Value: "residential"}, {Key: "access", Value: "no"}}, 4, 5)},
		{way: newWay(600, osm.Tags{{Key: "highway", Value: "residential"}}, 7)},
	}
	for _, w := range ways {
		assert.Equal(t, w.accepted, p.addWay(w.way), "way %d", w.way.ID)
	}

	coords := map[osm.NodeID][2]float64{
		1: {0, 0}, 2: {0.001, 0}, 6: {0.001, 0.0005}, 3: {0.001, 0.001}, 4: {0.002, 0}, 5: {0.002, 0.001}, 99: {1, 1},
	}
	for id, c := range coords {
		p.addNode(&osm.Node{ID: id, Lat: c[0], Lon: c[1]})
	}
	_, stored := p.nodeCoords[99]
	assert.False(t, stored, "nodes outside accepted ways are dropped")

	g, err := p.build()
	require.NoError(t, err)
	assert.Equal(t, 5, g.NumberOfVertices(), "between node 6 is not a vertex")
	assert.Equal(t, 6, g.NumberOfEdges())
	assert.Equal(t, 4, g.NumberOfOriginalEdges())

	e12, e21 := findEdge(g, 1, 2), findEdge(g, 2, 1)
	require.NotNil(t, e12)
	require.NotNil(t, e21)
	assert.Equal(t, e12.GetOriginalEdgeId(), e21.GetOriginalEdgeId())
	assert.Equal(t, int64(100), e12.GetOsmWayId())
	assert.InDelta(t, 111.2, e12.GetLength(), 0.5)
	assert.InDelta(t, 111.2/(30.0/3.6), e12.GetWeight(), 0.1)

	e23 := findEdge(g, 2, 3)
	require.NotNil(t, e23)
	assert.InDelta(t, 111.2, e23.GetLength(), 0.5, "length sums the segments through node 6")

	assert.NotNil(t, findEdge(g, 2, 4))
	assert.Nil(t, findEdge(g, 4, 2), "oneway")
	assert.NotNil(t, findEdge(g, 5, 3))
	assert.Nil(t, findEdge(g, 3, 5), "reversed oneway")
	assert.Equal(t, int64(300), findEdge(g, 5, 3).GetOsmWayId())
}

func TestGraphParserSkipsWaysWithMissingNodes(t *testing.T) {
	p := NewGraphParser(nil)
	require.True(t, p.addWay(newWay(100, osm.Tags{{Key: "highway", Value: "residential"}}, 1, 2)))

	_, err := p.build()
	assert.ErrorIs(t, err, ErrEmptyGraph)
}

func TestWaySpeed(t *testing.T) {
	testCases := []struct {
		tags     osm.Tags
		expected float64
	}{
		{tags: osm.Tags{{Key: "highway", Value: "primary"}, {Key: "maxspeed", Value: "80"}}, expected: 80},
		{tags: osm.Tags{{Key: "highway", Value: "primary"}, {Key: "maxspeed", Value: "50 km/h"}}, expected: 50},
		{tags: osm.Tags{{Key: "highway", Value: "primary"}, {Key: "maxspeed", Value: "30 mph"}}, expected: 30 * 1.60934},
		{tags: osm.Tags{{Key: "highway", Value: "primary"}, {Key: "maxspeed", Value: "signals"}}, expected: 65},
		{tags: osm.Tags{{Key: "highway", Value: "living_street"}}, expected: 5},
		{tags: osm.Tags{{Key: "junction", Value: "roundabout"}}, expected: defaultSpeed},
	}

	for _, tt := range testCases {
		assert.InDelta(t, tt.expected, waySpeed(&osm.Way{Tags: tt.tags}), 1e-9, "%v", tt.tags)
	}
}

func TestWayDirection(t *testing.T) {
	testCases := []struct {
		tags              osm.Tags
		forward, backward bool
	}{
		{tags: osm.Tags{{Key: "highway", Value: "residential"}}, forward: true, backward: true},
		{tags: osm.Tags{{Key: "oneway", Value: "yes"}}, forward: true},
		{tags: osm.Tags{{Key: "oneway", Value: "-1"}}, backward: true},
		{tags: osm.Tags{{Key: "junction", Value: "roundabout"}}, forward: true},
		{tags: osm.Tags{{Key: "highway", Value: "motorway"}, {Key: "oneway", Value: "no"}}, forward: true, backward: true},
	}

	for _, tt := range testCases {
		forward, backward := wayDirection(&osm.Way{Tags: tt.tags})
		assert.Equal(t, tt.forward, forward, "%v", tt.tags)
		assert.Equal(t, tt.backward, backward, "%v", tt.tags)
	}
}
