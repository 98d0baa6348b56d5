package datastructure

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 0 -> 1 -> 2, 1 -> 0, 2 -> 1, 1 -> 3 (3 is a dead end reachable both ways)
func buildSmallGraph(t *testing.T) *Graph {
	t.Helper()
	gb := NewGraphBuilder()
	for i := 0; i < 4; i++ {
		gb.AddVertex(-7.76+float64(i)*0.001, 110.37, int64(100+i))
	}
	mustAddEdge(t, gb, 1, 2, 10, 100, 1000, false)
	mustAddEdge(t, gb, 0, 1, 10, 100, 1000, false)
	mustAddEdge(t, gb, 1, 0, 10, 100, 1000, false)
	mustAddEdge(t, gb, 2, 1, 10, 100, 1000, false)
	mustAddEdge(t, gb, 1, 3, 5, 50, 2000, true)
	return gb.Build()
}

func mustAddEdge(t *testing.T, gb *GraphBuilder, tail, head Index, weight, dist float64, osmWayId int64, bidirectional bool) Index {
	t.Helper()
	oriEdgeId, err := gb.AddEdge(tail, head, weight, dist, osmWayId, bidirectional)
	require.NoError(t, err)
	return oriEdgeId
}

func TestGraphBuild(t *testing.T) {
	g := buildSmallGraph(t)

	assert.Equal(t, 4, g.NumberOfVertices())
	assert.Equal(t, 6, g.NumberOfEdges())
	assert.Equal(t, 5, g.NumberOfOriginalEdges())
	assert.Equal(t, Index(1), g.GetOutDegree(0))
	assert.Equal(t, Index(3), g.GetOutDegree(1))
	assert.Equal(t, Index(3), g.GetInDegree(1))

	for e := Index(0); e < Index(g.NumberOfEdges()); e++ {
		assert.Equal(t, e, g.GetOutEdge(e).GetEdgeId())
	}

	heads := make([]Index, 0)
	g.ForOutEdgesOf(1, func(e *OutEdge) {
		assert.Equal(t, Index(1), e.GetTail())
		heads = append(heads, e.GetHead())
	})
	assert.Equal(t, []Index{2, 0, 3}, heads, "stable order of insertion per vertex")

	g.ForInEdgesOf(3, func(e *OutEdge) {
		assert.Equal(t, Index(1), e.GetTail())
	})

	// both directions of the bidirectional segment 1-3 share one original edge id
	assert.Equal(t, Index(4), g.GetOutEdge(3).GetOriginalEdgeId())
	assert.Equal(t, Index(4), g.GetOutEdge(5).GetOriginalEdgeId())
	assert.Equal(t, Index(1), g.GetOutEdge(0).GetOriginalEdgeId())

	assert.Equal(t, 1, g.GetNumberOfNeighbors(3))
	assert.Equal(t, 3, g.GetNumberOfNeighbors(1))

	v, ok := g.FindVertexByOsmId(103)
	assert.True(t, ok)
	assert.Equal(t, Index(3), v)
	_, ok = g.FindVertexByOsmId(999)
	assert.False(t, ok)

	assert.Equal(t, 10.0, g.GetOutEdge(0).GetEdgeSpeed())
}

func TestGraphBuilderRejectsUnknownVertex(t *testing.T) {
	gb := NewGraphBuilder()
	gb.AddVertex(0, 0, 1)
	_, err := gb.AddEdge(0, 5, 1, 1, 1, true)
	assert.ErrorIs(t, err, ErrVertexNotFound)
}

func TestIsValidEdge(t *testing.T) {
	assert.True(t, IsValidEdge(0))
	assert.True(t, IsValidEdge(42))
	assert.False(t, IsValidEdge(INVALID_EDGE_ID))
}

func TestWriteReadGraph(t *testing.T) {
	g := buildSmallGraph(t)

	filename := filepath.Join(t.TempDir(), "small.graph")
	require.NoError(t, g.WriteGraph(filename))

	readG, err := ReadGraph(filename)
	require.NoError(t, err)

	require.Equal(t, g.NumberOfVertices(), readG.NumberOfVertices())
	require.Equal(t, g.NumberOfEdges(), readG.NumberOfEdges())
	require.Equal(t, g.NumberOfOriginalEdges(), readG.NumberOfOriginalEdges())
	for e := Index(0); e < Index(g.NumberOfEdges()); e++ {
		want, got := g.GetOutEdge(e), readG.GetOutEdge(e)
		assert.Equal(t, want.GetTail(), got.GetTail())
		assert.Equal(t, want.GetHead(), got.GetHead())
		assert.Equal(t, want.GetWeight(), got.GetWeight())
		assert.Equal(t, want.GetLength(), got.GetLength())
		assert.Equal(t, want.GetOsmWayId(), got.GetOsmWayId())
		assert.Equal(t, want.GetOriginalEdgeId(), got.GetOriginalEdgeId())
	}
	for v := Index(0); v < Index(g.NumberOfVertices()); v++ {
		assert.Equal(t, g.GetVertex(v).GetLat(), readG.GetVertex(v).GetLat())
		assert.Equal(t, g.GetVertex(v).GetOsmId(), readG.GetVertex(v).GetOsmId())
	}
}
