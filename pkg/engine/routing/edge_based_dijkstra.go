package routing

import (
	"context"
	"errors"
	"math"

	"github.com/lintang-b-s/navigatorx-turncost/pkg"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-turncost/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/util"
)

var (
	ErrVertexOutOfRange = errors.New("vertex out of range")
)

const ctxCheckInterval = 1024

type edgeLabel struct {
	travelTime float64
	parentEdge da.Index
	heapNode   *da.PriorityQueueNode[da.EdgeQueryKey]
	settled    bool
}

// Route is an edge-based shortest path. Edges are directed edge ids from source to target.
type Route struct {
	TravelTime float64
	TurnMillis int64
	Edges      []da.Index
	Found      bool
}

/*
EdgeBasedDijkstra labels directed edges instead of vertices, so the cost of reaching a vertex depends on the
edge used to arrive there. relaxing (u, inEdge) over outEdge costs

	GetWeight(outEdge) + CalcTurnWeight(ori(inEdge), u, ori(outEdge))

the source has no incoming edge (da.INVALID_EDGE_ID) so no turn cost is charged at the start, the same at the target.
not safe for concurrent use, create one per goroutine. the cost function may be shared.
*/
type EdgeBasedDijkstra struct {
	graph        *da.Graph
	costFunction costfunction.CostFunction

	info []edgeLabel
	pq   *da.MinHeap[da.EdgeQueryKey]

	numSettledEdges int
}

func NewEdgeBasedDijkstra(graph *da.Graph, costFunction costfunction.CostFunction) *EdgeBasedDijkstra {
	return &EdgeBasedDijkstra{
		graph:        graph,
		costFunction: costFunction,
		pq:           da.NewFourAryHeap[da.EdgeQueryKey](),
	}
}

func (ed *EdgeBasedDijkstra) GetNumSettledEdges() int {
	return ed.numSettledEdges
}

func (ed *EdgeBasedDijkstra) preallocate() {
	numberOfEdges := ed.graph.NumberOfEdges()
	if cap(ed.info) < numberOfEdges {
		ed.info = make([]edgeLabel, numberOfEdges)
	}
	ed.info = ed.info[:numberOfEdges]
	for i := range ed.info {
		ed.info[i] = edgeLabel{travelTime: pkg.INF_WEIGHT, parentEdge: da.INVALID_EDGE_ID}
	}
	ed.pq.Preallocate(numberOfEdges)
	ed.numSettledEdges = 0
}

// turnWeight translates directed edge ids to original edge ids for the turn cost provider.
func (ed *EdgeBasedDijkstra) turnWeight(inEdge, via, outEdge da.Index) float64 {
	return ed.costFunction.CalcTurnWeight(ed.oriEdge(inEdge), via, ed.oriEdge(outEdge))
}

func (ed *EdgeBasedDijkstra) turnMillis(inEdge, via, outEdge da.Index) int64 {
	return ed.costFunction.CalcTurnMillis(ed.oriEdge(inEdge), via, ed.oriEdge(outEdge))
}

func (ed *EdgeBasedDijkstra) oriEdge(e da.Index) da.Index {
	if !da.IsValidEdge(e) {
		return da.INVALID_EDGE_ID
	}
	return ed.graph.GetOutEdge(e).GetOriginalEdgeId()
}

func (ed *EdgeBasedDijkstra) ShortestPath(ctx context.Context, s, t da.Index) (Route, error) {
	n := da.Index(ed.graph.NumberOfVertices())
	if s >= n || t >= n {
		return Route{}, util.WrapErrorf(ErrVertexOutOfRange, util.ErrBadParamInput,
			"vertex out of range: source %d, target %d, number of vertices %d", s, t, n)
	}
	if s == t {
		return Route{Found: true, Edges: []da.Index{}}, nil
	}

	ed.preallocate()

	ed.relax(s, da.INVALID_EDGE_ID, 0)

	for !ed.pq.IsEmpty() {
		if ed.numSettledEdges%ctxCheckInterval == 0 && util.StopConcurrentOperation(ctx) {
			return Route{}, ctx.Err()
		}

		minNode, _ := ed.pq.ExtractMin()
		key := minNode.GetItem()
		uId := key.GetNode()
		uInEdge := key.GetInEdge()
		ed.info[uInEdge].settled = true
		ed.numSettledEdges++

		if uId == t {
			return ed.buildRoute(t, uInEdge), nil
		}

		ed.relax(uId, uInEdge, ed.info[uInEdge].travelTime)
	}

	return Route{TravelTime: pkg.INF_WEIGHT}, nil
}

func (ed *EdgeBasedDijkstra) relax(uId, uInEdge da.Index, uTravelTime float64) {
	ed.graph.ForOutEdgesOf(uId, func(outArc *da.OutEdge) {
		outEdge := outArc.GetEdgeId()
		if ed.info[outEdge].settled {
			return
		}

		turnCost := ed.turnWeight(uInEdge, uId, outEdge)
		if math.IsInf(turnCost, 1) {
			return
		}

		newTravelTime := uTravelTime + ed.costFunction.GetWeight(outArc) + turnCost
		if da.Ge(newTravelTime, pkg.INF_WEIGHT) {
			return
		}

		label := &ed.info[outEdge]
		if label.heapNode != nil {
			if da.Ge(newTravelTime, label.travelTime) {
				return
			}
			label.travelTime = newTravelTime
			label.parentEdge = uInEdge
			_ = ed.pq.DecreaseKey(label.heapNode, newTravelTime)
			return
		}

		label.travelTime = newTravelTime
		label.parentEdge = uInEdge
		label.heapNode = da.NewPriorityQueueNode(newTravelTime, da.NewEdgeQueryKey(outArc.GetHead(), outEdge))
		ed.pq.Insert(label.heapNode)
	})
}

func (ed *EdgeBasedDijkstra) buildRoute(t, tInEdge da.Index) Route {
	edges := make([]da.Index, 0)
	for e := tInEdge; da.IsValidEdge(e); e = ed.info[e].parentEdge {
		edges = append(edges, e)
	}
	edges = util.ReverseG(edges)

	var turnMillis int64
	for i := 1; i < len(edges); i++ {
		via := ed.graph.GetOutEdge(edges[i]).GetTail()
		turnMillis = saturatingAdd(turnMillis, ed.turnMillis(edges[i-1], via, edges[i]))
	}
	turnMillis = saturatingAdd(turnMillis, ed.turnMillis(tInEdge, t, da.INVALID_EDGE_ID))

	return Route{
		TravelTime: ed.info[tInEdge].travelTime,
		TurnMillis: turnMillis,
		Edges:      edges,
		Found:      true,
	}
}

func saturatingAdd(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}
