package usecases

import (
	"context"
	"errors"
	"runtime"

	"github.com/lintang-b-s/navigatorx-turncost/pkg"
	da "github.com/lintang-b-s/navigatorx-turncost/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/engine/routing"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/profile"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/spatialindex"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/util"
	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"
)

var (
	ErrPathNotFound   = errors.New("path not found")
	ErrEdgeNotInGraph = errors.New("edge not in graph")
	ErrNodeNotInGraph = errors.New("node not in graph")
	ErrNoNearbyVertex = errors.New("no vertex near the coordinate")
)

type TurnCostService struct {
	log        *zap.Logger
	graph      *da.Graph
	registry   *profile.Registry
	rtree      *spatialindex.Rtree
	numWorkers int
}

func NewTurnCostService(log *zap.Logger, graph *da.Graph, registry *profile.Registry,
	rtree *spatialindex.Rtree) *TurnCostService {
	return &TurnCostService{
		log:        log,
		graph:      graph,
		registry:   registry,
		rtree:      rtree,
		numWorkers: runtime.GOMAXPROCS(-1),
	}
}

func (ts *TurnCostService) checkEdge(e da.Index) error {
	if da.IsValidEdge(e) && int(e) >= ts.graph.NumberOfOriginalEdges() {
		return util.WrapErrorf(ErrEdgeNotInGraph, util.ErrBadParamInput, "edge %d not in graph, number of edges %d",
			e, ts.graph.NumberOfOriginalEdges())
	}
	return nil
}

func (ts *TurnCostService) checkNode(v da.Index) error {
	if int(v) >= ts.graph.NumberOfVertices() {
		return util.WrapErrorf(ErrNodeNotInGraph, util.ErrBadParamInput, "node %d not in graph, number of nodes %d",
			v, ts.graph.NumberOfVertices())
	}
	return nil
}

func (ts *TurnCostService) TurnCost(profileName string, fromEdge, viaNode, toEdge da.Index) (float64, int64, string, error) {
	_, costFunction, err := ts.registry.Get(profileName)
	if err != nil {
		return 0, 0, "", err
	}
	for _, e := range []da.Index{fromEdge, toEdge} {
		if err := ts.checkEdge(e); err != nil {
			return 0, 0, "", err
		}
	}
	if err := ts.checkNode(viaNode); err != nil {
		return 0, 0, "", err
	}

	weight := costFunction.CalcTurnWeight(fromEdge, viaNode, toEdge)
	millis := costFunction.CalcTurnMillis(fromEdge, viaNode, toEdge)
	return weight, millis, costFunction.String(), nil
}

func (ts *TurnCostService) Profiles() []profile.Profile {
	return ts.registry.Profiles()
}

// NearestVertex snaps a coordinate to the closest vertex, returns the vertex and its distance in meters.
func (ts *TurnCostService) NearestVertex(lat, lon float64) (da.Index, float64, error) {
	v, dist, ok := ts.rtree.NearestVertex(lat, lon)
	if !ok {
		return da.INVALID_VERTEX_ID, 0, util.WrapErrorf(ErrNoNearbyVertex, util.ErrNotFound,
			"no vertex near (%f, %f)", lat, lon)
	}
	return v, dist * 1000, nil
}

func (ts *TurnCostService) ShortestPath(ctx context.Context, profileName string, source, target da.Index) (float64, int64, []da.Index, string, error) {
	_, costFunction, err := ts.registry.Get(profileName)
	if err != nil {
		return 0, 0, nil, "", err
	}

	route, err := routing.NewEdgeBasedDijkstra(ts.graph, costFunction).ShortestPath(ctx, source, target)
	if err != nil {
		return 0, 0, nil, "", err
	}
	if !route.Found {
		return 0, 0, nil, "", util.WrapErrorf(ErrPathNotFound, util.ErrNotFound, "no path found from %d to %d", source, target)
	}

	edges := make([]da.Index, 0, len(route.Edges))
	for _, e := range route.Edges {
		edges = append(edges, ts.graph.GetOutEdge(e).GetOriginalEdgeId())
	}
	return route.TravelTime, route.TurnMillis, edges, ts.encodePolyline(source, route.Edges), nil
}

// encodePolyline renders the vertices of a route as a google encoded polyline.
func (ts *TurnCostService) encodePolyline(source da.Index, edges []da.Index) string {
	coords := make([][]float64, 0, len(edges)+1)
	sourceVertex := ts.graph.GetVertex(source)
	coords = append(coords, []float64{sourceVertex.GetLat(), sourceVertex.GetLon()})
	for _, e := range edges {
		head := ts.graph.GetVertex(ts.graph.GetOutEdge(e).GetHead())
		coords = append(coords, []float64{head.GetLat(), head.GetLon()})
	}
	return string(polyline.EncodeCoords(coords))
}

func (ts *TurnCostService) Table(ctx context.Context, profileName string, source da.Index, targets []da.Index) ([]float64, error) {
	_, costFunction, err := ts.registry.Get(profileName)
	if err != nil {
		return nil, err
	}

	routes, err := routing.OneToMany(ctx, ts.graph, costFunction, source, targets, ts.numWorkers)
	if err != nil {
		return nil, err
	}

	travelTimes := make([]float64, len(routes))
	for i, route := range routes {
		travelTimes[i] = route.TravelTime
		if !route.Found || route.TravelTime >= pkg.INF_WEIGHT {
			travelTimes[i] = -1
		}
	}
	return travelTimes, nil
}
