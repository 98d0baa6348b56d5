package spatialindex

import (
	"math"

	"github.com/lintang-b-s/navigatorx-turncost/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

const (
	maxSearchRadius = 5.0 // km
)

// Rtree indexes graph vertices by coordinate, used to snap query points to the graph.
type Rtree struct {
	tr    *rtree.RTreeG[datastructure.Index]
	graph *datastructure.Graph
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[datastructure.Index]
	return &Rtree{
		tr: &tr,
	}
}

// Build inserts every vertex that has at least one incident edge as a point.
func (rt *Rtree) Build(graph *datastructure.Graph, log *zap.Logger) {
	log.Info("Building R-tree spatial index...")
	rt.graph = graph
	n := graph.NumberOfVertices()
	for u := 0; u < n; u++ {
		v := datastructure.Index(u)
		if graph.GetOutDegree(v)+graph.GetInDegree(v) == 0 {
			continue
		}
		vertex := graph.GetVertex(v)
		point := [2]float64{vertex.GetLon(), vertex.GetLat()}
		rt.tr.Insert(point, point, v)
	}
	log.Info("R-tree spatial index built.", zap.Int("vertices", rt.tr.Len()))
}

// SearchWithinRadius returns the indexed vertices inside the box with corners radius km away from (qLat, qLon)
// at bearings 225 and 45.
func (rt *Rtree) SearchWithinRadius(qLat, qLon, radius float64) []datastructure.Index {
	lowerLat, lowerLon := geo.GetDestinationPoint(qLat, qLon, 225, radius)
	upperLat, upperLon := geo.GetDestinationPoint(qLat, qLon, 45, radius)

	results := make([]datastructure.Index, 0, 10)
	rt.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat},
		func(min, max [2]float64, data datastructure.Index) bool {
			results = append(results, data)
			return true
		})
	return results
}

// NearestVertex doubles the search radius from 50m up to maxSearchRadius until a vertex is found
// within the radius. returns the vertex and its haversine distance in km.
func (rt *Rtree) NearestVertex(qLat, qLon float64) (datastructure.Index, float64, bool) {
	best, bestDist := datastructure.INVALID_VERTEX_ID, math.Inf(1)
	for radius := 0.05; radius <= maxSearchRadius; radius *= 2 {
		for _, v := range rt.SearchWithinRadius(qLat, qLon, radius) {
			vertex := rt.graph.GetVertex(v)
			dist := geo.CalculateHaversineDistance(qLat, qLon, vertex.GetLat(), vertex.GetLon())
			if dist < bestDist || (dist == bestDist && v < best) {
				best, bestDist = v, dist
			}
		}
		// the box half width is radius/sqrt(2), vertices outside it are farther than that
		if bestDist <= radius/math.Sqrt2 {
			return best, bestDist, true
		}
	}
	if best == datastructure.INVALID_VERTEX_ID {
		return best, 0, false
	}
	return best, bestDist, true
}
