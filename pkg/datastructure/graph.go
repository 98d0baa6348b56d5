package datastructure

import (
	"errors"
	"math"
	"sort"
)

type Index uint32

const (
	// INVALID_EDGE_ID marks "no edge": the missing incoming edge at a route start or outgoing edge at a route end.
	INVALID_EDGE_ID   Index = math.MaxUint32
	INVALID_VERTEX_ID Index = math.MaxUint32
)

var (
	ErrVertexNotFound = errors.New("vertex not found")
	ErrEdgeNotFound   = errors.New("edge not found")
)

func IsValidEdge(id Index) bool {
	return id != INVALID_EDGE_ID
}

type Vertex struct {
	lat      float64
	lon      float64
	osmId    int64
	firstOut Index // index of the first outEdge of this vertex in the flattened graph.outEdges array
	firstIn  Index // index of the first entry of this vertex in graph.inEdges
	id       Index
}

func NewVertex(lat, lon float64, id Index, osmId int64) *Vertex {
	return &Vertex{
		lat:   lat,
		lon:   lon,
		id:    id,
		osmId: osmId,
	}
}

func (v *Vertex) GetID() Index {
	return v.id
}

func (v *Vertex) GetLat() float64 {
	return v.lat
}

func (v *Vertex) GetLon() float64 {
	return v.lon
}

func (v *Vertex) GetOsmId() int64 {
	return v.osmId
}

func (v *Vertex) GetFirstOut() Index {
	return v.firstOut
}

// OutEdge is a directed edge. both directions of a two-way road share one original edge id, turn costs
// are keyed by original edge ids so a u-turn is a transition with equal in and out ids.
type OutEdge struct {
	edgeId    Index
	oriEdgeId Index
	tail      Index
	head      Index
	weight    float64 // travel time in seconds
	dist      float64 // meters
	osmWayId  int64
}

func NewOutEdge(edgeId, oriEdgeId, tail, head Index, weight, dist float64, osmWayId int64) *OutEdge {
	return &OutEdge{
		edgeId:    edgeId,
		oriEdgeId: oriEdgeId,
		tail:      tail,
		head:      head,
		weight:    weight,
		dist:      dist,
		osmWayId:  osmWayId,
	}
}

func (e *OutEdge) GetWeight() float64 {
	return e.weight
}

// GetEdgeSpeed in meter/second, 0 if unknown.
func (e *OutEdge) GetEdgeSpeed() float64 {
	if e.weight == 0 {
		return 0
	}
	return e.dist / e.weight
}

func (e *OutEdge) GetLength() float64 {
	return e.dist
}

func (e *OutEdge) GetEdgeId() Index {
	return e.edgeId
}

func (e *OutEdge) GetOriginalEdgeId() Index {
	return e.oriEdgeId
}

func (e *OutEdge) GetTail() Index {
	return e.tail
}

func (e *OutEdge) GetHead() Index {
	return e.head
}

func (e *OutEdge) GetOsmWayId() int64 {
	return e.osmWayId
}

// Graph forward-star representation. vertices has one extra sentinel vertex so that
// vertices[u+1].firstOut - vertices[u].firstOut is the out degree of u.
type Graph struct {
	vertices []*Vertex
	outEdges []*OutEdge
	inEdges  []Index // edge ids grouped by head

	numOriginalEdges int
	osmIdToVertex    map[int64]Index
}

func (g *Graph) NumberOfVertices() int {
	return len(g.vertices) - 1
}

func (g *Graph) NumberOfEdges() int {
	return len(g.outEdges)
}

func (g *Graph) NumberOfOriginalEdges() int {
	return g.numOriginalEdges
}

func (g *Graph) GetVertex(u Index) *Vertex {
	return g.vertices[u]
}

func (g *Graph) GetOutEdge(e Index) *OutEdge {
	return g.outEdges[e]
}

func (g *Graph) GetOutDegree(u Index) Index {
	return g.vertices[u+1].firstOut - g.vertices[u].firstOut
}

func (g *Graph) GetInDegree(u Index) Index {
	return g.vertices[u+1].firstIn - g.vertices[u].firstIn
}

func (g *Graph) ForOutEdgesOf(u Index, handle func(e *OutEdge)) {
	for e := g.vertices[u].firstOut; e < g.vertices[u+1].firstOut; e++ {
		handle(g.outEdges[e])
	}
}

// ForInEdgesOf iterates the edges whose head is v.
func (g *Graph) ForInEdgesOf(v Index, handle func(e *OutEdge)) {
	for i := g.vertices[v].firstIn; i < g.vertices[v+1].firstIn; i++ {
		handle(g.outEdges[g.inEdges[i]])
	}
}

func (g *Graph) FindVertexByOsmId(osmId int64) (Index, bool) {
	v, ok := g.osmIdToVertex[osmId]
	return v, ok
}

// GetNumberOfNeighbors counts distinct adjacent vertices of u, ignoring self loops.
func (g *Graph) GetNumberOfNeighbors(u Index) int {
	neighbors := make(map[Index]struct{}, g.GetOutDegree(u)+g.GetInDegree(u))
	g.ForOutEdgesOf(u, func(e *OutEdge) {
		if e.head != u {
			neighbors[e.head] = struct{}{}
		}
	})
	g.ForInEdgesOf(u, func(e *OutEdge) {
		if e.tail != u {
			neighbors[e.tail] = struct{}{}
		}
	})
	return len(neighbors)
}

type GraphBuilder struct {
	vertices         []*Vertex
	edges            []*OutEdge
	numOriginalEdges int
}

func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{
		vertices: make([]*Vertex, 0),
		edges:    make([]*OutEdge, 0),
	}
}

func (gb *GraphBuilder) AddVertex(lat, lon float64, osmId int64) Index {
	id := Index(len(gb.vertices))
	gb.vertices = append(gb.vertices, NewVertex(lat, lon, id, osmId))
	return id
}

// AddEdge adds a road segment tail->head, and head->tail too if bidirectional. returns the original edge id.
func (gb *GraphBuilder) AddEdge(tail, head Index, weight, dist float64, osmWayId int64, bidirectional bool) (Index, error) {
	if int(tail) >= len(gb.vertices) || int(head) >= len(gb.vertices) {
		return INVALID_EDGE_ID, ErrVertexNotFound
	}
	oriEdgeId := Index(gb.numOriginalEdges)
	_ = gb.addDirectedEdge(tail, head, weight, dist, osmWayId, oriEdgeId)
	if bidirectional {
		_ = gb.addDirectedEdge(head, tail, weight, dist, osmWayId, oriEdgeId)
	}
	return oriEdgeId, nil
}

func (gb *GraphBuilder) addDirectedEdge(tail, head Index, weight, dist float64, osmWayId int64, oriEdgeId Index) error {
	if int(tail) >= len(gb.vertices) || int(head) >= len(gb.vertices) {
		return ErrVertexNotFound
	}
	gb.edges = append(gb.edges, NewOutEdge(INVALID_EDGE_ID, oriEdgeId, tail, head, weight, dist, osmWayId))
	if int(oriEdgeId) >= gb.numOriginalEdges {
		gb.numOriginalEdges = int(oriEdgeId) + 1
	}
	return nil
}

// Build sorts edges by tail (stable, so insertion order of a vertex's edges is kept) and assigns
// edge ids as positions in the sorted array.
func (gb *GraphBuilder) Build() *Graph {
	n := len(gb.vertices)
	edges := make([]*OutEdge, len(gb.edges))
	copy(edges, gb.edges)
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].tail < edges[j].tail
	})

	vertices := make([]*Vertex, n+1)
	copy(vertices, gb.vertices)
	vertices[n] = NewVertex(0, 0, Index(n), -1)

	outDegree := make([]Index, n+1)
	inDegree := make([]Index, n+1)
	for i, e := range edges {
		e.edgeId = Index(i)
		outDegree[e.tail]++
		inDegree[e.head]++
	}

	var firstOut, firstIn Index
	for u := 0; u <= n; u++ {
		vertices[u].firstOut = firstOut
		vertices[u].firstIn = firstIn
		firstOut += outDegree[u]
		firstIn += inDegree[u]
	}

	inEdges := make([]Index, len(edges))
	fill := make([]Index, n)
	for _, e := range edges {
		inEdges[vertices[e.head].firstIn+fill[e.head]] = e.edgeId
		fill[e.head]++
	}

	osmIdToVertex := make(map[int64]Index, n)
	for u := 0; u < n; u++ {
		osmIdToVertex[vertices[u].osmId] = Index(u)
	}

	return &Graph{
		vertices:         vertices,
		outEdges:         edges,
		inEdges:          inEdges,
		numOriginalEdges: gb.numOriginalEdges,
		osmIdToVertex:    osmIdToVertex,
	}
}
