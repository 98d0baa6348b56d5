package osmparser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"

	da "github.com/lintang-b-s/navigatorx-turncost/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/geo"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"go.uber.org/zap"
)

var ErrEmptyGraph = errors.New("no routable way found")

type NodeType uint8

const (
	END_NODE NodeType = iota
	BETWEEN_NODE
	JUNCTION_NODE
)

var (
	acceptedHighway = map[string]struct{}{
		"motorway":       {},
		"motorway_link":  {},
		"trunk":          {},
		"trunk_link":     {},
		"primary":        {},
		"primary_link":   {},
		"secondary":      {},
		"secondary_link": {},
		"tertiary":       {},
		"tertiary_link":  {},
		"residential":    {},
		"service":        {},
		"road":           {},
		"track":          {},
		"unclassified":   {},
		"living_street":  {},
		"motorroad":      {},
	}

	// km/h
	highwaySpeed = map[string]float64{
		"motorway":       100,
		"motorway_link":  70,
		"trunk":          70,
		"trunk_link":     65,
		"primary":        65,
		"primary_link":   60,
		"secondary":      60,
		"secondary_link": 50,
		"tertiary":       50,
		"tertiary_link":  40,
		"unclassified":   30,
		"residential":    30,
		"living_street":  5,
		"service":        20,
		"road":           20,
		"track":          15,
		"motorroad":      90,
	}
)

const defaultSpeed = 30.0

type NodeCoord struct {
	lat float64
	lon float64
}

func NewNodeCoord(lat, lon float64) NodeCoord {
	return NodeCoord{lat, lon}
}

type osmWay struct {
	id       int64
	nodes    []int64
	forward  bool
	backward bool
	speed    float64 // km/h
}

// GraphParser builds the routing graph from osm ways. ways are split at junction nodes, so every vertex is a
// way end or a node shared by several ways.
type GraphParser struct {
	logger     *zap.Logger
	wayNodeMap map[int64]NodeType
	ways       []osmWay
	nodeCoords map[int64]NodeCoord
}

func NewGraphParser(logger *zap.Logger) *GraphParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GraphParser{
		logger:     logger,
		wayNodeMap: make(map[int64]NodeType),
		ways:       make([]osmWay, 0),
		nodeCoords: make(map[int64]NodeCoord),
	}
}

// Parse reads f twice: ways first, then the coordinates of the nodes they use.
func (p *GraphParser) Parse(ctx context.Context, f io.ReadSeeker) (*da.Graph, error) {
	scanner := osmpbf.New(ctx, f, runtime.GOMAXPROCS(-1))
	scanner.SkipNodes = true
	scanner.SkipRelations = true
	countWays := 0
	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		if p.addWay(way) {
			countWays++
			if countWays%50000 == 0 {
				p.logger.Sugar().Infof("scanning openstreetmap ways: %d...", countWays)
			}
		}
	}
	err := scanner.Err()
	scanner.Close()
	if err != nil {
		return nil, fmt.Errorf("scan osm ways: %w", err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	scanner = osmpbf.New(ctx, f, runtime.GOMAXPROCS(-1))
	defer scanner.Close()
	scanner.SkipWays = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		if node, ok := scanner.Object().(*osm.Node); ok {
			p.addNode(node)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan osm nodes: %w", err)
	}

	return p.build()
}

func acceptOsmWay(way *osm.Way) bool {
	if isRestricted(way.Tags.Find("access")) || isRestricted(way.Tags.Find("motor_vehicle")) {
		return false
	}
	highway := way.Tags.Find("highway")
	junction := way.Tags.Find("junction")
	if highway != "" {
		_, ok := acceptedHighway[highway]
		return ok
	}
	return junction != ""
}

func isRestricted(value string) bool {
	return value == "no" || value == "private"
}

// wayDirection returns whether the way can be driven in and against node order.
func wayDirection(way *osm.Way) (bool, bool) {
	switch way.Tags.Find("oneway") {
	case "yes", "true", "1":
		return true, false
	case "-1", "reverse":
		return false, true
	case "no", "false", "0":
		return true, true
	}
	junction := way.Tags.Find("junction")
	if junction == "roundabout" || junction == "circular" || way.Tags.Find("highway") == "motorway" {
		return true, false
	}
	return true, true
}

// waySpeed in km/h from maxspeed, falling back to the highway type.
func waySpeed(way *osm.Way) float64 {
	if maxSpeed := way.Tags.Find("maxspeed"); maxSpeed != "" {
		value := strings.TrimSpace(maxSpeed)
		factor := 1.0
		switch {
		case strings.HasSuffix(value, "mph"):
			value, factor = strings.TrimSpace(strings.TrimSuffix(value, "mph")), 1.60934
		case strings.HasSuffix(value, "knots"):
			value, factor = strings.TrimSpace(strings.TrimSuffix(value, "knots")), 1.852
		case strings.HasSuffix(value, "km/h"):
			value = strings.TrimSpace(strings.TrimSuffix(value, "km/h"))
		}
		if speed, err := strconv.ParseFloat(value, 64); err == nil && speed > 0 {
			return speed * factor
		}
	}
	if speed, ok := highwaySpeed[way.Tags.Find("highway")]; ok {
		return speed
	}
	return defaultSpeed
}

func (p *GraphParser) addWay(way *osm.Way) bool {
	if len(way.Nodes) < 2 || !acceptOsmWay(way) {
		return false
	}
	forward, backward := wayDirection(way)

	nodes := make([]int64, 0, len(way.Nodes))
	for i, node := range way.Nodes {
		nodeId := int64(node.ID)
		if _, ok := p.wayNodeMap[nodeId]; !ok {
			if i == 0 || i == len(way.Nodes)-1 {
				p.wayNodeMap[nodeId] = END_NODE
			} else {
				p.wayNodeMap[nodeId] = BETWEEN_NODE
			}
		} else {
			p.wayNodeMap[nodeId] = JUNCTION_NODE
		}
		nodes = append(nodes, nodeId)
	}

	p.ways = append(p.ways, osmWay{
		id:       int64(way.ID),
		nodes:    nodes,
		forward:  forward,
		backward: backward,
		speed:    waySpeed(way),
	})
	return true
}

func (p *GraphParser) addNode(node *osm.Node) {
	if _, ok := p.wayNodeMap[int64(node.ID)]; ok {
		p.nodeCoords[int64(node.ID)] = NewNodeCoord(node.Lat, node.Lon)
	}
}

func (p *GraphParser) isVertex(nodeId int64) bool {
	nodeType := p.wayNodeMap[nodeId]
	return nodeType == END_NODE || nodeType == JUNCTION_NODE
}

func (p *GraphParser) build() (*da.Graph, error) {
	gb := da.NewGraphBuilder()
	vertexOf := make(map[int64]da.Index)
	getVertex := func(nodeId int64) da.Index {
		if v, ok := vertexOf[nodeId]; ok {
			return v
		}
		coord := p.nodeCoords[nodeId]
		v := gb.AddVertex(coord.lat, coord.lon, nodeId)
		vertexOf[nodeId] = v
		return v
	}

	numEdges := 0
	skippedWays := 0
	for _, way := range p.ways {
		complete := true
		for _, nodeId := range way.nodes {
			if _, ok := p.nodeCoords[nodeId]; !ok {
				complete = false
				break
			}
		}
		if !complete {
			skippedWays++
			continue
		}

		segStart := way.nodes[0]
		dist := 0.0
		for i := 1; i < len(way.nodes); i++ {
			prev, cur := p.nodeCoords[way.nodes[i-1]], p.nodeCoords[way.nodes[i]]
			dist += geo.CalculateHaversineDistance(prev.lat, prev.lon, cur.lat, cur.lon) * 1000
			if !p.isVertex(way.nodes[i]) && i != len(way.nodes)-1 {
				continue
			}

			if segStart != way.nodes[i] {
				tail, head := getVertex(segStart), getVertex(way.nodes[i])
				if !way.forward {
					tail, head = head, tail
				}
				weight := dist / (way.speed * 1000 / 3600)
				if _, err := gb.AddEdge(tail, head, weight, dist, way.id, way.forward && way.backward); err != nil {
					return nil, err
				}
				numEdges++
			}
			segStart = way.nodes[i]
			dist = 0
		}
	}
	if numEdges == 0 {
		return nil, ErrEmptyGraph
	}

	graph := gb.Build()
	p.logger.Sugar().Infof("number of vertices: %d, number of edges: %d, skipped ways with missing nodes: %d",
		graph.NumberOfVertices(), graph.NumberOfEdges(), skippedWays)
	return graph, nil
}
