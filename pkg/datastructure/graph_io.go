package datastructure

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/util"
)

func (g *Graph) WriteGraph(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}

	w := bufio.NewWriter(bz)

	fmt.Fprintf(w, "%d %d\n", g.NumberOfVertices(), g.NumberOfEdges())

	for vId := 0; vId < g.NumberOfVertices(); vId++ {
		v := g.vertices[vId]
		latF := strconv.FormatFloat(v.lat, 'f', -1, 64)
		lonF := strconv.FormatFloat(v.lon, 'f', -1, 64)

		fmt.Fprintf(w, "%s %s %d\n", latF, lonF, v.osmId)
	}

	for _, e := range g.outEdges {
		weightF := strconv.FormatFloat(e.weight, 'f', -1, 64)
		distF := strconv.FormatFloat(e.dist, 'f', -1, 64)

		fmt.Fprintf(w, "%d %d %s %s %d %d\n", e.tail, e.head, weightF, distF, e.osmWayId, e.oriEdgeId)
	}

	if err := w.Flush(); err != nil {
		bz.Close()
		return err
	}
	// Close writes the last bzip2 block
	if err := bz.Close(); err != nil {
		return err
	}
	return f.Sync()
}

func ReadGraph(filename string) (*Graph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bz, err := bzip2.NewReader(f, nil)
	if err != nil {
		return nil, err
	}
	defer bz.Close()

	br := bufio.NewReader(bz)

	line, err := util.ReadLine(br)
	if err != nil {
		return nil, err
	}
	tokens := fields(line)
	if len(tokens) != 2 {
		return nil, fmt.Errorf("invalid graph header: %q", line)
	}

	numVertices, err := ParseIndex(tokens[0])
	if err != nil {
		return nil, err
	}
	numEdges, err := ParseIndex(tokens[1])
	if err != nil {
		return nil, err
	}

	gb := NewGraphBuilder()
	for i := Index(0); i < numVertices; i++ {
		line, err := util.ReadLine(br)
		if err != nil {
			return nil, fmt.Errorf("read vertex %d: %w", i, err)
		}
		tokens := fields(line)
		if len(tokens) != 3 {
			return nil, fmt.Errorf("invalid vertex line: %q", line)
		}
		lat, err := strconv.ParseFloat(tokens[0], 64)
		if err != nil {
			return nil, err
		}
		lon, err := strconv.ParseFloat(tokens[1], 64)
		if err != nil {
			return nil, err
		}
		osmId, err := strconv.ParseInt(tokens[2], 10, 64)
		if err != nil {
			return nil, err
		}
		gb.AddVertex(lat, lon, osmId)
	}

	for i := Index(0); i < numEdges; i++ {
		line, err := util.ReadLine(br)
		if err != nil {
			return nil, fmt.Errorf("read edge %d: %w", i, err)
		}
		tokens := fields(line)
		if len(tokens) != 6 {
			return nil, fmt.Errorf("invalid edge line: %q", line)
		}
		tail, err := ParseIndex(tokens[0])
		if err != nil {
			return nil, err
		}
		head, err := ParseIndex(tokens[1])
		if err != nil {
			return nil, err
		}
		weight, err := strconv.ParseFloat(tokens[2], 64)
		if err != nil {
			return nil, err
		}
		dist, err := strconv.ParseFloat(tokens[3], 64)
		if err != nil {
			return nil, err
		}
		osmWayId, err := strconv.ParseInt(tokens[4], 10, 64)
		if err != nil {
			return nil, err
		}
		oriEdgeId, err := ParseIndex(tokens[5])
		if err != nil {
			return nil, err
		}
		if err := gb.addDirectedEdge(tail, head, weight, dist, osmWayId, oriEdgeId); err != nil {
			return nil, err
		}
	}

	return gb.Build(), nil
}

func fields(s string) []string {
	return strings.Fields(s)
}

func ParseIndex(s string) (Index, error) {
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if u > math.MaxUint32 {
		return 0, fmt.Errorf("value %s overflows uint32", s)
	}
	return Index(u), nil
}
