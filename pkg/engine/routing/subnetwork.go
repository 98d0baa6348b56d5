package routing

import (
	"context"
	"math"

	"github.com/lintang-b-s/navigatorx-turncost/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-turncost/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/util"
)

// Subnetworks are the strongly connected components of the edge-based graph: directed edges are the nodes and
// every turn with finite turn cost is an arc. an edge outside the largest component cannot reach or cannot be
// reached from most of the network under the turn costs of the profile.
type Subnetworks struct {
	component []int // component id per directed edge
	sizes     []int
}

func (s *Subnetworks) NumComponents() int {
	return len(s.sizes)
}

func (s *Subnetworks) ComponentOf(e da.Index) int {
	return s.component[e]
}

func (s *Subnetworks) ComponentSize(c int) int {
	return s.sizes[c]
}

func (s *Subnetworks) LargestComponentSize() int {
	largest := 0
	for _, size := range s.sizes {
		largest = max(largest, size)
	}
	return largest
}

// NumEdgesOutsideLargest counts directed edges that are not in the largest component.
func (s *Subnetworks) NumEdgesOutsideLargest() int {
	return len(s.component) - s.LargestComponentSize()
}

type dfsFrame struct {
	edge      da.Index
	neighbors []da.Index
	next      int
}

/*
FindSubnetworks runs kosaraju's algorithm on the edge-based graph. forward dfs follows turns from the head of
an edge, the second pass follows them backwards from the tail in reverse finishing order. both dfs are iterative.
*/
func FindSubnetworks(ctx context.Context, graph *da.Graph, costFunction costfunction.CostFunction) (*Subnetworks, error) {
	m := graph.NumberOfEdges()
	oriEdge := func(e *da.OutEdge) da.Index { return e.GetOriginalEdgeId() }

	successors := func(e da.Index) []da.Index {
		in := graph.GetOutEdge(e)
		via := in.GetHead()
		next := make([]da.Index, 0, graph.GetOutDegree(via))
		graph.ForOutEdgesOf(via, func(out *da.OutEdge) {
			if !math.IsInf(costFunction.CalcTurnWeight(oriEdge(in), via, oriEdge(out)), 1) {
				next = append(next, out.GetEdgeId())
			}
		})
		return next
	}
	predecessors := func(e da.Index) []da.Index {
		out := graph.GetOutEdge(e)
		via := out.GetTail()
		prev := make([]da.Index, 0, graph.GetInDegree(via))
		graph.ForInEdgesOf(via, func(in *da.OutEdge) {
			if !math.IsInf(costFunction.CalcTurnWeight(oriEdge(in), via, oriEdge(out)), 1) {
				prev = append(prev, in.GetEdgeId())
			}
		})
		return prev
	}

	visited := make([]bool, m)
	dfs := func(root da.Index, neighborsOf func(da.Index) []da.Index, output *[]da.Index) {
		visited[root] = true
		stack := []dfsFrame{{edge: root, neighbors: neighborsOf(root)}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(top.neighbors) {
				w := top.neighbors[top.next]
				top.next++
				if !visited[w] {
					visited[w] = true
					stack = append(stack, dfsFrame{edge: w, neighbors: neighborsOf(w)})
				}
				continue
			}
			*output = append(*output, top.edge)
			stack = stack[:len(stack)-1]
		}
	}

	order := make([]da.Index, 0, m)
	for e := 0; e < m; e++ {
		if e%ctxCheckInterval == 0 && util.StopConcurrentOperation(ctx) {
			return nil, ctx.Err()
		}
		if !visited[e] {
			dfs(da.Index(e), successors, &order)
		}
	}
	order = util.ReverseG(order)

	visited = make([]bool, m)
	subnetworks := &Subnetworks{
		component: make([]int, m),
		sizes:     make([]int, 0),
	}
	component := make([]da.Index, 0)
	for i, e := range order {
		if i%ctxCheckInterval == 0 && util.StopConcurrentOperation(ctx) {
			return nil, ctx.Err()
		}
		if visited[e] {
			continue
		}
		component = component[:0]
		dfs(e, predecessors, &component)
		id := len(subnetworks.sizes)
		for _, c := range component {
			subnetworks.component[c] = id
		}
		subnetworks.sizes = append(subnetworks.sizes, len(component))
	}
	return subnetworks, nil
}
