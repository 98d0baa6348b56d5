package routing

import (
	"context"

	"github.com/lintang-b-s/navigatorx-turncost/pkg/concurrent"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-turncost/pkg/datastructure"
)

type oneToManyJob struct {
	index  int
	target da.Index
}

type oneToManyResult struct {
	index int
	route Route
	err   error
}

/*
OneToMany computes s->t for every target on numWorkers goroutines. every worker owns its EdgeBasedDijkstra,
the graph and cost function are shared read-only. routes[i] belongs to targets[i].
the first error (e.g. context cancellation) is returned.
*/
func OneToMany(ctx context.Context, graph *da.Graph, costFunction costfunction.CostFunction, s da.Index,
	targets []da.Index, numWorkers int) ([]Route, error) {
	if numWorkers > len(targets) {
		numWorkers = len(targets)
	}

	searches := make(chan *EdgeBasedDijkstra, max(numWorkers, 1))
	for i := 0; i < cap(searches); i++ {
		searches <- NewEdgeBasedDijkstra(graph, costFunction)
	}

	wp := concurrent.NewWorkerPool[oneToManyJob, oneToManyResult](numWorkers, len(targets))
	wp.Start(func(job oneToManyJob) oneToManyResult {
		search := <-searches
		defer func() { searches <- search }()

		route, err := search.ShortestPath(ctx, s, job.target)
		return oneToManyResult{index: job.index, route: route, err: err}
	})

	for i, t := range targets {
		wp.AddJob(oneToManyJob{index: i, target: t})
	}
	wp.Close()
	wp.Wait()

	routes := make([]Route, len(targets))
	var firstErr error
	for res := range wp.CollectResults() {
		if res.err != nil && firstErr == nil {
			firstErr = res.err
		}
		routes[res.index] = res.route
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return routes, nil
}
