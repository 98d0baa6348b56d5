package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/lintang-b-s/navigatorx-turncost/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/http"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/http/usecases"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/logger"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/profile"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/spatialindex"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/util"
	"go.uber.org/zap"
)

var (
	graphFile     = flag.String("graph", "./data/original.graph", "graph file")
	turnCostsFile = flag.String("turn_costs", "./data/turn_costs.txt", "turn cost storage file")
)

func main() {
	flag.Parse()
	if err := util.ReadConfig(); err != nil {
		panic(err)
	}
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	graph, err := datastructure.ReadGraph(*graphFile)
	if err != nil {
		panic(err)
	}
	storage, encoder, err := datastructure.ReadTurnCostStorage(*turnCostsFile)
	if err != nil {
		panic(err)
	}
	logger.Info("graph loaded", zap.Int("vertices", graph.NumberOfVertices()), zap.Int("edges", graph.NumberOfEdges()),
		zap.Int("turn_cost_records", storage.Len()))

	profiles, err := profile.LoadProfiles()
	if err != nil {
		panic(err)
	}
	registry, err := profile.NewRegistryFromProfiles(profiles, storage, encoder, logger)
	if err != nil {
		panic(err)
	}

	rtree := spatialindex.NewRtree()
	rtree.Build(graph, logger)

	service := usecases.NewTurnCostService(logger, graph, registry, rtree)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := http.NewServer(logger)
	if err := api.Use(ctx, service, service); err != nil {
		logger.Error("server error", zap.Error(err))
	}

	logger.Info("Navigatorx turn cost engine stopped")
}
