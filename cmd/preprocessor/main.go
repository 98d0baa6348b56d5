package main

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/lintang-b-s/navigatorx-turncost/pkg"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/costfunction"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/engine/routing"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/logger"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/osmparser"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/profile"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	mapFile       = flag.String("map", "./data/map.osm.pbf", "openstreetmap pbf file")
	graphFile     = flag.String("graph", "./data/original.graph", "output graph file")
	turnCostsFile = flag.String("turn_costs", "./data/turn_costs.txt", "output turn cost storage file")
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
	ctx := context.Background()

	f, err := os.Open(*mapFile)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	graph, err := osmparser.NewGraphParser(logger).Parse(ctx, f)
	if err != nil {
		panic(err)
	}
	if err := graph.WriteGraph(*graphFile); err != nil {
		panic(err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		panic(err)
	}
	restrictions, err := osmparser.ParseRestrictions(ctx, f)
	if err != nil {
		panic(err)
	}
	logger.Sugar().Infof("parsed %d turn restrictions", len(restrictions))

	profiles, err := profile.LoadProfiles()
	if err != nil {
		panic(err)
	}

	viper.SetDefault("TURN_PENALTIES.LEFT", 0)
	viper.SetDefault("TURN_PENALTIES.RIGHT", 0)
	viper.SetDefault("TURN_PENALTIES.SHARP", 0)
	penalties := osmparser.TurnPenalties{
		Left:  viper.GetFloat64("TURN_PENALTIES.LEFT"),
		Right: viper.GetFloat64("TURN_PENALTIES.RIGHT"),
		Sharp: viper.GetFloat64("TURN_PENALTIES.SHARP"),
	}

	encoder := datastructure.NewTurnCostEncoder()
	storage := datastructure.NewTurnCostStorage()
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			panic(err)
		}
		if !p.TurnCosts {
			continue
		}
		channelName := datastructure.TurnCostChannelName(p.Vehicle)
		if _, ok := encoder.GetChannel(channelName); ok {
			continue
		}
		enc := datastructure.NewDecimalEncodedValue(channelName, pkg.DEFAULT_TURN_COST_BITS, 1, true)
		if err := encoder.Add(enc); err != nil {
			panic(err)
		}

		importer := osmparser.NewTurnCostImporter(graph, storage, enc, logger.With(zap.String("vehicle", p.Vehicle)))
		if _, err := importer.ApplyRestrictions(p.Vehicle, restrictions); err != nil {
			panic(err)
		}
		if _, err := importer.MarkDeadEnds(); err != nil {
			panic(err)
		}
		if _, err := importer.ApplyTurnPenalties(penalties); err != nil {
			panic(err)
		}
	}

	for _, p := range profiles {
		tcp, err := profile.BuildTurnCostProvider(p, storage, encoder)
		if err != nil {
			panic(err)
		}
		subnetworks, err := routing.FindSubnetworks(ctx, graph, costfunction.NewTimeCostFunction(tcp))
		if err != nil {
			panic(err)
		}
		logger.Info("subnetworks", zap.String("profile", p.Name), zap.Int("components", subnetworks.NumComponents()),
			zap.Int("largest_component_edges", subnetworks.LargestComponentSize()),
			zap.Int("edges_outside_largest", subnetworks.NumEdgesOutsideLargest()))
	}

	if err := storage.WriteTurnCostStorage(*turnCostsFile, encoder); err != nil {
		panic(err)
	}

	logger.Sugar().Infof("Preprocessing completed successfully. %d turn cost records.", storage.Len())
}
