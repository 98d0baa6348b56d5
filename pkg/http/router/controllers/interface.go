package controllers

import (
	"context"

	da "github.com/lintang-b-s/navigatorx-turncost/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/profile"
)

type TurnCostService interface {
	// TurnCost of the transition fromEdge -> viaNode -> toEdge, edges are original edge ids.
	TurnCost(profileName string, fromEdge, viaNode, toEdge da.Index) (float64, int64, string, error)
	Profiles() []profile.Profile
}

type RoutingService interface {
	// ShortestPath returns travel time, turn millis, original edge ids and the encoded polyline of the path.
	ShortestPath(ctx context.Context, profileName string, source, target da.Index) (float64, int64, []da.Index, string, error)
	// Table returns the travel times from source to every target, -1 if a target is unreachable.
	Table(ctx context.Context, profileName string, source da.Index, targets []da.Index) ([]float64, error)
	// NearestVertex returns the vertex closest to the coordinate and its distance in meters.
	NearestVertex(lat, lon float64) (da.Index, float64, error)
}
