package controllers

import (
	"math"

	da "github.com/lintang-b-s/navigatorx-turncost/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/profile"
)

type turnCostRequest struct {
	Profile  string `validate:"required,max=64"`
	FromEdge int64  `validate:"min=-1"`
	ViaNode  int64  `validate:"min=0"`
	ToEdge   int64  `validate:"min=-1"`
}

type turnCostResponse struct {
	Profile   string   `json:"profile"`
	FromEdge  int64    `json:"from_edge"`
	ViaNode   int64    `json:"via_node"`
	ToEdge    int64    `json:"to_edge"`
	Weight    *float64 `json:"weight"` // null if the turn is forbidden
	Millis    int64    `json:"millis"`
	Forbidden bool     `json:"forbidden"`
	Provider  string   `json:"provider"`
}

func NewTurnCostResponse(req turnCostRequest, weight float64, millis int64, provider string) turnCostResponse {
	resp := turnCostResponse{
		Profile:   req.Profile,
		FromEdge:  req.FromEdge,
		ViaNode:   req.ViaNode,
		ToEdge:    req.ToEdge,
		Millis:    millis,
		Forbidden: math.IsInf(weight, 1),
		Provider:  provider,
	}
	if !resp.Forbidden {
		resp.Weight = &weight
	}
	return resp
}

type shortestPathRequest struct {
	Profile string `validate:"required,max=64"`
	Source  int64  `validate:"min=0"`
	Target  int64  `validate:"min=0"`
}

type shortestPathResponse struct {
	TravelTime float64    `json:"travel_time"`
	TurnMillis int64      `json:"turn_millis"`
	Edges      []da.Index `json:"edges"`
	Polyline   string     `json:"polyline"`
}

func NewShortestPathResponse(travelTime float64, turnMillis int64, edges []da.Index, path string) shortestPathResponse {
	return shortestPathResponse{
		TravelTime: travelTime,
		TurnMillis: turnMillis,
		Edges:      edges,
		Polyline:   path,
	}
}

type nearestVertexRequest struct {
	Lat float64 `validate:"latitude"`
	Lon float64 `validate:"longitude"`
}

type nearestVertexResponse struct {
	Vertex   da.Index `json:"vertex"`
	Distance float64  `json:"distance"` // meters
}

type tableRequest struct {
	Profile string  `validate:"required,max=64"`
	Source  int64   `validate:"min=0"`
	Targets []int64 `validate:"required,min=1,max=1000,dive,min=0"`
}

type tableResponse struct {
	Source      int64     `json:"source"`
	Targets     []int64   `json:"targets"`
	TravelTimes []float64 `json:"travel_times"`
}

type profilesResponse struct {
	Profiles []profile.Profile `json:"profiles"`
}
