package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	da "github.com/lintang-b-s/navigatorx-turncost/pkg/datastructure"
	helper "github.com/lintang-b-s/navigatorx-turncost/pkg/http/router/routerhelper"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/util"
	"go.uber.org/zap"
)

var errValidation = errors.New("validation error")

type turnCostAPI struct {
	turnCostService TurnCostService
	routingService  RoutingService
	log             *zap.Logger
}

func New(turnCostService TurnCostService, routingService RoutingService, log *zap.Logger) *turnCostAPI {
	return &turnCostAPI{
		turnCostService: turnCostService,
		routingService:  routingService,
		log:             log,
	}
}

func (api *turnCostAPI) Routes(group *helper.RouteGroup) {
	group.GET("/turnCost", api.turnCost)
	group.GET("/computeRoutes", api.shortestPath)
	group.GET("/computeTable", api.table)
	group.GET("/profiles", api.profiles)
	group.GET("/nearestVertex", api.nearestVertex)
}

// toIndex maps -1 to da.INVALID_EDGE_ID.
func toIndex(id int64) da.Index {
	if id < 0 {
		return da.INVALID_EDGE_ID
	}
	return da.Index(id)
}

func (api *turnCostAPI) validate(w http.ResponseWriter, r *http.Request, request any) bool {
	messages, err := util.ValidateStruct(request)
	if err != nil {
		api.ServerErrorResponse(w, r, err)
		return false
	}
	if len(messages) > 0 {
		api.getStatusCode(w, r, util.ValidationError(errValidation, messages))
		return false
	}
	return true
}

func (api *turnCostAPI) turnCost(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request turnCostRequest
		err     error
	)

	query := r.URL.Query()
	request.Profile = query.Get("profile")

	request.FromEdge, err = parseIndexParam(query.Get("from_edge"), -1)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("from_edge must be a valid int"))
		return
	}
	request.ViaNode, err = parseIndexParam(query.Get("via_node"), -1)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("via_node is required and must be a valid int"))
		return
	}
	request.ToEdge, err = parseIndexParam(query.Get("to_edge"), -1)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("to_edge must be a valid int"))
		return
	}
	if !api.validate(w, r, request) {
		return
	}

	weight, millis, provider, err := api.turnCostService.TurnCost(request.Profile, toIndex(request.FromEdge),
		da.Index(request.ViaNode), toIndex(request.ToEdge))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewTurnCostResponse(request, weight, millis, provider)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *turnCostAPI) shortestPath(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request shortestPathRequest
		err     error
	)

	query := r.URL.Query()
	request.Profile = query.Get("profile")

	request.Source, err = parseIndexParam(query.Get("source"), -1)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("source is required and must be a valid int"))
		return
	}
	request.Target, err = parseIndexParam(query.Get("target"), -1)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("target is required and must be a valid int"))
		return
	}
	if !api.validate(w, r, request) {
		return
	}

	travelTime, turnMillis, edges, path, err := api.routingService.ShortestPath(r.Context(), request.Profile,
		da.Index(request.Source), da.Index(request.Target))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewShortestPathResponse(travelTime, turnMillis, edges, path)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *turnCostAPI) table(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request tableRequest
		err     error
	)

	query := r.URL.Query()
	request.Profile = query.Get("profile")
	request.Source, err = parseIndexParam(query.Get("source"), -1)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("source is required and must be a valid int"))
		return
	}
	if rawTargets := query.Get("targets"); rawTargets != "" {
		for _, rawTarget := range strings.Split(rawTargets, ",") {
			target, err := parseIndexParam(strings.TrimSpace(rawTarget), -1)
			if err != nil {
				api.BadRequestResponse(w, r, fmt.Errorf("invalid target %q", rawTarget))
				return
			}
			request.Targets = append(request.Targets, target)
		}
	}
	if !api.validate(w, r, request) {
		return
	}

	targets := make([]da.Index, len(request.Targets))
	for i, target := range request.Targets {
		targets[i] = da.Index(target)
	}
	travelTimes, err := api.routingService.Table(r.Context(), request.Profile, da.Index(request.Source), targets)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	resp := tableResponse{Source: request.Source, Targets: request.Targets, TravelTimes: travelTimes}
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": resp}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *turnCostAPI) profiles(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	resp := profilesResponse{Profiles: api.turnCostService.Profiles()}
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": resp}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *turnCostAPI) nearestVertex(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request nearestVertexRequest
		err     error
	)

	query := r.URL.Query()
	request.Lat, err = strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("lat is required and must be a valid float"))
		return
	}
	request.Lon, err = strconv.ParseFloat(query.Get("lon"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("lon is required and must be a valid float"))
		return
	}
	if !api.validate(w, r, request) {
		return
	}

	v, dist, err := api.routingService.NearestVertex(request.Lat, request.Lon)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": nearestVertexResponse{Vertex: v, Distance: dist}}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
