package costfunction

import (
	"github.com/lintang-b-s/navigatorx-turncost/pkg/datastructure"
)

/*
TurnCostProvider evaluates the cost of a transition inEdge -> viaNode -> outEdge.
CalcTurnWeight returns seconds, or +Inf for a forbidden turn. CalcTurnMillis returns the same cost in whole
milliseconds. both must be pure functions of the arguments and the provider configuration.
String identifies the configuration and is part of weighting cache keys.
*/
type TurnCostProvider interface {
	CalcTurnWeight(inEdge, viaNode, outEdge datastructure.Index) float64
	CalcTurnMillis(inEdge, viaNode, outEdge datastructure.Index) int64
	String() string
}

// NoTurnCostProvider is used by profiles that do not model turn costs.
type NoTurnCostProvider struct{}

func NewNoTurnCostProvider() NoTurnCostProvider {
	return NoTurnCostProvider{}
}

func (NoTurnCostProvider) CalcTurnWeight(inEdge, viaNode, outEdge datastructure.Index) float64 {
	return 0
}

func (NoTurnCostProvider) CalcTurnMillis(inEdge, viaNode, outEdge datastructure.Index) int64 {
	return 0
}

func (NoTurnCostProvider) String() string {
	return "no_turn_cost"
}
