package costfunction

import (
	"github.com/lintang-b-s/navigatorx-turncost/pkg/datastructure"
)

// TimeFunction is the fastest weighting: edge travel time in seconds plus turn costs.
type TimeFunction struct {
	turnCostProvider TurnCostProvider
}

func NewTimeCostFunction(turnCostProvider TurnCostProvider) *TimeFunction {
	if turnCostProvider == nil {
		turnCostProvider = NewNoTurnCostProvider()
	}
	return &TimeFunction{turnCostProvider: turnCostProvider}
}

const (
	defaultSpeed = 20.0 // km/h
)

func (tf *TimeFunction) GetWeight(e EdgeAttributes) float64 {
	speed := e.GetEdgeSpeed()
	if speed == 0 {
		return e.GetLength() / (defaultSpeed * 1000 / 3600)
	}
	return e.GetLength() / speed
}

func (tf *TimeFunction) CalcTurnWeight(inEdge, viaNode, outEdge datastructure.Index) float64 {
	return tf.turnCostProvider.CalcTurnWeight(inEdge, viaNode, outEdge)
}

func (tf *TimeFunction) CalcTurnMillis(inEdge, viaNode, outEdge datastructure.Index) int64 {
	return tf.turnCostProvider.CalcTurnMillis(inEdge, viaNode, outEdge)
}

func (tf *TimeFunction) GetTurnCostProvider() TurnCostProvider {
	return tf.turnCostProvider
}

// String is the weighting cache key.
func (tf *TimeFunction) String() string {
	return "fastest|" + tf.turnCostProvider.String()
}
