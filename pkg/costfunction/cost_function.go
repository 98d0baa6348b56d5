package costfunction

import (
	"github.com/lintang-b-s/navigatorx-turncost/pkg/datastructure"
)

type EdgeAttributes interface {
	GetWeight() float64
	GetEdgeSpeed() float64
	GetLength() float64
	GetEdgeId() datastructure.Index
}

// CostFunction is the weighting used by edge-based search: edge weight plus the turn weight between two edges.
type CostFunction interface {
	GetWeight(e EdgeAttributes) float64
	TurnCostProvider
}
