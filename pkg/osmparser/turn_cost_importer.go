package osmparser

import (
	"math"

	"github.com/lintang-b-s/navigatorx-turncost/pkg"
	da "github.com/lintang-b-s/navigatorx-turncost/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/guidance"
	"go.uber.org/zap"
)

// TurnPenalties in seconds per turn type. zero disables the penalty.
type TurnPenalties struct {
	Left  float64
	Right float64
	Sharp float64
}

func (tp TurnPenalties) penalty(turnType pkg.TurnType) float64 {
	switch turnType {
	case pkg.LEFT_TURN:
		return tp.Left
	case pkg.RIGHT_TURN:
		return tp.Right
	case pkg.SHARP_TURN:
		return tp.Sharp
	default:
		return 0
	}
}

// TurnCostImporter fills the turn cost channel of one vehicle. all transitions are keyed by original edge ids.
type TurnCostImporter struct {
	graph   *da.Graph
	storage *da.TurnCostStorage
	enc     *da.DecimalEncodedValue
	logger  *zap.Logger
}

func NewTurnCostImporter(graph *da.Graph, storage *da.TurnCostStorage, enc *da.DecimalEncodedValue,
	logger *zap.Logger) *TurnCostImporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TurnCostImporter{
		graph:   graph,
		storage: storage,
		enc:     enc,
		logger:  logger,
	}
}

// ApplyRestrictions stores +Inf for every transition forbidden by a restriction that applies to vehicle.
// u-turn transitions are skipped: the provider applies its own u-turn policy and in dead end mode any stored
// value on a u-turn reads as a dead end flag. returns the number of forbidden transitions.
func (ti *TurnCostImporter) ApplyRestrictions(vehicle string, restrictions []Restriction) (int, error) {
	forbidden := 0
	skipped := 0
	for _, r := range restrictions {
		if !r.AppliesTo(vehicle) {
			continue
		}
		via, ok := ti.graph.FindVertexByOsmId(int64(r.Via))
		if !ok {
			skipped++
			continue
		}

		fromEdges := make([]*da.OutEdge, 0, 2)
		ti.graph.ForInEdgesOf(via, func(e *da.OutEdge) {
			if e.GetOsmWayId() == int64(r.From) {
				fromEdges = append(fromEdges, e)
			}
		})
		if len(fromEdges) == 0 {
			skipped++
			continue
		}

		for _, in := range fromEdges {
			var err error
			ti.graph.ForOutEdgesOf(via, func(out *da.OutEdge) {
				if err != nil || !ti.isRestricted(r, in, out) {
					return
				}
				if err = ti.storage.Set(ti.enc, in.GetOriginalEdgeId(), via, out.GetOriginalEdgeId(), math.Inf(1)); err == nil {
					forbidden++
				}
			})
			if err != nil {
				return forbidden, err
			}
		}
	}

	ti.logger.Sugar().Infof("applied %d turn restrictions for %s: %d forbidden transitions, %d restrictions not in graph",
		len(restrictions)-skipped, vehicle, forbidden, skipped)
	return forbidden, nil
}

func (ti *TurnCostImporter) isRestricted(r Restriction, in, out *da.OutEdge) bool {
	if in.GetOriginalEdgeId() == out.GetOriginalEdgeId() {
		return false
	}
	toWay := out.GetOsmWayId() == int64(r.To)
	switch {
	case r.Kind == NO_U_TURN:
		return false
	case r.Kind == ONLY_U_TURN:
		return true
	case r.Kind.IsMandatory():
		return !toWay
	default:
		return toWay
	}
}

// MarkDeadEnds stores the dead end flag (1) on the u-turn transition of every edge that arrives at a vertex
// with a single neighbor. a dead end mode provider only allows u-turns on flagged transitions.
func (ti *TurnCostImporter) MarkDeadEnds() (int, error) {
	marked := 0
	for v := da.Index(0); v < da.Index(ti.graph.NumberOfVertices()); v++ {
		if ti.graph.GetNumberOfNeighbors(v) != 1 {
			continue
		}
		var err error
		ti.graph.ForInEdgesOf(v, func(e *da.OutEdge) {
			if err != nil {
				return
			}
			ori := e.GetOriginalEdgeId()
			if ti.storage.Get(ti.enc, ori, v, ori) != 0 {
				return
			}
			if err = ti.storage.Set(ti.enc, ori, v, ori, 1); err == nil {
				marked++
			}
		})
		if err != nil {
			return marked, err
		}
	}
	ti.logger.Sugar().Infof("marked %d dead end u-turns", marked)
	return marked, nil
}

// ApplyTurnPenalties stores a time penalty on every left, right and sharp turn. transitions that already have
// a stored value are kept so restrictions are never overwritten. penalties are clamped to the channel max.
func (ti *TurnCostImporter) ApplyTurnPenalties(penalties TurnPenalties) (int, error) {
	maxValue := ti.enc.GetMaxStorableValue()
	count := 0
	for via := da.Index(0); via < da.Index(ti.graph.NumberOfVertices()); via++ {
		if ti.graph.GetInDegree(via) == 0 || ti.graph.GetOutDegree(via) < 2 {
			continue
		}
		viaVertex := ti.graph.GetVertex(via)

		var err error
		ti.graph.ForInEdgesOf(via, func(in *da.OutEdge) {
			prev := ti.graph.GetVertex(in.GetTail())
			ti.graph.ForOutEdgesOf(via, func(out *da.OutEdge) {
				if err != nil || in.GetOriginalEdgeId() == out.GetOriginalEdgeId() {
					return
				}
				if ti.storage.Get(ti.enc, in.GetOriginalEdgeId(), via, out.GetOriginalEdgeId()) != 0 {
					return
				}
				next := ti.graph.GetVertex(out.GetHead())
				turnType := guidance.GetTurnType(prev.GetLat(), prev.GetLon(), viaVertex.GetLat(), viaVertex.GetLon(),
					next.GetLat(), next.GetLon())
				penalty := math.Min(penalties.penalty(turnType), maxValue)
				if penalty <= 0 {
					return
				}
				if err = ti.storage.Set(ti.enc, in.GetOriginalEdgeId(), via, out.GetOriginalEdgeId(), penalty); err == nil {
					count++
				}
			})
		})
		if err != nil {
			return count, err
		}
	}
	ti.logger.Sugar().Infof("stored %d turn penalties", count)
	return count, nil
}
