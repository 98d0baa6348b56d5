package costfunction

import (
	"errors"
	"math"
	"strconv"

	"github.com/lintang-b-s/navigatorx-turncost/pkg"
	da "github.com/lintang-b-s/navigatorx-turncost/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/util"
)

var (
	ErrInvalidUTurnCosts = errors.New("invalid u-turn costs")
	ErrNoTurnCostStorage = errors.New("no storage set to calculate turn weight")
)

type DefaultTurnCostProvider struct {
	turnCostEnc     *da.DecimalEncodedValue
	turnCostStorage *da.TurnCostStorage
	uTurnCostsInt   int
	uTurnCosts      float64

	// if set, a stored value > 0 on a u-turn transition marks a dead end, the only place where u-turns are allowed.
	storedUTurnCostsAreDeadEndFlags bool
}

func NewDefaultTurnCostProviderInfiniteUTurn(turnCostEnc *da.DecimalEncodedValue,
	turnCostStorage *da.TurnCostStorage) (*DefaultTurnCostProvider, error) {
	return NewDefaultTurnCostProvider(turnCostEnc, turnCostStorage, pkg.INFINITE_U_TURN_COSTS, false)
}

/*
NewDefaultTurnCostProvider. uTurnCosts is the cost of a u-turn in seconds, pkg.INFINITE_U_TURN_COSTS forbids u-turns.
turnCostEnc may be nil, then only the u-turn costs apply.
*/
func NewDefaultTurnCostProvider(turnCostEnc *da.DecimalEncodedValue, turnCostStorage *da.TurnCostStorage,
	uTurnCosts int, storedUTurnCostsAreDeadEndFlags bool) (*DefaultTurnCostProvider, error) {
	if uTurnCosts < 0 && uTurnCosts != pkg.INFINITE_U_TURN_COSTS {
		return nil, util.WrapErrorf(ErrInvalidUTurnCosts, util.ErrBadParamInput,
			"u-turn costs must be positive, or equal to %d (=infinite costs), got %d", pkg.INFINITE_U_TURN_COSTS, uTurnCosts)
	}
	if turnCostStorage == nil {
		return nil, util.WrapErrorf(ErrNoTurnCostStorage, util.ErrBadParamInput, "no storage set to calculate turn weight")
	}

	uTurnCostsF := float64(uTurnCosts)
	if uTurnCosts < 0 {
		uTurnCostsF = math.Inf(1)
	}

	return &DefaultTurnCostProvider{
		turnCostEnc:                     turnCostEnc,
		turnCostStorage:                 turnCostStorage,
		uTurnCostsInt:                   uTurnCosts,
		uTurnCosts:                      uTurnCostsF,
		storedUTurnCostsAreDeadEndFlags: storedUTurnCostsAreDeadEndFlags,
	}, nil
}

func (tcp *DefaultTurnCostProvider) GetTurnCostEnc() *da.DecimalEncodedValue {
	return tcp.turnCostEnc
}

func (tcp *DefaultTurnCostProvider) GetUTurnCosts() int {
	return tcp.uTurnCostsInt
}

func (tcp *DefaultTurnCostProvider) IsDeadEndMode() bool {
	return tcp.storedUTurnCostsAreDeadEndFlags
}

func (tcp *DefaultTurnCostProvider) CalcTurnWeight(inEdge, viaNode, outEdge da.Index) float64 {
	if !da.IsValidEdge(inEdge) || !da.IsValidEdge(outEdge) {
		return 0
	}
	turnCost := tcp.turnCostStorage.Get(tcp.turnCostEnc, inEdge, viaNode, outEdge)
	if inEdge == outEdge {
		if tcp.storedUTurnCostsAreDeadEndFlags {
			if turnCost > 0 {
				return tcp.uTurnCosts
			}
			return math.Inf(1)
		}
		// u-turn costs overwrite the stored turn costs, a single u-turn cannot be denied explicitly.
		return tcp.uTurnCosts
	}
	return turnCost
}

// CalcTurnMillis truncates 1000*weight. forbidden turns and weights beyond int64 saturate to pkg.INF_TURN_MILLIS.
func (tcp *DefaultTurnCostProvider) CalcTurnMillis(inEdge, viaNode, outEdge da.Index) int64 {
	return TurnWeightToMillis(tcp.CalcTurnWeight(inEdge, viaNode, outEdge))
}

func (tcp *DefaultTurnCostProvider) String() string {
	return "default_tcp_" + strconv.Itoa(tcp.uTurnCostsInt)
}

func TurnWeightToMillis(weight float64) int64 {
	millis := 1000 * weight
	if math.IsInf(millis, 1) || millis >= math.MaxInt64 {
		return pkg.INF_TURN_MILLIS
	}
	return int64(millis)
}
