package pkg

import "math"

// enum of turn_type
type TurnType uint8

const (
	LEFT_TURN TurnType = iota
	RIGHT_TURN
	SHARP_TURN
	STRAIGHT_ON
	U_TURN
	NONE
)

func (t TurnType) String() string {
	switch t {
	case LEFT_TURN:
		return "left_turn"
	case RIGHT_TURN:
		return "right_turn"
	case SHARP_TURN:
		return "sharp_turn"
	case STRAIGHT_ON:
		return "straight_on"
	case U_TURN:
		return "u_turn"
	default:
		return "none"
	}
}

const (
	INF_WEIGHT float64 = 1e15

	// INFINITE_U_TURN_COSTS disallows every u-turn of a profile.
	INFINITE_U_TURN_COSTS = -1

	// INF_TURN_MILLIS is the saturated duration of a forbidden turn.
	INF_TURN_MILLIS int64 = math.MaxInt64

	// default width of a turn cost channel. the maximum raw value is reserved for forbidden turns.
	DEFAULT_TURN_COST_BITS = 7
	MAX_TURN_COST_SECONDS  = (1 << DEFAULT_TURN_COST_BITS) - 2

	SLIGHT_TURN_ANGLE_DEGREE = 30.0
	SHARP_TURN_ANGLE_DEGREE  = 130.0
	U_TURN_ANGLE_DEGREE      = 170.0
)
