package datastructure

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrTurnRecordFull      = errors.New("not enough bits left in turn cost record")
	ErrDuplicateChannel    = errors.New("turn cost channel already registered")
	ErrInfinityNotAllowed  = errors.New("channel cannot store infinity")
	ErrValueOutOfRange     = errors.New("value out of range for channel")
	ErrChannelNotAllocated = errors.New("turn cost channel has no bits allocated")
)

const turnRecordBits = 32

/*
DecimalEncodedValue is one named numeric channel of a packed uint32 turn record.
raw = round(value / factor), stored in bits [shift, shift+bits).
if storeInfinity, the maximum raw value is reserved for +Inf (a forbidden turn).
*/
type DecimalEncodedValue struct {
	name          string
	bits          int
	shift         int
	factor        float64
	storeInfinity bool
	allocated     bool
}

func NewDecimalEncodedValue(name string, bits int, factor float64, storeInfinity bool) *DecimalEncodedValue {
	return &DecimalEncodedValue{
		name:          name,
		bits:          bits,
		factor:        factor,
		storeInfinity: storeInfinity,
	}
}

// TurnCostChannelName is the channel name of a vehicle's turn costs.
func TurnCostChannelName(vehicle string) string {
	return vehicle + "_turn_cost"
}

func (enc *DecimalEncodedValue) GetName() string {
	return enc.name
}

func (enc *DecimalEncodedValue) GetBits() int {
	return enc.bits
}

func (enc *DecimalEncodedValue) maxRaw() uint32 {
	return uint32(1)<<enc.bits - 1
}

func (enc *DecimalEncodedValue) mask() uint32 {
	return enc.maxRaw() << enc.shift
}

// GetMaxStorableValue is the largest finite value the channel can hold.
func (enc *DecimalEncodedValue) GetMaxStorableValue() float64 {
	maxRaw := enc.maxRaw()
	if enc.storeInfinity {
		maxRaw--
	}
	return float64(maxRaw) * enc.factor
}

func (enc *DecimalEncodedValue) Encode(record uint32, value float64) (uint32, error) {
	if !enc.allocated {
		return record, ErrChannelNotAllocated
	}
	var raw uint32
	switch {
	case math.IsInf(value, 1):
		if !enc.storeInfinity {
			return record, fmt.Errorf("%w: %s", ErrInfinityNotAllowed, enc.name)
		}
		raw = enc.maxRaw()
	case math.IsNaN(value) || value < 0 || value > enc.GetMaxStorableValue():
		return record, fmt.Errorf("%w: %s=%v, max %v", ErrValueOutOfRange, enc.name, value, enc.GetMaxStorableValue())
	default:
		raw = uint32(math.Round(value / enc.factor))
	}
	return (record &^ enc.mask()) | (raw << enc.shift), nil
}

func (enc *DecimalEncodedValue) Decode(record uint32) float64 {
	raw := (record & enc.mask()) >> enc.shift
	if enc.storeInfinity && raw == enc.maxRaw() {
		return math.Inf(1)
	}
	return float64(raw) * enc.factor
}

// TurnCostEncoder allocates the bit ranges of all channels sharing one turn record.
type TurnCostEncoder struct {
	channels map[string]*DecimalEncodedValue
	order    []string
	nextBit  int
}

func NewTurnCostEncoder() *TurnCostEncoder {
	return &TurnCostEncoder{
		channels: make(map[string]*DecimalEncodedValue),
		order:    make([]string, 0),
	}
}

func (te *TurnCostEncoder) Add(enc *DecimalEncodedValue) error {
	if _, ok := te.channels[enc.name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateChannel, enc.name)
	}
	if enc.bits <= 0 || te.nextBit+enc.bits > turnRecordBits {
		return fmt.Errorf("%w: %s needs %d bits, %d left", ErrTurnRecordFull, enc.name, enc.bits,
			turnRecordBits-te.nextBit)
	}
	enc.shift = te.nextBit
	enc.allocated = true
	te.nextBit += enc.bits
	te.channels[enc.name] = enc
	te.order = append(te.order, enc.name)
	return nil
}

func (te *TurnCostEncoder) GetChannel(name string) (*DecimalEncodedValue, bool) {
	enc, ok := te.channels[name]
	return enc, ok
}

// GetChannels returns channels in registration order.
func (te *TurnCostEncoder) GetChannels() []*DecimalEncodedValue {
	chs := make([]*DecimalEncodedValue, 0, len(te.order))
	for _, name := range te.order {
		chs = append(chs, te.channels[name])
	}
	return chs
}
