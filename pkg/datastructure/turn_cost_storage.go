package datastructure

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrNilTurnCostEnc = errors.New("turn cost channel must not be nil")
)

type turnKey struct {
	from Index
	via  Index
	to   Index
}

/*
TurnCostStorage keeps one packed uint32 record per transition (fromEdge, viaNode, toEdge).
every channel of a TurnCostEncoder is a bit range of that record. transitions that were never
set read as 0 (no restriction, no penalty) in every channel.
*/
type TurnCostStorage struct {
	mu      sync.RWMutex
	records map[turnKey]uint32
}

func NewTurnCostStorage() *TurnCostStorage {
	return &TurnCostStorage{
		records: make(map[turnKey]uint32),
	}
}

func NewTurnCostStorageWithSize(size int) *TurnCostStorage {
	return &TurnCostStorage{
		records: make(map[turnKey]uint32, size),
	}
}

func (s *TurnCostStorage) Set(enc *DecimalEncodedValue, fromEdge, viaNode, toEdge Index, value float64) error {
	if enc == nil {
		return ErrNilTurnCostEnc
	}
	key := turnKey{fromEdge, viaNode, toEdge}

	s.mu.Lock()
	defer s.mu.Unlock()
	record, err := enc.Encode(s.records[key], value)
	if err != nil {
		return fmt.Errorf("set turn cost (%d,%d,%d): %w", fromEdge, viaNode, toEdge, err)
	}
	if record == 0 {
		delete(s.records, key)
		return nil
	}
	s.records[key] = record
	return nil
}

// Get decodes the channel value of a transition. a nil channel means no turn cost data and reads as 0.
func (s *TurnCostStorage) Get(enc *DecimalEncodedValue, fromEdge, viaNode, toEdge Index) float64 {
	if enc == nil {
		return 0
	}
	s.mu.RLock()
	record, ok := s.records[turnKey{fromEdge, viaNode, toEdge}]
	s.mu.RUnlock()
	if !ok {
		return 0
	}
	return enc.Decode(record)
}

func (s *TurnCostStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// ForEach visits the stored transitions ordered by (from, via, to).
func (s *TurnCostStorage) ForEach(handle func(fromEdge, viaNode, toEdge Index, record uint32)) {
	s.mu.RLock()
	keys := make([]turnKey, 0, len(s.records))
	for k := range s.records {
		keys = append(keys, k)
	}
	records := make([]uint32, len(keys))
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].from != keys[j].from {
			return keys[i].from < keys[j].from
		}
		if keys[i].via != keys[j].via {
			return keys[i].via < keys[j].via
		}
		return keys[i].to < keys[j].to
	})
	for i, k := range keys {
		records[i] = s.records[k]
	}
	s.mu.RUnlock()

	for i, k := range keys {
		handle(k.from, k.via, k.to, records[i])
	}
}

func (s *TurnCostStorage) setRecord(fromEdge, viaNode, toEdge Index, record uint32) {
	s.mu.Lock()
	s.records[turnKey{fromEdge, viaNode, toEdge}] = record
	s.mu.Unlock()
}
