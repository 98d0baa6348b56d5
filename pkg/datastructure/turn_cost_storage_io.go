package datastructure

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/util"
)

/*
WriteTurnCostStorage writes the channel layout followed by every stored record:

	<numChannels>
	<name> <bits> <factor> <storeInfinity>   (numChannels lines, in bit order)
	<numRecords>
	<fromEdge> <viaNode> <toEdge> <record>   (numRecords lines)
*/
func (s *TurnCostStorage) WriteTurnCostStorage(filename string, encoder *TurnCostEncoder) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := s.writeTurnCostStorage(f, encoder); err != nil {
		return err
	}
	return f.Sync()
}

func (s *TurnCostStorage) writeTurnCostStorage(out io.Writer, encoder *TurnCostEncoder) error {
	bz, err := bzip2.NewWriter(out, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}

	w := bufio.NewWriter(bz)

	channels := encoder.GetChannels()
	fmt.Fprintf(w, "%d\n", len(channels))
	for _, enc := range channels {
		factorF := strconv.FormatFloat(enc.factor, 'f', -1, 64)
		fmt.Fprintf(w, "%s %d %s %t\n", enc.name, enc.bits, factorF, enc.storeInfinity)
	}

	fmt.Fprintf(w, "%d\n", s.Len())
	s.ForEach(func(fromEdge, viaNode, toEdge Index, record uint32) {
		fmt.Fprintf(w, "%d %d %d %d\n", fromEdge, viaNode, toEdge, record)
	})

	if err := w.Flush(); err != nil {
		bz.Close()
		return err
	}
	// Close writes the last bzip2 block
	return bz.Close()
}

func ReadTurnCostStorage(filename string) (*TurnCostStorage, *TurnCostEncoder, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	bz, err := bzip2.NewReader(f, nil)
	if err != nil {
		return nil, nil, err
	}
	defer bz.Close()

	br := bufio.NewReader(bz)

	line, err := util.ReadLine(br)
	if err != nil {
		return nil, nil, err
	}
	numChannels, err := strconv.Atoi(line)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid channel count %q: %w", line, err)
	}

	encoder := NewTurnCostEncoder()
	for i := 0; i < numChannels; i++ {
		line, err := util.ReadLine(br)
		if err != nil {
			return nil, nil, fmt.Errorf("read channel %d: %w", i, err)
		}
		tokens := fields(line)
		if len(tokens) != 4 {
			return nil, nil, fmt.Errorf("invalid channel line: %q", line)
		}
		bits, err := strconv.Atoi(tokens[1])
		if err != nil {
			return nil, nil, err
		}
		factor, err := strconv.ParseFloat(tokens[2], 64)
		if err != nil {
			return nil, nil, err
		}
		storeInfinity, err := strconv.ParseBool(tokens[3])
		if err != nil {
			return nil, nil, err
		}
		if err := encoder.Add(NewDecimalEncodedValue(tokens[0], bits, factor, storeInfinity)); err != nil {
			return nil, nil, err
		}
	}

	line, err = util.ReadLine(br)
	if err != nil {
		return nil, nil, err
	}
	numRecords, err := strconv.Atoi(line)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid record count %q: %w", line, err)
	}

	storage := NewTurnCostStorageWithSize(numRecords)
	for i := 0; i < numRecords; i++ {
		line, err := util.ReadLine(br)
		if err != nil {
			return nil, nil, fmt.Errorf("read record %d: %w", i, err)
		}
		tokens := fields(line)
		if len(tokens) != 4 {
			return nil, nil, fmt.Errorf("invalid record line: %q", line)
		}
		fromEdge, err := ParseIndex(tokens[0])
		if err != nil {
			return nil, nil, err
		}
		viaNode, err := ParseIndex(tokens[1])
		if err != nil {
			return nil, nil, err
		}
		toEdge, err := ParseIndex(tokens[2])
		if err != nil {
			return nil, nil, err
		}
		record, err := strconv.ParseUint(tokens[3], 10, 32)
		if err != nil {
			return nil, nil, err
		}
		storage.setRecord(fromEdge, viaNode, toEdge, uint32(record))
	}

	return storage, encoder, nil
}
