package detector

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Samples is an in-memory table of raw feature rows used to simulate traffic.
type Samples struct {
	rows [][]float64
}

// LoadSamples reads a CSV file of numeric rows. A non-numeric first row is
// treated as a header.
func LoadSamples(path string) (*Samples, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open samples: %v", ErrModelUnavailable, err)
	}
	defer func() {
		_ = f.Close()
	}()
	return DecodeSamples(f)
}

func DecodeSamples(r io.Reader) (*Samples, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	var (
		rows [][]float64
		line int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read samples: %v", ErrModelUnavailable, err)
		}
		line++

		row, err := parseRow(record)
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("%w: samples line %d: %v", ErrModelUnavailable, line, err)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: samples file has no rows", ErrModelUnavailable)
	}
	return &Samples{rows: rows}, nil
}

func parseRow(record []string) ([]float64, error) {
	row := make([]float64, len(record))
	for i, field := range record {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		row[i] = v
	}
	return row, nil
}

func (s *Samples) Len() int {
	return len(s.rows)
}

// Row returns a copy of row i.
func (s *Samples) Row(i int) ([]float64, error) {
	if i < 0 || i >= len(s.rows) {
		return nil, fmt.Errorf("sample row %d out of range [0, %d)", i, len(s.rows))
	}
	out := make([]float64, len(s.rows[i]))
	copy(out, s.rows[i])
	return out, nil
}
