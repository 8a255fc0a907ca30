package clickhouse

import (
	"fmt"

	"github.com/goodnatureofminers/sentinelmesh/internal/ledger"
	"github.com/goodnatureofminers/sentinelmesh/pkg/safe"
)

type blockRow struct {
	Index        uint64
	Hash         string
	PreviousHash string
	Sender       string
	Timestamp    float64
	AlertCount   uint32
}

type alertRow struct {
	BlockIndex uint64
	BlockHash  string
	Position   uint32
	Sender     string
	Type       string
	Confidence float64
	Timestamp  float64
}

func toBlockRows(blocks []ledger.Block) ([]blockRow, error) {
	rows := make([]blockRow, 0, len(blocks))
	for _, b := range blocks {
		index, err := safe.Uint64(b.Index)
		if err != nil {
			return nil, fmt.Errorf("block %s index: %w", b.Hash, err)
		}
		count, err := safe.Uint32(len(b.Alerts))
		if err != nil {
			return nil, fmt.Errorf("block %s alert count: %w", b.Hash, err)
		}
		rows = append(rows, blockRow{
			Index:        index,
			Hash:         b.Hash,
			PreviousHash: b.PreviousHash,
			Sender:       b.Sender,
			Timestamp:    b.Timestamp,
			AlertCount:   count,
		})
	}
	return rows, nil
}

func toAlertRows(blocks []ledger.Block) ([]alertRow, error) {
	var rows []alertRow
	for _, b := range blocks {
		index, err := safe.Uint64(b.Index)
		if err != nil {
			return nil, fmt.Errorf("block %s index: %w", b.Hash, err)
		}
		for i, a := range b.Alerts {
			position, err := safe.Uint32(i)
			if err != nil {
				return nil, fmt.Errorf("block %s alert %d: %w", b.Hash, i, err)
			}
			rows = append(rows, alertRow{
				BlockIndex: index,
				BlockHash:  b.Hash,
				Position:   position,
				Sender:     a.Sender,
				Type:       a.Type,
				Confidence: a.Confidence,
				Timestamp:  a.Timestamp,
			})
		}
	}
	return rows, nil
}
