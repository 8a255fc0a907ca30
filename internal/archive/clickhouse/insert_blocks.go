package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/sentinelmesh/internal/ledger"
)

// InsertBlocks stores block headers in ledger_blocks.
func (r *Repository) InsertBlocks(ctx context.Context, nodeID string, blocks []ledger.Block) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_blocks", nodeID, err, start)
	}()

	if len(blocks) == 0 {
		return nil
	}

	rows, err := toBlockRows(blocks)
	if err != nil {
		return err
	}

	const query = `
INSERT INTO ledger_blocks (
	node_id,
	block_index,
	hash,
	previous_hash,
	sender,
	timestamp,
	alert_count
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare blocks batch: %w", err)
	}

	for _, row := range rows {
		if err = batch.Append(
			nodeID,
			row.Index,
			row.Hash,
			row.PreviousHash,
			row.Sender,
			row.Timestamp,
			row.AlertCount,
		); err != nil {
			return fmt.Errorf("append block: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert blocks: %w", err)
	}
	return nil
}
