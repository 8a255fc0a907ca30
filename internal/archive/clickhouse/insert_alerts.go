package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/sentinelmesh/internal/ledger"
)

// InsertAlerts stores every alert of the given blocks in ledger_alerts.
func (r *Repository) InsertAlerts(ctx context.Context, nodeID string, blocks []ledger.Block) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_alerts", nodeID, err, start)
	}()

	rows, err := toAlertRows(blocks)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	const query = `
INSERT INTO ledger_alerts (
	node_id,
	block_index,
	block_hash,
	position,
	sender,
	type,
	confidence,
	timestamp
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare alerts batch: %w", err)
	}

	for _, row := range rows {
		if err = batch.Append(
			nodeID,
			row.BlockIndex,
			row.BlockHash,
			row.Position,
			row.Sender,
			row.Type,
			row.Confidence,
			row.Timestamp,
		); err != nil {
			return fmt.Errorf("append alert: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert alerts: %w", err)
	}
	return nil
}
