package archive

import (
	"context"

	"github.com/goodnatureofminers/sentinelmesh/internal/ledger"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Repository interface {
		InsertBlocks(ctx context.Context, nodeID string, blocks []ledger.Block) error
		InsertAlerts(ctx context.Context, nodeID string, blocks []ledger.Block) error
	}
	Metrics interface {
		ObserveDropped(kind string)
		ObserveFlush(err error, blocks int)
	}
	// Source is the ledger being archived.
	Source interface {
		AddListener(listener ledger.Listener)
		Chain() []ledger.Block
	}
)
