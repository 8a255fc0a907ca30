package resolver

import (
	"context"
	"time"

	"github.com/goodnatureofminers/sentinelmesh/internal/ledger"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	ChainFetcher interface {
		FetchChain(ctx context.Context, endpoint string) ([]ledger.Block, int, error)
	}
	Chain interface {
		Len() int
		Genesis() ledger.Block
		ReplaceIfLonger(candidate []ledger.Block) bool
	}
	Metrics interface {
		ObserveResolve(err error, replaced bool, started time.Time)
		ObservePeer(outcome string)
	}
)
