package reputation

import (
	"github.com/goodnatureofminers/sentinelmesh/internal/ledger"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Sealer interface {
		Seal(sender string) (ledger.Block, bool)
	}
	Metrics interface {
		ObserveMine(outcome string)
		SetScore(score int)
	}
)
