package intake

import (
	"github.com/goodnatureofminers/sentinelmesh/internal/contracts"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	AlertPool interface {
		AddAlert(sender, alertType string, confidence float64) int
	}
	ContractEvaluator interface {
		Evaluate(alertType string, confidence float64, source string) []contracts.Execution
	}
	Metrics interface {
		ObserveIngest(actions int)
	}
)
