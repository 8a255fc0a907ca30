package scan

import (
	"context"
	"time"

	"github.com/goodnatureofminers/sentinelmesh/internal/intake"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Predictor interface {
		Predict(sample []float64) (bool, float64, error)
	}
	Transformer interface {
		Transform(row []float64) ([]float64, error)
	}
	SampleSource interface {
		Len() int
		Row(i int) ([]float64, error)
	}
	AlertIntake interface {
		Ingest(ctx context.Context, sender, alertType string, confidence float64, source string) (intake.Receipt, error)
	}
	Metrics interface {
		ObserveScan(verdict string, err error, started time.Time)
	}
)
