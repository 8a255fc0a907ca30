package metrics

import (
	"github.com/goodnatureofminers/sentinelmesh/internal/ledger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sentinelmesh"

var (
	ledgerChainLength = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "chain_length",
		Help:      "Number of blocks in the local chain.",
	})
	ledgerBlocksSealedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "blocks_sealed_total",
		Help:      "Count of blocks sealed locally.",
	})
	ledgerAlertsSealedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "alerts_sealed_total",
		Help:      "Count of alerts sealed into local blocks.",
	})
	ledgerChainReplacementsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "chain_replacements_total",
		Help:      "Count of wholesale chain replacements adopted from peers.",
	})
)

// Ledger tracks chain growth. It is registered as a ledger listener.
type Ledger struct{}

// NewLedger creates a Ledger metrics collector.
func NewLedger() *Ledger {
	return &Ledger{}
}

func (m Ledger) BlockSealed(block ledger.Block) {
	ledgerBlocksSealedTotal.Inc()
	ledgerAlertsSealedTotal.Add(float64(len(block.Alerts)))
	ledgerChainLength.Set(float64(block.Index))
}

func (m Ledger) ChainReplaced(chain []ledger.Block) {
	ledgerChainReplacementsTotal.Inc()
	ledgerChainLength.Set(float64(len(chain)))
}
