// Package ledger holds the node-local alert chain and its pending pool.
package ledger

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"time"
)

const (
	// GenesisTimestamp is the fixed creation time shared by every node's genesis block.
	GenesisTimestamp = 1700000000.0
	// GenesisSender marks the genesis block producer.
	GenesisSender = "GENESIS"
	// GenesisPreviousHash is the link value of the genesis block.
	GenesisPreviousHash = "0"

	confidenceDigits = 4
)

// Alert is a single anomaly report waiting in the pool or sealed in a block.
type Alert struct {
	Sender     string  `json:"sender"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
	Timestamp  float64 `json:"timestamp"`
}

// Block is a sealed, hash-linked batch of alerts.
type Block struct {
	Index        int     `json:"index"`
	Timestamp    float64 `json:"timestamp"`
	Alerts       []Alert `json:"alerts"`
	PreviousHash string  `json:"previous_hash"`
	Sender       string  `json:"sender"`
	Hash         string  `json:"hash"`
}

// MarshalJSON writes floats in the same form the digest uses, so a peer that
// re-hashes the decoded payload sees 1.0 rather than 1.
func (a Alert) MarshalJSON() ([]byte, error) {
	if err := a.checkFinite(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	writeAlert(&buf, a)
	return buf.Bytes(), nil
}

func (a Alert) checkFinite() error {
	if !isFinite(a.Confidence) || !isFinite(a.Timestamp) {
		return fmt.Errorf("alert from %q has a non-finite number", a.Sender)
	}
	return nil
}

// MarshalJSON is the canonical encoding with the hash appended.
func (b Block) MarshalJSON() ([]byte, error) {
	if !isFinite(b.Timestamp) {
		return nil, fmt.Errorf("block %d has a non-finite timestamp", b.Index)
	}
	for _, a := range b.Alerts {
		if err := a.checkFinite(); err != nil {
			return nil, fmt.Errorf("block %d: %w", b.Index, err)
		}
	}

	body := Canonical(b)
	var buf bytes.Buffer
	buf.Grow(len(body) + len(b.Hash) + 12)
	buf.Write(body[:len(body)-1])
	buf.WriteString(`,"hash":`)
	writeString(&buf, b.Hash)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// NewGenesis builds the deterministic first block.
func NewGenesis() Block {
	b := Block{
		Index:        1,
		Timestamp:    GenesisTimestamp,
		Alerts:       []Alert{},
		PreviousHash: GenesisPreviousHash,
		Sender:       GenesisSender,
	}
	b.Hash = Hash(b)
	return b
}

// RoundConfidence rounds to four decimal digits, half-to-even on exact ties.
func RoundConfidence(v float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', confidenceDigits, 64), 64)
	if err != nil {
		return v
	}
	return rounded
}

// EpochSeconds converts t to fractional Unix seconds.
func EpochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func cloneBlock(b Block) Block {
	alerts := make([]Alert, len(b.Alerts))
	copy(alerts, b.Alerts)
	b.Alerts = alerts
	return b
}

func cloneChain(chain []Block) []Block {
	out := make([]Block, len(chain))
	for i, b := range chain {
		out[i] = cloneBlock(b)
	}
	return out
}
