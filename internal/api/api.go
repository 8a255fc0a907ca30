// Package api defines the JSON request and response bodies exchanged by nodes
// and their operators.
package api

import (
	"github.com/goodnatureofminers/sentinelmesh/internal/contracts"
	"github.com/goodnatureofminers/sentinelmesh/internal/ledger"
)

// Routes served by every node.
const (
	PathStatus    = "/status"
	PathChain     = "/chain"
	PathRegister  = "/nodes/register"
	PathResolve   = "/nodes/resolve"
	PathMine      = "/mine"
	PathAlert     = "/alert/new"
	PathScan      = "/scan"
	PathContracts = "/contracts"
	PathBoost     = "/reputation/boost"
)

const (
	StatusActive = "Active"

	ScannerReady       = "ready"
	ScannerUnavailable = "unavailable"

	MessageSynchronized  = "Synchronized"
	MessageUpToDate      = "Already up to date or validation failed"
	MessageMined         = "New Block Successfully Mined"
	MessageNothingToMine = "No pending alerts in pool"
	MessageBoost         = "Test Boost Applied"
	MessageAnomaly       = "ANOMALY DETECTED!"
	MessageNormal        = "Traffic Normal"
	MessagePooled        = "Alert added to pending pool"
)

// Error kinds reported in ErrorResponse.Error.
const (
	ErrorInsufficientReputation = "InsufficientReputation"
	ErrorMalformedRequest       = "MalformedRequest"
	ErrorModelUnavailable       = "ModelUnavailable"
	ErrorNotFound               = "NotFound"
	ErrorInternal               = "Internal"
)

type (
	StatusResponse struct {
		ID            string   `json:"id"`
		Reputation    int      `json:"reputation"`
		PendingAlerts int      `json:"pending_alerts"`
		ChainLength   int      `json:"chain_length"`
		PeerCount     int      `json:"peer_count"`
		Peers         []string `json:"peers"`
		Status        string   `json:"status"`
		Scanner       string   `json:"scanner"`
	}

	ChainResponse struct {
		Chain  []ledger.Block `json:"chain"`
		Length int            `json:"length"`
	}

	RegisterRequest struct {
		Nodes []string `json:"nodes"`
	}

	RegisterResponse struct {
		TotalPeers []string `json:"total_peers"`
	}

	ResolveResponse struct {
		Message   string `json:"message"`
		NewLength int    `json:"new_length,omitempty"`
		Length    int    `json:"length"`
	}

	MineResponse struct {
		Message       string        `json:"message"`
		Block         *ledger.Block `json:"block,omitempty"`
		NewReputation int           `json:"new_reputation"`
	}

	// AlertRequest uses pointers so that absent fields can be told apart
	// from zero values.
	AlertRequest struct {
		Sender     *string  `json:"sender"`
		Type       *string  `json:"type"`
		Confidence *float64 `json:"confidence"`
		Source     string   `json:"source,omitempty"`
	}

	AlertResponse struct {
		Message            string   `json:"message"`
		Index              int      `json:"index"`
		ContractsTriggered int      `json:"contracts_triggered"`
		Actions            []string `json:"actions"`
	}

	ScanResponse struct {
		Result             string   `json:"result"`
		Loss               float64  `json:"loss"`
		Status             string   `json:"status,omitempty"`
		Index              int      `json:"index,omitempty"`
		Source             string   `json:"source,omitempty"`
		ContractsTriggered int      `json:"contracts_triggered,omitempty"`
		Actions            []string `json:"actions,omitempty"`
	}

	ContractsResponse struct {
		Contracts []contracts.Info `json:"contracts"`
		Status    contracts.Status `json:"status"`
	}

	BoostResponse struct {
		Message  string `json:"message"`
		NewScore int    `json:"new_score"`
	}

	ErrorResponse struct {
		Error     string `json:"error"`
		Message   string `json:"message"`
		Score     *int   `json:"score,omitempty"`
		Threshold *int   `json:"threshold,omitempty"`
	}
)
