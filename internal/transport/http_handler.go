// Package transport exposes the node over HTTP and gRPC.
package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/sentinelmesh/internal/api"
	"github.com/goodnatureofminers/sentinelmesh/internal/detector"
	"github.com/goodnatureofminers/sentinelmesh/internal/intake"
	"github.com/goodnatureofminers/sentinelmesh/internal/node"
	"github.com/goodnatureofminers/sentinelmesh/internal/reputation"
)

const maxRequestBytes = 1 << 20

// MalformedRequestError is returned to clients whose request body cannot be
// used.
type MalformedRequestError struct {
	Reason string
}

func (e *MalformedRequestError) Error() string {
	return "malformed request: " + e.Reason
}

// HTTPHandler serves the node's JSON API.
type HTTPHandler struct {
	node    *node.Node
	metrics Metrics
	logger  *zap.Logger
	mux     *gwruntime.ServeMux
}

func NewHTTPHandler(n *node.Node, metrics Metrics, logger *zap.Logger) (*HTTPHandler, error) {
	if n == nil {
		return nil, errors.New("node is required")
	}
	if metrics == nil {
		return nil, errors.New("http metrics is required")
	}
	h := &HTTPHandler{
		node:    n,
		metrics: metrics,
		logger:  logger,
		mux:     gwruntime.NewServeMux(),
	}

	routes := []struct {
		method  string
		pattern string
		name    string
		handle  func(http.ResponseWriter, *http.Request)
	}{
		{http.MethodGet, api.PathStatus, "status", h.status},
		{http.MethodGet, api.PathChain, "chain", h.chain},
		{http.MethodPost, api.PathRegister, "register", h.register},
		{http.MethodGet, api.PathResolve, "resolve", h.resolve},
		{http.MethodGet, api.PathMine, "mine", h.mine},
		{http.MethodPost, api.PathAlert, "alert", h.alert},
		{http.MethodGet, api.PathScan, "scan", h.scan},
		{http.MethodGet, api.PathContracts, "contracts", h.contracts},
		{http.MethodGet, api.PathBoost, "boost", h.boost},
		{http.MethodPost, api.PathBoost, "boost", h.boost},
	}
	for _, rt := range routes {
		if err := h.mux.HandlePath(rt.method, rt.pattern, h.observe(rt.name, rt.handle)); err != nil {
			return nil, fmt.Errorf("register %s %s: %w", rt.method, rt.pattern, err)
		}
	}
	return h, nil
}

func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (h *HTTPHandler) observe(route string, next func(http.ResponseWriter, *http.Request)) gwruntime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next(rec, r)
		h.metrics.ObserveRequest(route, rec.code, started)
	}
}

func (h *HTTPHandler) status(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.node.Status())
}

func (h *HTTPHandler) chain(w http.ResponseWriter, _ *http.Request) {
	chain := h.node.Ledger.Chain()
	h.writeJSON(w, http.StatusOK, api.ChainResponse{Chain: chain, Length: len(chain)})
}

func (h *HTTPHandler) register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if len(req.Nodes) == 0 {
		h.writeError(w, &MalformedRequestError{Reason: "please supply a valid list of nodes"})
		return
	}
	peers, err := h.node.Peers.Add(req.Nodes...)
	if err != nil {
		h.writeError(w, &MalformedRequestError{Reason: err.Error()})
		return
	}
	h.logger.Info("peers registered", zap.Strings("added", req.Nodes), zap.Int("total", len(peers)))
	h.writeJSON(w, http.StatusCreated, api.RegisterResponse{TotalPeers: peers})
}

func (h *HTTPHandler) resolve(w http.ResponseWriter, r *http.Request) {
	res, err := h.node.Resolve(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if res.Replaced {
		h.writeJSON(w, http.StatusOK, api.ResolveResponse{Message: api.MessageSynchronized, NewLength: res.Length, Length: res.Length})
		return
	}
	h.writeJSON(w, http.StatusOK, api.ResolveResponse{Message: api.MessageUpToDate, Length: res.Length})
}

func (h *HTTPHandler) mine(w http.ResponseWriter, _ *http.Request) {
	out, err := h.node.Producer.TryMine()
	if err != nil {
		h.writeError(w, err)
		return
	}
	if out.Status == reputation.StatusNothingToMine {
		h.writeJSON(w, http.StatusOK, api.MineResponse{Message: api.MessageNothingToMine, NewReputation: out.Score})
		return
	}
	block := out.Block
	h.writeJSON(w, http.StatusOK, api.MineResponse{Message: api.MessageMined, Block: &block, NewReputation: out.Score})
}

func (h *HTTPHandler) alert(w http.ResponseWriter, r *http.Request) {
	var req api.AlertRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.Sender == nil || req.Type == nil || req.Confidence == nil {
		h.writeError(w, &MalformedRequestError{Reason: "sender, type and confidence are required"})
		return
	}
	receipt, err := h.node.Intake.Ingest(r.Context(), *req.Sender, *req.Type, *req.Confidence, req.Source)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, api.AlertResponse{
		Message:            fmt.Sprintf("Manual alert added to block %d", receipt.Index),
		Index:              receipt.Index,
		ContractsTriggered: len(receipt.Actions),
		Actions:            receipt.Actions,
	})
}

func (h *HTTPHandler) scan(w http.ResponseWriter, r *http.Request) {
	res, err := h.node.Scanner.Scan(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !res.Anomaly {
		h.writeJSON(w, http.StatusOK, api.ScanResponse{Result: api.MessageNormal, Loss: res.Loss})
		return
	}
	h.writeJSON(w, http.StatusCreated, api.ScanResponse{
		Result:             api.MessageAnomaly,
		Loss:               res.Loss,
		Status:             api.MessagePooled,
		Index:              res.Index,
		Source:             res.Source,
		ContractsTriggered: len(res.Actions),
		Actions:            res.Actions,
	})
}

func (h *HTTPHandler) contracts(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, api.ContractsResponse{
		Contracts: h.node.Contracts.Contracts(),
		Status:    h.node.Contracts.Status(),
	})
}

func (h *HTTPHandler) boost(w http.ResponseWriter, _ *http.Request) {
	if !h.node.DevBoost {
		h.writeJSON(w, http.StatusNotFound, api.ErrorResponse{Error: api.ErrorNotFound, Message: "reputation boost is disabled"})
		return
	}
	score := h.node.Producer.Boost()
	h.writeJSON(w, http.StatusOK, api.BoostResponse{Message: api.MessageBoost, NewScore: score})
}

func decodeBody(r *http.Request, out any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	if err := dec.Decode(out); err != nil {
		return &MalformedRequestError{Reason: "body is not valid JSON"}
	}
	return nil
}

// writeError maps domain errors onto HTTP statuses.
func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	var (
		malformed    *MalformedRequestError
		insufficient *reputation.InsufficientReputationError
	)
	switch {
	case errors.As(err, &insufficient):
		score, threshold := insufficient.Score, insufficient.Threshold
		h.writeJSON(w, http.StatusForbidden, api.ErrorResponse{
			Error:     api.ErrorInsufficientReputation,
			Message:   fmt.Sprintf("Reputation too low (%d/%d)", score, threshold),
			Score:     &score,
			Threshold: &threshold,
		})
	case errors.As(err, &malformed):
		h.writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: api.ErrorMalformedRequest, Message: malformed.Reason})
	case errors.Is(err, intake.ErrInvalidAlert):
		h.writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: api.ErrorMalformedRequest, Message: err.Error()})
	case errors.Is(err, detector.ErrModelUnavailable):
		h.writeJSON(w, http.StatusServiceUnavailable, api.ErrorResponse{Error: api.ErrorModelUnavailable, Message: "AI Engine not ready"})
	default:
		h.logger.Error("request failed", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, api.ErrorResponse{Error: api.ErrorInternal, Message: err.Error()})
	}
}

func (h *HTTPHandler) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("write response", zap.Error(err))
	}
}
