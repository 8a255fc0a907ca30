package contracts

import (
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

const recentExecutionsLimit = 50

// Execution is one contract firing.
type Execution struct {
	ContractID string  `json:"contract_id"`
	Action     Action  `json:"action"`
	AlertType  string  `json:"alert_type"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
	Timestamp  float64 `json:"timestamp"`
}

// Status summarises enforcement state.
type Status struct {
	ActiveContracts    int            `json:"active_contracts"`
	TotalExecutions    int            `json:"total_executions"`
	ExecutionsByAction map[Action]int `json:"executions_by_action"`
	BlockedSources     []string       `json:"blocked_sources"`
	RateLimitedSources []string       `json:"rate_limited_sources"`
	QuarantinedSources []string       `json:"quarantined_sources"`
	NodeIsolated       bool           `json:"node_isolated"`
	RecentExecutions   []Execution    `json:"recent_executions"`
}

type cooldownKey struct {
	contractID string
	source     string
}

// Engine evaluates alerts against the catalog. It is safe for concurrent use.
type Engine struct {
	logger  *zap.Logger
	metrics Metrics
	now     func() time.Time

	mu          sync.Mutex
	catalog     []Contract
	lastFired   map[cooldownKey]time.Time
	perContract map[string]int
	byAction    map[Action]int
	total       int
	blocked     map[string]struct{}
	rateLimited map[string]struct{}
	quarantined map[string]struct{}
	isolated    bool
	recent      []Execution
}

// NewEngine validates catalog and builds an engine over it.
func NewEngine(catalog []Contract, metrics Metrics, logger *zap.Logger) (*Engine, error) {
	if err := validateCatalog(catalog); err != nil {
		return nil, err
	}
	if metrics == nil {
		return nil, errors.New("contract metrics is required")
	}
	owned := make([]Contract, len(catalog))
	copy(owned, catalog)

	return &Engine{
		logger:      logger,
		metrics:     metrics,
		now:         time.Now,
		catalog:     owned,
		lastFired:   make(map[cooldownKey]time.Time),
		perContract: make(map[string]int),
		byAction:    make(map[Action]int),
		blocked:     make(map[string]struct{}),
		rateLimited: make(map[string]struct{}),
		quarantined: make(map[string]struct{}),
	}, nil
}

// Evaluate fires every matching contract that is not cooling down for source
// and returns the executions in catalog order.
func (e *Engine) Evaluate(alertType string, confidence float64, source string) []Execution {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	var executed []Execution
	for _, c := range e.catalog {
		if !c.matches(alertType, confidence) {
			continue
		}
		key := cooldownKey{contractID: c.ID, source: source}
		if last, ok := e.lastFired[key]; ok && now.Sub(last) < c.Cooldown {
			continue
		}
		e.lastFired[key] = now

		exec := Execution{
			ContractID: c.ID,
			Action:     c.Action,
			AlertType:  alertType,
			Confidence: confidence,
			Source:     source,
			Timestamp:  float64(now.UnixNano()) / float64(time.Second),
		}
		e.applyLocked(exec)
		executed = append(executed, exec)
	}
	return executed
}

func (e *Engine) applyLocked(exec Execution) {
	switch exec.Action {
	case ActionBlockIP:
		e.blocked[exec.Source] = struct{}{}
	case ActionRateLimit:
		e.rateLimited[exec.Source] = struct{}{}
	case ActionQuarantine:
		e.quarantined[exec.Source] = struct{}{}
	case ActionIsolateNode:
		e.isolated = true
	case ActionNotifyAdmin:
	}

	e.total++
	e.byAction[exec.Action]++
	e.perContract[exec.ContractID]++
	e.recent = append(e.recent, exec)
	if len(e.recent) > recentExecutionsLimit {
		e.recent = e.recent[len(e.recent)-recentExecutionsLimit:]
	}
	e.metrics.ObserveExecution(string(exec.Action))
	e.logger.Info("contract executed",
		zap.String("contract", exec.ContractID),
		zap.String("action", string(exec.Action)),
		zap.String("alert_type", exec.AlertType),
		zap.Float64("confidence", exec.Confidence),
		zap.String("source", exec.Source),
	)
}

// Contracts lists the catalog with per-contract execution counts.
func (e *Engine) Contracts() []Info {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Info, 0, len(e.catalog))
	for _, c := range e.catalog {
		out = append(out, Info{
			ID:              c.ID,
			Name:            c.Name,
			AlertType:       c.AlertType,
			MinConfidence:   c.MinConfidence,
			Action:          c.Action,
			CooldownSeconds: c.Cooldown.Seconds(),
			Executions:      e.perContract[c.ID],
		})
	}
	return out
}

// Status returns a snapshot of the enforcement state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	byAction := make(map[Action]int, len(e.byAction))
	for k, v := range e.byAction {
		byAction[k] = v
	}
	recent := make([]Execution, len(e.recent))
	copy(recent, e.recent)

	return Status{
		ActiveContracts:    len(e.catalog),
		TotalExecutions:    e.total,
		ExecutionsByAction: byAction,
		BlockedSources:     sortedKeys(e.blocked),
		RateLimitedSources: sortedKeys(e.rateLimited),
		QuarantinedSources: sortedKeys(e.quarantined),
		NodeIsolated:       e.isolated,
		RecentExecutions:   recent,
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
