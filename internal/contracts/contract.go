// Package contracts evaluates alerts against a catalog of automated response
// rules and keeps the resulting enforcement state.
package contracts

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Action is the response a contract triggers.
type Action string

const (
	ActionBlockIP     Action = "BLOCK_IP"
	ActionRateLimit   Action = "RATE_LIMIT"
	ActionIsolateNode Action = "ISOLATE_NODE"
	ActionNotifyAdmin Action = "NOTIFY_ADMIN"
	ActionQuarantine  Action = "QUARANTINE"

	// AnyAlertType matches every alert type.
	AnyAlertType = "*"
)

// ErrInvalidCatalog is returned for catalogs that cannot be evaluated.
var ErrInvalidCatalog = errors.New("invalid contract catalog")

func (a Action) valid() bool {
	switch a {
	case ActionBlockIP, ActionRateLimit, ActionIsolateNode, ActionNotifyAdmin, ActionQuarantine:
		return true
	}
	return false
}

// Contract fires Action for alerts of AlertType whose confidence reaches
// MinConfidence, at most once per Cooldown for the same source.
type Contract struct {
	ID            string        `yaml:"id"`
	Name          string        `yaml:"name"`
	AlertType     string        `yaml:"alert_type"`
	MinConfidence float64       `yaml:"min_confidence"`
	Action        Action        `yaml:"action"`
	Cooldown      time.Duration `yaml:"cooldown"`
}

func (c Contract) matches(alertType string, confidence float64) bool {
	if c.AlertType != AnyAlertType && c.AlertType != alertType {
		return false
	}
	return confidence >= c.MinConfidence
}

// Info is the public view of a contract.
type Info struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	AlertType       string  `json:"alert_type"`
	MinConfidence   float64 `json:"min_confidence"`
	Action          Action  `json:"action"`
	CooldownSeconds float64 `json:"cooldown_seconds"`
	Executions      int     `json:"executions"`
}

// DefaultCatalog is used when no catalog file is configured.
func DefaultCatalog() []Contract {
	return []Contract{
		{ID: "SC-001", Name: "Anomaly source block", AlertType: "AI_ANOMALY_DETECTED", MinConfidence: 0.5, Action: ActionBlockIP, Cooldown: 5 * time.Minute},
		{ID: "SC-002", Name: "Anomaly rate limit", AlertType: "AI_ANOMALY_DETECTED", MinConfidence: 0.1, Action: ActionRateLimit, Cooldown: time.Minute},
		{ID: "SC-003", Name: "Severe anomaly quarantine", AlertType: "AI_ANOMALY_DETECTED", MinConfidence: 0.9, Action: ActionQuarantine, Cooldown: 10 * time.Minute},
		{ID: "SC-004", Name: "Node isolation", AlertType: AnyAlertType, MinConfidence: 0.99, Action: ActionIsolateNode, Cooldown: 15 * time.Minute},
		{ID: "SC-005", Name: "Administrator notification", AlertType: AnyAlertType, MinConfidence: 0, Action: ActionNotifyAdmin, Cooldown: 30 * time.Second},
	}
}

type catalogFile struct {
	Contracts []Contract `yaml:"contracts"`
}

// LoadCatalog reads a YAML catalog from path.
func LoadCatalog(path string) ([]Contract, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open contract catalog: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return DecodeCatalog(f)
}

// DecodeCatalog parses a YAML catalog of the form
//
//	contracts:
//	  - id: SC-001
//	    name: Anomaly source block
//	    alert_type: AI_ANOMALY_DETECTED
//	    min_confidence: 0.5
//	    action: BLOCK_IP
//	    cooldown: 5m
func DecodeCatalog(r io.Reader) ([]Contract, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file catalogFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidCatalog, err)
	}
	if err := validateCatalog(file.Contracts); err != nil {
		return nil, err
	}
	return file.Contracts, nil
}

func validateCatalog(catalog []Contract) error {
	if len(catalog) == 0 {
		return fmt.Errorf("%w: no contracts", ErrInvalidCatalog)
	}
	seen := make(map[string]struct{}, len(catalog))
	for i, c := range catalog {
		if c.ID == "" {
			return fmt.Errorf("%w: contract %d has no id", ErrInvalidCatalog, i)
		}
		if _, ok := seen[c.ID]; ok {
			return fmt.Errorf("%w: duplicate contract id %s", ErrInvalidCatalog, c.ID)
		}
		seen[c.ID] = struct{}{}
		if c.AlertType == "" {
			return fmt.Errorf("%w: contract %s has no alert_type", ErrInvalidCatalog, c.ID)
		}
		if !c.Action.valid() {
			return fmt.Errorf("%w: contract %s has unknown action %q", ErrInvalidCatalog, c.ID, c.Action)
		}
		if c.MinConfidence < 0 || c.Cooldown < 0 {
			return fmt.Errorf("%w: contract %s has negative threshold or cooldown", ErrInvalidCatalog, c.ID)
		}
	}
	return nil
}
