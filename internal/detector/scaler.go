package detector

import (
	"encoding/json"
	"fmt"
	"os"
)

const (
	ScalerMinMax   = "minmax"
	ScalerStandard = "standard"
)

// Scaler maps raw features into the range the model was trained on.
// minmax computes x*scale+min; standard computes (x-mean)/scale.
type Scaler struct {
	Kind  string    `json:"kind"`
	Scale []float64 `json:"scale"`
	Min   []float64 `json:"min,omitempty"`
	Mean  []float64 `json:"mean,omitempty"`
}

// LoadScaler reads a JSON scaler artifact.
func LoadScaler(path string) (*Scaler, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read scaler: %v", ErrModelUnavailable, err)
	}
	var s Scaler
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: decode scaler: %v", ErrModelUnavailable, err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scaler) validate() error {
	if len(s.Scale) == 0 {
		return fmt.Errorf("%w: scaler has no scale", ErrModelUnavailable)
	}
	switch s.Kind {
	case ScalerMinMax:
		if len(s.Min) != len(s.Scale) {
			return fmt.Errorf("%w: minmax scaler has %d min values for %d scales", ErrModelUnavailable, len(s.Min), len(s.Scale))
		}
	case ScalerStandard:
		if len(s.Mean) != len(s.Scale) {
			return fmt.Errorf("%w: standard scaler has %d means for %d scales", ErrModelUnavailable, len(s.Mean), len(s.Scale))
		}
		for i, v := range s.Scale {
			if v == 0 {
				return fmt.Errorf("%w: standard scaler has zero scale at %d", ErrModelUnavailable, i)
			}
		}
	default:
		return fmt.Errorf("%w: unknown scaler kind %q", ErrModelUnavailable, s.Kind)
	}
	return nil
}

func (s *Scaler) Width() int {
	return len(s.Scale)
}

// Transform returns a scaled copy of x.
func (s *Scaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Scale) {
		return nil, fmt.Errorf("sample has %d features, scaler expects %d", len(x), len(s.Scale))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		if s.Kind == ScalerStandard {
			out[i] = (v - s.Mean[i]) / s.Scale[i]
		} else {
			out[i] = v*s.Scale[i] + s.Min[i]
		}
	}
	return out, nil
}
