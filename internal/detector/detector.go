package detector

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// Detector flags a sample as anomalous when its reconstruction error is
// strictly above the threshold.
type Detector struct {
	model     *Autoencoder
	threshold float64
}

func NewDetector(model *Autoencoder, threshold float64) *Detector {
	return &Detector{model: model, threshold: threshold}
}

// Load builds a detector from a model artifact and a threshold artifact.
func Load(modelPath, thresholdPath string) (*Detector, error) {
	model, err := LoadAutoencoder(modelPath)
	if err != nil {
		return nil, err
	}
	threshold, err := LoadThreshold(thresholdPath)
	if err != nil {
		return nil, err
	}
	return NewDetector(model, threshold), nil
}

func (d *Detector) Threshold() float64 {
	return d.threshold
}

// Predict returns the verdict and the mean squared reconstruction error.
func (d *Detector) Predict(sample []float64) (bool, float64, error) {
	reconstructed, err := d.model.Reconstruct(sample)
	if err != nil {
		return false, 0, err
	}
	var sum float64
	for i, v := range sample {
		diff := reconstructed[i] - v
		sum += diff * diff
	}
	mse := sum / float64(len(sample))
	return mse > d.threshold, mse, nil
}

// LoadThreshold reads a threshold artifact: either a bare number or a JSON
// array whose first element is the threshold.
func LoadThreshold(path string) (float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: read threshold: %v", ErrModelUnavailable, err)
	}
	return ParseThreshold(string(raw))
}

func ParseThreshold(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	var threshold float64
	if strings.HasPrefix(raw, "[") {
		var values []float64
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			return 0, fmt.Errorf("%w: decode threshold: %v", ErrModelUnavailable, err)
		}
		if len(values) == 0 {
			return 0, fmt.Errorf("%w: threshold array is empty", ErrModelUnavailable)
		}
		threshold = values[0]
	} else {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: parse threshold: %v", ErrModelUnavailable, err)
		}
		threshold = v
	}
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) || threshold < 0 {
		return 0, fmt.Errorf("%w: threshold %v out of range", ErrModelUnavailable, threshold)
	}
	return threshold, nil
}
