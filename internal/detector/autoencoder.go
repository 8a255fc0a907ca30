// Package detector scores traffic feature vectors with a dense autoencoder
// and flags those it reconstructs poorly.
package detector

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"
)

// ErrModelUnavailable is returned when the detection artifacts are missing,
// unreadable or inconsistent.
var ErrModelUnavailable = errors.New("model unavailable")

// Layer is one dense layer as exported from training: Weights is
// out x in, so the layer computes act(W*x + b).
type Layer struct {
	Weights    [][]float64 `json:"weights"`
	Bias       []float64   `json:"bias"`
	Activation string      `json:"activation"`
}

type modelFile struct {
	Layers []Layer `json:"layers"`
}

type denseLayer struct {
	weights    *mat.Dense
	bias       *mat.VecDense
	activation func(float64) float64
}

// Autoencoder is a feed-forward network whose output has the input's width.
type Autoencoder struct {
	inputDim int
	layers   []denseLayer
}

// LoadAutoencoder reads a JSON model artifact.
func LoadAutoencoder(path string) (*Autoencoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open model: %v", ErrModelUnavailable, err)
	}
	defer func() {
		_ = f.Close()
	}()
	return DecodeAutoencoder(f)
}

// DecodeAutoencoder parses a JSON model artifact of the form
// {"layers": [{"weights": [[...]], "bias": [...], "activation": "tanh"}]}.
func DecodeAutoencoder(r io.Reader) (*Autoencoder, error) {
	var file modelFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: decode model: %v", ErrModelUnavailable, err)
	}
	return NewAutoencoder(file.Layers)
}

// NewAutoencoder checks that layer shapes chain together and that the last
// layer maps back to the input width.
func NewAutoencoder(layers []Layer) (*Autoencoder, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("%w: model has no layers", ErrModelUnavailable)
	}

	var (
		inputDim int
		prevOut  int
		built    = make([]denseLayer, 0, len(layers))
	)
	for i, l := range layers {
		rows := len(l.Weights)
		if rows == 0 || len(l.Weights[0]) == 0 {
			return nil, fmt.Errorf("%w: layer %d has empty weights", ErrModelUnavailable, i)
		}
		cols := len(l.Weights[0])
		if i == 0 {
			inputDim = cols
		} else if cols != prevOut {
			return nil, fmt.Errorf("%w: layer %d expects %d inputs, previous layer yields %d", ErrModelUnavailable, i, cols, prevOut)
		}
		if len(l.Bias) != rows {
			return nil, fmt.Errorf("%w: layer %d bias has %d entries, want %d", ErrModelUnavailable, i, len(l.Bias), rows)
		}
		act, err := activation(l.Activation)
		if err != nil {
			return nil, fmt.Errorf("%w: layer %d: %v", ErrModelUnavailable, i, err)
		}

		flat := make([]float64, 0, rows*cols)
		for r, row := range l.Weights {
			if len(row) != cols {
				return nil, fmt.Errorf("%w: layer %d row %d has %d weights, want %d", ErrModelUnavailable, i, r, len(row), cols)
			}
			flat = append(flat, row...)
		}
		bias := make([]float64, rows)
		copy(bias, l.Bias)

		built = append(built, denseLayer{
			weights:    mat.NewDense(rows, cols, flat),
			bias:       mat.NewVecDense(rows, bias),
			activation: act,
		})
		prevOut = rows
	}
	if prevOut != inputDim {
		return nil, fmt.Errorf("%w: output width %d differs from input width %d", ErrModelUnavailable, prevOut, inputDim)
	}

	return &Autoencoder{inputDim: inputDim, layers: built}, nil
}

func (a *Autoencoder) InputDim() int {
	return a.inputDim
}

// Reconstruct runs the forward pass.
func (a *Autoencoder) Reconstruct(x []float64) ([]float64, error) {
	if len(x) != a.inputDim {
		return nil, fmt.Errorf("sample has %d features, model expects %d", len(x), a.inputDim)
	}

	in := make([]float64, len(x))
	copy(in, x)
	v := mat.NewVecDense(len(in), in)
	for _, l := range a.layers {
		rows, _ := l.weights.Dims()
		out := mat.NewVecDense(rows, nil)
		out.MulVec(l.weights, v)
		out.AddVec(out, l.bias)
		for i := 0; i < rows; i++ {
			out.SetVec(i, l.activation(out.AtVec(i)))
		}
		v = out
	}
	return mat.Col(nil, 0, v), nil
}

func activation(name string) (func(float64) float64, error) {
	switch name {
	case "tanh":
		return math.Tanh, nil
	case "sigmoid":
		return func(x float64) float64 { return 1 / (1 + math.Exp(-x)) }, nil
	case "relu":
		return func(x float64) float64 { return math.Max(0, x) }, nil
	case "linear", "":
		return func(x float64) float64 { return x }, nil
	default:
		return nil, fmt.Errorf("unknown activation %q", name)
	}
}
