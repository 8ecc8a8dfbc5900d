package nn

import (
	"fmt"

	"fcnet_lib/nn/layers"

	exprand "golang.org/x/exp/rand"
)

// MLP is a fully-connected classifier plus the architecture metadata
// (input width, class count, ordered hidden widths) needed to rebuild an
// identical network later.
type MLP struct {
	Sequential

	InputDim   int
	OutputDim  int
	HiddenDims []int
	Activation string
}

// NewMLP builds input→hidden…→output Linear layers with the named
// activation between them. The final layer emits raw logits.
// Weights start at zero; call InitWeights before training.
func NewMLP(inputDim, outputDim int, hiddenDims []int, activation string) (*MLP, error) {
	if inputDim <= 0 {
		return nil, fmt.Errorf("input dim must be positive, got %d", inputDim)
	}
	if outputDim <= 0 {
		return nil, fmt.Errorf("output dim must be positive, got %d", outputDim)
	}
	for i, h := range hiddenDims {
		if h <= 0 {
			return nil, fmt.Errorf("hidden dim %d must be positive, got %d", i, h)
		}
	}

	m := &MLP{
		InputDim:   inputDim,
		OutputDim:  outputDim,
		HiddenDims: append([]int(nil), hiddenDims...),
		Activation: activation,
	}

	prev := inputDim
	for _, h := range hiddenDims {
		m.Layers = append(m.Layers, layers.NewLinear(prev, h))
		act, err := layers.NewActivation(activation)
		if err != nil {
			return nil, err
		}
		m.Layers = append(m.Layers, act)
		prev = h
	}
	m.Layers = append(m.Layers, layers.NewLinear(prev, outputDim))
	return m, nil
}

// InitWeights Glorot-initializes every linear layer from the given seed.
func (m *MLP) InitWeights(seed uint64) {
	src := exprand.NewSource(seed)
	for _, lin := range m.Linears() {
		lin.InitGlorot(src)
	}
}

// Linears returns the model's linear layers in forward order.
func (m *MLP) Linears() []*layers.Linear {
	var lins []*layers.Linear
	for _, layer := range m.Layers {
		if lin, ok := layer.(*layers.Linear); ok {
			lins = append(lins, lin)
		}
	}
	return lins
}

// Dims returns the full width sequence: input, hidden…, output.
func (m *MLP) Dims() []int {
	dims := make([]int, 0, len(m.HiddenDims)+2)
	dims = append(dims, m.InputDim)
	dims = append(dims, m.HiddenDims...)
	return append(dims, m.OutputDim)
}
