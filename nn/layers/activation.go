package layers

import (
	"fmt"
	"math"

	"fcnet_lib/tensor"
)

// ActivationFunc holds an elementwise function and its derivative.
type ActivationFunc struct {
	Name string
	F    func(float64) float64
	// DF is the derivative expressed in terms of the pre-activation input.
	DF func(float64) float64
}

// SupportedActivations maps names accepted by NewActivation.
var SupportedActivations = map[string]ActivationFunc{
	"relu": {
		Name: "relu",
		F: func(x float64) float64 {
			if x > 0 {
				return x
			}
			return 0
		},
		DF: func(x float64) float64 {
			if x > 0 {
				return 1
			}
			return 0
		},
	},
	"sigmoid": {
		Name: "sigmoid",
		F:    func(x float64) float64 { return 1.0 / (1.0 + math.Exp(-x)) },
		DF: func(x float64) float64 {
			s := 1.0 / (1.0 + math.Exp(-x))
			return s * (1 - s)
		},
	},
	"tanh": {
		Name: "tanh",
		F:    math.Tanh,
		DF: func(x float64) float64 {
			t := math.Tanh(x)
			return 1 - t*t
		},
	},
}

// Activation applies a named elementwise function.
type Activation struct {
	fn        ActivationFunc
	lastInput *tensor.Tensor
}

// NewActivation creates an activation layer by name (relu, sigmoid, tanh).
func NewActivation(name string) (*Activation, error) {
	fn, ok := SupportedActivations[name]
	if !ok {
		return nil, fmt.Errorf("unsupported activation: %s", name)
	}
	return &Activation{fn: fn}, nil
}

// Name returns the activation's registered name.
func (a *Activation) Name() string { return a.fn.Name }

// Forward applies the function elementwise and caches the input.
func (a *Activation) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	a.lastInput = x.Clone()
	out := tensor.New(x.Shape...)
	for i, v := range x.Data {
		out.Data[i] = a.fn.F(v)
	}
	return out, nil
}

// Backward multiplies gradOut elementwise by the derivative at the cached input.
func (a *Activation) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	if a.lastInput == nil {
		return nil, fmt.Errorf("activation: no cached input for backward pass")
	}
	if gradOut.NumElems() != a.lastInput.NumElems() {
		return nil, fmt.Errorf("activation: gradOut has %d elements, want %d",
			gradOut.NumElems(), a.lastInput.NumElems())
	}
	out := tensor.New(a.lastInput.Shape...)
	for i := range out.Data {
		out.Data[i] = gradOut.Data[i] * a.fn.DF(a.lastInput.Data[i])
	}
	return out, nil
}

// Update is a no-op: activations have no parameters.
func (a *Activation) Update(float64) error { return nil }
