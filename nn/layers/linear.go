package layers

import (
	"fmt"
	"math"

	"fcnet_lib/tensor"

	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Linear is a fully-connected layer computing y = Wx + b.
type Linear struct {
	// W has shape (outDim, inDim), B has shape (outDim).
	W, B *tensor.Tensor

	lastInput *tensor.Tensor
	gradW     *tensor.Tensor
	gradB     *tensor.Tensor
}

// NewLinear allocates a zero-initialized inDim→outDim layer.
func NewLinear(inDim, outDim int) *Linear {
	return &Linear{
		W: tensor.New(outDim, inDim),
		B: tensor.New(outDim),
	}
}

// InDim returns the layer's input width.
func (l *Linear) InDim() int { return l.W.Shape[1] }

// OutDim returns the layer's output width.
func (l *Linear) OutDim() int { return l.W.Shape[0] }

// InitGlorot fills W with Glorot-normal samples and zeroes B.
// Pass a seeded source for reproducible initialization.
func (l *Linear) InitGlorot(src exprand.Source) {
	inDim, outDim := l.InDim(), l.OutDim()
	dist := distuv.Normal{
		Mu:    0,
		Sigma: math.Sqrt(2.0 / float64(inDim+outDim)),
		Src:   src,
	}
	for i := range l.W.Data {
		l.W.Data[i] = dist.Rand()
	}
	for i := range l.B.Data {
		l.B.Data[i] = 0
	}
}

// Forward computes y = Wx + B and caches x for the backward pass.
// x may be 1-D (inDim) or 2-D (inDim, batchSize).
func (l *Linear) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	l.lastInput = x.Clone()
	if len(x.Shape) == 1 {
		// treat a vector as a single-column matrix
		x = &tensor.Tensor{Data: x.Data, Shape: []int{x.Shape[0], 1}}
	}
	if len(x.Shape) != 2 {
		return nil, fmt.Errorf("linear: expected 1-D or 2-D input, got shape %v", x.Shape)
	}
	if x.Shape[0] != l.InDim() {
		return nil, fmt.Errorf("linear: input dim %d does not match layer input dim %d", x.Shape[0], l.InDim())
	}
	wx, err := tensor.MatMul(l.W, x)
	if err != nil {
		return nil, err
	}
	// broadcast bias across the batch
	outDim, batch := wx.Shape[0], wx.Shape[1]
	for j := 0; j < outDim; j++ {
		for b := 0; b < batch; b++ {
			wx.Data[j*batch+b] += l.B.Data[j]
		}
	}
	if batch == 1 {
		return &tensor.Tensor{Data: wx.Data, Shape: []int{outDim}}, nil
	}
	return wx, nil
}

// Backward computes dL/dW, dL/dB (cached for Update) and returns dL/dx.
// gradOut must match the shape produced by the preceding Forward call.
func (l *Linear) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	if l.lastInput == nil {
		return nil, fmt.Errorf("linear: no cached input for backward pass")
	}
	inDim, outDim := l.InDim(), l.OutDim()

	input := l.lastInput
	batch := 1
	if len(input.Shape) == 2 {
		batch = input.Shape[1]
	}
	if gradOut.NumElems() != outDim*batch {
		return nil, fmt.Errorf("linear: gradOut has %d elements, want %d", gradOut.NumElems(), outDim*batch)
	}

	gradW := tensor.New(outDim, inDim)
	gradB := tensor.New(outDim)
	gradIn := tensor.New(inDim, batch)

	// dL/dW = gradOut · x^T, dL/dB = gradOut, averaged over the batch
	for b := 0; b < batch; b++ {
		for j := 0; j < outDim; j++ {
			g := gradOut.Data[j*batch+b]
			gradB.Data[j] += g
			for i := 0; i < inDim; i++ {
				gradW.Data[j*inDim+i] += g * input.Data[i*batch+b]
			}
		}
	}
	if batch > 1 {
		for i := range gradW.Data {
			gradW.Data[i] /= float64(batch)
		}
		for i := range gradB.Data {
			gradB.Data[i] /= float64(batch)
		}
	}

	// dL/dx = W^T · gradOut
	for b := 0; b < batch; b++ {
		for i := 0; i < inDim; i++ {
			val := 0.0
			for j := 0; j < outDim; j++ {
				val += l.W.Data[j*inDim+i] * gradOut.Data[j*batch+b]
			}
			gradIn.Data[i*batch+b] = val
		}
	}

	l.gradW = gradW
	l.gradB = gradB

	if batch == 1 {
		return &tensor.Tensor{Data: gradIn.Data, Shape: []int{inDim}}, nil
	}
	return gradIn, nil
}

// Update applies one SGD step using the gradients from the last Backward.
func (l *Linear) Update(learningRate float64) error {
	if l.gradW == nil || l.gradB == nil {
		return fmt.Errorf("linear: no gradients to update")
	}
	for i := range l.W.Data {
		l.W.Data[i] -= learningRate * l.gradW.Data[i]
	}
	for i := range l.B.Data {
		l.B.Data[i] -= learningRate * l.gradB.Data[i]
	}
	return nil
}

func (l *Linear) Tag() string {
	return fmt.Sprintf("Linear_%d_%d", l.InDim(), l.OutDim())
}
