package nn

import (
	"math"

	"fcnet_lib/tensor"
)

// CrossEntropyLoss combines softmax with negative log-likelihood.
type CrossEntropyLoss struct{}

// Forward returns the scalar loss for logits against a one-hot label.
func (c *CrossEntropyLoss) Forward(logits, oneHotLabel *tensor.Tensor) float64 {
	logProbs := LogSoftmax(logits)
	loss := 0.0
	for i, y := range oneHotLabel.Data {
		if y > 0 {
			loss -= y * logProbs.Data[i]
		}
	}
	return loss
}

// Backward computes the gradient of the loss with respect to the logits.
// grad = softmax(logits) - one_hot_label
func (c *CrossEntropyLoss) Backward(logits, oneHotLabel *tensor.Tensor) *tensor.Tensor {
	probs := Softmax(logits)
	grad := tensor.New(len(probs.Data))
	for i := range grad.Data {
		grad.Data[i] = probs.Data[i] - oneHotLabel.Data[i]
	}
	return grad
}

// Softmax applies the softmax function to a tensor.
// The max logit is subtracted first for numeric stability.
func Softmax(logits *tensor.Tensor) *tensor.Tensor {
	maxLogit := logits.Data[0]
	for _, v := range logits.Data {
		if v > maxLogit {
			maxLogit = v
		}
	}
	expSum := 0.0
	exps := make([]float64, len(logits.Data))
	for i, v := range logits.Data {
		e := math.Exp(v - maxLogit)
		exps[i] = e
		expSum += e
	}
	softmax := tensor.New(len(logits.Data))
	for i, e := range exps {
		softmax.Data[i] = e / expSum
	}
	return softmax
}

// LogSoftmax computes log(softmax(logits)) without exponent overflow:
// log_softmax(x_i) = x_i - max - log(sum(exp(x_j - max)))
func LogSoftmax(logits *tensor.Tensor) *tensor.Tensor {
	maxLogit := logits.Data[0]
	for _, v := range logits.Data {
		if v > maxLogit {
			maxLogit = v
		}
	}
	expSum := 0.0
	for _, v := range logits.Data {
		expSum += math.Exp(v - maxLogit)
	}
	logSum := math.Log(expSum)
	out := tensor.New(len(logits.Data))
	for i, v := range logits.Data {
		out.Data[i] = v - maxLogit - logSum
	}
	return out
}

// Argmax returns the index of the largest element.
func Argmax(t *tensor.Tensor) int {
	best := 0
	for i, v := range t.Data {
		if v > t.Data[best] {
			best = i
		}
	}
	return best
}
