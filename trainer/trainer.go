// Package trainer runs gradient-descent training of an MLP classifier:
// forward pass, softmax cross-entropy loss, backpropagation, weight update.
package trainer

import (
	"math/rand"
	"time"

	"fcnet_lib/checkpoint"
	"fcnet_lib/dataset"
	"fcnet_lib/nn"
	"fcnet_lib/utils"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Trainer holds the model and training configuration.
type Trainer struct {
	Model        *nn.MLP
	Loss         *nn.CrossEntropyLoss
	LearningRate float64
	Stats        *utils.TimingStats

	// CheckpointPath + CheckpointEvery > 0 enables periodic snapshots
	// every N training steps, overwriting the same destination.
	CheckpointPath  string
	CheckpointEvery int

	// OnStep, if set, is called after every training step with the
	// 1-based step index and the total step count.
	OnStep func(step, total int)

	step int
}

// New creates a Trainer for the given model and learning rate.
func New(model *nn.MLP, learningRate float64) *Trainer {
	return &Trainer{
		Model:        model,
		Loss:         &nn.CrossEntropyLoss{},
		LearningRate: learningRate,
		Stats:        &utils.TimingStats{},
	}
}

// Step returns the number of training steps completed so far.
func (t *Trainer) Step() int { return t.step }

// TrainStep runs one sample through forward, loss, backward, and update,
// returning the sample's loss.
func (t *Trainer) TrainStep(s dataset.Sample) (float64, error) {
	start := time.Now()
	logits, err := t.Model.Forward(s.Input)
	if err != nil {
		return 0, errors.Wrap(err, "forward pass failed")
	}
	t.Stats.ForwardPassTime += time.Since(start)

	start = time.Now()
	loss := t.Loss.Forward(logits, s.Target)
	grad := t.Loss.Backward(logits, s.Target)
	t.Stats.LossComputationTime += time.Since(start)

	start = time.Now()
	if _, err := t.Model.Backward(grad); err != nil {
		return 0, errors.Wrap(err, "backward pass failed")
	}
	t.Stats.BackwardPassTime += time.Since(start)

	start = time.Now()
	if err := t.Model.Update(t.LearningRate); err != nil {
		return 0, errors.Wrap(err, "weight update failed")
	}
	t.Stats.UpdateTime += time.Since(start)

	return loss, nil
}

// EpochResult summarizes one training epoch.
type EpochResult struct {
	Epoch   int
	AvgLoss float64
	Elapsed time.Duration
}

// Fit trains for the given number of epochs, shuffling the dataset before
// each one, and returns per-epoch average losses.
func (t *Trainer) Fit(ds *dataset.Dataset, epochs int, rng *rand.Rand) ([]EpochResult, error) {
	if ds.Len() == 0 {
		return nil, errors.New("cannot train on an empty dataset")
	}
	total := epochs * ds.Len()
	results := make([]EpochResult, 0, epochs)
	totalStart := time.Now()

	for epoch := 0; epoch < epochs; epoch++ {
		epochStart := time.Now()
		ds.Shuffle(rng)

		epochLoss := 0.0
		for i := range ds.Samples {
			loss, err := t.TrainStep(ds.Samples[i])
			if err != nil {
				return results, errors.Wrapf(err, "step %d", t.step+1)
			}
			epochLoss += loss
			t.step++

			if t.OnStep != nil {
				t.OnStep(t.step, total)
			}
			if t.CheckpointEvery > 0 && t.CheckpointPath != "" && t.step%t.CheckpointEvery == 0 {
				ckStart := time.Now()
				if err := checkpoint.Save(t.CheckpointPath, checkpoint.Snapshot(t.Model)); err != nil {
					return results, errors.Wrapf(err, "periodic checkpoint at step %d", t.step)
				}
				t.Stats.CheckpointTime += time.Since(ckStart)
			}
		}

		res := EpochResult{
			Epoch:   epoch + 1,
			AvgLoss: epochLoss / float64(ds.Len()),
			Elapsed: time.Since(epochStart),
		}
		results = append(results, res)
		klog.V(1).Infof("epoch %d/%d: avg loss %.6f (%.2fs)",
			res.Epoch, epochs, res.AvgLoss, res.Elapsed.Seconds())
	}

	t.Stats.TotalTime += time.Since(totalStart)
	return results, nil
}

// Evaluate computes average loss and accuracy over a dataset without
// touching the model's weights.
func (t *Trainer) Evaluate(ds *dataset.Dataset) (avgLoss, accuracy float64, err error) {
	if ds.Len() == 0 {
		return 0, 0, errors.New("cannot evaluate on an empty dataset")
	}
	start := time.Now()
	defer func() { t.Stats.EvaluationTime += time.Since(start) }()

	correct := 0
	totalLoss := 0.0
	for i := range ds.Samples {
		s := ds.Samples[i]
		logits, err := t.Model.Forward(s.Input)
		if err != nil {
			return 0, 0, errors.Wrapf(err, "evaluating sample %d", i)
		}
		totalLoss += t.Loss.Forward(logits, s.Target)
		if nn.Argmax(logits) == s.Label {
			correct++
		}
	}
	n := float64(ds.Len())
	return totalLoss / n, float64(correct) / n, nil
}
