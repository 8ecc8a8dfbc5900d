package trainer

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"fcnet_lib/checkpoint"
	"fcnet_lib/dataset"
	"fcnet_lib/nn"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSetup(t *testing.T) (*Trainer, *dataset.Dataset, *rand.Rand) {
	t.Helper()
	model, err := nn.NewMLP(4, 2, []int{8}, "relu")
	require.NoError(t, err)
	model.InitWeights(42)

	rng := rand.New(rand.NewSource(42))
	ds := dataset.Synthetic(4, 2, 200, rng)
	return New(model, 0.05), ds, rng
}

func TestFitDecreasesLoss(t *testing.T) {
	tr, ds, rng := newSetup(t)
	results, err := tr.Fit(ds, 10, rng)
	require.NoError(t, err)
	require.Len(t, results, 10)

	first, last := results[0].AvgLoss, results[len(results)-1].AvgLoss
	assert.Less(t, last, first, "loss should decrease over training")

	_, acc, err := tr.Evaluate(ds)
	require.NoError(t, err)
	assert.Greater(t, acc, 0.9, "separable blobs should be learned")
}

func TestFitEmptyDataset(t *testing.T) {
	tr, _, rng := newSetup(t)
	_, err := tr.Fit(&dataset.Dataset{InputDim: 4, NumClasses: 2}, 1, rng)
	assert.Error(t, err)
}

func TestFitStepCountAndCallback(t *testing.T) {
	tr, ds, rng := newSetup(t)
	var calls int
	var lastTotal int
	tr.OnStep = func(step, total int) {
		calls++
		lastTotal = total
	}
	_, err := tr.Fit(ds, 2, rng)
	require.NoError(t, err)
	assert.Equal(t, 2*ds.Len(), tr.Step())
	assert.Equal(t, 2*ds.Len(), calls)
	assert.Equal(t, 2*ds.Len(), lastTotal)
}

func TestPeriodicCheckpointing(t *testing.T) {
	tr, ds, rng := newSetup(t)
	path := filepath.Join(t.TempDir(), "ck.json")
	tr.CheckpointPath = path
	tr.CheckpointEvery = 50

	_, err := tr.Fit(ds, 1, rng)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err, "periodic checkpoint should exist")

	ck, err := checkpoint.Load(path)
	require.NoError(t, err)
	assert.Equal(t, tr.Model.InputDim, ck.InputDim)
	assert.Equal(t, tr.Model.HiddenDims, ck.HiddenDims)
}

func TestEvaluateUntrainedModelIsChance(t *testing.T) {
	model, err := nn.NewMLP(4, 2, []int{8}, "relu")
	require.NoError(t, err)
	model.InitWeights(1)
	tr := New(model, 0.05)

	rng := rand.New(rand.NewSource(9))
	ds := dataset.Synthetic(4, 2, 100, rng)
	loss, acc, err := tr.Evaluate(ds)
	require.NoError(t, err)
	assert.Greater(t, loss, 0.0)
	assert.GreaterOrEqual(t, acc, 0.0)
	assert.LessOrEqual(t, acc, 1.0)
}

func TestTrainStepReturnsLoss(t *testing.T) {
	tr, ds, _ := newSetup(t)
	loss, err := tr.TrainStep(ds.Samples[0])
	require.NoError(t, err)
	assert.Greater(t, loss, 0.0)
}
