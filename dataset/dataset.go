// Package dataset loads and generates labeled samples for classifier training.
package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"

	"fcnet_lib/tensor"

	"gonum.org/v1/gonum/stat"
)

// Sample is one labeled training example. Target is a one-hot vector.
type Sample struct {
	Input  *tensor.Tensor
	Target *tensor.Tensor
	Label  int
}

// Dataset is an ordered collection of samples sharing dimensions.
type Dataset struct {
	Samples    []Sample
	InputDim   int
	NumClasses int
}

// LoadCSV reads label-first CSV rows: the first value of each row is the
// class index, the rest are the inputDim feature values. Feature values are
// scaled by 1/scale when scale > 0 (e.g. 255 for 8-bit pixel data).
func LoadCSV(filename string, inputDim, numClasses int, scale float64) (*Dataset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %q: %w", filename, err)
	}
	defer file.Close()

	ds := &Dataset{InputDim: inputDim, NumClasses: numClasses}
	r := csv.NewReader(bufio.NewReader(file))
	row := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", row, err)
		}
		if len(record) != inputDim+1 {
			return nil, fmt.Errorf("row %d has %d fields, want %d", row, len(record), inputDim+1)
		}

		label, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("row %d has non-integer label %q: %w", row, record[0], err)
		}
		if label < 0 || label >= numClasses {
			return nil, fmt.Errorf("row %d label %d out of range [0, %d)", row, label, numClasses)
		}

		input := tensor.New(inputDim)
		for i := range input.Data {
			x, err := strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d field %d: %w", row, i+1, err)
			}
			if scale > 0 {
				x /= scale
			}
			input.Data[i] = x
		}

		target := tensor.New(numClasses)
		target.Data[label] = 1.0
		ds.Samples = append(ds.Samples, Sample{Input: input, Target: target, Label: label})
		row++
	}
	return ds, nil
}

// Synthetic draws n samples from per-class Gaussian blobs: class c has mean
// 2c/(numClasses-1)-1 replicated across features, unit variance. The classes
// are linearly separable enough for training smoke tests.
func Synthetic(inputDim, numClasses, n int, rng *rand.Rand) *Dataset {
	ds := &Dataset{InputDim: inputDim, NumClasses: numClasses}
	for i := 0; i < n; i++ {
		label := rng.Intn(numClasses)
		mean := 0.0
		if numClasses > 1 {
			mean = 2*float64(label)/float64(numClasses-1) - 1
		}
		input := tensor.New(inputDim)
		for j := range input.Data {
			input.Data[j] = rng.NormFloat64()*0.25 + mean
		}
		target := tensor.New(numClasses)
		target.Data[label] = 1.0
		ds.Samples = append(ds.Samples, Sample{Input: input, Target: target, Label: label})
	}
	return ds
}

// Normalize standardizes every feature to zero mean and unit variance,
// computed across the dataset. Constant features are left centered only.
func (ds *Dataset) Normalize() {
	if len(ds.Samples) == 0 {
		return
	}
	col := make([]float64, len(ds.Samples))
	for j := 0; j < ds.InputDim; j++ {
		for i, s := range ds.Samples {
			col[i] = s.Input.Data[j]
		}
		mean, std := stat.MeanStdDev(col, nil)
		for _, s := range ds.Samples {
			s.Input.Data[j] -= mean
			if std > 0 {
				s.Input.Data[j] /= std
			}
		}
	}
}

// Shuffle permutes the samples in place.
func (ds *Dataset) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(ds.Samples), func(i, j int) {
		ds.Samples[i], ds.Samples[j] = ds.Samples[j], ds.Samples[i]
	})
}

// Split partitions the dataset into train/test parts, with frac of the
// samples (rounded down) going to train. Samples are shared, not copied.
func (ds *Dataset) Split(frac float64) (train, test *Dataset) {
	cut := int(frac * float64(len(ds.Samples)))
	if cut < 0 {
		cut = 0
	}
	if cut > len(ds.Samples) {
		cut = len(ds.Samples)
	}
	train = &Dataset{Samples: ds.Samples[:cut], InputDim: ds.InputDim, NumClasses: ds.NumClasses}
	test = &Dataset{Samples: ds.Samples[cut:], InputDim: ds.InputDim, NumClasses: ds.NumClasses}
	return train, test
}

// Len returns the number of samples.
func (ds *Dataset) Len() int { return len(ds.Samples) }
