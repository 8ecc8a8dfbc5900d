package dataset

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeCSV(t, "0,255,0\n1,0,255\n")
	ds, err := LoadCSV(path, 2, 2, 255)
	if err != nil {
		t.Fatal(err)
	}
	if ds.Len() != 2 {
		t.Fatalf("Len = %d, want 2", ds.Len())
	}

	s := ds.Samples[0]
	if s.Label != 0 {
		t.Errorf("label = %d, want 0", s.Label)
	}
	if s.Input.Data[0] != 1.0 || s.Input.Data[1] != 0.0 {
		t.Errorf("scaled input = %v, want [1 0]", s.Input.Data)
	}
	if s.Target.Data[0] != 1.0 || s.Target.Data[1] != 0.0 {
		t.Errorf("one-hot target = %v, want [1 0]", s.Target.Data)
	}
}

func TestLoadCSVErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"wrong field count", "0,1\n"},
		{"non-integer label", "x,1,2\n"},
		{"label out of range", "5,1,2\n"},
		{"bad feature", "0,1,oops\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeCSV(t, tc.content)
			if _, err := LoadCSV(path, 2, 2, 0); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadCSVMissingFile(t *testing.T) {
	if _, err := LoadCSV("/nonexistent/data.csv", 2, 2, 0); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSynthetic(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	ds := Synthetic(8, 3, 50, rng)
	if ds.Len() != 50 {
		t.Fatalf("Len = %d, want 50", ds.Len())
	}
	for i, s := range ds.Samples {
		if len(s.Input.Data) != 8 {
			t.Fatalf("sample %d input dim = %d, want 8", i, len(s.Input.Data))
		}
		if s.Label < 0 || s.Label >= 3 {
			t.Fatalf("sample %d label %d out of range", i, s.Label)
		}
		if s.Target.Data[s.Label] != 1.0 {
			t.Fatalf("sample %d target not one-hot at label", i)
		}
	}
}

func TestNormalize(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	ds := Synthetic(4, 2, 200, rng)
	ds.Normalize()

	for j := 0; j < ds.InputDim; j++ {
		sum, sumSq := 0.0, 0.0
		for _, s := range ds.Samples {
			sum += s.Input.Data[j]
			sumSq += s.Input.Data[j] * s.Input.Data[j]
		}
		n := float64(ds.Len())
		mean := sum / n
		variance := sumSq/n - mean*mean
		if math.Abs(mean) > 1e-9 {
			t.Errorf("feature %d mean = %g, want ~0", j, mean)
		}
		if math.Abs(variance-1) > 0.05 {
			t.Errorf("feature %d variance = %g, want ~1", j, variance)
		}
	}
}

func TestShuffleKeepsAllSamples(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	ds := Synthetic(2, 2, 30, rng)
	counts := map[int]int{}
	for _, s := range ds.Samples {
		counts[s.Label]++
	}
	ds.Shuffle(rng)
	after := map[int]int{}
	for _, s := range ds.Samples {
		after[s.Label]++
	}
	for k, v := range counts {
		if after[k] != v {
			t.Fatalf("label %d count changed from %d to %d", k, v, after[k])
		}
	}
}

func TestSplit(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	ds := Synthetic(2, 2, 10, rng)
	train, test := ds.Split(0.8)
	if train.Len() != 8 || test.Len() != 2 {
		t.Fatalf("split sizes = %d/%d, want 8/2", train.Len(), test.Len())
	}
	if train.InputDim != 2 || test.NumClasses != 2 {
		t.Fatal("split must carry dimensions")
	}
}
