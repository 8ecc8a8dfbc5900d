// Package checkpoint persists a trained model's architecture metadata and
// learned parameters as a single JSON record, and rebuilds an
// architecturally-identical, weight-populated model from it.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"fcnet_lib/nn"
	"fcnet_lib/tensor"

	"github.com/pkg/errors"
)

// FormatVersion identifies the checkpoint record layout.
const FormatVersion = "1.0"

// Param is one learned array (weights or biases) owned by a layer.
type Param struct {
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

// Checkpoint is a persisted snapshot of a model. The metadata (input dim,
// output dim, hidden widths, activation) is sufficient to reconstruct the
// exact architecture before restoring the parameter values.
type Checkpoint struct {
	Version    string           `json:"version"`
	InputDim   int              `json:"input_dim"`
	OutputDim  int              `json:"output_dim"`
	HiddenDims []int            `json:"hidden_dims"`
	Activation string           `json:"activation"`
	Params     map[string]Param `json:"params"`
}

// WeightKey and BiasKey name the parameters of the i-th linear layer.
func WeightKey(i int) string { return fmt.Sprintf("linear_%d.weight", i) }
func BiasKey(i int) string   { return fmt.Sprintf("linear_%d.bias", i) }

// Snapshot captures the model's current architecture and parameter values.
// The returned record holds copies; later training steps do not affect it.
func Snapshot(m *nn.MLP) *Checkpoint {
	ck := &Checkpoint{
		Version:    FormatVersion,
		InputDim:   m.InputDim,
		OutputDim:  m.OutputDim,
		HiddenDims: append([]int(nil), m.HiddenDims...),
		Activation: m.Activation,
		Params:     make(map[string]Param),
	}
	for i, lin := range m.Linears() {
		ck.Params[WeightKey(i)] = Param{
			Shape: append([]int(nil), lin.W.Shape...),
			Data:  append([]float64(nil), lin.W.Data...),
		}
		ck.Params[BiasKey(i)] = Param{
			Shape: append([]int(nil), lin.B.Shape...),
			Data:  append([]float64(nil), lin.B.Data...),
		}
	}
	return ck
}

// Save writes the record to path as one JSON document, overwriting any
// existing record at that destination.
func Save(path string, ck *Checkpoint) error {
	if err := ck.Validate(); err != nil {
		return errors.Wrap(err, "refusing to save inconsistent checkpoint")
	}
	data, err := json.MarshalIndent(ck, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal checkpoint")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write checkpoint %q", path)
	}
	return nil
}

// Load reads a checkpoint record from path and validates its consistency.
func Load(path string) (*Checkpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read checkpoint %q", path)
	}
	var ck Checkpoint
	if err := json.Unmarshal(data, &ck); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal checkpoint %q", path)
	}
	if err := ck.Validate(); err != nil {
		return nil, errors.Wrapf(err, "checkpoint %q is inconsistent", path)
	}
	return &ck, nil
}

// expectedShapes returns the parameter name → shape mapping a network built
// from (InputDim, OutputDim, HiddenDims) would produce.
func (ck *Checkpoint) expectedShapes() map[string][]int {
	shapes := make(map[string][]int)
	prev := ck.InputDim
	widths := append(append([]int(nil), ck.HiddenDims...), ck.OutputDim)
	for i, w := range widths {
		shapes[WeightKey(i)] = []int{w, prev}
		shapes[BiasKey(i)] = []int{w}
		prev = w
	}
	return shapes
}

// Validate checks the record's internal consistency: positive dimensions,
// and a param set whose keys and shapes exactly match what the embedded
// architecture metadata implies.
func (ck *Checkpoint) Validate() error {
	if ck.InputDim <= 0 {
		return errors.Errorf("input dim must be positive, got %d", ck.InputDim)
	}
	if ck.OutputDim <= 0 {
		return errors.Errorf("output dim must be positive, got %d", ck.OutputDim)
	}
	for i, h := range ck.HiddenDims {
		if h <= 0 {
			return errors.Errorf("hidden dim %d must be positive, got %d", i, h)
		}
	}
	expected := ck.expectedShapes()
	for name, shape := range expected {
		p, ok := ck.Params[name]
		if !ok {
			return errors.Errorf("missing param %q", name)
		}
		if !shapesEqual(p.Shape, shape) {
			return errors.Errorf("param %q has shape %v, architecture metadata implies %v",
				name, p.Shape, shape)
		}
		if len(p.Data) != numElems(p.Shape) {
			return errors.Errorf("param %q has %d values, shape %v implies %d",
				name, len(p.Data), p.Shape, numElems(p.Shape))
		}
	}
	for name := range ck.Params {
		if _, ok := expected[name]; !ok {
			return errors.Errorf("unexpected param %q", name)
		}
	}
	return nil
}

// Mismatch records one parameter conflict found during Restore.
// A nil CheckpointShape means the model has a parameter the record lacks;
// a nil ModelShape means the record has a parameter the model lacks.
type Mismatch struct {
	Name            string
	CheckpointShape []int
	ModelShape      []int
}

func (m Mismatch) String() string {
	switch {
	case m.CheckpointShape == nil:
		return fmt.Sprintf("%s: missing from checkpoint (model shape %v)", m.Name, m.ModelShape)
	case m.ModelShape == nil:
		return fmt.Sprintf("%s: not present in model (checkpoint shape %v)", m.Name, m.CheckpointShape)
	default:
		return fmt.Sprintf("%s: checkpoint shape %v, model shape %v", m.Name, m.CheckpointShape, m.ModelShape)
	}
}

// MismatchError names every conflicting parameter between a checkpoint and
// the model it was restored into.
type MismatchError struct {
	Mismatches []Mismatch
}

func (e *MismatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cannot restore checkpoint: %d mismatched param(s):", len(e.Mismatches))
	for _, m := range e.Mismatches {
		b.WriteString("\n  ")
		b.WriteString(m.String())
	}
	return b.String()
}

// Restore assigns the record's parameter values onto the model's parameters
// by name. The full key set and every shape are checked first; on any
// mismatch no parameter is modified and a *MismatchError naming every
// conflict is returned. Partial or reshaped restores are not supported.
func Restore(ck *Checkpoint, m *nn.MLP) error {
	targets := make(map[string]*tensor.Tensor)
	for i, lin := range m.Linears() {
		targets[WeightKey(i)] = lin.W
		targets[BiasKey(i)] = lin.B
	}

	var mismatches []Mismatch
	for name, dst := range targets {
		p, ok := ck.Params[name]
		if !ok {
			mismatches = append(mismatches, Mismatch{Name: name, ModelShape: dst.Shape})
			continue
		}
		if !shapesEqual(p.Shape, dst.Shape) {
			mismatches = append(mismatches, Mismatch{
				Name:            name,
				CheckpointShape: p.Shape,
				ModelShape:      dst.Shape,
			})
		}
	}
	for name, p := range ck.Params {
		if _, ok := targets[name]; !ok {
			mismatches = append(mismatches, Mismatch{Name: name, CheckpointShape: p.Shape})
		}
	}
	if len(mismatches) > 0 {
		sort.Slice(mismatches, func(i, j int) bool {
			return mismatches[i].Name < mismatches[j].Name
		})
		return &MismatchError{Mismatches: mismatches}
	}

	for name, dst := range targets {
		copy(dst.Data, ck.Params[name].Data)
	}
	return nil
}

// Rebuild constructs a fresh model from the record's own architecture
// metadata and restores the parameter values onto it.
func Rebuild(ck *Checkpoint) (*nn.MLP, error) {
	if err := ck.Validate(); err != nil {
		return nil, err
	}
	m, err := nn.NewMLP(ck.InputDim, ck.OutputDim, ck.HiddenDims, ck.Activation)
	if err != nil {
		return nil, errors.Wrap(err, "failed to rebuild model from checkpoint metadata")
	}
	if err := Restore(ck, m); err != nil {
		return nil, err
	}
	return m, nil
}

func shapesEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func numElems(shape []int) int {
	total := 1
	for _, d := range shape {
		total *= d
	}
	return total
}
