package nn

import (
	"testing"

	"fcnet_lib/tensor"
)

func TestNewMLPStructure(t *testing.T) {
	m, err := NewMLP(8, 3, []int{16, 4}, "relu")
	if err != nil {
		t.Fatal(err)
	}
	// linear, act, linear, act, linear
	if len(m.Layers) != 5 {
		t.Fatalf("expected 5 layers, got %d", len(m.Layers))
	}
	lins := m.Linears()
	if len(lins) != 3 {
		t.Fatalf("expected 3 linear layers, got %d", len(lins))
	}
	wantDims := [][2]int{{8, 16}, {16, 4}, {4, 3}}
	for i, lin := range lins {
		if lin.InDim() != wantDims[i][0] || lin.OutDim() != wantDims[i][1] {
			t.Errorf("linear %d dims = (%d, %d), want %v", i, lin.InDim(), lin.OutDim(), wantDims[i])
		}
	}
}

func TestNewMLPNoHidden(t *testing.T) {
	m, err := NewMLP(4, 2, nil, "relu")
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Layers) != 1 {
		t.Fatalf("expected a single linear layer, got %d layers", len(m.Layers))
	}
}

func TestNewMLPRejectsBadDims(t *testing.T) {
	cases := []struct {
		name    string
		in, out int
		hidden  []int
	}{
		{"zero input", 0, 2, nil},
		{"negative output", 4, -1, nil},
		{"zero hidden", 4, 2, []int{8, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewMLP(tc.in, tc.out, tc.hidden, "relu"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNewMLPUnknownActivation(t *testing.T) {
	if _, err := NewMLP(4, 2, []int{3}, "softplus"); err == nil {
		t.Fatal("expected error for unknown activation")
	}
}

func TestMLPForwardShape(t *testing.T) {
	m, err := NewMLP(4, 3, []int{5}, "tanh")
	if err != nil {
		t.Fatal(err)
	}
	m.InitWeights(1)
	out, err := m.Forward(tensor.NewWithData([]float64{1, 2, 3, 4}))
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Shape) != 1 || out.Shape[0] != 3 {
		t.Fatalf("output shape = %v, want [3]", out.Shape)
	}
}

func TestMLPDims(t *testing.T) {
	m, err := NewMLP(8, 2, []int{6, 4}, "relu")
	if err != nil {
		t.Fatal(err)
	}
	want := []int{8, 6, 4, 2}
	got := m.Dims()
	if len(got) != len(want) {
		t.Fatalf("Dims = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Dims = %v, want %v", got, want)
		}
	}
}

func TestInitWeightsDeterministic(t *testing.T) {
	a, _ := NewMLP(4, 2, []int{3}, "relu")
	b, _ := NewMLP(4, 2, []int{3}, "relu")
	a.InitWeights(42)
	b.InitWeights(42)
	al, bl := a.Linears(), b.Linears()
	for i := range al {
		for j := range al[i].W.Data {
			if al[i].W.Data[j] != bl[i].W.Data[j] {
				t.Fatalf("weights differ at layer %d index %d", i, j)
			}
		}
	}
}
