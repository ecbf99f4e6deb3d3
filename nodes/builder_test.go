package nodes

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/image/math/f64"

	"github.com/gogpu/composite"
	"github.com/gogpu/composite/buffer"
	"github.com/gogpu/composite/graph"
)

func TestCreateFlattenNode(t *testing.T) {
	g := newGraph(t)

	if _, err := CreateFlattenNode(g, nil); !errors.Is(err, ErrNilBackground) {
		t.Errorf("nil background error = %v, want ErrNilBackground", err)
	}
	if _, err := CreateFlattenNode(nil, &composite.Transparent); !errors.Is(err, ErrNilGraph) {
		t.Errorf("nil graph error = %v, want ErrNilGraph", err)
	}

	white := composite.RGBA(1, 1, 1, 0.2)
	flat, err := CreateFlattenNode(g, &white)
	if err != nil {
		t.Fatal(err)
	}
	if !flat.IsMeta() {
		t.Error("flatten node is not a meta node")
	}

	layer, err := buffer.New(composite.Rect(0, 0, 2, 1), buffer.RGBA)
	if err != nil {
		t.Fatal(err)
	}
	layer.SetColor(composite.Rect(0, 0, 1, 1), composite.RGBA(1, 0, 0, 0.5))
	mustConnect(t, g, mustSource(t, g, layer), flat, graph.PadInput)

	out := mustRender(t, g, flat, composite.Rect(-1, 0, 4, 1))
	tests := []struct {
		x    int
		want composite.Sample
	}{
		{-1, composite.Opaque(1, 1, 1)},
		{0, composite.Opaque(1, 0.5, 0.5)},
		{1, composite.Opaque(1, 1, 1)},
		{2, composite.Opaque(1, 1, 1)},
	}
	for _, tt := range tests {
		got := out.At(tt.x, 0)
		for c := range got {
			if !near(got[c], tt.want[c], 1e-6) {
				t.Errorf("At(%d) = %v, want %v", tt.x, got, tt.want)
				break
			}
		}
	}
}

func TestCreateApplyOpacityNode(t *testing.T) {
	g := newGraph(t)
	mask := ramp(t, composite.Rect(0, 0, 8, 8))

	tests := []struct {
		name    string
		g       *graph.Graph
		mask    *buffer.Buffer
		opacity float64
		want    error
	}{
		{"nil graph", nil, mask, 1, ErrNilGraph},
		{"nil mask", g, nil, 1, ErrInvalidBuffer},
		{"negative opacity", g, mask, -0.1, ErrInvalidOpacity},
		{"NaN opacity", g, mask, math.NaN(), ErrInvalidOpacity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := CreateApplyOpacityNode(tt.g, tt.mask, 0, 0, tt.opacity)
			if !errors.Is(err, tt.want) || n != nil {
				t.Errorf("CreateApplyOpacityNode() = %v, %v, want nil, %v", n, err, tt.want)
			}
		})
	}

	node, err := CreateApplyOpacityNode(g, mask, 3, -2, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	bg, err := g.NewNode("color", map[string]any{"value": composite.Opaque(0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	mustConnect(t, g, bg, node, graph.PadInput)

	out := mustRender(t, g, node, composite.Rect(0, -4, 16, 16))
	for y := -4; y < 12; y++ {
		for x := range 16 {
			want := float32(0)
			if composite.Rect(3, -2, 8, 8).Contains(x, y) {
				want = 0.5 * mask.At(x-3, y+2)[composite.R]
			}
			if got := out.At(x, y)[composite.A]; got != want {
				t.Fatalf("alpha at (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestAddBufferSource(t *testing.T) {
	g := newGraph(t)
	parent := g.NewMeta()
	buf := pattern(t, composite.Rect(0, 0, 4, 4), 1)

	if _, err := AddBufferSource(nil, buf, 0, 0); !errors.Is(err, ErrNilParent) {
		t.Errorf("nil parent error = %v", err)
	}
	if _, err := AddBufferSource(parent, nil, 0, 0); !errors.Is(err, ErrInvalidBuffer) {
		t.Errorf("nil buffer error = %v", err)
	}

	plain, err := AddBufferSource(parent, buf, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got := plain.Operation(); got != "buffer-source" {
		t.Errorf("zero offset node = %q, want buffer-source", got)
	}

	moved, err := AddBufferSource(parent, buf, -2, 5)
	if err != nil {
		t.Fatal(err)
	}
	if got := moved.Operation(); got != "translate" {
		t.Errorf("offset node = %q, want translate", got)
	}
	if got, want := g.Bounds(moved), composite.Rect(-2, 5, 4, 4); got != want {
		t.Errorf("Bounds = %v, want %v", got, want)
	}
	if got := moved.Parent(); got != parent {
		t.Error("translate node not owned by parent")
	}

	out := mustRender(t, g, moved, composite.Rect(-2, 5, 4, 4))
	if got, want := out.At(-1, 6), buf.At(1, 1); got != want {
		t.Errorf("At(-1, 6) = %v, want %v", got, want)
	}
}

func TestNewLayerNode(t *testing.T) {
	g := newGraph(t)
	n, err := NewLayerNode(g, composite.ModeScreen, 0.75, true)
	if err != nil {
		t.Fatal(err)
	}
	if got := n.Operation(); got != "layer-mode:screen" {
		t.Errorf("Operation() = %q", got)
	}
	if n.Float("opacity") != 0.75 || !n.Bool("linear") || n.Text("transform") != "" {
		t.Errorf("properties = %v", n.Properties())
	}
	if _, err := NewLayerNode(g, composite.ModeNormal, 2, false); !errors.Is(err, ErrInvalidOpacity) {
		t.Errorf("opacity 2 error = %v", err)
	}
}

func TestSetMode(t *testing.T) {
	g := newGraph(t)
	n, err := NewLayerNode(g, composite.ModeNormal, 0.3, false)
	if err != nil {
		t.Fatal(err)
	}
	m := f64.Mat3{1, 0, 4, 0, 1, 0, 0, 0, 1}
	SetTransform(n, &m)

	tests := []struct {
		mode   composite.Mode
		linear bool
		want   string
	}{
		{composite.ModeMultiply, true, "layer-mode:multiply"},
		{composite.ModeDissolve, false, "layer-mode:dissolve"},
		{composite.Mode(99), true, "layer-mode:normal"},
		{composite.Mode(-1), false, "layer-mode:normal"},
		{composite.ModeAntiErase, true, "layer-mode:anti-erase"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			SetMode(n, tt.mode, tt.linear)
			if got := n.Operation(); got != tt.want {
				t.Errorf("Operation() = %q, want %q", got, tt.want)
			}
			if got := n.Float("opacity"); got != 0.3 {
				t.Errorf("opacity = %v, want 0.3", got)
			}
			if got := n.Bool("linear"); got != tt.linear {
				t.Errorf("linear = %v, want %v", got, tt.linear)
			}
			if got := n.Text("transform"); got != FormatMatrix(m) {
				t.Errorf("transform = %q", got)
			}
		})
	}
}

func TestSetModeOnPlainNode(t *testing.T) {
	g := newGraph(t)
	n, err := g.NewNode("nop", nil)
	if err != nil {
		t.Fatal(err)
	}
	SetMode(n, composite.ModeScreen, false)
	if got := n.Operation(); got != "layer-mode:screen" {
		t.Errorf("Operation() = %q", got)
	}
	if got := n.Float("opacity"); got != 1 {
		t.Errorf("opacity = %v, want default 1", got)
	}
}

func TestMutatorsRejectInvalidArguments(t *testing.T) {
	rec := record(t)
	g := newGraph(t)
	n, err := NewLayerNode(g, composite.ModeNormal, 0.5, false)
	if err != nil {
		t.Fatal(err)
	}
	plain, err := g.NewNode("nop", nil)
	if err != nil {
		t.Fatal(err)
	}
	before := n.Properties()

	SetMode(nil, composite.ModeScreen, true)
	SetMode(g.NewMeta(), composite.ModeScreen, true)
	SetOpacity(nil, 0.5)
	SetOpacity(n, 1.5)
	SetOpacity(n, math.NaN())
	SetOpacity(plain, 0.5)
	SetTransform(n, nil)
	SetTransform(n, &f64.Mat3{math.Inf(1), 0, 0, 0, 1, 0, 0, 0, 1})
	SetTransform(plain, &f64.Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1})

	if got := rec.count("WARN"); got != 9 {
		t.Errorf("logged %d warnings, want 9", got)
	}
	after := n.Properties()
	for k, v := range before {
		if after[k] != v {
			t.Errorf("%s changed from %v to %v", k, v, after[k])
		}
	}
	if plain.Operation() != "nop" {
		t.Error("plain node changed")
	}
}

func TestSetOpacity(t *testing.T) {
	g := newGraph(t)
	n, err := NewLayerNode(g, composite.ModeNormal, 1, false)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []float64{0, 0.25, 1} {
		SetOpacity(n, v)
		if got := n.Float("opacity"); got != v {
			t.Errorf("opacity = %v, want %v", got, v)
		}
	}
}

func TestMatrixRoundTrip(t *testing.T) {
	tests := []f64.Mat3{
		Identity(),
		{1, 0, 12.5, 0, 1, -3, 0, 0, 1},
		{0.1, 0.2, 0.3, 1e-12, -4e20, 7, 0, 0, 1},
		{math.Pi, -math.E, 0, 1.0 / 3, 2.0 / 3, -0, 0.5, 0.25, 2},
	}
	for _, m := range tests {
		s := FormatMatrix(m)
		got, err := ParseMatrix(s)
		if err != nil {
			t.Fatalf("ParseMatrix(%q) error = %v", s, err)
		}
		if got != m {
			t.Errorf("ParseMatrix(FormatMatrix(%v)) = %v", m, got)
		}
	}

	if got := FormatMatrix(f64.Mat3{1, 0, 5, 0, 1, -2, 0, 0, 1}); got != "matrix(1, 0, 5, 0, 1, -2, 0, 0, 1)" {
		t.Errorf("FormatMatrix = %q", got)
	}
}

func TestParseMatrix(t *testing.T) {
	tests := []struct {
		in      string
		want    f64.Mat3
		wantErr bool
	}{
		{"", Identity(), false},
		{"  matrix(1,0,0, 0,1,0, 0,0,1) ", Identity(), false},
		{"matrix(2, 0, 0, 0, 2, 0, 0, 0, 1)", f64.Mat3{2, 0, 0, 0, 2, 0, 0, 0, 1}, false},
		{"translate(1, 2)", f64.Mat3{}, true},
		{"matrix(1, 0, 0)", f64.Mat3{}, true},
		{"matrix(1, 0, 0, 0, 1, 0, 0, 0, x)", f64.Mat3{}, true},
		{"matrix(1, 0, 0, 0, 1, 0, 0, 0, 1", f64.Mat3{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMatrix(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMatrix) {
					t.Errorf("error = %v, want ErrInvalidMatrix", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ParseMatrix() = %v, want %v", got, tt.want)
			}
		})
	}
}
