package nodes

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/composite"
	"github.com/gogpu/composite/buffer"
	"github.com/gogpu/composite/graph"
)

// recorder is a slog.Handler that keeps every message.
type recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recorder) Enabled(context.Context, slog.Level) bool { return true }

func (r *recorder) Handle(_ context.Context, rec slog.Record) error {
	r.mu.Lock()
	r.msgs = append(r.msgs, rec.Level.String()+" "+rec.Message)
	r.mu.Unlock()
	return nil
}

func (r *recorder) WithAttrs([]slog.Attr) slog.Handler { return r }
func (r *recorder) WithGroup(string) slog.Handler      { return r }

// count returns how many messages contain substr.
func (r *recorder) count(substr string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.msgs {
		if strings.Contains(m, substr) {
			n++
		}
	}
	return n
}

func record(t *testing.T) *recorder {
	t.Helper()
	r := &recorder{}
	composite.SetLogger(slog.New(r))
	t.Cleanup(func() { composite.SetLogger(nil) })
	return r
}

func newGraph(t *testing.T, opts ...graph.Option) *graph.Graph {
	t.Helper()
	g := graph.New(opts...)
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func mustConnect(t *testing.T, g *graph.Graph, src, dst *graph.Node, pad string) {
	t.Helper()
	if err := g.Connect(src, dst, pad); err != nil {
		t.Fatalf("Connect(%s -> %s.%s) error = %v", src.Operation(), dst.Operation(), pad, err)
	}
}

func mustRender(t *testing.T, g *graph.Graph, n *graph.Node, roi composite.Region) *buffer.Buffer {
	t.Helper()
	out, err := g.Render(context.Background(), n, roi)
	if err != nil {
		t.Fatalf("Render(%v) error = %v", roi, err)
	}
	return out
}

func mustSource(t *testing.T, g *graph.Graph, b *buffer.Buffer) *graph.Node {
	t.Helper()
	n, err := g.NewNode("buffer-source", map[string]any{"buffer": b})
	if err != nil {
		t.Fatal(err)
	}
	return n
}

// pattern returns an RGBA buffer whose pixels vary in colour and alpha with
// position. seed shifts the pattern.
func pattern(t *testing.T, extent composite.Region, seed int) *buffer.Buffer {
	t.Helper()
	b, err := buffer.New(extent, buffer.RGBA)
	if err != nil {
		t.Fatal(err)
	}
	data := make([]float32, 0, extent.Area()*4)
	for y := extent.Y; y < extent.MaxY(); y++ {
		for x := extent.X; x < extent.MaxX(); x++ {
			h := uint32(x*73856093) ^ uint32(y*19349663) ^ uint32(seed*83492791)
			data = append(data,
				float32(h%251)/250,
				float32((h>>8)%241)/240,
				float32((h>>16)%239)/238,
				float32((h>>4)%101)/100,
			)
		}
	}
	if err := b.Write(extent, data); err != nil {
		t.Fatal(err)
	}
	return b
}

// ramp returns a single-channel buffer with values in [0, 1].
func ramp(t *testing.T, extent composite.Region) *buffer.Buffer {
	t.Helper()
	b, err := buffer.New(extent, buffer.Y)
	if err != nil {
		t.Fatal(err)
	}
	data := make([]float32, 0, extent.Area())
	for y := extent.Y; y < extent.MaxY(); y++ {
		for x := extent.X; x < extent.MaxX(); x++ {
			data = append(data, float32((x+2*y)&31)/31)
		}
	}
	if err := b.Write(extent, data); err != nil {
		t.Fatal(err)
	}
	return b
}

func near(a, b, tol float32) bool {
	d := a - b
	return d <= tol && d >= -tol
}
