package graph

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/composite"
	"github.com/gogpu/composite/buffer"
	"github.com/gogpu/composite/internal/parallel"
)

// render is the state of one Render call.
type render struct {
	ctx context.Context

	mu     sync.Mutex
	extent map[*Node]composite.Region

	forwarded atomic.Int64
	processed atomic.Int64
}

// Render evaluates the output of n over roi and returns it as a new RGBA
// buffer with extent roi.
//
// Tiles run on the graph's workers. Render stops scheduling tiles once ctx is
// done and returns ctx.Err().
func (g *Graph) Render(ctx context.Context, n *Node, roi composite.Region) (*buffer.Buffer, error) {
	if n == nil {
		return nil, ErrNilNode
	}
	if n.g != g {
		return nil, ErrForeignNode
	}
	if roi.Empty() {
		return nil, fmt.Errorf("%w: %v", ErrEmptyRegion, roi)
	}
	out, err := buffer.New(roi, buffer.RGBA)
	if err != nil {
		return nil, err
	}

	r := &render{ctx: ctx, extent: make(map[*Node]composite.Region)}
	rev := g.rev.Load()
	tiles := parallel.Split(roi, g.tileW, g.tileH)

	var (
		errOnce  sync.Once
		firstErr error
		hits     atomic.Int64
	)
	tasks := make([]func(), len(tiles))
	for i, t := range tiles {
		tasks[i] = func() {
			key := tileKey{node: n, roi: t.Region, rev: rev}
			b, ok := g.cached(key)
			if ok {
				hits.Add(1)
			} else {
				var err error
				if b, err = r.eval(n, t.Region); err != nil {
					errOnce.Do(func() { firstErr = err })
					return
				}
				g.store(key, b)
			}
			if b != nil {
				_ = buffer.Copy(b, t.Region, out, t.Region.X, t.Region.Y)
			}
		}
	}

	if err := g.pool.Execute(ctx, tasks); err != nil {
		if errors.Is(err, parallel.ErrPoolClosed) {
			return nil, ErrClosed
		}
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}

	composite.Logger().Debug("graph: render",
		"node", n.Operation(),
		"roi", roi.String(),
		"tiles", len(tiles),
		"cached", hits.Load(),
		"processed", r.processed.Load(),
		"forwarded", r.forwarded.Load(),
	)
	return out, nil
}

// Bounds returns the region in which the output of n can be
// non-transparent.
func (g *Graph) Bounds(n *Node) composite.Region {
	if n == nil {
		return composite.Region{}
	}
	r := &render{ctx: context.Background(), extent: make(map[*Node]composite.Region)}
	return r.bounds(n)
}

func (g *Graph) cached(key tileKey) (*buffer.Buffer, bool) {
	if g.tiles == nil {
		return nil, false
	}
	return g.tiles.Get(key)
}

func (g *Graph) store(key tileKey, b *buffer.Buffer) {
	if g.tiles == nil || b == nil {
		return
	}
	g.tiles.Set(key, b)
}

// resolve follows meta nodes and input proxies to the node that produces
// the output. It returns nil for an unconnected proxy.
func resolve(n *Node) *Node {
	for n != nil {
		switch n.kind {
		case kindMeta:
			n = n.output
		case kindInputProxy:
			n = n.parent.Input(n.pad)
		default:
			return n
		}
	}
	return nil
}

func (r *render) bounds(n *Node) composite.Region {
	n = resolve(n)
	if n == nil {
		return composite.Region{}
	}

	r.mu.Lock()
	b, ok := r.extent[n]
	r.mu.Unlock()
	if ok {
		return b
	}

	n.mu.RLock()
	impl := n.impl
	n.mu.RUnlock()
	b = impl.Bounds(n, r.extents(n))

	r.mu.Lock()
	r.extent[n] = b
	r.mu.Unlock()
	return b
}

func (r *render) extents(n *Node) Extents {
	n.mu.RLock()
	inputs := make(map[string]*Node, len(n.inputs))
	for pad, src := range n.inputs {
		inputs[pad] = src
	}
	n.mu.RUnlock()

	ext := make(Extents, len(inputs))
	for pad, src := range inputs {
		ext[pad] = r.bounds(src)
	}
	return ext
}

// eval returns a buffer holding the output of n over roi. It returns nil
// when the output is transparent there.
func (r *render) eval(n *Node, roi composite.Region) (*buffer.Buffer, error) {
	if err := r.ctx.Err(); err != nil {
		return nil, err
	}
	n = resolve(n)
	if n == nil || !r.bounds(n).Overlaps(roi) {
		return nil, nil
	}

	n.mu.RLock()
	impl, op := n.impl, n.op
	n.mu.RUnlock()

	if f, ok := impl.(Forwarder); ok {
		if pad, ok := f.Forward(n, r.extents(n), roi); ok {
			r.forwarded.Add(1)
			return r.eval(n.Input(pad), roi)
		}
	}

	in := &Inputs{r: r, n: n}
	if v, ok := impl.(Viewer); ok {
		b, err := v.View(r.ctx, n, in, roi)
		if err != nil {
			return nil, fmt.Errorf("graph: %s: %w", op, err)
		}
		return b, nil
	}

	out, err := buffer.New(roi, buffer.RGBA)
	if err != nil {
		return nil, err
	}
	r.processed.Add(1)
	if err := impl.Process(r.ctx, n, in, out); err != nil {
		return nil, fmt.Errorf("graph: %s: %w", op, err)
	}
	return out, nil
}
