package graph

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/composite"
	"github.com/gogpu/composite/buffer"
)

// Operation computes a node's output.
//
// Bounds returns the region in which the output can be non-transparent,
// given the bounding boxes of the connected input pads. Process fills out,
// whose extent is the requested region, reading inputs through in.
// Implementations must be safe for concurrent use: Process runs once per
// tile, on many goroutines.
type Operation interface {
	Bounds(n *Node, in Extents) composite.Region
	Process(ctx context.Context, n *Node, in *Inputs, out *buffer.Buffer) error
}

// Forwarder is implemented by operations that can hand an input through
// unchanged. Forward reports which pad's output equals the node's output
// over roi; the renderer then skips Process and the pad's buffer becomes
// the node's output.
type Forwarder interface {
	Forward(n *Node, in Extents, roi composite.Region) (pad string, ok bool)
}

// Viewer is implemented by operations whose output is an existing buffer,
// possibly moved. View returns it without copying; reads outside its extent
// are transparent.
type Viewer interface {
	View(ctx context.Context, n *Node, in *Inputs, roi composite.Region) (*buffer.Buffer, error)
}

// Propertied is implemented by operations that declare properties. Defaults
// returns each property with its default value; the value's type is the
// property type.
type Propertied interface {
	Defaults() map[string]any
}

// Extents holds the bounding box of every connected input pad.
type Extents map[string]composite.Region

// Union returns the union of all extents.
func (e Extents) Union() composite.Region {
	var u composite.Region
	for _, r := range e {
		u = u.Union(r)
	}
	return u
}

var registry = struct {
	sync.RWMutex
	ops map[string]Operation
}{ops: make(map[string]Operation)}

// Register makes an operation available under name. It panics if name is
// empty, op is nil or name is already registered.
func Register(name string, op Operation) {
	registry.Lock()
	defer registry.Unlock()
	if name == "" || op == nil {
		panic("graph: Register with empty name or nil operation")
	}
	if _, dup := registry.ops[name]; dup {
		panic("graph: Register called twice for operation " + name)
	}
	registry.ops[name] = op
}

// Lookup returns the operation registered under name.
func Lookup(name string) (Operation, bool) {
	registry.RLock()
	defer registry.RUnlock()
	op, ok := registry.ops[name]
	return op, ok
}

// Operations returns the sorted names of all registered operations.
func Operations() []string {
	registry.RLock()
	defer registry.RUnlock()
	names := make([]string, 0, len(registry.ops))
	for name := range registry.ops {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Inputs gives an operation access to the nodes connected to its pads
// during one Process or View call.
type Inputs struct {
	r *render
	n *Node
}

// Connected reports whether something is connected to pad.
func (in *Inputs) Connected(pad string) bool {
	return in.n.Input(pad) != nil
}

// Extent returns the bounding box of pad, empty when nothing is connected.
func (in *Inputs) Extent(pad string) composite.Region {
	src := in.n.Input(pad)
	if src == nil {
		return composite.Region{}
	}
	return in.r.bounds(src)
}

// Buffer evaluates pad over roi. It returns nil when nothing is connected.
// The returned buffer may be shared and must not be modified.
func (in *Inputs) Buffer(pad string, roi composite.Region) (*buffer.Buffer, error) {
	src := in.n.Input(pad)
	if src == nil {
		return nil, nil
	}
	return in.r.eval(src, roi)
}

// ReadInto evaluates pad over roi and stores it in dst, which must hold
// exactly roi.Area()*format.Channels() floats. Unconnected pads read as
// zeros.
func (in *Inputs) ReadInto(pad string, roi composite.Region, format buffer.Format, dst []float32) error {
	b, err := in.Buffer(pad, roi)
	if err != nil {
		return err
	}
	if b == nil {
		clear(dst)
		return nil
	}
	b.ReadInto(roi, format, dst)
	return nil
}

// Read is ReadInto a new slice.
func (in *Inputs) Read(pad string, roi composite.Region, format buffer.Format) ([]float32, error) {
	if roi.Empty() {
		return nil, fmt.Errorf("%w: %v", ErrEmptyRegion, roi)
	}
	dst := make([]float32, roi.Area()*format.Channels())
	if err := in.ReadInto(pad, roi, format, dst); err != nil {
		return nil, err
	}
	return dst, nil
}
