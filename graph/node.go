package graph

import (
	"fmt"
	"maps"
	"reflect"
	"sync"
)

type nodeKind uint8

const (
	kindOp nodeKind = iota
	kindMeta
	kindInputProxy
)

// Node is one vertex of a Graph.
//
// A plain node runs an Operation. A meta node runs nothing itself: its output
// is whatever is connected to its output proxy, and its input proxies hand
// on whatever is connected to its own pads.
type Node struct {
	g      *Graph
	parent *Node
	kind   nodeKind
	pad    string // input proxies: the meta pad they expose

	mu       sync.RWMutex
	op       string
	impl     Operation
	props    map[string]any
	inputs   map[string]*Node
	children []*Node
	proxies  map[string]*Node
	output   *Node
}

// NewNode creates a top-level node running op. props override the
// operation's defaults.
func (g *Graph) NewNode(op string, props map[string]any) (*Node, error) {
	return g.newNode(nil, op, props)
}

// NewMeta creates an empty top-level meta node.
func (g *Graph) NewMeta() *Node {
	return g.newMeta(nil)
}

// NewChild creates a node running op owned by n.
func (n *Node) NewChild(op string, props map[string]any) (*Node, error) {
	if n == nil {
		return nil, ErrNilNode
	}
	return n.g.newNode(n, op, props)
}

// NewMetaChild creates an empty meta node owned by n.
func (n *Node) NewMetaChild() *Node {
	return n.g.newMeta(n)
}

func (g *Graph) newNode(parent *Node, op string, props map[string]any) (*Node, error) {
	impl, ok := Lookup(op)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
	values, err := applyProps(defaults(impl), props)
	if err != nil {
		return nil, fmt.Errorf("graph: %s: %w", op, err)
	}
	n := &Node{
		g:      g,
		parent: parent,
		op:     op,
		impl:   impl,
		props:  values,
		inputs: make(map[string]*Node),
	}
	g.attach(parent, n)
	return n, nil
}

func (g *Graph) newMeta(parent *Node) *Node {
	n := &Node{
		g:       g,
		parent:  parent,
		kind:    kindMeta,
		op:      "meta",
		props:   make(map[string]any),
		inputs:  make(map[string]*Node),
		proxies: make(map[string]*Node),
	}
	g.attach(parent, n)

	// The output proxy forwards its input, so it needs no special casing
	// when rendering.
	out, _ := g.newNode(n, "nop", nil)
	n.output = out
	return n
}

func (g *Graph) attach(parent, n *Node) {
	if parent != nil {
		parent.mu.Lock()
		parent.children = append(parent.children, n)
		parent.mu.Unlock()
	}
	g.add(n)
}

// Graph returns the graph that owns n.
func (n *Node) Graph() *Graph { return n.g }

// Parent returns the node that owns n, or nil for top-level nodes.
func (n *Node) Parent() *Node { return n.parent }

// IsMeta reports whether n is a meta node.
func (n *Node) IsMeta() bool { return n.kind == kindMeta }

// Children returns the nodes owned by n.
func (n *Node) Children() []*Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]*Node(nil), n.children...)
}

// InputProxy returns the proxy that exposes the meta node's pad to its
// children, creating it on first use. It returns nil for plain nodes or
// unknown pads.
func (n *Node) InputProxy(pad string) *Node {
	if n == nil || n.kind != kindMeta || !validPad(pad) {
		return nil
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if p, ok := n.proxies[pad]; ok {
		return p
	}
	p := &Node{
		g:      n.g,
		parent: n,
		kind:   kindInputProxy,
		pad:    pad,
		op:     "input-proxy",
		props:  make(map[string]any),
		inputs: make(map[string]*Node),
	}
	n.proxies[pad] = p
	n.children = append(n.children, p)
	n.g.add(p)
	return p
}

// OutputProxy returns the node whose input becomes the meta node's output,
// or nil for plain nodes.
func (n *Node) OutputProxy() *Node {
	if n == nil || n.kind != kindMeta {
		return nil
	}
	return n.output
}

// Operation returns the name of the operation n runs.
func (n *Node) Operation() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.op
}

// SetOperation switches n to op. Properties are reset to op's defaults;
// connections are kept.
func (n *Node) SetOperation(op string) error {
	if n == nil {
		return ErrNilNode
	}
	if n.kind != kindOp {
		return fmt.Errorf("graph: cannot set operation of %s node", n.Operation())
	}
	impl, ok := Lookup(op)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
	n.mu.Lock()
	n.op = op
	n.impl = impl
	n.props = defaults(impl)
	n.mu.Unlock()
	n.g.touch()
	return nil
}

// Set assigns a property. When the operation declares a default for key, v
// must have the same type.
func (n *Node) Set(key string, v any) error {
	if n == nil {
		return ErrNilNode
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := checkType(n.props, key, v); err != nil {
		return fmt.Errorf("graph: %s: %w", n.op, err)
	}
	n.props[key] = v
	n.g.touch()
	return nil
}

// Get returns a property value.
func (n *Node) Get(key string) (any, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	v, ok := n.props[key]
	return v, ok
}

// Float returns a float64 property, or 0.
func (n *Node) Float(key string) float64 {
	v, _ := n.Get(key)
	f, _ := v.(float64)
	return f
}

// Bool returns a bool property, or false.
func (n *Node) Bool(key string) bool {
	v, _ := n.Get(key)
	b, _ := v.(bool)
	return b
}

// Text returns a string property, or "".
func (n *Node) Text(key string) string {
	v, _ := n.Get(key)
	s, _ := v.(string)
	return s
}

// Properties returns a copy of n's properties.
func (n *Node) Properties() map[string]any {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return maps.Clone(n.props)
}

// Input returns the node connected to pad, or nil.
func (n *Node) Input(pad string) *Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.inputs[pad]
}

// Connect feeds the output of src into the given pad of dst, replacing any
// previous connection of that pad.
func (g *Graph) Connect(src, dst *Node, pad string) error {
	if src == nil || dst == nil {
		return ErrNilNode
	}
	if src.g != g || dst.g != g {
		return ErrForeignNode
	}
	if !validPad(pad) || dst.kind == kindInputProxy {
		return fmt.Errorf("%w: %q", ErrUnknownPad, pad)
	}
	if src == dst || dependsOn(src, dst) {
		return ErrCycle
	}
	dst.mu.Lock()
	dst.inputs[pad] = src
	dst.mu.Unlock()
	g.touch()
	return nil
}

// Disconnect removes whatever is connected to the pad of dst.
func (g *Graph) Disconnect(dst *Node, pad string) {
	if dst == nil {
		return
	}
	dst.mu.Lock()
	delete(dst.inputs, pad)
	dst.mu.Unlock()
	g.touch()
}

// upstream returns the nodes whose output n reads.
func upstream(n *Node) []*Node {
	switch n.kind {
	case kindMeta:
		return []*Node{n.output}
	case kindInputProxy:
		if src := n.parent.Input(n.pad); src != nil {
			return []*Node{src}
		}
		return nil
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]*Node, 0, len(n.inputs))
	for _, src := range n.inputs {
		out = append(out, src)
	}
	return out
}

// dependsOn reports whether the output of a reads the output of b.
func dependsOn(a, b *Node) bool {
	seen := map[*Node]bool{}
	stack := []*Node{a}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == b {
			return true
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		stack = append(stack, upstream(n)...)
	}
	return false
}

func validPad(pad string) bool {
	return pad == PadInput || pad == PadAux || pad == PadAux2
}

func defaults(op Operation) map[string]any {
	if p, ok := op.(Propertied); ok {
		return maps.Clone(p.Defaults())
	}
	return make(map[string]any)
}

func applyProps(values, props map[string]any) (map[string]any, error) {
	for k, v := range props {
		if err := checkType(values, k, v); err != nil {
			return nil, err
		}
		values[k] = v
	}
	return values, nil
}

func checkType(props map[string]any, key string, v any) error {
	old, ok := props[key]
	if !ok || old == nil {
		return nil
	}
	if reflect.TypeOf(old) != reflect.TypeOf(v) {
		return fmt.Errorf("%w: %s is %T, got %T", ErrPropertyType, key, old, v)
	}
	return nil
}
