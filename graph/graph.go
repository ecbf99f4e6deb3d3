package graph

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/gogpu/composite"
	"github.com/gogpu/composite/buffer"
	"github.com/gogpu/composite/internal/cache"
	"github.com/gogpu/composite/internal/parallel"
	"github.com/gogpu/composite/operator"
)

// Common errors for graph operations.
var (
	// ErrUnknownOperation is returned for operation names nobody registered.
	ErrUnknownOperation = errors.New("graph: unknown operation")

	// ErrUnknownPad is returned when connecting to a pad that does not exist.
	ErrUnknownPad = errors.New("graph: unknown pad")

	// ErrCycle is returned when a connection would make a node depend on
	// itself.
	ErrCycle = errors.New("graph: connection would create a cycle")

	// ErrForeignNode is returned when nodes of different graphs are mixed.
	ErrForeignNode = errors.New("graph: node belongs to another graph")

	// ErrNilNode is returned when a nil node is passed.
	ErrNilNode = errors.New("graph: nil node")

	// ErrPropertyType is returned when a property is set to a value whose type
	// differs from the operation's default.
	ErrPropertyType = errors.New("graph: property type mismatch")

	// ErrNotMeta is returned when a proxy is requested from a plain node.
	ErrNotMeta = errors.New("graph: not a meta node")

	// ErrEmptyRegion is returned when rendering an empty region.
	ErrEmptyRegion = errors.New("graph: empty region")

	// ErrClosed is returned by Render after Close.
	ErrClosed = errors.New("graph: closed")
)

// Input pad names.
const (
	PadInput = "input"
	PadAux   = "aux"
	PadAux2  = "aux2"
)

// Infinite is the bounding box of operations without a natural extent, such
// as a constant colour.
var Infinite = composite.Rect(-1<<28, -1<<28, 1<<29, 1<<29)

// tileKey identifies one rendered tile of one node at one graph revision.
type tileKey struct {
	node *Node
	roi  composite.Region
	rev  uint64
}

// Graph owns nodes and the workers that render them.
type Graph struct {
	pool         *parallel.WorkerPool
	tileW, tileH int
	tiles        *cache.Cache[tileKey, *buffer.Buffer]

	// rev changes on every mutation that can alter rendered output.
	rev atomic.Uint64

	mu    sync.Mutex
	nodes []*Node
}

// Option configures a Graph during creation.
//
// Example:
//
//	g := graph.New(graph.WithWorkers(4), graph.WithTileSize(128, 128))
type Option func(*options)

type options struct {
	workers      int
	tileW, tileH int
	cacheTiles   int
}

func defaultOptions() options {
	return options{
		workers: 0, // GOMAXPROCS
		tileW:   parallel.TileWidth,
		tileH:   parallel.TileHeight,
	}
}

// WithWorkers sets the number of render workers. Zero or negative means
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithTileSize sets the tile size used to split render regions.
// Non-positive sizes keep the 64x64 default.
func WithTileSize(w, h int) Option {
	return func(o *options) {
		if w > 0 && h > 0 {
			o.tileW, o.tileH = w, h
		}
	}
}

// WithTileCache keeps up to n rendered tiles between Render calls. Tiles are
// dropped whenever a node is mutated; after writing into a buffer that a
// source node wraps, call Invalidate.
func WithTileCache(n int) Option {
	return func(o *options) {
		o.cacheTiles = max(n, 0)
	}
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	g := &Graph{
		pool:  parallel.NewWorkerPool(o.workers),
		tileW: o.tileW,
		tileH: o.tileH,
	}
	if o.cacheTiles > 0 {
		g.tiles = cache.New[tileKey, *buffer.Buffer](o.cacheTiles)
	}
	composite.Logger().Info("graph: created",
		"workers", g.pool.Workers(), "tile_w", g.tileW, "tile_h", g.tileH,
		"cache", o.cacheTiles, "normal", operator.NormalLevel())
	return g
}

// Close stops the render workers. Nodes stay readable; Render fails with
// ErrClosed. Close is safe to call multiple times.
func (g *Graph) Close() error {
	g.pool.Close()
	if g.tiles != nil {
		g.tiles.Clear()
	}
	return nil
}

// Invalidate drops cached tiles.
func (g *Graph) Invalidate() {
	g.rev.Add(1)
	if g.tiles != nil {
		g.tiles.Clear()
	}
}

// CacheStats reports tile cache usage.
type CacheStats struct {
	Tiles     int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// CacheStats returns the tile cache counters. All fields are zero when the
// graph was created without WithTileCache.
func (g *Graph) CacheStats() CacheStats {
	if g.tiles == nil {
		return CacheStats{}
	}
	s := g.tiles.Stats()
	return CacheStats{
		Tiles:     s.Len,
		Capacity:  s.Capacity,
		Hits:      s.Hits,
		Misses:    s.Misses,
		Evictions: s.Evictions,
	}
}

// Nodes returns every node created in g, in creation order.
func (g *Graph) Nodes() []*Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*Node(nil), g.nodes...)
}

// TileSize returns the render tile size.
func (g *Graph) TileSize() (w, h int) {
	return g.tileW, g.tileH
}

func (g *Graph) add(n *Node) {
	g.mu.Lock()
	g.nodes = append(g.nodes, n)
	g.mu.Unlock()
}

func (g *Graph) touch() {
	g.rev.Add(1)
}
