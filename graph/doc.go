// Package graph is a small, lazily evaluated image-processing graph.
//
// A Graph owns nodes. Each node runs one registered Operation and reads up to
// three input pads: "input", "aux" and "aux2". Meta nodes group children
// behind proxies so a subgraph can be wired like a single node:
//
//	g := graph.New()
//	defer g.Close()
//
//	meta := g.NewMeta()
//	bg, _ := meta.NewChild("color", map[string]any{"value": composite.Opaque(1, 1, 1)})
//	over, _ := meta.NewChild("over", nil)
//	_ = g.Connect(bg, over, graph.PadInput)
//	_ = g.Connect(meta.InputProxy(graph.PadInput), over, graph.PadAux)
//	_ = g.Connect(over, meta.OutputProxy(), graph.PadInput)
//
//	out, err := g.Render(ctx, meta, composite.Rect(0, 0, 256, 256))
//
// # Evaluation
//
// Nothing is computed until Render. Render splits the requested region into
// tiles on a grid anchored at the origin and evaluates them on a worker pool.
// Each tile pulls exactly the input regions it needs, so the result of a
// region does not depend on the tile size.
//
// Operations that can hand one of their inputs through unchanged implement
// Forwarder; the renderer then skips their Process step for that region.
//
// # Thread safety
//
// Nodes may be mutated while no Render is in progress. Render itself is safe
// for concurrent use.
package graph
