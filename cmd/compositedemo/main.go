// Command compositedemo renders a small layer stack through the compositing
// graph, smudges across the result and writes it as a PNG.
package main

import (
	"context"
	"flag"
	"image"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/composite"
	"github.com/gogpu/composite/buffer"
	"github.com/gogpu/composite/gpu"
	"github.com/gogpu/composite/graph"
	"github.com/gogpu/composite/nodes"
	"github.com/gogpu/composite/operator"
	"github.com/gogpu/composite/smudge"
)

func main() {
	var (
		width   = flag.Int("width", 512, "image width")
		height  = flag.Int("height", 384, "image height")
		output  = flag.String("output", "composite.png", "output file")
		mode    = flag.String("mode", "multiply", "blend mode of the top layer")
		opacity = flag.Float64("opacity", 0.8, "opacity of the top layer")
		linear  = flag.Bool("linear", false, "blend the top layer in linear light")
		tile    = flag.Int("tile", 64, "render tile size")
		workers = flag.Int("workers", 0, "render workers (0 = GOMAXPROCS)")
		smear   = flag.Bool("smudge", true, "smudge a stroke across the result")
		verbose = flag.Bool("v", false, "log render diagnostics")
		gpuInfo = flag.Bool("gpu", false, "report the GPU path of the top layer mode")
	)
	flag.Parse()

	if *verbose {
		composite.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	top, err := composite.ParseMode(*mode)
	if err != nil {
		log.Fatalf("Invalid mode: %v (known: %v)", err, composite.Modes())
	}

	g := graph.New(graph.WithTileSize(*tile, *tile), graph.WithWorkers(*workers))
	defer g.Close()

	root, err := buildStack(g, *width, *height, top, *opacity, *linear)
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}

	roi := composite.Rect(0, 0, *width, *height)
	out, err := g.Render(context.Background(), root, roi)
	if err != nil {
		log.Fatalf("Failed to render: %v", err)
	}

	if *smear {
		if err := smudgeAcross(out, *width, *height); err != nil {
			log.Fatalf("Failed to smudge: %v", err)
		}
	}

	if err := savePNG(*output, out, roi); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	if *gpuInfo {
		if err := reportGPU(top); err != nil {
			log.Fatalf("GPU: %v", err)
		}
	}

	log.Printf("Rendered %s over %d nodes (normal kernel: %v) to %s (%dx%d)\n",
		top, len(g.Nodes()), operator.NormalLevel(), *output, *width, *height)
}

// buildStack composites, bottom to top: a hue wheel, a dissolved disc and a
// gradient layer in the requested mode, flattened over white.
func buildStack(g *graph.Graph, w, h int, top composite.Mode, opacity float64, linear bool) (*graph.Node, error) {
	wheel, err := hueWheel(w, h)
	if err != nil {
		return nil, err
	}
	base, err := g.NewNode("buffer-source", map[string]any{"buffer": wheel})
	if err != nil {
		return nil, err
	}

	disc, err := discLayer(w/2, composite.Opaque(1, 0.85, 0.2))
	if err != nil {
		return nil, err
	}
	dissolve, err := nodes.NewLayerNode(g, composite.ModeDissolve, 0.7, false)
	if err != nil {
		return nil, err
	}
	discSource, err := nodes.AddBufferSource(dissolve, disc, w/4, h/8)
	if err != nil {
		return nil, err
	}

	grad, err := gradientLayer(w, h/2)
	if err != nil {
		return nil, err
	}
	layer, err := nodes.NewLayerNode(g, top, opacity, linear)
	if err != nil {
		return nil, err
	}
	gradSource, err := nodes.AddBufferSource(layer, grad, 0, h/4)
	if err != nil {
		return nil, err
	}

	white := composite.Opaque(1, 1, 1)
	flatten, err := nodes.CreateFlattenNode(g, &white)
	if err != nil {
		return nil, err
	}

	for _, c := range []struct {
		src, dst *graph.Node
		pad      string
	}{
		{base, dissolve, graph.PadInput},
		{discSource, dissolve, graph.PadAux},
		{dissolve, layer, graph.PadInput},
		{gradSource, layer, graph.PadAux},
		{layer, flatten, graph.PadInput},
	} {
		if err := g.Connect(c.src, c.dst, c.pad); err != nil {
			return nil, err
		}
	}
	return flatten, nil
}

// hueWheel fills a buffer with hues varying with the angle around the centre
// and saturation with the radius. Alpha falls off towards the corners.
func hueWheel(w, h int) (*buffer.Buffer, error) {
	b, err := buffer.New(composite.Rect(0, 0, w, h), buffer.RGBA)
	if err != nil {
		return nil, err
	}
	cx, cy := float64(w)/2, float64(h)/2
	rmax := math.Hypot(cx, cy)

	row := make([]float32, w*composite.Channels)
	for y := range h {
		for x := range w {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			hue := math.Mod(math.Atan2(dy, dx)*180/math.Pi+360, 360)
			r := math.Hypot(dx, dy) / rmax
			c := colorful.Hsv(hue, min(r*1.5, 1), 0.95)
			row[x*4], row[x*4+1], row[x*4+2] = float32(c.R), float32(c.G), float32(c.B)
			row[x*4+3] = float32(1 - 0.5*r)
		}
		if err := b.Write(composite.Rect(0, y, w, 1), row); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// discLayer returns an opaque disc of the given diameter on transparency.
func discLayer(size int, color composite.Sample) (*buffer.Buffer, error) {
	b, err := buffer.New(composite.Rect(0, 0, size, size), buffer.RGBA)
	if err != nil {
		return nil, err
	}
	r := float64(size) / 2
	for y := range size {
		for x := range size {
			if math.Hypot(float64(x)+0.5-r, float64(y)+0.5-r) <= r {
				b.SetColor(composite.Rect(x, y, 1, 1), color)
			}
		}
	}
	return b, nil
}

// gradientLayer blends from teal to magenta in HCL, left to right.
func gradientLayer(w, h int) (*buffer.Buffer, error) {
	b, err := buffer.New(composite.Rect(0, 0, w, h), buffer.RGBA)
	if err != nil {
		return nil, err
	}
	from := colorful.Color{R: 0.1, G: 0.6, B: 0.6}
	to := colorful.Color{R: 0.8, G: 0.1, B: 0.6}
	for x := range w {
		c := from.BlendHcl(to, float64(x)/float64(max(w-1, 1))).Clamped()
		b.SetColor(composite.Rect(x, 0, 1, h), composite.Opaque(float32(c.R), float32(c.G), float32(c.B)))
	}
	return b, nil
}

// smudgeAcross drags a smudge stroke along a sine wave over b.
func smudgeAcross(b *buffer.Buffer, w, h int) error {
	opts := smudge.DefaultOptions()
	opts.BrushSize = float64(min(w, h)) / 8
	opts.FadeLength = float64(w)

	core := smudge.NewBrushCore(opts.BrushSize)
	coords := func(yield func(smudge.Coords) bool) {
		for x := 0; x < w; x += 2 {
			y := float64(h)/2 + float64(h)/6*math.Sin(float64(x)/float64(w)*2*math.Pi)
			if !yield(smudge.Coords{X: float64(x), Y: y, Pressure: 1}) {
				return
			}
		}
	}
	return smudge.Paint(context.Background(), core, smudge.Fade{smudge.OutputRate}, opts, smudge.CanvasOf(b), coords)
}

// reportGPU prints how mode would run on a GPU: as a fixed-function blend
// state, or through the Normal compute kernel.
func reportGPU(mode composite.Mode) error {
	if state, ok := gpu.BlendState(mode); ok {
		log.Printf("GPU: %s is fixed-function (color %v/%v %v)\n", mode,
			state.Color.SrcFactor, state.Color.DstFactor, state.Color.Operation)
		return nil
	}
	words, err := gpu.CompileNormal()
	if err != nil {
		return err
	}
	log.Printf("GPU: %s needs a shader; normal kernel is %d SPIR-V words, workgroup %d\n",
		mode, len(words), gpu.WorkgroupSize)
	return nil
}

// savePNG writes roi of b as an 8-bit non-premultiplied PNG.
func savePNG(path string, b *buffer.Buffer, roi composite.Region) error {
	img := image.NewNRGBA(image.Rect(0, 0, roi.Width, roi.Height))
	px := b.Read(roi, buffer.RGBA)
	for i, v := range px {
		img.Pix[i] = uint8(math.Round(float64(max(0, min(v, 1))) * 255))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
