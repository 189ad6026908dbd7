package scene

import (
	"fmt"
	"image/color"

	"go.uber.org/zap"

	"l14layers/pkg/geom"
	"l14layers/pkg/layer"
	"l14layers/pkg/paint"
)

// Built is a scene turned into a laid-out layer tree.
type Built struct {
	Scene  *Scene
	Tree   *layer.Tree
	layers map[string]*layer.Layer
}

// Build creates one layer per node, installs column paginators, runs the
// post-layout update and applies the initial scroll offsets.
func Build(s *Scene, opts layer.Options) (*Built, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	b := &Built{Scene: s, Tree: layer.NewTree(opts), layers: map[string]*layer.Layer{}}
	if err := b.add(nil, s.Root); err != nil {
		return nil, err
	}
	b.Tree.UpdateLayerPositionsAfterLayout(layer.UpdateLayerPositionsDefault)

	var scrolled int
	s.Root.Walk(func(n *Node) {
		if len(n.Scroll) == 2 {
			b.layers[n.Name].ScrollToOffset(geom.Pt(n.Scroll[0], n.Scroll[1]), layer.ScrollOffsetClamped)
			scrolled++
		}
	})
	if opts.Logger != nil {
		opts.Logger.Debug("built scene",
			zap.Int("layers", b.Tree.Len()),
			zap.Int("scrolled", scrolled))
	}
	return b, nil
}

func (b *Built) add(parent *layer.Layer, n *Node) error {
	box, err := NewBox(n)
	if err != nil {
		return fmt.Errorf("node %s: %w", n.Name, err)
	}
	l := b.Tree.CreateLayer(box)
	if parent == nil {
		b.Tree.SetRoot(l)
	} else {
		parent.AddChild(l, nil)
	}
	if c := n.Columns; c != nil {
		l.SetPaginator(ColumnPaginator{Width: c.Width, Height: c.Height, Count: c.Count, Gap: c.Gap})
	}
	b.layers[n.Name] = l
	for _, child := range n.Children {
		if err := b.add(l, child); err != nil {
			return err
		}
	}
	return nil
}

// Layer returns the layer built for the named node, or nil.
func (b *Built) Layer(name string) *layer.Layer { return b.layers[name] }

// Root returns the root layer.
func (b *Built) Root() *layer.Layer { return b.Tree.Root() }

// Viewport is the scene's visible area in root coordinates.
func (b *Built) Viewport() geom.Rect {
	return geom.R(0, 0, float64(b.Scene.Width), float64(b.Scene.Height))
}

// PaintTo paints the whole viewport into gc.
func (b *Built) PaintTo(gc layer.GraphicsContext) {
	b.Root().Paint(gc, b.Viewport())
}

// Render paints the scene onto a new canvas filled with the scene background
// (white when unset).
func (b *Built) Render() *paint.Canvas {
	var bg color.Color = color.White
	if c, ok := ParseColor(b.Scene.Background); ok {
		bg = c
	}
	c := paint.NewCanvas(b.Scene.Width, b.Scene.Height, bg)
	b.PaintTo(c)
	return c
}

// HitTest probes the point p in root coordinates.
func (b *Built) HitTest(req layer.HitTestRequest, p geom.Point) *layer.HitTestResult {
	loc := layer.NewPointLocation(p)
	result := layer.NewHitTestResult(loc)
	b.Root().HitTest(req, loc, result)
	return result
}

// HitTestRect collects every layer intersecting r.
func (b *Built) HitTestRect(req layer.HitTestRequest, r geom.Rect) *layer.HitTestResult {
	loc := layer.NewRectLocation(r)
	result := layer.NewHitTestResult(loc)
	b.Root().HitTest(req, loc, result)
	return result
}
