// Package paint implements layer.GraphicsContext on top of fogleman/gg.
package paint

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"l14layers/pkg/geom"
	"l14layers/pkg/layer"
)

type surfaceKind int

const (
	surfaceBase surfaceKind = iota
	surfaceTransparency
	surfaceFilter
	surfaceMask
)

// surface is one offscreen buffer the size of the canvas.
type surface struct {
	kind    surfaceKind
	img     *image.RGBA
	ctx     *gg.Context
	bounds  image.Rectangle // device pixels touched by the layer
	opacity float64
	filters []layer.Filter
	synced  bool
}

type clipEntry struct {
	rect   geom.Rect
	matrix geom.Transform
}

// state is what Save and Restore bracket. It is kept outside gg so it can
// be replayed onto every new offscreen surface.
type state struct {
	matrix geom.Transform
	clips  []clipEntry
}

// Canvas is a raster GraphicsContext. Transparency, filter and mask layers
// are painted into offscreen surfaces and composited when they end.
type Canvas struct {
	width, height int
	state         state
	stack         []state
	surfaces      []*surface
}

var _ layer.GraphicsContext = (*Canvas)(nil)

// NewCanvas returns a width x height canvas cleared to bg. A nil bg leaves
// it transparent.
func NewCanvas(width, height int, bg color.Color) *Canvas {
	c := &Canvas{width: width, height: height, state: state{matrix: geom.Identity()}}
	base := c.newSurface(surfaceBase, image.Rect(0, 0, width, height))
	if bg != nil {
		base.ctx.SetColor(bg)
		base.ctx.Clear()
	}
	c.surfaces = []*surface{base}
	return c
}

func (c *Canvas) newSurface(kind surfaceKind, bounds image.Rectangle) *surface {
	img := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	return &surface{
		kind:    kind,
		img:     img,
		ctx:     gg.NewContextForRGBA(img),
		bounds:  bounds,
		opacity: 1,
	}
}

func (c *Canvas) top() *surface { return c.surfaces[len(c.surfaces)-1] }

// Width and Height are the canvas size in pixels.
func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// Image returns the composited result. It is only complete once every
// layer has ended.
func (c *Canvas) Image() *image.RGBA { return c.surfaces[0].img }

// EncodePNG writes the base surface as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return c.surfaces[0].ctx.EncodePNG(w)
}

// SavePNG writes the base surface to path.
func (c *Canvas) SavePNG(path string) error {
	return c.surfaces[0].ctx.SavePNG(path)
}

// Depth is the number of open offscreen layers.
func (c *Canvas) Depth() int { return len(c.surfaces) - 1 }

func (c *Canvas) invalidate() {
	for _, s := range c.surfaces {
		s.synced = false
	}
}

// sync replays the current matrix and clip stack onto the top surface.
func (c *Canvas) sync() *gg.Context {
	s := c.top()
	if s.synced {
		return s.ctx
	}
	ctx := s.ctx
	ctx.ResetClip()
	for _, cl := range c.state.clips {
		setMatrix(ctx, cl.matrix)
		ctx.DrawRectangle(cl.rect.X, cl.rect.Y, cl.rect.Width, cl.rect.Height)
		ctx.Clip()
	}
	setMatrix(ctx, c.state.matrix)
	s.synced = true
	return ctx
}

// setMatrix loads m into ctx. gg only exposes composable primitives, so m
// is replayed from its decomposition.
func setMatrix(ctx *gg.Context, m geom.Transform) {
	ctx.Identity()
	if m.IsIdentity() {
		return
	}
	tx, ty, angle, shear, sx, sy := m.Decompose()
	ctx.Translate(tx, ty)
	if angle != 0 {
		ctx.Rotate(angle)
	}
	if shear != 0 {
		ctx.Shear(shear, 0)
	}
	ctx.Scale(sx, sy)
}

func (c *Canvas) Save() {
	st := c.state
	st.clips = st.clips[:len(st.clips):len(st.clips)]
	c.stack = append(c.stack, st)
}

func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.state = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.invalidate()
}

func (c *Canvas) ClipRect(r geom.Rect) {
	c.state.clips = append(c.state.clips, clipEntry{rect: r, matrix: c.state.matrix})
	c.invalidate()
}

func (c *Canvas) Translate(dx, dy float64) {
	c.ConcatTransform(geom.Translation(dx, dy))
}

func (c *Canvas) ConcatTransform(t geom.Transform) {
	c.state.matrix = c.state.matrix.Multiply(t)
	c.invalidate()
}

// deviceBounds maps a user-space rect to the device pixels it covers.
func (c *Canvas) deviceBounds(r geom.Rect) image.Rectangle {
	full := image.Rect(0, 0, c.width, c.height)
	if r.IsInfinite() {
		return full
	}
	d := c.state.matrix.MapRect(r)
	return image.Rect(
		int(math.Floor(d.X)), int(math.Floor(d.Y)),
		int(math.Ceil(d.MaxX())), int(math.Ceil(d.MaxY())),
	).Intersect(full)
}

func (c *Canvas) begin(kind surfaceKind, bounds geom.Rect) *surface {
	s := c.newSurface(kind, c.deviceBounds(bounds))
	c.surfaces = append(c.surfaces, s)
	return s
}

// end pops the top surface, which must be of kind.
func (c *Canvas) end(kind surfaceKind) *surface {
	if len(c.surfaces) < 2 || c.top().kind != kind {
		return nil
	}
	s := c.top()
	c.surfaces = c.surfaces[:len(c.surfaces)-1]
	return s
}

// composite draws s over the new top surface at s.opacity.
func (c *Canvas) composite(s *surface) {
	if s.bounds.Empty() || s.opacity <= 0 {
		return
	}
	dst := c.top().img
	if s.opacity >= 1 {
		draw.Draw(dst, s.bounds, s.img, s.bounds.Min, draw.Over)
		return
	}
	alpha := image.NewUniform(color.Alpha{A: uint8(math.Round(s.opacity * 255))})
	draw.DrawMask(dst, s.bounds, s.img, s.bounds.Min, alpha, image.Point{}, draw.Over)
}

func (c *Canvas) BeginTransparencyLayer(opacity float64, bounds geom.Rect) {
	s := c.begin(surfaceTransparency, bounds)
	s.opacity = math.Max(0, math.Min(1, opacity))
}

func (c *Canvas) EndTransparencyLayer() {
	if s := c.end(surfaceTransparency); s != nil {
		c.composite(s)
	}
}

func (c *Canvas) BeginFilterLayer(filters []layer.Filter, bounds geom.Rect) {
	s := c.begin(surfaceFilter, bounds)
	s.filters = filters
}

func (c *Canvas) EndFilterLayer() {
	s := c.end(surfaceFilter)
	if s == nil {
		return
	}
	applyFilters(s.img, s.bounds, s.filters)
	c.composite(s)
}

func (c *Canvas) BeginMaskLayer(bounds geom.Rect) {
	c.begin(surfaceMask, bounds)
}

// EndMaskLayer multiplies the surface below the mask by the mask's alpha.
func (c *Canvas) EndMaskLayer() {
	m := c.end(surfaceMask)
	if m == nil {
		return
	}
	target := c.top()
	out := gg.NewContext(c.width, c.height)
	if err := out.SetMask(m.ctx.AsMask()); err != nil {
		return
	}
	out.DrawImage(target.img, 0, 0)
	draw.Draw(target.img, target.img.Bounds(), out.Image(), image.Point{}, draw.Src)
}

func (c *Canvas) FillRect(r geom.Rect, col color.Color, radius float64) {
	ctx := c.sync()
	ctx.SetColor(col)
	if radius > 0 {
		ctx.DrawRoundedRectangle(r.X, r.Y, r.Width, r.Height, radius)
	} else {
		ctx.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	}
	ctx.Fill()
}

// StrokeRect strokes inside r so the stroke never leaves the rect.
func (c *Canvas) StrokeRect(r geom.Rect, col color.Color, width float64) {
	if width <= 0 {
		return
	}
	ctx := c.sync()
	ctx.SetColor(col)
	ctx.SetLineWidth(width)
	half := width / 2
	ctx.DrawRectangle(r.X+half, r.Y+half, math.Max(0, r.Width-width), math.Max(0, r.Height-width))
	ctx.Stroke()
}

// DrawString draws s with its baseline at (x, y) in the built-in face.
func (c *Canvas) DrawString(s string, x, y float64, col color.Color) {
	ctx := c.sync()
	ctx.SetColor(col)
	ctx.DrawString(s, x, y)
}
