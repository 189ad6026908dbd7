package layer

import "l14layers/pkg/geom"

// replicaRenderer stands in for the mirrored copy of a reflected layer. It
// paints nothing itself: the owner repaints its subtree under the mirror
// transform.
type replicaRenderer struct {
	owner *Layer
	style *Style
}

func (r *replicaRenderer) Name() string              { return r.owner.Name() + "::reflection" }
func (r *replicaRenderer) Style() *Style             { return r.style }
func (r *replicaRenderer) Frame() geom.Rect          { return r.owner.LocalBounds() }
func (r *replicaRenderer) BorderWidths() geom.Edges  { return geom.Edges{} }
func (r *replicaRenderer) LayoutOverflow() geom.Rect { return r.owner.LocalBounds() }
func (r *replicaRenderer) VisualOverflow() geom.Rect {
	return r.owner.renderer.VisualOverflow().Union(r.owner.LocalBounds())
}
func (r *replicaRenderer) Paint(GraphicsContext, PaintInfo)           {}
func (r *replicaRenderer) HitTest(HitTestPhase, HitTestLocation) bool { return false }

func (l *Layer) updateReflection() {
	if l.isReflection {
		return
	}
	want := l.Style().Reflection != nil
	switch {
	case want && l.reflection == nil:
		r := l.tree.CreateLayer(&replicaRenderer{owner: l, style: NewStyle()})
		r.isReflection = true
		r.parent = l.index
		r.updateLayerKind()
		l.reflection = r
	case !want && l.reflection != nil:
		l.tree.destroySubtree(l.reflection)
		l.reflection = nil
	}
	if l.reflection != nil {
		l.updateReflectionTransform()
	}
}

func (l *Layer) updateReflectionTransform() {
	m := reflectionTransform(*l.Style().Reflection, l.size)
	l.reflection.transform = &m
}

// reflectionTransform mirrors a box of the given size across the edge named
// by r, leaving r.Offset of space between the box and its mirror image.
func reflectionTransform(r Reflection, size geom.Size) geom.Transform {
	switch r.Direction {
	case ReflectAbove:
		return geom.Transform{A: 1, D: -1, F: -r.Offset}
	case ReflectLeft:
		return geom.Transform{A: -1, D: 1, E: -r.Offset}
	case ReflectRight:
		return geom.Transform{A: -1, D: 1, E: 2*size.Width + r.Offset}
	}
	return geom.Transform{A: 1, D: -1, F: 2*size.Height + r.Offset}
}

// paintReflection repaints l's subtree under the mirror transform. The copy
// is drawn with temporary clip rects: cached rects describe the unmirrored
// geometry. It gets its own transparency layer so its mask stays on the
// copy; opacity is applied once, by the owner's layer.
func (l *Layer) paintReflection(gc GraphicsContext, info paintingInfo, flags PaintLayerFlags) {
	offset := l.ConvertToLayerCoords(info.rootLayer, geom.Point{})
	m := geom.Translation(offset.X, offset.Y).
		Multiply(*l.reflection.transform).
		Multiply(geom.Translation(-offset.X, -offset.Y))
	inv, ok := m.Inverse()
	if !ok {
		return
	}
	gc.Save()
	gc.ConcatTransform(m)
	mirrored := info
	mirrored.paintDirtyRect = inv.MapRect(info.paintDirtyRect)
	l.paintLayer(gc, mirrored, (flags&^paintLayerInTransparencyLayer)|PaintLayerPaintingReflection|PaintLayerTemporaryClipRects)
	gc.Restore()
}
