package layer

import (
	"l14layers/pkg/geom"
)

// PaintLayerFlags carry walker state down one paintLayer call.
type PaintLayerFlags uint

const (
	PaintLayerHaveTransparency PaintLayerFlags = 1 << iota
	PaintLayerAppliedTransform
	PaintLayerTemporaryClipRects
	PaintLayerPaintingReflection

	// paintLayerInTransparencyLayer means the transparency layer for the
	// current layer has already been begun by a caller.
	paintLayerInTransparencyLayer
)

type paintingInfo struct {
	rootLayer      *Layer
	paintDirtyRect geom.Rect
}

// Paint paints l and its descendants back to front. l is the paint root:
// dirty and every offset handed to renderers are in l's local coordinates.
func (l *Layer) Paint(gc GraphicsContext, dirty geom.Rect) {
	l.paintLayer(gc, paintingInfo{rootLayer: l, paintDirtyRect: dirty}, 0)
}

func (l *Layer) paintsWithTransparency() bool {
	st := l.Style()
	return st.HasOpacity() || st.HasMask
}

func (l *Layer) paintLayer(gc GraphicsContext, info paintingInfo, flags PaintLayerFlags) {
	if info.paintDirtyRect.IsEmpty() {
		return
	}
	l.UpdateDescendantDependentFlags()
	if !l.isSelfPaintingLayer && !l.hasSelfPaintingLayerDescendant {
		return
	}
	if !l.HasVisibleContent() && !l.hasVisibleDescendant {
		return
	}
	// An empty box only matters when it has children it does not clip away.
	if l.size.IsEmpty() && (l.first == noIndex || l.Style().HasOverflowClip()) {
		return
	}

	if l.paintsWithTransparency() {
		flags |= PaintLayerHaveTransparency
	}
	if l.transform != nil && flags&PaintLayerAppliedTransform == 0 {
		l.paintLayerByApplyingTransform(gc, info, flags)
		return
	}
	l.paintLayerContents(gc, info, flags)
}

func (l *Layer) clipRectsContextForPaint(info paintingInfo, flags PaintLayerFlags) ClipRectsContext {
	ctx := ClipRectsContext{Root: info.rootLayer, Type: PaintingClipRects}
	if flags&PaintLayerTemporaryClipRects != 0 {
		ctx.Type = TemporaryClipRects
	}
	return ctx
}

// paintLayerByApplyingTransform clips to what l's ancestors allow, applies
// l's transform once and paints l as the new paint root.
func (l *Layer) paintLayerByApplyingTransform(gc GraphicsContext, info paintingInfo, flags PaintLayerFlags) {
	offset := l.ConvertToLayerCoords(info.rootLayer, geom.Point{})
	m := geom.Translation(offset.X, offset.Y).Multiply(*l.transform)
	inv, ok := m.Inverse()
	if !ok {
		return
	}
	ctx := l.clipRectsContextForPaint(info, flags)
	frags := l.collectFragments(ctx, info.paintDirtyRect, &offset, nil, true)
	if len(frags) == 0 {
		return
	}

	began := false
	if flags&PaintLayerHaveTransparency != 0 && flags&paintLayerInTransparencyLayer == 0 {
		gc.BeginTransparencyLayer(l.transparencyOpacity(flags), info.paintDirtyRect)
		flags |= paintLayerInTransparencyLayer
		began = true
	}
	for _, f := range frags {
		if f.BackgroundRect.IsEmpty() {
			continue
		}
		gc.Save()
		if !f.BackgroundRect.IsInfinite() {
			gc.ClipRect(f.BackgroundRect.Rect)
		}
		dirty := f.BackgroundRect.Rect
		if !f.PaginationOffset.IsZero() {
			gc.Translate(f.PaginationOffset.X, f.PaginationOffset.Y)
			dirty = dirty.Translate(f.PaginationOffset.Scale(-1))
		}
		if !f.PaginationClip.IsInfinite() {
			gc.ClipRect(f.PaginationClip)
			dirty = dirty.Intersect(f.PaginationClip)
		}
		gc.ConcatTransform(m)
		local := paintingInfo{rootLayer: l, paintDirtyRect: inv.MapRect(dirty)}
		l.paintLayerContents(gc, local, flags|PaintLayerAppliedTransform)
		gc.Restore()
	}
	if began {
		gc.EndTransparencyLayer()
	}
}

// transparencyOpacity is the opacity of l's transparency layer. A reflected
// copy is already inside its owner's layer, so it only needs isolation.
func (l *Layer) transparencyOpacity(flags PaintLayerFlags) float64 {
	if flags&PaintLayerPaintingReflection != 0 {
		return 1
	}
	return l.Style().Opacity
}

func (l *Layer) paintLayerContents(gc GraphicsContext, info paintingInfo, flags PaintLayerFlags) {
	st := l.Style()
	l.UpdateLayerListsIfNeeded()

	offset := l.ConvertToLayerCoords(info.rootLayer, geom.Point{})
	frags := l.CollectFragments(l.clipRectsContextForPaint(info, flags), info.paintDirtyRect, &offset, nil)
	shouldPaintContent := l.isSelfPaintingLayer && l.HasVisibleContent()

	began := false
	if flags&PaintLayerHaveTransparency != 0 && flags&paintLayerInTransparencyLayer == 0 {
		gc.BeginTransparencyLayer(l.transparencyOpacity(flags), info.paintDirtyRect)
		flags |= paintLayerInTransparencyLayer
		began = true
	}
	childFlags := flags &^ (PaintLayerHaveTransparency | PaintLayerAppliedTransform | paintLayerInTransparencyLayer)

	filtered := len(st.Filters) > 0
	if filtered {
		gc.BeginFilterLayer(st.Filters, info.paintDirtyRect)
	}

	if shouldPaintContent {
		l.paintFragments(gc, frags, PaintPhaseBackground, offset)
	}
	l.paintList(l.negZOrderList, gc, info, childFlags)
	if shouldPaintContent {
		l.paintFragments(gc, frags, PaintPhaseForeground, offset)
		l.paintFragments(gc, frags, PaintPhaseOutline, offset)
	}
	l.paintList(l.normalFlowList, gc, info, childFlags)
	l.paintList(l.posZOrderList, gc, info, childFlags)

	if filtered {
		gc.EndFilterLayer()
	}
	if st.HasMask && shouldPaintContent {
		gc.BeginMaskLayer(info.paintDirtyRect)
		l.paintFragments(gc, frags, PaintPhaseMask, offset)
		gc.EndMaskLayer()
	}

	if flags&PaintLayerPaintingReflection == 0 {
		if l.reflection != nil {
			l.paintReflection(gc, info, flags)
		}
		l.paintOverflowControls(gc, frags, offset)
	}
	if began {
		gc.EndTransparencyLayer()
	}
}

// fragmentClip picks the clip a phase paints under.
func fragmentClip(f Fragment, phase PaintPhase) ClipRect {
	switch phase {
	case PaintPhaseForeground:
		return f.ForegroundRect
	case PaintPhaseOutline:
		return f.OutlineRect
	}
	return f.BackgroundRect
}

func (l *Layer) paintFragments(gc GraphicsContext, frags Fragments, phase PaintPhase, offset geom.Point) {
	for _, f := range frags {
		if !f.ShouldPaintContent && phase != PaintPhaseOutline {
			continue
		}
		clip := fragmentClip(f, phase)
		if clip.IsEmpty() {
			continue
		}
		gc.Save()
		if !clip.IsInfinite() {
			gc.ClipRect(clip.Rect)
		}
		damage := clip.Rect
		if !f.PaginationOffset.IsZero() {
			gc.Translate(f.PaginationOffset.X, f.PaginationOffset.Y)
			damage = damage.Translate(f.PaginationOffset.Scale(-1))
		}
		if !f.PaginationClip.IsInfinite() {
			gc.ClipRect(f.PaginationClip)
			damage = damage.Intersect(f.PaginationClip)
		}
		l.renderer.Paint(gc, PaintInfo{Phase: phase, Offset: offset, Rect: damage})
		gc.Restore()
	}
}

// paintList paints one of l's child lists. The list must not change while it
// is walked.
func (l *Layer) paintList(list []*Layer, gc GraphicsContext, info paintingInfo, flags PaintLayerFlags) {
	if len(list) == 0 {
		return
	}
	restore := l.forbidListMutation()
	defer restore()
	for _, child := range list {
		child.paintLayer(gc, info, flags)
	}
}
