package layer

import (
	"sort"

	"l14layers/pkg/geom"
)

// Fragment is the part of a layer shown in one region. Every rect except
// PaginationClip is in the root layer's visual space. PaginationClip is the
// region's slice of the flow, in the root layer's unpaginated space: content
// is painted at flow positions, translated by PaginationOffset and clipped to
// PaginationClip.
type Fragment struct {
	ShouldPaintContent bool
	LayerBounds        geom.Rect
	BackgroundRect     ClipRect
	ForegroundRect     ClipRect
	OutlineRect        ClipRect
	PaginationOffset   geom.Point
	PaginationClip     geom.Rect
}

// Fragments lists a layer's fragments in region order.
type Fragments []Fragment

// CollectFragments computes the fragments of l relative to ctx.Root within
// dirty. A layer that is not paginated below ctx.Root yields at most one
// fragment. layerBoundingBox, when set, replaces l's border box as the area
// to split, in the pagination layer's flow space.
func (l *Layer) CollectFragments(ctx ClipRectsContext, dirty geom.Rect, offsetFromRoot *geom.Point, layerBoundingBox *geom.Rect) Fragments {
	return l.collectFragments(ctx, dirty, offsetFromRoot, layerBoundingBox, false)
}

func (l *Layer) collectFragments(ctx ClipRectsContext, dirty geom.Rect, offsetFromRoot *geom.Point, layerBoundingBox *geom.Rect, ignoreTransform bool) Fragments {
	rectsFor := l.CalculateRects
	if ignoreTransform {
		rectsFor = l.ancestorClipRects
	}
	pl := l.enclosingPaginationLayerFor(ctx.Root)
	if pl == nil || pl.paginator == nil || (l.transform != nil && !ignoreTransform) {
		r := rectsFor(ctx, dirty, offsetFromRoot)
		f := Fragment{
			LayerBounds:    r.LayerBounds,
			BackgroundRect: r.Background,
			ForegroundRect: r.Foreground,
			OutlineRect:    r.Outline,
			PaginationClip: geom.InfiniteRect(),
		}
		f.ShouldPaintContent = !f.BackgroundRect.IsEmpty() || !f.ForegroundRect.IsEmpty()
		if !f.ShouldPaintContent && f.OutlineRect.IsEmpty() {
			return nil
		}
		return Fragments{f}
	}

	plOffset := pl.ConvertToLayerCoords(ctx.Root, geom.Point{})
	flowOffset := l.ConvertToLayerCoords(pl, geom.Point{})

	// Everything above the pagination layer clips every fragment alike.
	ancestorClip := dirty
	if pl != ctx.Root {
		ancestorClip = pl.CalculateRects(ctx, dirty, &plOffset).Foreground.Rect
	}

	bbox := geom.RectFromPointSize(flowOffset, l.size)
	if layerBoundingBox != nil {
		bbox = *layerBoundingBox
	}
	regions := pl.paginator.Regions(bbox)
	sort.SliceStable(regions, func(i, j int) bool { return regions[i].Index < regions[j].Index })

	flowCtx := ctx
	flowCtx.Root = pl
	flowCtx.RespectOverflowClip = IgnoreOverflowClip

	frags := make(Fragments, 0, len(regions))
	for i := range regions {
		rg := regions[i]
		rc := flowCtx
		rc.Region = &rg
		r := rectsFor(rc, rg.FlowRect, &flowOffset)

		shift := plOffset.Add(rg.Offset)
		f := Fragment{
			LayerBounds:      r.LayerBounds.Translate(shift),
			BackgroundRect:   r.Background.Translate(shift).IntersectRect(ancestorClip),
			ForegroundRect:   r.Foreground.Translate(shift).IntersectRect(ancestorClip),
			OutlineRect:      r.Outline.Translate(shift).IntersectRect(ancestorClip),
			PaginationOffset: rg.Offset,
			PaginationClip:   rg.FlowRect.Translate(plOffset),
		}
		f.ShouldPaintContent = !f.BackgroundRect.IsEmpty() || !f.ForegroundRect.IsEmpty()
		frags = append(frags, f)
	}
	return frags
}

// ancestorClipRects is CalculateRects without l's own clips. A transformed
// layer applies those after its transform.
func (l *Layer) ancestorClipRects(ctx ClipRectsContext, dirty geom.Rect, offsetFromRoot *geom.Point) LayerRects {
	var offset geom.Point
	if offsetFromRoot != nil {
		offset = *offsetFromRoot
	} else {
		offset = l.ConvertToLayerCoords(ctx.Root, geom.Point{})
	}
	bg := ClipRect{Rect: dirty}
	if ctx.Root != l && l.Parent() != nil {
		bg = l.BackgroundClipRect(ctx).IntersectRect(dirty)
	}
	return LayerRects{
		LayerBounds: geom.RectFromPointSize(offset, l.size),
		Background:  bg,
		Foreground:  bg,
		Outline:     bg,
	}
}
