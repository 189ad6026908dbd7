package layer

import (
	"fmt"
	"testing"

	"l14layers/pkg/geom"
)

func TestClipRectIntersectKeepsRadius(t *testing.T) {
	a := ClipRect{Rect: geom.R(0, 0, 100, 100), HasRadius: true}
	b := ClipRect{Rect: geom.R(50, 50, 100, 100)}

	got := b.Intersect(a)
	if got.Rect != geom.R(50, 50, 50, 50) {
		t.Errorf("Intersect rect = %v", got.Rect)
	}
	if !got.HasRadius {
		t.Errorf("radius flag lost on intersection")
	}
	if !InfiniteClipRect().Intersect(InfiniteClipRect()).IsInfinite() {
		t.Errorf("infinite ∩ infinite should stay infinite")
	}
	if !b.Intersect(ClipRect{Rect: geom.R(500, 500, 1, 1)}).IsEmpty() {
		t.Errorf("disjoint intersection should be empty")
	}
}

func TestClipRectsCacheHitsOnlyForSameRoot(t *testing.T) {
	f := newFixture(t, Options{})
	root := f.add(nil, "R", geom.R(0, 0, 100, 100), nil)
	other := f.add(root, "other", geom.R(0, 0, 10, 10), nil)

	var cache ClipRectsCache
	ctx := ClipRectsContext{Root: root, Type: PaintingClipRects}
	rects := NewClipRects(ClipRect{Rect: geom.R(1, 2, 3, 4)})

	stored := cache.Set(ctx, rects)
	if got := cache.Get(ctx); got != stored {
		t.Fatalf("Get returned %p, want the published %p", got, stored)
	}
	if got := cache.Get(ClipRectsContext{Root: other, Type: PaintingClipRects}); got != nil {
		t.Errorf("cache hit for a different root")
	}
	if got := cache.Get(ClipRectsContext{Root: root, Type: AbsoluteClipRects}); got != nil {
		t.Errorf("cache hit for a different type")
	}
	if got := cache.Get(ClipRectsContext{Root: root, Type: PaintingClipRects, RespectOverflowClip: IgnoreOverflowClip}); got != nil {
		t.Errorf("cache hit for a different overflow behavior")
	}

	temp := ClipRectsContext{Root: root, Type: TemporaryClipRects}
	cache.Set(temp, rects)
	if got := cache.Get(temp); got != nil {
		t.Errorf("temporary clip rects were cached")
	}

	gen := cache.Generation()
	cache.Clear(PaintingClipRects)
	if cache.Get(ctx) != nil {
		t.Errorf("Clear left the entry in place")
	}
	if cache.Generation() == gen {
		t.Errorf("Clear did not advance the generation")
	}
	if !stored.Equal(rects) {
		t.Errorf("published rects changed after Clear: %v", stored)
	}
}

// overflowScene builds R > P(overflow:hidden at 10,10 100x100) > C.
func overflowScene(t *testing.T, pStyle, cStyle func(*Style)) (f *fixture, root, p, c *Layer) {
	f = newFixture(t, Options{})
	root = f.add(nil, "R", geom.R(0, 0, 800, 600), nil)
	p = f.add(root, "P", geom.R(10, 10, 100, 100), func(s *Style) {
		s.Overflow = OverflowHidden
		if pStyle != nil {
			pStyle(s)
		}
	})
	c = f.add(p, "C", geom.R(50, 50, 200, 200), cStyle)
	f.layout()
	return f, root, p, c
}

func TestOverflowHiddenClipsNormalFlowChild(t *testing.T) {
	_, root, _, c := overflowScene(t, nil, nil)

	r := c.CalculateRects(ClipRectsContext{Root: root, Type: PaintingClipRects}, geom.InfiniteRect(), nil)
	if r.LayerBounds != geom.R(60, 60, 200, 200) {
		t.Errorf("layer bounds = %v, want (60,60 200x200)", r.LayerBounds)
	}
	if r.Background.Rect != geom.R(10, 10, 100, 100) {
		t.Errorf("background clip = %v, want P's padding box", r.Background.Rect)
	}
	if r.Foreground.Rect != geom.R(10, 10, 100, 100) {
		t.Errorf("foreground clip = %v, want P's padding box", r.Foreground.Rect)
	}
}

func TestOverflowClipExcludesBordersAndRespectsDirtyRect(t *testing.T) {
	f, root, p, c := overflowScene(t, nil, nil)
	boxOf(p).borders = geom.Edges{Top: 5, Right: 5, Bottom: 5, Left: 5}
	f.layout()

	r := c.CalculateRects(ClipRectsContext{Root: root, Type: PaintingClipRects}, geom.R(0, 0, 50, 50), nil)
	if r.Background.Rect != geom.R(15, 15, 35, 35) {
		t.Errorf("background clip = %v, want (15,15 35x35)", r.Background.Rect)
	}
}

func TestAbsoluteChildEscapesUnpositionedOverflow(t *testing.T) {
	_, root, _, c := overflowScene(t, nil, positioned(nil))
	clip := c.BackgroundClipRect(ClipRectsContext{Root: root, Type: PaintingClipRects})
	if !clip.IsInfinite() {
		t.Errorf("absolute child of a static overflow box clipped to %v", clip.Rect)
	}
}

func TestAbsoluteChildClippedByPositionedOverflow(t *testing.T) {
	_, root, _, c := overflowScene(t, func(s *Style) { s.Position = PositionRelative }, positioned(nil))
	clip := c.BackgroundClipRect(ClipRectsContext{Root: root, Type: PaintingClipRects})
	if clip.Rect != geom.R(10, 10, 100, 100) {
		t.Errorf("absolute child clip = %v, want the positioned container's padding box", clip.Rect)
	}
}

func TestFixedChildEscapesOverflow(t *testing.T) {
	_, root, _, c := overflowScene(t, func(s *Style) { s.Position = PositionRelative }, func(s *Style) {
		s.Position = PositionFixed
	})
	ctx := ClipRectsContext{Root: root, Type: PaintingClipRects}
	if clip := c.BackgroundClipRect(ctx); !clip.IsInfinite() {
		t.Errorf("fixed child clipped to %v", clip.Rect)
	}
	if !c.ClipRects(ctx).Fixed() {
		t.Errorf("fixed child's clip rects not marked fixed")
	}
	if got := c.ConvertToLayerCoords(root, geom.Point{}); got != geom.Pt(50, 50) {
		t.Errorf("fixed child offset = %v, want its frame origin relative to the root", got)
	}
}

func TestCSSClipAppliesToEveryClip(t *testing.T) {
	_, root, _, c := overflowScene(t, func(s *Style) {
		s.Overflow = OverflowVisible
		s.Position = PositionAbsolute
		clip := geom.R(0, 0, 20, 30)
		s.Clip = &clip
	}, positioned(nil))
	ctx := ClipRectsContext{Root: root, Type: PaintingClipRects}
	rects := c.Parent().ClipRects(ctx)
	want := geom.R(10, 10, 20, 30)
	if rects.OverflowClipRect().Rect != want || rects.PosClipRect().Rect != want || rects.FixedClipRect().Rect != want {
		t.Errorf("clip rects = %v, want all %v", rects, want)
	}
}

func TestCachedClipRectsMatchTemporary(t *testing.T) {
	_, root, p, c := overflowScene(t, func(s *Style) { s.BorderRadius = 4 }, nil)
	for _, l := range []*Layer{root, p, c} {
		cached := l.ClipRects(ClipRectsContext{Root: root, Type: PaintingClipRects})
		temp := l.ClipRects(ClipRectsContext{Root: root, Type: TemporaryClipRects})
		if !cached.Equal(*temp) {
			t.Errorf("%s: cached %v != temporary %v", l.Name(), cached, temp)
		}
	}
	if !p.ClipRects(ClipRectsContext{Root: root, Type: PaintingClipRects}).OverflowClipRect().HasRadius {
		t.Errorf("border radius not recorded on the overflow clip")
	}
}

func TestRootOverflowClipHonorsRespectFlag(t *testing.T) {
	f := newFixture(t, Options{})
	root := f.add(nil, "R", geom.R(0, 0, 100, 100), func(s *Style) { s.Overflow = OverflowHidden })
	c := f.add(root, "C", geom.R(0, 0, 500, 500), nil)
	f.layout()

	respect := c.BackgroundClipRect(ClipRectsContext{Root: root, Type: PaintingClipRects})
	if respect.Rect != geom.R(0, 0, 100, 100) {
		t.Errorf("respecting root overflow: clip = %v", respect.Rect)
	}
	ignore := c.BackgroundClipRect(ClipRectsContext{Root: root, Type: PaintingClipRects, RespectOverflowClip: IgnoreOverflowClip})
	if !ignore.IsInfinite() {
		t.Errorf("ignoring root overflow: clip = %v", ignore.Rect)
	}
}

func TestScrollClearsDescendantClipCaches(t *testing.T) {
	f, root, p, c := overflowScene(t, nil, nil)
	boxOf(p).overflow = &geom.Rect{Width: 100, Height: 500}
	f.layout()

	ctx := ClipRectsContext{Root: root, Type: PaintingClipRects}
	c.ClipRects(ctx)
	gen := c.ClipRectsCacheGeneration()

	p.ScrollToOffset(geom.Pt(0, 40), ScrollOffsetClamped)
	if c.ClipRectsCacheGeneration() == gen {
		t.Errorf("scrolling did not invalidate the child's clip cache")
	}
	if got := c.Location(); got != geom.Pt(50, 10) {
		t.Errorf("child location after scroll = %v, want (50,10)", got)
	}
}

func TestUpdateLayerPositionDropsStaleClipRects(t *testing.T) {
	_, root, p, c := overflowScene(t, nil, nil)
	ctx := ClipRectsContext{Root: root, Type: PaintingClipRects}
	if got := c.ClipRects(ctx).OverflowClipRect().Rect; got != geom.R(10, 10, 100, 100) {
		t.Fatalf("initial overflow clip = %v, want P's padding box", got)
	}

	boxOf(p).frame = geom.R(300, 300, 100, 100)
	if !p.UpdateLayerPosition() {
		t.Fatalf("moving P's frame reported no change")
	}
	if got := c.ClipRects(ctx).OverflowClipRect().Rect; got != geom.R(300, 300, 100, 100) {
		t.Errorf("overflow clip after move = %v, want (300,300 100x100)", got)
	}

	gen := c.ClipRectsCacheGeneration()
	if p.UpdateLayerPosition() {
		t.Errorf("second update reported a change")
	}
	if c.ClipRectsCacheGeneration() != gen {
		t.Errorf("unchanged position still cleared the child's cache")
	}
}

func TestClipRectsTypeString(t *testing.T) {
	tests := []struct {
		typ  ClipRectsType
		want string
	}{
		{PaintingClipRects, "painting"},
		{TemporaryClipRects, "temporary"},
		{ClipRectsTypeAll, "all"},
	}
	for _, tt := range tests {
		if got := fmt.Sprint(tt.typ); got != tt.want {
			t.Errorf("%d formats as %q, want %q", int(tt.typ), got, tt.want)
		}
	}
}
