package layer

import (
	"fmt"
	"strings"
	"testing"

	"l14layers/pkg/geom"
)

var screen = geom.R(0, 0, 800, 600)

// stackingScene builds R with one child in each paint bucket: C (z 2),
// A (z -1), N1 (normal flow) and B (positioned, z auto), all at the origin.
func stackingScene(t *testing.T) *Layer {
	f := newFixture(t, Options{})
	root := f.add(nil, "R", screen, nil)
	f.add(root, "C", geom.R(0, 0, 10, 10), positioned(zIndex(2)))
	f.add(root, "A", geom.R(0, 0, 10, 10), positioned(zIndex(-1)))
	f.add(root, "N1", geom.R(0, 0, 10, 10), nil)
	f.add(root, "B", geom.R(0, 0, 10, 10), positioned(nil))
	f.layout()
	return root
}

func TestPaintOrderFollowsStackingLists(t *testing.T) {
	root := stackingScene(t)

	gc := &recordingContext{}
	root.Paint(gc, screen)

	want := []string{
		"R background",
		"A background", "A foreground", "A outline",
		"R foreground", "R outline",
		"N1 background", "N1 foreground", "N1 outline",
		"B background", "B foreground", "B outline",
		"C background", "C foreground", "C outline",
	}
	if got := gc.painted(); !equalStrings(got, want) {
		t.Errorf("paint order:\n got %v\nwant %v", got, want)
	}
	if gc.count("save") != gc.count("restore") {
		t.Errorf("unbalanced save/restore: %v", gc.ops)
	}
}

func TestRectHitTestReversesPaintOrder(t *testing.T) {
	root := stackingScene(t)

	gc := &recordingContext{}
	root.Paint(gc, screen)
	var painted []string
	for _, op := range gc.painted() {
		if name, ok := strings.CutSuffix(op, " foreground"); ok {
			painted = append(painted, name)
		}
	}
	want := make([]string, len(painted))
	for i, name := range painted {
		want[len(painted)-1-i] = name
	}

	loc := NewRectLocation(geom.R(0, 0, 10, 10))
	result := NewHitTestResult(loc)
	root.HitTest(HitTestRequest{}, loc, result)
	if got := names(result.RectBasedLayers()); !equalStrings(got, want) {
		t.Errorf("hit order = %v, want reversed paint order %v", got, want)
	}
	if !equalStrings(want, []string{"C", "B", "N1", "R", "A"}) {
		t.Errorf("paint order of foregrounds = %v", painted)
	}
}

func TestPaintSkipsHiddenLayerButNotVisibleChildren(t *testing.T) {
	f := newFixture(t, Options{})
	root := f.add(nil, "R", screen, nil)
	p := f.add(root, "P", geom.R(0, 0, 100, 100), func(s *Style) { s.Visibility = VisibilityHidden })
	f.add(p, "V", geom.R(0, 0, 10, 10), nil)
	f.add(root, "H", geom.R(0, 0, 10, 10), func(s *Style) { s.Visibility = VisibilityHidden })
	f.layout()

	gc := &recordingContext{}
	root.Paint(gc, screen)
	for _, op := range gc.painted() {
		if strings.HasPrefix(op, "P ") || strings.HasPrefix(op, "H ") {
			t.Errorf("hidden layer painted: %s", op)
		}
	}
	if gc.count("paint V ") != 3 {
		t.Errorf("visible child of a hidden layer painted %d phases, want 3", gc.count("paint V "))
	}
}

func TestPaintSkipsEmptyLayerWithoutChildren(t *testing.T) {
	f := newFixture(t, Options{})
	root := f.add(nil, "R", screen, nil)
	f.add(root, "empty", geom.R(5, 5, 0, 0), positioned(nil))
	holder := f.add(root, "holder", geom.R(5, 5, 0, 0), positioned(nil))
	f.add(holder, "inside", geom.R(0, 0, 10, 10), positioned(nil))
	f.layout()

	gc := &recordingContext{}
	root.Paint(gc, screen)
	if gc.count("paint empty ") != 0 {
		t.Errorf("empty childless layer painted")
	}
	if gc.count("paint inside ") == 0 {
		t.Errorf("child of an empty layer was not painted")
	}
}

func TestPaintClipsChildrenToOverflow(t *testing.T) {
	f := newFixture(t, Options{})
	root := f.add(nil, "R", screen, nil)
	p := f.add(root, "P", geom.R(10, 10, 100, 100), func(s *Style) { s.Overflow = OverflowHidden })
	f.add(p, "C", geom.R(50, 50, 200, 200), nil)
	f.layout()

	gc := &recordingContext{}
	root.Paint(gc, screen)

	clip := fmt.Sprintf("clip %v", geom.R(10, 10, 100, 100))
	idx := -1
	for i, op := range gc.ops {
		if op == "paint C foreground" {
			idx = i
			break
		}
	}
	if idx < 0 {
		t.Fatalf("C foreground not painted: %v", gc.ops)
	}
	found := false
	for i := idx - 1; i >= 0 && gc.ops[i] != "restore"; i-- {
		if gc.ops[i] == clip {
			found = true
		}
	}
	if !found {
		t.Errorf("C painted without %q: %v", clip, gc.ops[:idx+1])
	}
}

func TestPaintOpacityUsesBalancedTransparencyLayer(t *testing.T) {
	f := newFixture(t, Options{})
	root := f.add(nil, "R", screen, nil)
	o := f.add(root, "O", geom.R(0, 0, 100, 100), func(s *Style) { s.Opacity = 0.5 })
	f.add(o, "child", geom.R(0, 0, 10, 10), nil)
	f.layout()

	gc := &recordingContext{}
	root.Paint(gc, screen)

	if gc.count("begin-transparency 0.5") != 1 || gc.count("end-transparency") != 1 {
		t.Fatalf("want one transparency layer, got ops %v", gc.ops)
	}
	var inside []string
	open := false
	for _, op := range gc.ops {
		switch {
		case strings.HasPrefix(op, "begin-transparency"):
			open = true
		case op == "end-transparency":
			open = false
		case open && strings.HasPrefix(op, "paint "):
			inside = append(inside, strings.TrimPrefix(op, "paint "))
		}
	}
	want := []string{
		"O background", "O foreground", "O outline",
		"child background", "child foreground", "child outline",
	}
	if !equalStrings(inside, want) {
		t.Errorf("painted inside the transparency layer = %v, want %v", inside, want)
	}
}

func TestPaintAppliesTransformOnce(t *testing.T) {
	f := newFixture(t, Options{})
	root := f.add(nil, "R", screen, nil)
	tl := f.add(root, "T", geom.R(10, 10, 100, 100), func(s *Style) {
		m := geom.Scaling(2, 2)
		s.Transform = &m
	})
	inner := f.add(tl, "inner", geom.R(5, 5, 10, 10), nil)
	f.layout()

	gc := &recordingContext{}
	root.Paint(gc, screen)

	if n := gc.count("concat"); n != 1 {
		t.Errorf("transform concatenated %d times, want 1", n)
	}
	if got := boxOf(tl).lastOffset; got != (geom.Point{}) {
		t.Errorf("transformed layer painted at %v, want its own origin", got)
	}
	if got := boxOf(inner).lastOffset; got != geom.Pt(5, 5) {
		t.Errorf("child of transformed layer painted at %v, want (5,5)", got)
	}
}

func TestPaintMaskAndFilterBracketContent(t *testing.T) {
	f := newFixture(t, Options{})
	root := f.add(nil, "R", screen, nil)
	f.add(root, "M", geom.R(0, 0, 50, 50), func(s *Style) {
		s.HasMask = true
		s.Filters = []Filter{{Kind: FilterBlur, Amount: 2}}
	})
	f.layout()

	gc := &recordingContext{}
	root.Paint(gc, screen)

	var got []string
	inM := false
	for _, op := range gc.ops {
		if op == "begin-transparency 1" {
			inM = true
		}
		if !inM {
			continue
		}
		if strings.HasPrefix(op, "begin-") || strings.HasPrefix(op, "end-") || strings.HasPrefix(op, "paint ") {
			got = append(got, op)
		}
	}
	want := []string{
		"begin-transparency 1",
		"begin-filter 1",
		"paint M background", "paint M foreground", "paint M outline",
		"end-filter",
		"begin-mask",
		"paint M mask",
		"end-mask",
		"end-transparency",
	}
	if !equalStrings(got, want) {
		t.Errorf("mask/filter ops:\n got %v\nwant %v", got, want)
	}
}

func TestPaintReflectionRepaintsSubtreeMirrored(t *testing.T) {
	f := newFixture(t, Options{})
	root := f.add(nil, "R", screen, nil)
	x := f.add(root, "X", geom.R(0, 0, 50, 20), func(s *Style) {
		s.Reflection = &Reflection{Direction: ReflectBelow, Offset: 4}
	})
	f.add(x, "kid", geom.R(0, 0, 5, 5), nil)
	f.layout()

	if x.ReflectionLayer() == nil || !x.ReflectionLayer().IsReflection() {
		t.Fatalf("reflection layer not created")
	}
	if got := x.ReflectionLayer().Transform(); got == nil || *got != (geom.Transform{A: 1, D: -1, F: 44}) {
		t.Errorf("reflection transform = %v", got)
	}

	gc := &recordingContext{}
	root.Paint(gc, screen)
	if n := gc.count("paint X foreground"); n != 2 {
		t.Errorf("X foreground painted %d times, want 2", n)
	}
	if n := gc.count("paint kid foreground"); n != 2 {
		t.Errorf("kid foreground painted %d times, want 2", n)
	}
	if n := gc.count("concat"); n != 1 {
		t.Errorf("mirror transform applied %d times, want 1", n)
	}

	restyle(x, func(s *Style) { s.Reflection = nil })
	if x.ReflectionLayer() != nil {
		t.Errorf("reflection layer survived removing the reflection")
	}
}

func TestPaintDrawsScrollbarsLast(t *testing.T) {
	f := newFixture(t, Options{ScrollbarHost: BasicScrollbarHost{}})
	root := f.add(nil, "R", screen, nil)
	s := f.add(root, "S", geom.R(0, 0, 200, 100), func(s *Style) { s.Overflow = OverflowScroll })
	f.add(s, "content", geom.R(0, 0, 150, 50), nil)
	f.layout()

	gc := &recordingContext{}
	root.Paint(gc, screen)

	if n := gc.count("fill"); n != 4 {
		t.Fatalf("want track and thumb fills for two scrollbars, got %d: %v", n, gc.ops)
	}
	lastPaint, firstFill := -1, -1
	for i, op := range gc.ops {
		if strings.HasPrefix(op, "paint ") {
			lastPaint = i
		}
		if firstFill < 0 && strings.HasPrefix(op, "fill") {
			firstFill = i
		}
	}
	if firstFill < lastPaint {
		t.Errorf("scrollbars painted before content: %v", gc.ops)
	}
}
