package scene

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"l14layers/pkg/geom"
	"l14layers/pkg/layer"
	"l14layers/pkg/paint"
)

func TestNewBoxMapsStyle(t *testing.T) {
	z, opacity := -2, 0.25
	b, err := NewBox(&Node{
		Name: "n", X: 10, Y: 20, Width: 50, Height: 40,
		Position: "relative", Left: 3, Top: 4,
		ZIndex: &z, Opacity: &opacity,
		Overflow:   "scroll",
		Clip:       []float64{1, 2, 3, 4},
		Depth:      12,
		Filters:    []string{"invert(50%)", "blur(3px)"},
		Mask:       &Mask{Alpha: 1},
		Reflection: &Reflection{Direction: "right", Offset: 5},
		Direction:  "rtl",
		Hidden:     true,
	})
	require.NoError(t, err)
	st := b.Style()

	assert.Equal(t, geom.R(10, 20, 50, 40), b.Frame(), "relative boxes keep their frame")
	assert.Equal(t, geom.Pt(3, 4), st.RelativeOffset)
	assert.True(t, st.HasZIndex)
	assert.Equal(t, -2, st.ZIndex)
	assert.Equal(t, 0.25, st.Opacity)
	assert.Equal(t, layer.OverflowScroll, st.Overflow)
	assert.Equal(t, layer.VisibilityHidden, st.Visibility)
	assert.Equal(t, layer.DirectionRTL, st.Direction)
	require.NotNil(t, st.Clip)
	assert.Equal(t, geom.R(1, 2, 3, 4), *st.Clip)
	require.NotNil(t, st.Transform)
	assert.Equal(t, 12.0, st.Transform.TZ)
	assert.True(t, st.HasMask)
	assert.Equal(t, &layer.Reflection{Direction: layer.ReflectRight, Offset: 5}, st.Reflection)
	assert.Equal(t, []layer.Filter{
		{Kind: layer.FilterInvert, Amount: 0.5},
		{Kind: layer.FilterBlur, Amount: 3},
	}, st.Filters)
}

func TestNewBoxOffsetsAbsoluteFrame(t *testing.T) {
	b, err := NewBox(&Node{Name: "a", X: 10, Y: 10, Width: 5, Height: 5, Position: "absolute", Left: 30, Top: 40})
	require.NoError(t, err)
	assert.Equal(t, geom.R(40, 50, 5, 5), b.Frame())
	assert.True(t, b.Style().RelativeOffset.IsZero())
}

func TestBoxOverflow(t *testing.T) {
	b, err := NewBox(&Node{Name: "s", Width: 100, Height: 50, Content: []float64{80, 300}, Outline: 2})
	require.NoError(t, err)
	assert.Equal(t, geom.R(0, 0, 100, 300), b.LayoutOverflow())
	assert.Equal(t, geom.R(-2, -2, 104, 302), b.VisualOverflow())
}

func TestBoxPaintPhases(t *testing.T) {
	b, err := NewBox(&Node{
		Name: "n", Width: 50, Height: 40,
		Background: "red", Border: 2, BorderColor: "blue", Label: "hi",
		Outline: 3,
		Mask:    &Mask{Alpha: 0.5},
	})
	require.NoError(t, err)

	var rec paint.Recorder
	for _, phase := range []layer.PaintPhase{
		layer.PaintPhaseBackground,
		layer.PaintPhaseForeground,
		layer.PaintPhaseOutline,
		layer.PaintPhaseMask,
	} {
		b.Paint(&rec, layer.PaintInfo{Phase: phase, Offset: geom.Pt(10, 20), Rect: geom.InfiniteRect()})
	}

	want := []string{
		"fill [10,20 50x40] #ff0000ff r=0",
		"stroke [10,20 50x40] #0000ffff w=2",
		`text "hi" 16,36 #0000ffff`,
		"stroke [7,17 56x46] #000000ff w=3",
		"fill [10,20 50x40] #00000080 r=0",
	}
	if diff := cmp.Diff(want, rec.Ops); diff != "" {
		t.Errorf("paint ops (-want +got):\n%s", diff)
	}
}

func TestBoxPaintsNothingWithoutStyle(t *testing.T) {
	b, err := NewBox(&Node{Name: "plain", Width: 10, Height: 10})
	require.NoError(t, err)
	var rec paint.Recorder
	for _, phase := range []layer.PaintPhase{layer.PaintPhaseBackground, layer.PaintPhaseForeground, layer.PaintPhaseOutline, layer.PaintPhaseMask} {
		b.Paint(&rec, layer.PaintInfo{Phase: phase})
	}
	assert.Empty(t, rec.Ops)
}

func TestBoxHitTest(t *testing.T) {
	b, err := NewBox(&Node{Name: "n", Width: 20, Height: 20})
	require.NoError(t, err)
	inside := layer.NewPointLocation(geom.Pt(5, 5))
	assert.True(t, b.HitTest(layer.HitTestForeground, inside))
	assert.False(t, b.HitTest(layer.HitTestBlockBackground, inside))
	assert.False(t, b.HitTest(layer.HitTestForeground, layer.NewPointLocation(geom.Pt(25, 5))))
}

func TestColumnPaginator(t *testing.T) {
	p := ColumnPaginator{Width: 100, Height: 100, Count: 3, Gap: 10}
	regions := p.Regions(geom.R(0, 50, 100, 100))
	require.Len(t, regions, 2)
	assert.Equal(t, layer.Region{Index: 0, FlowRect: geom.R(0, 0, 100, 100), Offset: geom.Pt(0, 0)}, regions[0])
	assert.Equal(t, layer.Region{Index: 1, FlowRect: geom.R(0, 100, 100, 100), Offset: geom.Pt(110, -100)}, regions[1])

	assert.Empty(t, p.Regions(geom.R(0, 400, 100, 50)), "content past the last column")
}
