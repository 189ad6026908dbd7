package scene

import (
	"l14layers/pkg/geom"
	"l14layers/pkg/layer"
)

// ColumnPaginator lays a flow out in Count columns of Width x Height, left to
// right with Gap between them. The flow is one column wide: column i shows
// the flow slice starting at y = i*Height. Content past the last column is
// not shown.
type ColumnPaginator struct {
	Width, Height float64
	Count         int
	Gap           float64
}

var _ layer.Paginator = ColumnPaginator{}

// Regions returns the columns whose flow slice intersects bounds.
func (c ColumnPaginator) Regions(bounds geom.Rect) []layer.Region {
	var out []layer.Region
	for i := 0; i < c.Count; i++ {
		flow := geom.R(0, float64(i)*c.Height, c.Width, c.Height)
		if !flow.Intersects(bounds) {
			continue
		}
		out = append(out, layer.Region{
			Index:    i,
			FlowRect: flow,
			Offset:   geom.Pt(float64(i)*(c.Width+c.Gap), -float64(i)*c.Height),
		})
	}
	return out
}
