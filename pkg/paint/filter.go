package paint

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"l14layers/pkg/layer"
)

// applyFilters runs a filter chain over the pixels of img inside r, in
// order.
func applyFilters(img *image.RGBA, r image.Rectangle, filters []layer.Filter) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for _, f := range filters {
		switch f.Kind {
		case layer.FilterGrayscale:
			grayscale(img, r, clamp01(f.Amount))
		case layer.FilterInvert:
			invert(img, r, clamp01(f.Amount))
		case layer.FilterOpacity:
			fade(img, r, clamp01(f.Amount))
		case layer.FilterBlur:
			blur(img, r, f.Amount)
		}
	}
}

func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }

// eachPixel calls fn with the premultiplied channels of every pixel in r.
func eachPixel(img *image.RGBA, r image.Rectangle, fn func(p []uint8)) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := img.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			fn(img.Pix[i : i+4 : i+4])
			i += 4
		}
	}
}

func mix(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

func grayscale(img *image.RGBA, r image.Rectangle, amount float64) {
	eachPixel(img, r, func(p []uint8) {
		// Rec. 709 luma; premultiplied values stay premultiplied.
		l := uint8(math.Round(0.2126*float64(p[0]) + 0.7152*float64(p[1]) + 0.0722*float64(p[2])))
		p[0], p[1], p[2] = mix(p[0], l, amount), mix(p[1], l, amount), mix(p[2], l, amount)
	})
}

func invert(img *image.RGBA, r image.Rectangle, amount float64) {
	eachPixel(img, r, func(p []uint8) {
		a := p[3]
		p[0], p[1], p[2] = mix(p[0], a-p[0], amount), mix(p[1], a-p[1], amount), mix(p[2], a-p[2], amount)
	})
}

func fade(img *image.RGBA, r image.Rectangle, amount float64) {
	eachPixel(img, r, func(p []uint8) {
		for i := range p {
			p[i] = uint8(math.Round(float64(p[i]) * amount))
		}
	})
}

// blur approximates a gaussian of the given radius by scaling the region
// down and back up with bilinear filtering.
func blur(img *image.RGBA, r image.Rectangle, radius float64) {
	if radius < 1 {
		return
	}
	factor := 1 + radius/2
	w := max(1, int(math.Round(float64(r.Dx())/factor)))
	h := max(1, int(math.Round(float64(r.Dy())/factor)))
	small := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(small, small.Bounds(), img, r, draw.Src, nil)
	draw.BiLinear.Scale(img, r, small, small.Bounds(), draw.Src, nil)
}
