package scene

import (
	"fmt"
	"strconv"
	"strings"

	"l14layers/pkg/layer"
)

func parsePosition(s string) (layer.PositionType, error) {
	switch s {
	case "", "static":
		return layer.PositionStatic, nil
	case "relative":
		return layer.PositionRelative, nil
	case "absolute":
		return layer.PositionAbsolute, nil
	case "fixed":
		return layer.PositionFixed, nil
	}
	return layer.PositionStatic, fmt.Errorf("unknown position %q", s)
}

func parseOverflow(s string) (layer.OverflowType, error) {
	switch s {
	case "", "visible":
		return layer.OverflowVisible, nil
	case "hidden":
		return layer.OverflowHidden, nil
	case "scroll":
		return layer.OverflowScroll, nil
	case "auto":
		return layer.OverflowAuto, nil
	}
	return layer.OverflowVisible, fmt.Errorf("unknown overflow %q", s)
}

func parseDirection(s string) (layer.Direction, error) {
	switch s {
	case "", "ltr":
		return layer.DirectionLTR, nil
	case "rtl":
		return layer.DirectionRTL, nil
	}
	return layer.DirectionLTR, fmt.Errorf("unknown direction %q", s)
}

func parseReflectDirection(s string) (layer.ReflectionDirection, error) {
	switch s {
	case "", "below":
		return layer.ReflectBelow, nil
	case "above":
		return layer.ReflectAbove, nil
	case "left":
		return layer.ReflectLeft, nil
	case "right":
		return layer.ReflectRight, nil
	}
	return layer.ReflectBelow, fmt.Errorf("unknown reflection direction %q", s)
}

var filterKinds = map[string]layer.FilterKind{
	"grayscale": layer.FilterGrayscale,
	"invert":    layer.FilterInvert,
	"opacity":   layer.FilterOpacity,
	"blur":      layer.FilterBlur,
}

// parseFilters reads entries such as "grayscale(1)", "opacity(30%)" or
// "blur(4px)". An empty argument means 1 for the colour filters.
func parseFilters(list []string) ([]layer.Filter, error) {
	var out []layer.Filter
	for _, f := range list {
		f = strings.ToLower(strings.TrimSpace(f))
		open := strings.IndexByte(f, '(')
		if open < 0 {
			return nil, fmt.Errorf("filter %q: missing arguments", f)
		}
		kind, ok := filterKinds[f[:open]]
		if !ok {
			return nil, fmt.Errorf("unknown filter %q", f[:open])
		}
		args, ok := functionArgs(f, f[:open])
		if !ok || len(args) > 1 {
			return nil, fmt.Errorf("filter %q: bad arguments", f)
		}
		amount := 1.0
		if len(args) == 1 {
			v, err := parseAmount(args[0], kind == layer.FilterBlur)
			if err != nil {
				return nil, fmt.Errorf("filter %q: %w", f, err)
			}
			amount = v
		} else if kind == layer.FilterBlur {
			return nil, fmt.Errorf("filter %q: blur needs a radius", f)
		}
		out = append(out, layer.Filter{Kind: kind, Amount: amount})
	}
	return out, nil
}

func parseAmount(s string, length bool) (float64, error) {
	scale := 1.0
	switch {
	case length:
		s = strings.TrimSuffix(s, "px")
	case strings.HasSuffix(s, "%"):
		s = strings.TrimSuffix(s, "%")
		scale = 0.01
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad amount %q", s)
	}
	v *= scale
	if v < 0 || (!length && v > 1) {
		return 0, fmt.Errorf("amount %g out of range", v)
	}
	return v, nil
}
