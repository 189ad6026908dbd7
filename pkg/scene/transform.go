package scene

import (
	"fmt"
	"strconv"
	"strings"

	"l14layers/pkg/geom"
)

// ParseTransform turns a CSS-like transform list into one matrix in the box's
// local space. It understands translate, translatex, translatey, translatez,
// scale and rotate. origin holds fractions of the box size and defaults to
// the centre.
func ParseTransform(s string, width, height float64, origin []float64) (geom.Transform, error) {
	ox, oy := 0.5, 0.5
	if len(origin) == 2 {
		ox, oy = origin[0], origin[1]
	}
	ox *= width
	oy *= height

	m := geom.Translation(ox, oy)
	rest := strings.ToLower(strings.TrimSpace(s))
	if rest == "none" {
		return geom.Identity(), nil
	}
	for rest != "" {
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return geom.Transform{}, fmt.Errorf("transform %q: unclosed function", s)
		}
		call := rest[:end+1]
		rest = strings.TrimSpace(rest[end+1:])

		open := strings.IndexByte(call, '(')
		if open <= 0 {
			return geom.Transform{}, fmt.Errorf("transform %q: bad function %q", s, call)
		}
		name := strings.TrimSpace(call[:open])
		args, _ := functionArgs(name+call[open:], name)
		step, err := transformStep(name, args, width, height)
		if err != nil {
			return geom.Transform{}, fmt.Errorf("transform %q: %w", s, err)
		}
		m = m.Multiply(step)
	}
	return m.Multiply(geom.Translation(-ox, -oy)), nil
}

func transformStep(name string, args []string, width, height float64) (geom.Transform, error) {
	nums := func(want ...int) ([]float64, error) {
		ok := false
		for _, n := range want {
			ok = ok || len(args) == n
		}
		if !ok {
			return nil, fmt.Errorf("%s takes %v arguments, got %d", name, want, len(args))
		}
		out := make([]float64, len(args))
		for i, a := range args {
			ref := width
			if i == 1 {
				ref = height
			}
			v, err := parseLength(a, ref)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			out[i] = v
		}
		return out, nil
	}

	switch name {
	case "translate":
		v, err := nums(1, 2)
		if err != nil {
			return geom.Transform{}, err
		}
		if len(v) == 1 {
			v = append(v, 0)
		}
		return geom.Translation(v[0], v[1]), nil
	case "translatex":
		v, err := nums(1)
		if err != nil {
			return geom.Transform{}, err
		}
		return geom.Translation(v[0], 0), nil
	case "translatey":
		args = append([]string{"0"}, args...)
		v, err := nums(2)
		if err != nil {
			return geom.Transform{}, err
		}
		return geom.Translation(0, v[1]), nil
	case "translatez":
		v, err := nums(1)
		if err != nil {
			return geom.Transform{}, err
		}
		t := geom.Identity()
		t.TZ = v[0]
		return t, nil
	case "scale":
		v, err := nums(1, 2)
		if err != nil {
			return geom.Transform{}, err
		}
		if len(v) == 1 {
			v = append(v, v[0])
		}
		return geom.Scaling(v[0], v[1]), nil
	case "rotate":
		if len(args) != 1 {
			return geom.Transform{}, fmt.Errorf("rotate takes 1 argument, got %d", len(args))
		}
		deg, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
		if err != nil {
			return geom.Transform{}, fmt.Errorf("rotate: bad angle %q", args[0])
		}
		return geom.Rotation(deg), nil
	}
	return geom.Transform{}, fmt.Errorf("unknown function %q", name)
}

// parseLength reads a number with an optional px suffix, or a percentage of ref.
func parseLength(s string, ref float64) (float64, error) {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, fmt.Errorf("bad length %q", s)
		}
		return v / 100 * ref, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
	if err != nil {
		return 0, fmt.Errorf("bad length %q", s)
	}
	return v, nil
}
