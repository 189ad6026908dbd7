package main

import (
	"fmt"
	"io"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"l14layers/pkg/geom"
	"l14layers/pkg/layer"
)

// hitReport is the printable result of one hit test.
type hitReport struct {
	Layer     string   `json:"layer,omitempty"`
	LocalX    float64  `json:"local_x"`
	LocalY    float64  `json:"local_y"`
	Scrollbar string   `json:"scrollbar,omitempty"`
	Resizer   bool     `json:"resizer,omitempty"`
	Layers    []string `json:"layers,omitempty"`
}

func newHitTestCmd(a *app) *cobra.Command {
	var (
		rectSize       []float64
		ignoreClipping bool
		skipControls   bool
		asJSON         bool
	)
	cmd := &cobra.Command{
		Use:   "hittest <scene> <x> <y>",
		Short: "Report the front-most layer under a point",
		Long: "Hit-test a point in root coordinates. With --rect W,H every layer\n" +
			"intersecting the W x H area at (x, y) is listed front to back.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("bad x %q: %w", args[1], err)
			}
			y, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("bad y %q: %w", args[2], err)
			}
			if rectSize != nil && len(rectSize) != 2 {
				return fmt.Errorf("--rect needs W,H")
			}
			b, err := a.build(args[0])
			if err != nil {
				return err
			}

			var req layer.HitTestRequest
			if ignoreClipping {
				req.Type |= layer.HitTestIgnoreClipping
			}
			if skipControls {
				req.Type |= layer.HitTestSkipOverflowControls
			}
			var result *layer.HitTestResult
			if rectSize != nil {
				result = b.HitTestRect(req, geom.R(x, y, rectSize[0], rectSize[1]))
			} else {
				result = b.HitTest(req, geom.Pt(x, y))
			}
			return writeHitReport(cmd.OutOrStdout(), newHitReport(result), asJSON)
		},
	}
	cmd.Flags().Float64SliceVar(&rectSize, "rect", nil, "rect-based test of this W,H")
	cmd.Flags().BoolVar(&ignoreClipping, "ignore-clipping", false, "hit content hidden by overflow clips")
	cmd.Flags().BoolVar(&skipControls, "skip-overflow-controls", false, "ignore scrollbars and resizers")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func newHitReport(r *layer.HitTestResult) hitReport {
	var rep hitReport
	if l := r.Layer(); l != nil {
		rep.Layer = l.Name()
		rep.LocalX, rep.LocalY = r.LocalPoint().X, r.LocalPoint().Y
	}
	if sb := r.Scrollbar(); sb != nil {
		rep.Scrollbar = "horizontal"
		if sb.Orientation() == layer.VerticalScrollbar {
			rep.Scrollbar = "vertical"
		}
	}
	rep.Resizer = r.IsOverResizer()
	for _, l := range r.RectBasedLayers() {
		rep.Layers = append(rep.Layers, l.Name())
	}
	return rep
}

func writeHitReport(w io.Writer, rep hitReport, asJSON bool) error {
	if asJSON {
		data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(rep)
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	if rep.Layer == "" {
		_, err := fmt.Fprintln(w, "no hit")
		return err
	}
	fmt.Fprintf(w, "layer: %s\n", rep.Layer)
	fmt.Fprintf(w, "local: %v\n", geom.Pt(rep.LocalX, rep.LocalY))
	if rep.Scrollbar != "" {
		fmt.Fprintf(w, "scrollbar: %s\n", rep.Scrollbar)
	}
	if rep.Resizer {
		fmt.Fprintln(w, "resizer: true")
	}
	if len(rep.Layers) > 0 {
		fmt.Fprintf(w, "layers: %v\n", rep.Layers)
	}
	return nil
}
