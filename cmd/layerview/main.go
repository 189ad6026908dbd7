// Command layerview shows a scene in a window. Tapping reports the layer
// under the pointer and the scroll wheel scrolls the layer under it.
package main

import (
	"fmt"
	"image"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"l14layers/internal/config"
	"l14layers/internal/observability"
	"l14layers/pkg/geom"
)

func main() {
	var cfgFile string
	cmd := &cobra.Command{
		Use:          "layerview [scene]",
		Short:        "Show a layer scene in a window",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.New(), cfgFile)
			if err != nil {
				return err
			}
			observability.InitializeLogger(cfg.Logger)
			logger := observability.GetLogger().Named("layerview")

			s := newSession(cfg.Layers.Options(logger), logger)
			if len(args) == 1 {
				if err := s.load(args[0]); err != nil {
					return err
				}
			}
			run(s)
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./layers.yaml)")

	err := cmd.Execute()
	observability.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(s *session) {
	a := app.New()
	w := a.NewWindow("layerview")
	w.Resize(fyne.NewSize(1024, 768))

	status := widget.NewLabel("Enter a scene path and press Enter")
	view := newSceneView(s, status.SetText)

	pathEntry := widget.NewEntry()
	pathEntry.SetPlaceHolder("scene.yaml")
	pathEntry.OnSubmitted = func(path string) {
		if err := s.load(path); err != nil {
			status.SetText("Error: " + err.Error())
			return
		}
		view.redraw()
		status.SetText(path)
		w.SetTitle(fmt.Sprintf("layerview: %s", path))
	}
	if s.path != "" {
		pathEntry.SetText(s.path)
		view.redraw()
		w.SetTitle(fmt.Sprintf("layerview: %s", s.path))
	}

	topBar := container.NewBorder(nil, nil, nil, nil, pathEntry)
	w.SetContent(container.NewBorder(topBar, status, nil, nil, container.NewScroll(view)))

	// Keep focus on the entry; with no other focusable widget Tab would stall.
	w.Canvas().Focus(pathEntry)
	w.ShowAndRun()
}

// sceneView draws the rendered scene at its natural size and forwards taps
// and scroll-wheel events to the session.
type sceneView struct {
	widget.BaseWidget
	s      *session
	img    *canvas.Image
	report func(string)
}

var (
	_ fyne.Tappable   = (*sceneView)(nil)
	_ fyne.Scrollable = (*sceneView)(nil)
)

func newSceneView(s *session, report func(string)) *sceneView {
	v := &sceneView{
		s:      s,
		img:    canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1))),
		report: report,
	}
	v.img.FillMode = canvas.ImageFillOriginal
	v.img.ScaleMode = canvas.ImageScalePixels
	v.ExtendBaseWidget(v)
	return v
}

func (v *sceneView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.img)
}

func (v *sceneView) MinSize() fyne.Size {
	return v.img.MinSize()
}

// redraw repaints the scene into the canvas image.
func (v *sceneView) redraw() {
	if img := v.s.image(); img != nil {
		v.img.Image = img
		v.img.Refresh()
		v.Refresh()
	}
}

func (v *sceneView) Tapped(e *fyne.PointEvent) {
	v.report(v.s.tap(geom.Pt(float64(e.Position.X), float64(e.Position.Y))))
}

// Scrolled moves content the way a wheel does: scrolling up reveals what is
// above, so the offset shrinks.
func (v *sceneView) Scrolled(e *fyne.ScrollEvent) {
	p := geom.Pt(float64(e.Position.X), float64(e.Position.Y))
	moved, msg := v.s.scroll(p, geom.Pt(-float64(e.Scrolled.DX), -float64(e.Scrolled.DY)))
	if moved {
		v.redraw()
	}
	v.report(msg)
}
