package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"l14layers/pkg/paint"
)

type paintOptions struct {
	output string
	outDir string
	scale  float64
}

func newPaintCmd(a *app) *cobra.Command {
	var opts paintOptions
	cmd := &cobra.Command{
		Use:   "paint <scene>...",
		Short: "Rasterize scenes to PNG",
		Long: "Paint one scene to --output, or several scenes concurrently into --out-dir,\n" +
			"each written as <name>.png.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != "" && len(args) > 1 {
				return fmt.Errorf("--output takes a single scene; use --out-dir for %d", len(args))
			}
			if !cmd.Flags().Changed("scale") {
				opts.scale = a.cfg.Render.Scale
			}
			if opts.scale <= 0 {
				return fmt.Errorf("scale must be positive")
			}
			return a.paintAll(cmd.Context(), args, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output PNG for a single scene")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", ".", "directory for batch output")
	cmd.Flags().Float64Var(&opts.scale, "scale", 1, "resize factor applied to the painted image")
	return cmd
}

// outputPath names the PNG for one scene.
func (o paintOptions) outputPath(scenePath string) string {
	if o.output != "" {
		return o.output
	}
	base := strings.TrimSuffix(filepath.Base(scenePath), filepath.Ext(scenePath))
	return filepath.Join(o.outDir, base+".png")
}

// paintAll paints every scene with at most render.concurrency in flight. Each
// goroutine owns its tree; nothing is shared but the logger.
func (a *app) paintAll(ctx context.Context, scenes []string, opts paintOptions, out io.Writer) error {
	if opts.output == "" {
		if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	written := make([]string, len(scenes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Render.Concurrency)
	for i, path := range scenes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			dst := opts.outputPath(path)
			if err := a.paintOne(path, dst, opts.scale); err != nil {
				return err
			}
			written[i] = dst
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, dst := range written {
		fmt.Fprintf(out, "%s -> %s\n", scenes[i], dst)
	}
	return nil
}

func (a *app) paintOne(path, dst string, scale float64) error {
	start := time.Now()
	b, err := a.build(path)
	if err != nil {
		return err
	}
	img := b.Render().Image()
	if scale != 1 {
		img = paint.Scale(img, scale)
	}
	if err := paint.SavePNG(img, dst); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	a.logger.Info("painted scene",
		zap.String("scene", path),
		zap.String("output", dst),
		zap.Int("layers", b.Tree.Len()),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
