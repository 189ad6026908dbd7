package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"l14layers/pkg/paint"
)

func newDiffCmd(a *app) *cobra.Command {
	var diffPath string
	cmd := &cobra.Command{
		Use:   "diff <actual.png> <expected.png>",
		Short: "Compare two images with the configured tolerance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := paint.CompareOptions{
				Tolerance:           a.cfg.Render.Tolerance,
				FuzzyRadius:         a.cfg.Render.FuzzyRadius,
				MaxDifferentPercent: a.cfg.Render.MaxDifferentPercent,
			}
			result, err := paint.CompareFiles(args[0], args[1], diffPath, opts)
			if err != nil {
				return err
			}
			pct := 100 * float64(result.DifferentPixels) / float64(result.TotalPixels)
			fmt.Fprintf(cmd.OutOrStdout(), "different pixels: %d / %d (%.2f%%), max difference %d\n",
				result.DifferentPixels, result.TotalPixels, pct, result.MaxDifference)
			if !result.Match {
				return fmt.Errorf("images differ")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&diffPath, "diff", "", "write a diff image here when the images differ")
	return cmd
}
