package main

import (
	"github.com/spf13/cobra"

	"l14layers/pkg/paint"
)

func newDumpCmd(a *app) *cobra.Command {
	var ops bool
	cmd := &cobra.Command{
		Use:   "dump <scene>",
		Short: "Print the layer tree, or the paint calls with --ops",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.build(args[0])
			if err != nil {
				return err
			}
			if !ops {
				return b.Tree.Dump(cmd.OutOrStdout())
			}
			var rec paint.Recorder
			b.PaintTo(&rec)
			_, err = rec.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().BoolVar(&ops, "ops", false, "print the recorded paint operations")
	return cmd
}
