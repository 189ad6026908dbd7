package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"l14layers/internal/config"
	"l14layers/internal/observability"
	"l14layers/pkg/layer"
	"l14layers/pkg/scene"
)

// app is the state shared by every subcommand once the root has run.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "layerctl",
		Short:         "Paint, hit-test and inspect layer scenes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.New(), a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			observability.InitializeLogger(cfg.Logger)
			a.logger = observability.GetLogger().Named("layerctl")
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./layers.yaml)")

	root.AddCommand(
		newPaintCmd(a),
		newHitTestCmd(a),
		newDumpCmd(a),
		newDiffCmd(a),
	)
	return root
}

// options returns layer tree options for one scene build.
func (a *app) options() layer.Options {
	return a.cfg.Layers.Options(a.logger)
}

// build loads and builds a scene file.
func (a *app) build(path string) (*scene.Built, error) {
	s, err := scene.LoadWithLogger(path, a.logger)
	if err != nil {
		return nil, err
	}
	if s.Background == "" {
		s.Background = a.cfg.Render.Background
	}
	b, err := scene.Build(s, a.options())
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", path, err)
	}
	return b, nil
}
