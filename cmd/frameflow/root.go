package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/AnatoleLucet/frameflow"
)

type ctxKey int

const envKey ctxKey = 0

// env is what every subcommand gets from the root command.
type env struct {
	config frameflow.Config
	logger *log.Logger
}

func withEnv(ctx context.Context, e *env) context.Context {
	return context.WithValue(ctx, envKey, e)
}

func envFromContext(ctx context.Context) *env {
	if e, ok := ctx.Value(envKey).(*env); ok {
		return e
	}
	cfg := frameflow.DefaultConfig()
	return &env{config: cfg, logger: cfg.NewLogger(os.Stderr)}
}

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "frameflow",
		Short:        "Frame-clocked dataflow animations",
		Long:         `frameflow runs animation graphs one topologically ordered pass per frame, and spreads mount work over the idle time left in each frame.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := frameflow.DefaultConfig()
			if configPath != "" {
				loaded, err := frameflow.LoadConfig(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if verbose {
				cfg.LogLevel = log.DebugLevel.String()
			}

			e := &env{config: cfg, logger: cfg.NewLogger(os.Stderr)}
			e.logger.Debug("config loaded", "path", configPath, "frame_interval", cfg.FrameInterval, "safety_buffer", cfg.SafetyBuffer)
			cmd.SetContext(withEnv(cmd.Context(), e))
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (.toml, .yaml)")

	root.AddCommand(newDemoCmd())
	root.AddCommand(newConfigCmd())

	return root
}
