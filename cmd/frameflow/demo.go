package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/AnatoleLucet/frameflow"
	"github.com/AnatoleLucet/frameflow/frameclock"
)

func newDemoCmd() *cobra.Command {
	var (
		opts     sceneOptions
		headless bool
		logFile  string
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Animate a set of bars through the dataflow graph",
		Long: `Animate one bar per interpolation curve, plus a spring, while their
labels are mounted incrementally within each frame's idle time.

The demo renders in the terminal when stdout is a TTY, and otherwise runs
headless and prints the final frame.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := envFromContext(cmd.Context())
			if headless || !isTerminal(os.Stdout) {
				return runHeadless(cmd.Context(), cmd.OutOrStdout(), e, opts)
			}
			return runTUI(cmd.Context(), e, opts, logFile)
		},
	}

	cmd.Flags().DurationVarP(&opts.duration, "duration", "d", 1500*time.Millisecond, "duration of the first animation")
	cmd.Flags().DurationVar(&opts.stagger, "stagger", 250*time.Millisecond, "extra duration for each following animation")
	cmd.Flags().BoolVar(&headless, "headless", false, "run without the terminal UI")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while the terminal UI runs")

	return cmd
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func runHeadless(ctx context.Context, w io.Writer, e *env, opts sceneOptions) error {
	ticker := frameclock.NewTicker(e.config.FrameInterval.Duration)

	graph := frameflow.NewScheduler(ticker.Channel(), frameflow.WithLogger(e.logger))
	mount := frameflow.NewMountScheduler(ticker.Channel(),
		frameflow.WithLogger(e.logger),
		frameflow.WithConfig(e.config),
		frameflow.WithClock(ticker),
	)

	s, err := newScene(graph, mount, e.logger, opts)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := ticker.Run(ctx, true); err != nil {
		return err
	}
	e.logger.Info("demo finished", "frames", graph.Frames(), "elapsed", time.Since(start).Round(time.Millisecond))

	_, err = fmt.Fprint(w, render(s))
	return err
}

func runTUI(ctx context.Context, e *env, opts sceneOptions, logFile string) error {
	// The terminal UI owns the screen, so logs go to a file or nowhere.
	logger := log.New(io.Discard)
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logger = e.config.NewLogger(f)
	}

	clock := frameclock.NewManual()
	wall := wallClock{start: time.Now()}

	graph := frameflow.NewScheduler(clock.Channel(), frameflow.WithLogger(logger))
	mount := frameflow.NewMountScheduler(clock.Channel(),
		frameflow.WithLogger(logger),
		frameflow.WithConfig(e.config),
		frameflow.WithClock(wall),
	)

	s, err := newScene(graph, mount, logger, opts)
	if err != nil {
		return err
	}

	model := demoModel{
		scene:    s,
		clock:    clock,
		wall:     wall,
		interval: e.config.FrameInterval.Duration,
	}

	_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
	return err
}
