// Package cmd implements the blinkd command line.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sweeney/blinkd/internal/config"
	"github.com/sweeney/blinkd/internal/dispatch"
	"github.com/sweeney/blinkd/internal/gpio"
	"github.com/sweeney/blinkd/internal/logger"
	"github.com/sweeney/blinkd/internal/version"
)

var (
	// configPath is the YAML settings file. Empty means built-in defaults.
	configPath string
	// printState reads the button once and exits.
	printState bool

	rootCmd = &cobra.Command{
		Use:   "blinkd",
		Short: "Blink an LED at a rate selected by a push button.",
		Long: `Daemon that blinks an active-low LED and cycles its period through a fixed
table (125ms, 250ms, 500ms by default) every time the button is pressed.

Both the button and the LED are driven by kernel timers on a single event loop.
SIGINT or SIGTERM turn the LED off and release every line before exit.
An optional SSD1308 OLED shows a banner at startup and a scrolling greeting
on each press. Presses are published to MQTT when a broker is configured.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			lvl, _ := logger.ParseLogLevel(cfg.LogLevel)
			logger.SetLevel(lvl)
			defer logger.Sync()

			if printState {
				return printButton(cmd, cfg)
			}

			ctx := logger.ToContext(cmd.Context(), logger.Named("blinkd"))
			pub := newPublisher(ctx, cfg)
			defer pub.Close()

			return serve(ctx, cfg, dispatch.NewHardware(cfg), pub)
		},
	}
)

// Execute runs the root command. Only command line and configuration errors
// exit non-zero; a daemon that ran exits 0 whatever stopped it.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.ErrorKV(context.Background(), "blinkd failed", "error", err)
		os.Exit(1)
	}
}

func printButton(cmd *cobra.Command, cfg *config.Config) error {
	in, err := gpio.OpenInput(cfg.Input.Chip, cfg.Input.Line, cfg.Input.Bias)
	if err != nil {
		return fmt.Errorf("open input line: %w", err)
	}
	defer in.Close()

	level, err := in.Read()
	if err != nil {
		return fmt.Errorf("read input line: %w", err)
	}

	state := "released"
	if level == gpio.Low {
		state = "pressed"
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "button %s:%d: %s (%s)\n", cfg.Input.Chip, cfg.Input.Line, level, state)
	return nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML configuration file")
	rootCmd.Flags().BoolVar(&printState, "print-state", false, "print the button level and exit")
}
