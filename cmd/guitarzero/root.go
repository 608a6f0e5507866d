package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "guitarzero",
	Short: "GuitarZero rhythm game controller",
	Long: `GuitarZero shows notes on two rows of lights, judges strums of the light beam
against the buttons held and picks the next song from the last score.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "/home/pi/GuitarZero.yaml", "path to the YAML configuration")
}

func Execute() {
	// capture exit signals to ensure pins are released on exit.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
