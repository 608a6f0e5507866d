package main

import (
	"time"

	"github.com/areknoster/guitarzero/config"
	"github.com/areknoster/guitarzero/domain"
	"github.com/areknoster/guitarzero/eventlog"
	"github.com/areknoster/guitarzero/gpio"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

func init() {
	rootCmd.AddCommand(pinsCmd)
}

// pinsCmd checks the wiring: each button lights its lane in the front row,
// the beam lights the whole back row.
var pinsCmd = &cobra.Command{
	Use:   "pins",
	Short: "Mirror the buttons and the beam sensor onto the lights",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		log := eventlog.New(cmd.ErrOrStderr(), slog.LevelDebug)
		rig, err := gpio.OpenRig(cfg.GPIO.Chip, cfg.GPIO.Pins(), log)
		if err != nil {
			return err
		}
		defer rig.Close()

		ctx := cmd.Context()
		var last [domain.Lanes + 1]bool
		for {
			select {
			case <-ctx.Done():
				rig.ToDomain().Display().Clear()
				return nil
			case <-time.After(cfg.PollInterval):
				strum := rig.Strum.Value()
				for _, t := range rig.Tracks {
					t.Back.Set(strum)
				}
				if strum != last[0] {
					log.Debug("beam", "broken", strum)
					last[0] = strum
				}
				for i, t := range rig.Tracks {
					pressed := t.Button.Value()
					t.Front.Set(pressed)
					if pressed != last[i+1] {
						log.Debug("button", "lane", i, "pressed", pressed)
						last[i+1] = pressed
					}
				}
			}
		}
	},
}
