package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/areknoster/guitarzero/audio"
	"github.com/areknoster/guitarzero/config"
	"github.com/areknoster/guitarzero/domain"
	"github.com/areknoster/guitarzero/eventlog"
	"github.com/areknoster/guitarzero/gpio"
	"github.com/areknoster/guitarzero/score"
	"github.com/areknoster/guitarzero/song"
	"github.com/areknoster/guitarzero/watchdog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

var mute bool

func init() {
	playCmd.Flags().BoolVar(&mute, "mute", false, "don't play feedback clips")
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play rounds until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return play(cmd.Context(), cfg)
	},
}

func play(ctx context.Context, cfg config.Config) error {
	level, err := eventlog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log, logFile, err := eventlog.Open(cfg.LogFile, level)
	if err != nil {
		return err
	}
	defer logFile.Close()

	sessionID := uuid.New()
	log = log.With("program", filepath.Base(os.Args[0]), "session", sessionID.String())
	log.Info("configuration file read", "path", configPath)

	rig, err := gpio.OpenRig(cfg.GPIO.Chip, cfg.GPIO.Pins(), log)
	if err != nil {
		log.Error("initialize GPIO", "err", err)
		return err
	}
	defer func() {
		rig.Close()
		log.Info("GPIO pins freed")
	}()

	opts := []domain.EngineOption{domain.WithLogger(log)}
	if cfg.Watchdog.Device != "" {
		wd, err := watchdog.Open(cfg.Watchdog.Device, cfg.Watchdog.TimeoutSeconds)
		if err != nil {
			log.Error("open watchdog", "err", err)
			return err
		}
		defer func() {
			if err := wd.Close(); err != nil {
				log.Error("close watchdog", "err", err)
			}
		}()
		log.Info("watchdog armed", "device", cfg.Watchdog.Device, "timeout_seconds", wd.TimeoutSeconds())
		opts = append(opts, domain.WithWatchdog(wd))
	}

	clips := clipPlayer(cfg, log)
	if p, ok := clips.(*audio.Player); ok {
		defer p.Close()
	}
	engine := domain.NewRoundEngine(rig.ToDomain(), clips, opts...)
	session := domain.NewSession(
		engine,
		score.NewFileStore(cfg.ScoreFile, cfg.RoundLength),
		song.NewLibrary(cfg.Songs.Easy, cfg.Songs.Medium, cfg.Songs.Hard),
		domain.SessionConfig{
			Round:        cfg.Round(),
			Tag:          "guitarzero/" + sessionID.String(),
			RestartPause: cfg.RestartPause,
		},
	)

	fmt.Println("Release every button to start; strum while holding the buttons lit in the front row")
	err = session.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info("session stopped")
		return nil
	}
	log.Error("session failed", "err", err)
	return err
}

func clipPlayer(cfg config.Config, log *slog.Logger) domain.ClipPlayer {
	if mute {
		return audio.Silent{}
	}
	p, err := audio.NewPlayer(log, cfg.Clips.Correct, cfg.Clips.Incorrect)
	if err != nil {
		log.Warn("audio unavailable, playing without feedback clips", "err", err)
		return audio.Silent{}
	}
	return p
}
