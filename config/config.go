// Package config loads the controller configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/areknoster/guitarzero/domain"
	"github.com/areknoster/guitarzero/gpio"
	"github.com/areknoster/guitarzero/watchdog"

	"gopkg.in/yaml.v3"
)

type Config struct {
	IntervalSeconds   int           `yaml:"interval_seconds"`
	RoundLength       int           `yaml:"round_length"`
	PollInterval      time.Duration `yaml:"poll_interval"`
	StartPollInterval time.Duration `yaml:"start_poll_interval"`
	RestartPause      time.Duration `yaml:"restart_pause"`

	LogFile   string `yaml:"log_file"`
	LogLevel  string `yaml:"log_level"`
	ScoreFile string `yaml:"score_file"`

	Clips    Clips    `yaml:"clips"`
	Songs    Songs    `yaml:"songs"`
	GPIO     GPIO     `yaml:"gpio"`
	Watchdog Watchdog `yaml:"watchdog"`
}

type Clips struct {
	Correct   string `yaml:"correct"`
	Incorrect string `yaml:"incorrect"`
}

type Songs struct {
	Easy   string `yaml:"easy"`
	Medium string `yaml:"medium"`
	Hard   string `yaml:"hard"`
}

type GPIO struct {
	Chip    string            `yaml:"chip"`
	Strum   int               `yaml:"strum"`
	Buttons [domain.Lanes]int `yaml:"buttons"`
	Front   [domain.Lanes]int `yaml:"front"`
	Back    [domain.Lanes]int `yaml:"back"`
}

// Watchdog is disabled when Device is empty.
type Watchdog struct {
	Device         string `yaml:"device"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Default is the stock Raspberry Pi setup, files under /home/pi.
func Default() Config {
	pins := gpio.DefaultPins
	return Config{
		IntervalSeconds:   1,
		RoundLength:       30,
		PollInterval:      domain.DefaultPollInterval,
		StartPollInterval: domain.DefaultStartPollInterval,
		RestartPause:      domain.DefaultRestartPause,
		LogFile:           "/home/pi/GuitarZero.log",
		LogLevel:          "info",
		ScoreFile:         "/home/pi/score.log",
		Clips: Clips{
			Correct:   "/home/pi/nice.mp3",
			Incorrect: "/home/pi/bad.mp3",
		},
		Songs: Songs{
			Easy:   "/home/pi/easySong.log",
			Medium: "/home/pi/medSong.log",
			Hard:   "/home/pi/hardSong.log",
		},
		GPIO: GPIO{
			Chip:    gpio.DefaultChip,
			Strum:   pins.Strum,
			Buttons: pins.Buttons,
			Front:   pins.Front,
			Back:    pins.Back,
		},
		Watchdog: Watchdog{TimeoutSeconds: 15},
	}
}

// Load reads the file at path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.IntervalSeconds <= 0 {
		errs = append(errs, fmt.Errorf("interval_seconds must be positive, got %d", c.IntervalSeconds))
	}
	if c.RoundLength <= 0 {
		errs = append(errs, fmt.Errorf("round_length must be positive, got %d", c.RoundLength))
	}
	if c.PollInterval < domain.MinPollInterval || c.PollInterval > domain.MaxPollInterval {
		errs = append(errs, fmt.Errorf("poll_interval must be in [%s, %s], got %s", domain.MinPollInterval, domain.MaxPollInterval, c.PollInterval))
	}
	if c.StartPollInterval <= 0 {
		errs = append(errs, fmt.Errorf("start_poll_interval must be positive, got %s", c.StartPollInterval))
	}
	if c.ScoreFile == "" {
		errs = append(errs, errors.New("score_file is required"))
	}
	if c.Songs.Easy == "" || c.Songs.Medium == "" || c.Songs.Hard == "" {
		errs = append(errs, errors.New("songs.easy, songs.medium and songs.hard are required"))
	}
	if c.Watchdog.Device != "" {
		if err := c.Watchdog.validate(c.StartPollInterval); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.GPIO.validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// validate checks that the longest stretch without a kick stays below the timeout.
// Rounds, flashes and pauses kick every domain.KickInterval; only the start poll is configurable.
func (w Watchdog) validate(startPoll time.Duration) error {
	minTimeout := int(domain.KickInterval/time.Second) + 1
	if w.TimeoutSeconds < minTimeout || w.TimeoutSeconds > watchdog.MaxTimeoutSeconds {
		return fmt.Errorf("watchdog.timeout_seconds must be in [%d, %d], got %d", minTimeout, watchdog.MaxTimeoutSeconds, w.TimeoutSeconds)
	}
	timeout := time.Duration(w.TimeoutSeconds) * time.Second
	if startPoll >= timeout {
		return fmt.Errorf("start_poll_interval %s must be shorter than watchdog.timeout_seconds %s", startPoll, timeout)
	}
	return nil
}

func (g GPIO) validate() error {
	if g.Chip == "" {
		return errors.New("gpio.chip is required")
	}
	used := map[int]string{}
	check := func(name string, pin int) error {
		if pin < 0 {
			return fmt.Errorf("gpio.%s: negative pin %d", name, pin)
		}
		if other, ok := used[pin]; ok {
			return fmt.Errorf("gpio.%s: pin %d already used by gpio.%s", name, pin, other)
		}
		used[pin] = name
		return nil
	}
	if err := check("strum", g.Strum); err != nil {
		return err
	}
	for _, group := range []struct {
		name string
		pins [domain.Lanes]int
	}{{"buttons", g.Buttons}, {"front", g.Front}, {"back", g.Back}} {
		for i, pin := range group.pins {
			if err := check(fmt.Sprintf("%s[%d]", group.name, i), pin); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g GPIO) Pins() gpio.Pins {
	return gpio.Pins{
		Strum:   g.Strum,
		Buttons: g.Buttons,
		Front:   g.Front,
		Back:    g.Back,
	}
}

func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

func (c Config) Round() domain.RoundConfig {
	return domain.RoundConfig{
		Length:            c.RoundLength,
		Interval:          c.Interval(),
		PollInterval:      c.PollInterval,
		StartPollInterval: c.StartPollInterval,
		CorrectClip:       c.Clips.Correct,
		IncorrectClip:     c.Clips.Incorrect,
	}
}
