package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/tomz197/spaceshooter/internal/audio"
	"github.com/tomz197/spaceshooter/internal/config"
	"github.com/tomz197/spaceshooter/internal/loop"
	"github.com/tomz197/spaceshooter/internal/loop/client"
	tuning "github.com/tomz197/spaceshooter/internal/loop/config"
	"github.com/tomz197/spaceshooter/internal/loop/local"
)

func main() {
	if err := run(); err != nil {
		log.NewWithOptions(os.Stderr, log.Options{Prefix: "shooter"}).Error("game error", "err", err)
		os.Exit(1)
	}
}

func run() error {
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	t, err := tuning.Load(config.GetEnv("SHOOTER_CONFIG", "shooter.toml"))
	if err != nil {
		logger.Warn("using default tuning", "err", err)
	}

	sound := newAudio(logger)
	defer sound.Close()

	if config.GetEnv("SHOOTER_FRONTEND", "ansi") == "tcell" {
		err = runTcell(t, sound, logger)
	} else {
		err = runANSI(t, sound, logger)
	}
	if err != nil {
		logger.Error("game error", "err", err)
	}
	return err
}

// newLogger logs to SHOOTER_LOG_FILE. Without one, logs are discarded so
// they never draw over the game.
func newLogger() (*log.Logger, func(), error) {
	path := config.GetEnv("SHOOTER_LOG_FILE", "")
	var w io.Writer = io.Discard
	closeLog := func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", path, err)
		}
		w = f
		closeLog = func() { _ = f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{ReportTimestamp: true})
	if lvl, err := log.ParseLevel(config.GetEnv("LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(lvl)
	}
	return logger, closeLog, nil
}

type audioService interface {
	loop.Audio
	Close()
}

func newAudio(logger *log.Logger) audioService {
	if config.GetEnv("SHOOTER_AUDIO", "on") == "off" {
		return nopAudio{}
	}
	svc := audio.New(logger, config.GetEnvFloat("SHOOTER_VOLUME", 0))
	if err := svc.Init(); err != nil {
		logger.Warn("audio disabled", "err", err)
	}
	return svc
}

type nopAudio struct{ loop.NopAudio }

func (nopAudio) Close() {}

func runANSI(t tuning.Tuning, sound loop.Audio, logger *log.Logger) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	c := client.NewClient(bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Tuning: t,
		Audio:  sound,
		Logger: logger,
	})
	return c.Run()
}

func runTcell(t tuning.Tuning, sound loop.Audio, logger *log.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	return local.New(screen, local.Options{
		Tuning: t,
		Audio:  sound,
		Logger: logger,
	}).Run()
}
