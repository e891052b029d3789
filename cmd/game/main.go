package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/highscore"
	"github.com/tomz197/invaders/internal/loop"
	"github.com/tomz197/invaders/internal/sprite"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}
	settingsPath := flag.String("config", config.GetEnv("INVADERS_CONFIG", "invaders.yaml"), "path to the YAML settings file")
	flag.Parse()

	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load settings: %v\n", err)
		os.Exit(1)
	}
	// The game owns stdout, so only log to a file.
	if settings.Log.File == "" {
		settings.Log.File = os.DevNull
	}
	logger, closeLog, err := config.NewLogger(settings.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	store := highscore.Open(settings.Storage.AppName, logger)
	atlas := sprite.NewAtlas()
	atlas.LoadAsync()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	game := loop.New(bufio.NewReader(os.Stdin), os.Stdout, loop.Options{
		Display: settings.Display,
		Store:   store,
		Masks:   atlas,
		Logger:  logger,
	})
	if err := game.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("game error", "err", err)
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
