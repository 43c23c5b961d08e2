package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/rallyscore/internal/replaytool"
	"github.com/okian/rallyscore/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	var cfg replaytool.Config
	app := replaytool.NewApp(&cfg)
	if _, err := app.Parse(os.Args[1:]); err != nil {
		app.FatalUsage("%v\n", err)
	}

	// Logs go to stderr so stdout carries only the report.
	if err := logger.InitWithWriter(os.Stderr, false); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := replaytool.Run(ctx, &cfg, os.Stdin, os.Stdout); err != nil {
		os.Stderr.WriteString("replay failed: " + err.Error() + "\n")
		return 1
	}
	return 0
}
