package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"FakeNewsFeatures/internal/app"
	"FakeNewsFeatures/internal/config"
	"FakeNewsFeatures/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults to $"+config.PathEnv+")")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config file] <%s>\n", os.Args[0], strings.Join(app.Commands, "|"))
		flag.PrintDefaults()
	}
	flag.Parse()

	command := app.CommandRun
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.New("error").Error("application stopped", "error", err)
		os.Exit(1)
	}
	logger := logging.NewWithFormat(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)

	application := app.New(cfg, logger)

	if err := application.Execute(ctx, command); err != nil {
		logger.Error("application stopped", "error", err)
		stop()
		os.Exit(1)
	}
}
