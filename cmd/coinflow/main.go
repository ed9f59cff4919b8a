package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/simaogato/coinflow-backend/internal/app"
	"github.com/simaogato/coinflow-backend/internal/cli"
	"github.com/simaogato/coinflow-backend/internal/config"
	"github.com/simaogato/coinflow-backend/internal/logger"
)

func main() {
	plain := flag.Bool("plain", false, "Print raw markdown instead of rendering it.")

	env := cli.DefaultEnv(func(ctx context.Context) (*app.App, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		// Keep the terminal clean: only warnings and errors reach stderr
		if cfg.LogLevel == "info" {
			cfg.LogLevel = "warn"
		}
		return app.New(ctx, cfg, logger.New(os.Stderr, cfg.LogLevel)), nil
	})

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cli.Register(commander, env)

	flag.Parse()
	env.Plain = *plain

	os.Exit(int(commander.Execute(context.Background())))
}
