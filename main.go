package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/okra-platform/nativegen/internal/codegen"
	"github.com/okra-platform/nativegen/internal/commands"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	ctrl := &commands.Controller{
		Flags: &commands.Flags{},
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.Command{
		Name:    "nativegen",
		Usage:   "Compile an engine class dump into a typed, override-aware binding model",
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("NATIVEGEN_LOG_LEVEL"),
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to nativegen.yaml (default: search the working directory and its parents)",
				Destination: &ctrl.Flags.ConfigPath,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return ctx, fmt.Errorf("failed to parse log level: %w", err)
			}

			log.Logger = log.Level(level)
			ctrl.Flags.LogLevel = level.String()
			ctrl.Logger = log.Logger

			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Compile the schema and write the model",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Aliases:     []string{"f"},
						Usage:       "output format (" + strings.Join(codegen.DefaultRegistry.Formats(), ", ") + ")",
						Destination: &ctrl.Flags.Format,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Generate(ctx)
				},
			},
			{
				Name:  "tree",
				Usage: "Print the class hierarchy",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Tree(ctx)
				},
			},
			{
				Name:  "watch",
				Usage: "Regenerate the model whenever the schema changes",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Watch(ctx)
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run nativegen")
	}
}
