package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/syndic/internal"
	pkgconfig "github.com/starford/syndic/pkg/config"
)

type entryPoint func(ctx context.Context, opts ...internal.Option) error

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadIfExists(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cmd.IsSet("no-seed") {
		cfg.Seed.Enabled = !cmd.Bool("no-seed")
	}
	return cfg, nil
}

func action(name string, fn entryPoint) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := fn(ctx, internal.WithConfig(cfg)); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "syndic",
		Usage:  "Local-first organizer for condominium syndic work: meetings, notes, documents, tasks, finances and time",
		Action: action("serve", internal.Run),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.BoolFlag{
				Name:  "no-seed",
				Usage: "Do not insert demonstration meetings into an empty database",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the local HTTP API",
				Action: action("serve", internal.Run),
			},
			{
				Name:   "mcp",
				Usage:  "Serve the MCP tools over stdio",
				Action: action("mcp", internal.RunMCP),
			},
			{
				Name:   "init",
				Usage:  "Create or upgrade the database and exit",
				Action: action("init", internal.Init),
			},
			{
				Name:   "reset",
				Usage:  "Delete all meetings, notes and time entries",
				Action: action("reset", internal.Reset),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
