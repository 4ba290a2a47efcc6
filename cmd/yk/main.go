package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/yk/internal"
)

func options(cmd *cli.Command) ([]internal.Option, error) {
	configDir := cmd.String("config-dir")
	if configDir == "" {
		dir, err := internal.DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}
	roots := internal.NewRoots(configDir, cmd.String("settings"))
	return []internal.Option{internal.WithRoots(roots)}, nil
}

func find(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	if err := internal.Find(ctx, cmd.Bool("edit"), opts...); err != nil {
		return fmt.Errorf("find: %w", err)
	}
	return nil
}

func editFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "edit",
		Aliases: []string{"e"},
		Usage:   "Open the selected command's source file in the editor instead of running it",
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "yk",
		Usage:  "Pick a saved command with a fuzzy finder, then copy, run or edit it",
		Action: find,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config-dir",
				Usage:       "Configuration directory",
				DefaultText: "$HOME/.config/yk",
				Sources:     cli.EnvVars("YK_CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:        "settings",
				Usage:       "Path to the settings file (.json, .yaml or .yml)",
				DefaultText: "<config-dir>/config.json",
				Sources:     cli.EnvVars("YK_SETTINGS_FILE"),
			},
			editFlag(),
		},
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Create the configuration directory and default files",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					opts, err := options(cmd)
					if err != nil {
						return err
					}
					return internal.Init(ctx, opts...)
				},
			},
			{
				Name:  "new",
				Usage: "Add a simple command interactively",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					opts, err := options(cmd)
					if err != nil {
						return err
					}
					return internal.New(ctx, opts...)
				},
			},
			{
				Name:   "find",
				Usage:  "Select a command and copy, run or edit it",
				Flags:  []cli.Flag{editFlag()},
				Action: find,
			},
			{
				Name:  "list",
				Usage: "Print every loaded command",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					opts, err := options(cmd)
					if err != nil {
						return err
					}
					return internal.List(ctx, opts...)
				},
			},
			{
				Name:  "check",
				Usage: "Load every source and report problems",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "watch",
						Aliases: []string{"w"},
						Usage:   "Keep checking whenever a source changes",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					opts, err := options(cmd)
					if err != nil {
						return err
					}
					return internal.Check(ctx, cmd.Bool("watch"), opts...)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
