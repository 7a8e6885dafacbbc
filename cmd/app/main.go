package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/raido/internal"
	pkgconfig "github.com/starford/raido/pkg/config"
)

// defaultConfigFile is loaded when present; an explicit --config must exist.
const defaultConfigFile = "raido.yaml"

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := internal.NewDefaultConfig()
	if configPath := cmd.String("config"); configPath != "" {
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	} else if _, err := pkgconfig.LoadIfPresent(defaultConfigFile, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if cmd.Args().Len() > 2 {
		return fmt.Errorf("too many arguments, want [vault_path] [output_path]")
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithDryRun(cmd.Bool("dry-run")),
	}
	if vaultPath := cmd.Args().Get(0); vaultPath != "" {
		opts = append(opts, internal.WithVaultPath(vaultPath))
	}
	if outputPath := cmd.Args().Get(1); outputPath != "" {
		opts = append(opts, internal.WithOutputPath(outputPath))
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:      "raido",
		Usage:     "Export a Markdown vault's published articles and books to JSON for a static blog",
		ArgsUsage: "[vault_path] [output_path]",
		Action:    run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: defaultConfigFile,
				Sources:     cli.EnvVars("RAIDO_CONFIG_FILE"),
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Validate and report without writing any files",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
