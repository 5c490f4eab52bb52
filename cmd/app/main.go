package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/notepad/internal"
	pkgconfig "github.com/starford/notepad/pkg/config"
)

var version = "dev"

// frontend returns a command action that runs the application with the named frontend.
func frontend(name string) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		configPath := cmd.String("config")

		cfg := internal.NewDefaultConfig()
		if err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
		if p := cmd.String("storage"); p != "" {
			cfg.Storage.Path = p
		}

		opts := []internal.Option{
			internal.WithConfig(cfg),
			internal.WithFrontend(name),
			internal.WithArgs(cmd.Args().Slice()),
			internal.WithVersion(version),
		}

		if err := internal.Run(ctx, opts...); err != nil {
			return fmt.Errorf("app run error: %w", err)
		}

		return nil
	}
}

func main() {
	cmd := &cli.Command{
		Name:    "notepad",
		Usage:   "Two-pane plain-text notepad with autosave",
		Version: version,
		Action:  frontend(internal.FrontendTUI),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (optional)",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "storage",
				Aliases: []string{"s"},
				Usage:   "Notes directory (overrides storage.path)",
				Sources: cli.EnvVars("NOTEPAD_STORAGE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   internal.FrontendTUI,
				Usage:  "Open the terminal editor (default)",
				Action: frontend(internal.FrontendTUI),
			},
			{
				Name:   internal.FrontendServe,
				Usage:  "Serve the session over local HTTP with an SSE event stream",
				Action: frontend(internal.FrontendServe),
			},
			{
				Name:   internal.FrontendMCP,
				Usage:  "Expose the session as MCP tools on stdio",
				Action: frontend(internal.FrontendMCP),
			},
			{
				Name:      internal.FrontendList,
				Usage:     "Print notes whose title contains the query",
				ArgsUsage: "[query]",
				Action:    frontend(internal.FrontendList),
			},
			{
				Name:   internal.FrontendNew,
				Usage:  "Create an empty note",
				Action: frontend(internal.FrontendNew),
			},
			{
				Name:      internal.FrontendShow,
				Usage:     "Print the text of the note at a position",
				ArgsUsage: "<position>",
				Action:    frontend(internal.FrontendShow),
			},
			{
				Name:      internal.FrontendSearch,
				Usage:     "Search note bodies",
				ArgsUsage: "<query>",
				Action:    frontend(internal.FrontendSearch),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
