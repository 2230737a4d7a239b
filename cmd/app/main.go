// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/riskforge/compliance/cmd/app/commands"
	"github.com/riskforge/compliance/internal/app"
	"github.com/riskforge/compliance/internal/config"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "app",
		Usage:   "Tenant-scoped compliance and cryptography core",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
				},
			},
			{
				Name:  "create-secrets",
				Usage: "Generate the master encryption and audit signing secrets",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreateSecrets(commands.DefaultIO().Writer)
				},
			},
			{
				Name:  "verify-audit-records",
				Usage: "Verify the integrity of a tenant's audit records",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tenant",
						Aliases:  []string{"t"},
						Required: true,
						Usage:    "Tenant whose records are verified",
					},
					&cli.StringFlag{
						Name:     "start",
						Aliases:  []string{"s"},
						Required: true,
						Usage:    "Start of the window (YYYY-MM-DD or YYYY-MM-DD HH:MM:SS)",
					},
					&cli.StringFlag{
						Name:     "end",
						Aliases:  []string{"e"},
						Required: true,
						Usage:    "End of the window (YYYY-MM-DD or YYYY-MM-DD HH:MM:SS)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					container := app.NewContainer(config.Load())
					logger := container.Logger()
					defer func() {
						if err := container.Shutdown(context.Background()); err != nil {
							logger.Error("failed to shutdown container", slog.Any("error", err))
						}
					}()

					trail, err := container.AuditTrail()
					if err != nil {
						return fmt.Errorf("failed to initialize audit trail: %w", err)
					}

					return commands.RunVerifyAuditRecords(
						ctx,
						trail,
						logger,
						commands.DefaultIO().Writer,
						cmd.String("tenant"),
						cmd.String("start"),
						cmd.String("end"),
						cmd.String("format"),
					)
				},
			},
			{
				Name:  "classify",
				Usage: "Classify a JSON payload's sensitivity",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "payload",
						Aliases: []string{"p"},
						Usage:   "JSON object to classify (omit to read from stdin)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					container := app.NewContainer(config.Load())

					classifier, err := container.Classifier()
					if err != nil {
						return fmt.Errorf("failed to initialize classifier: %w", err)
					}

					return commands.RunClassify(
						classifier,
						commands.DefaultIO(),
						cmd.String("payload"),
						cmd.String("format"),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
