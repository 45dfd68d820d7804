package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nfrund/propertyhub/internal/backend"
	"github.com/nfrund/propertyhub/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the server configuration",
	}
	cmd.AddCommand(newConfigCheckCmd())
	return cmd
}

func newConfigCheckCmd() *cobra.Command {
	var envFiles []string
	var ping bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Load and validate the configuration the server would start with",
		Long: `Load .env files (default: .env in the working directory) and the process
environment exactly as the server does, validate the result and print it with
secrets masked. With --ping the backend is asked for its property list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range envFiles {
				if _, err := os.Stat(f); err != nil {
					return fmt.Errorf("env file: %w", err)
				}
			}
			cfg, err := config.Load(envFiles...)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "❌ Configuration is invalid: %v\n", err)
				return err
			}
			printConfig(cmd, cfg)

			if !ping {
				return nil
			}
			return pingBackend(cmd, cfg)
		},
	}

	cmd.Flags().StringSliceVarP(&envFiles, "env-file", "e", nil, "Env files to load before the environment")
	cmd.Flags().BoolVar(&ping, "ping", false, "Check that the backend answers")
	return cmd
}

func printConfig(cmd *cobra.Command, cfg *config.Config) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	origins := strings.Join(cfg.AllowedOrigins, ",")
	if origins == "" {
		origins = "(same origin)"
	}
	fmt.Fprintln(w, "✅ Configuration is valid")
	fmt.Fprintf(w, "APP_ADDR\t%s\n", cfg.AppAddr)
	fmt.Fprintf(w, "APP_BASE_URL\t%s\n", cfg.AppBaseURL)
	fmt.Fprintf(w, "BACKEND_URL\t%s\n", cfg.BackendURL)
	fmt.Fprintf(w, "BACKEND_TIMEOUT\t%s\n", cfg.BackendTimeout)
	fmt.Fprintf(w, "BACKEND_RETRIES\t%d\n", cfg.BackendRetries)
	fmt.Fprintf(w, "SESSION_SECRET\t%s\n", mask(cfg.SessionSecret))
	fmt.Fprintf(w, "CONTENT_DIR\t%s\n", cfg.ContentDir)
	fmt.Fprintf(w, "NOTIFICATION_POLL_INTERVAL\t%s\n", cfg.PollInterval)
	fmt.Fprintf(w, "LOG_FORMAT\t%s\n", cfg.LogFormat)
	fmt.Fprintf(w, "LOG_LEVEL\t%s\n", cfg.LogLevel)
	fmt.Fprintf(w, "WS_ALLOWED_ORIGINS\t%s\n", origins)
	fmt.Fprintf(w, "PUBSUB_TRACING_ENABLED\t%t\n", cfg.Tracing.Enabled)
}

func mask(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:2] + strings.Repeat("*", len(secret)-4) + secret[len(secret)-2:]
}

func pingBackend(cmd *cobra.Command, cfg *config.Config) error {
	client, err := backend.New(cfg.BackendURL, backend.WithTimeout(cfg.BackendTimeout), backend.WithRetries(0))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.BackendTimeout)
	defer cancel()
	start := time.Now()
	items, err := client.Properties.List(ctx)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "❌ Backend did not answer: %v\n", err)
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ Backend answered in %s with %d properties\n",
		time.Since(start).Round(time.Millisecond), len(items))
	return nil
}
