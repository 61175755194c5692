package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Rorical/RoriForge/internal/config"
	"github.com/Rorical/RoriForge/internal/gateway"
	"github.com/Rorical/RoriForge/internal/logging"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat gateway",
	Long: `Serve the chat endpoint the client talks to. Requests are forwarded to the
profile's OpenAI-compatible upstream with the file-operation system prompt.
Prometheus metrics are exposed on /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(os.Stderr)

		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		addr := cfg.GetListen()
		if serveListen != "" {
			addr = serveListen
		}
		if !cfg.CanServe() {
			slog.Warn("no upstream API key configured, chat requests will fail",
				"profile", cfg.ActiveProfile)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return gateway.New(cfg).ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address, overriding the active profile")
	rootCmd.AddCommand(serveCmd)
}
