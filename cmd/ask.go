package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Rorical/RoriForge/internal/config"
	"github.com/Rorical/RoriForge/internal/core"
	"github.com/Rorical/RoriForge/internal/directive"
	"github.com/Rorical/RoriForge/internal/logging"
	"github.com/Rorical/RoriForge/internal/transport"
	"github.com/Rorical/RoriForge/internal/workspace"
)

var askEndpoint string

var askCmd = &cobra.Command{
	Use:   "ask [prompt]",
	Short: "Run a single turn without the UI",
	Long: `Send one message, print the reply and the file changes it made, and
optionally export the resulting project with --out.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(os.Stderr)

		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		endpoint := cfg.GetEndpoint()
		if askEndpoint != "" {
			endpoint = askEndpoint
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		t := transport.NewHTTPTransport(endpoint, cfg.GetEndpointKey(), nil)
		return runAsk(ctx, cfg, t, strings.Join(args, " "), exportDir, cmd.OutOrStdout())
	},
}

// runAsk runs one turn, writing operations as they are found and the reply
// once it is complete.
func runAsk(ctx context.Context, cfg *config.Config, t transport.Transport, prompt, outDir string, w io.Writer) error {
	listener := core.ListenerFuncs{
		OperationFunc: func(op directive.Operation) {
			fmt.Fprintf(w, "> %s\n", op)
		},
	}
	cs := core.NewChatService(cfg, t, nil, listener)

	result, err := cs.Send(ctx, prompt)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, strings.TrimRight(directive.Redact(result.Reply), "\n"))
	for _, e := range result.Effects {
		fmt.Fprintf(w, "  %s\n", e)
	}

	if outDir == "" {
		return nil
	}
	n, err := workspace.Export(result.Workspace, outDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Exported %d file(s) to %s\n", n, outDir)
	return nil
}

func init() {
	askCmd.Flags().StringVar(&askEndpoint, "endpoint", "", "chat endpoint, overriding the active profile")
	rootCmd.AddCommand(askCmd)
}
