package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/doeshing/irisform/internal/app"
	"github.com/doeshing/irisform/internal/infrastructure/web"
	"github.com/doeshing/irisform/internal/version"
)

// ============================================================================
// Version Command
// ============================================================================

// newVersionCommand creates the version command to display version information.
func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show irisform version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			return displayVersionInformation(cmd.OutOrStdout())
		},
	}
}

func displayVersionInformation(out io.Writer) error {
	fmt.Fprintf(out, "irisform version %s\n", version.Version)

	if version.Commit != "" {
		fmt.Fprintf(out, "Commit: %s\n", version.Commit)
	}

	if version.BuildDate != "" {
		fmt.Fprintf(out, "Built: %s\n", version.BuildDate)
	}

	fmt.Fprintf(out, "Go version: %s\n", runtime.Version())

	return nil
}

// ============================================================================
// Serve Command
// ============================================================================

// newServeCommand serves the form in the browser until interrupted.
func newServeCommand(container *app.Container) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the prediction form in the browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = container.Config.Server.Addr
			}
			controller, err := container.NewFormController(nil, nil)
			if err != nil {
				return err
			}
			opts := web.Options{Controller: controller, Logger: container.Logger}
			if container.Config.Metrics.Enabled {
				opts.Metrics = container.Metrics.Handler()
			}
			server := web.NewServer(addr, web.NewHandler(opts), container.Logger)
			fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s (Ctrl-C to stop)\n", server.Addr())
			return server.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
