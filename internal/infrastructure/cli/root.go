package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/irisform/internal/app"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// ExitError ends the process with Code without printing anything further.
// Commands return it after they already reported the problem themselves.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewRootCmd wires the cobra root command. The returned cleanup releases the
// storage handle and must be called once the command has finished.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, func(), error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := container.Close(); err != nil {
			container.Logger.Warn("storage close failed", map[string]interface{}{"error": err.Error()})
		}
	}

	predictCmd := newPredictCommand(container)

	root := &cobra.Command{
		Use:   "irisform",
		Short: "irisform - Iris species prediction form",
		Long:  "irisform collects four flower measurements, asks a prediction service for the Iris species and keeps a short local history.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(predictCmd)
	root.AddCommand(newFormCommand(container))
	root.AddCommand(newSampleCommand())
	root.AddCommand(newHistoryCommand(container))
	root.AddCommand(newServeCommand(container))
	root.AddCommand(newDoctorCommand(container))
	root.AddCommand(newConfigCommand(container))
	root.AddCommand(newVersionCommand())
	return root, cleanup, nil
}
