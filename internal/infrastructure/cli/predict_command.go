package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/doeshing/irisform/internal/app"
	"github.com/doeshing/irisform/internal/application/form"
	"github.com/doeshing/irisform/internal/application/render"
	"github.com/doeshing/irisform/internal/domain"
)

const noSample = "none"

func newPredictCommand(container *app.Container) *cobra.Command {
	var (
		sample  string
		asJSON  bool
		showLog bool
	)
	values := make(map[domain.Field]*string, domain.FeatureCount)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the species for one set of measurements",
		Example: "  irisform predict --sepal-length 5.1 --sepal-width 3.5 --petal-length 1.4 --petal-width 0.2\n" +
			"  irisform predict --sample virginica",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			controller, err := newCLIController(container, cmd)
			if err != nil {
				return err
			}
			if sample != "" {
				if err := controller.LoadSample(sample); err != nil {
					return err
				}
			}
			changed := map[domain.Field]string{}
			for _, field := range domain.Fields {
				if cmd.Flags().Changed(string(field)) {
					changed[field] = *values[field]
				}
			}
			if err := controller.SetFields(changed); err != nil {
				return err
			}
			return submitAndRender(cmd, controller, asJSON, showLog)
		},
	}

	for _, field := range domain.Fields {
		values[field] = new(string)
		cmd.Flags().StringVar(values[field], string(field), "", fmt.Sprintf("Measured %s in cm", field.Label()))
	}
	cmd.Flags().StringVarP(&sample, "sample", "s", "", "Start from a preset (setosa|versicolor|virginica)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&showLog, "history", false, "Print the history after the result")
	return cmd
}

func newFormCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "form",
		Short: "Fill in the measurements interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			controller, err := newCLIController(container, cmd)
			if err != nil {
				return err
			}
			renderer := NewRenderer(cmd.OutOrStdout())
			for {
				if err := runInteractiveForm(cmd, controller); err != nil {
					if errors.Is(err, huh.ErrUserAborted) {
						return nil
					}
					return err
				}
				view, err := controller.Submit(cmd.Context())
				if err != nil && !isValidationError(err) {
					return err
				}
				renderer.Result(view.Result)

				again := true
				confirm := huh.NewConfirm().
					Title("Predict another flower?").
					Affirmative("Yes").
					Negative("No").
					Value(&again)
				if err := huh.NewForm(huh.NewGroup(confirm)).RunWithContext(cmd.Context()); err != nil || !again {
					fmt.Fprintln(cmd.OutOrStdout())
					renderer.History(controller.View().History)
					return nil
				}
			}
		},
	}
}

func runInteractiveForm(cmd *cobra.Command, controller *form.Controller) error {
	preset := noSample
	options := []huh.Option[string]{huh.NewOption("Enter values manually", noSample)}
	for _, sample := range domain.Samples() {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%s)", sample.Name, sample.Features), sample.Name))
	}
	chooser := huh.NewSelect[string]().
		Title("Start from a sample?").
		Options(options...).
		Value(&preset)
	if err := huh.NewForm(huh.NewGroup(chooser)).RunWithContext(cmd.Context()); err != nil {
		return err
	}
	if preset != noSample {
		if err := controller.LoadSample(preset); err != nil {
			return err
		}
	}

	current := controller.View().Fields
	values := make(map[domain.Field]*string, domain.FeatureCount)
	fields := make([]huh.Field, 0, domain.FeatureCount)
	for _, field := range domain.Fields {
		field := field
		value := current[field]
		values[field] = &value
		fields = append(fields, huh.NewInput().
			Title(fmt.Sprintf("%s (cm)", field.Label())).
			Value(values[field]).
			Validate(func(s string) error {
				_, err := domain.ParseField(field, s)
				return err
			}))
	}
	if err := huh.NewForm(huh.NewGroup(fields...)).RunWithContext(cmd.Context()); err != nil {
		return err
	}

	updates := make(map[domain.Field]string, domain.FeatureCount)
	for field, value := range values {
		updates[field] = *value
	}
	return controller.SetFields(updates)
}

func newSampleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "List the preset measurements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			NewRenderer(cmd.OutOrStdout()).Samples(domain.Samples())
			return nil
		},
	}
}

func newCLIController(container *app.Container, cmd *cobra.Command) (*form.Controller, error) {
	spinner := NewSpinner(cmd.ErrOrStderr())
	return container.NewFormController(NewAlerter(cmd.ErrOrStderr()), spinner.SubmitControl)
}

// submitAndRender runs one submission. Validation alerts and request errors
// are already on screen when it returns an ExitError.
func submitAndRender(cmd *cobra.Command, controller *form.Controller, asJSON, showLog bool) error {
	view, err := controller.Submit(cmd.Context())
	if err != nil {
		if isValidationError(err) {
			return &ExitError{Code: 2}
		}
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		if err := writeResultJSON(out, view); err != nil {
			return err
		}
	} else {
		renderer := NewRenderer(out)
		renderer.Result(view.Result)
		if showLog {
			fmt.Fprintln(out)
			renderer.History(view.History)
		}
	}
	if view.Result.Kind == render.ResultError {
		return &ExitError{Code: 1}
	}
	return nil
}

type resultJSON struct {
	Species    string            `json:"species,omitempty"`
	Prediction *int              `json:"prediction,omitempty"`
	Features   []float64         `json:"features,omitempty"`
	Error      string            `json:"error,omitempty"`
	History    domain.HistoryLog `json:"history"`
}

func writeResultJSON(out io.Writer, view form.View) error {
	payload := resultJSON{History: view.HistoryLog}
	switch view.Result.Kind {
	case render.ResultSuccess:
		id := int(view.Result.ClassID)
		payload.Species = view.Result.Species
		payload.Prediction = &id
		if len(view.HistoryLog) > 0 {
			payload.Features = view.HistoryLog[0].Features.Slice()
		}
	case render.ResultError:
		payload.Error = view.Result.Message
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func isValidationError(err error) bool {
	var verr *domain.ValidationError
	return errors.As(err, &verr)
}
