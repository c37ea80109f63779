package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/irisform/internal/app"
	"github.com/doeshing/irisform/internal/application/render"
	"github.com/doeshing/irisform/internal/domain"
	"github.com/doeshing/irisform/internal/infrastructure/config"
)

func newDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose environment setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.DoctorService == nil {
				return fmt.Errorf("doctor service unavailable")
			}
			report, err := container.DoctorService.Run(cmd.Context())
			NewRenderer(cmd.OutOrStdout()).DoctorReport(report)
			if err != nil {
				return err
			}
			if report.Status() == domain.HealthError {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}
}

func newConfigCommand(container *app.Container) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect irisform configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.Context(), cmd.OutOrStdout(), container)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show full configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.Context(), cmd.OutOrStdout(), container)
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.ConfigLoader == nil {
				return fmt.Errorf("config loader unavailable")
			}
			fmt.Fprintln(cmd.OutOrStdout(), container.ConfigLoader.Path())
			return nil
		},
	}

	getCmd := &cobra.Command{
		Use:     "get <key>",
		Short:   "Print one configuration value",
		Example: "  irisform config get endpoint.url\n  irisform config get storage.driver",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd.Context(), cmd.OutOrStdout(), container, args[0])
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := container.ConfigProvider.Load(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration valid")
			return nil
		},
	}

	diffCmd := &cobra.Command{
		Use:   "diff",
		Short: "Show differences from the default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := container.ConfigProvider.Load(cmd.Context())
			if err != nil {
				return err
			}
			diff := cmp.Diff(config.DefaultConfig(), cfg)
			if diff == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No differences from default configuration.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), diff)
			return nil
		},
	}

	configCmd.AddCommand(showCmd, pathCmd, getCmd, validateCmd, diffCmd)
	return configCmd
}

func runConfigShow(ctx context.Context, out io.Writer, container *app.Container) error {
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Fprint(out, string(data))
	return nil
}

func runConfigGet(ctx context.Context, out io.Writer, container *app.Container, key string) error {
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return err
	}
	settings, err := flattenConfig(cfg)
	if err != nil {
		return err
	}
	value, ok := settings[key]
	if !ok {
		keys := make([]string, 0, len(settings))
		for k := range settings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(keys, ", "))
	}
	fmt.Fprintln(out, value)
	return nil
}

// flattenConfig maps dotted yaml paths such as "endpoint.url" to their values.
func flattenConfig(cfg domain.Config) (map[string]string, error) {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, err
	}
	settings := map[string]string{}
	var walk func(prefix string, node map[string]interface{})
	walk = func(prefix string, node map[string]interface{}) {
		for k, v := range node {
			path := k
			if prefix != "" {
				path = prefix + "." + k
			}
			if child, ok := v.(map[string]interface{}); ok {
				walk(path, child)
				continue
			}
			settings[path] = fmt.Sprint(v)
		}
	}
	walk("", tree)
	return settings, nil
}

func newHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the prediction history",
	}

	var asJSON bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent predictions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := container.History.Load()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(log)
			}
			NewRenderer(cmd.OutOrStdout()).History(render.History(log))
			return nil
		},
	}
	listCmd.Flags().BoolVar(&asJSON, "json", false, "Print the stored JSON log")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the prediction history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.History.Clear(); err != nil {
				return err
			}
			container.Metrics.SetHistorySize(0)
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Export the history as a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.History.Export(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", len(container.History.Load()), args[0])
			return nil
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print where the history is stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := container.History.Path()
			if info, err := os.Stat(path); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s, %s)\n", path, container.Config.StorageDriver(), humanize.Bytes(uint64(info.Size())))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s, not created yet)\n", path, container.Config.StorageDriver())
			return nil
		},
	}

	historyCmd.AddCommand(listCmd, clearCmd, exportCmd, pathCmd)
	return historyCmd
}
