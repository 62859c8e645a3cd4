package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/tagweb/am"
	"github.com/teranos/tagweb/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage tagweb configuration",
	Long: `am - Manage tagweb configuration ("I am")

Display and manage layout, rendering, interaction and server settings.

Configuration sources (later overrides earlier):
1. Default values
2. System config (/etc/tagweb/am.toml)
3. User config (~/.tagweb/am.toml)
4. Project config (./am.toml, searched upwards)
5. Environment variables (TAGWEB_* prefix, e.g. TAGWEB_PHYSICS_DAMPING)

Examples:
  tagweb am show                      # Show current configuration
  tagweb am show --format json        # Show configuration in JSON format
  tagweb am show --sources            # Show where every value comes from
  tagweb am get physics.damping       # Get specific config value
  tagweb am set server.port 9000      # Write to ~/.tagweb/am.toml
  tagweb am validate                  # Validate current configuration`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the effective tagweb configuration from all sources",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., physics.damping, server.port)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value in the user config",
	Long: `Write a value to ~/.tagweb/am.toml (or the file given with --file).
The value is parsed as a boolean, integer, float or string, in that order.
The change is refused if the resulting configuration would be invalid.
Up to three previous versions are kept as .back1-.back3.`,
	Args: cobra.ExactArgs(2),
	RunE: runAmSet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Long:  "Validate that the current tagweb configuration is valid",
	RunE:  runAmValidate,
}

var (
	configFormat  string
	configSources bool
	configSetFile string
)

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	amShowCmd.Flags().BoolVar(&configSources, "sources", false, "Show the source of every setting")
	amSetCmd.Flags().StringVar(&configSetFile, "file", "", "Config file to modify (default ~/.tagweb/am.toml)")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amSetCmd)
	AmCmd.AddCommand(amValidateCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	if _, err := am.Load(); err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	if configSources {
		intro, err := am.GetConfigIntrospection()
		if err != nil {
			return err
		}
		return printSources(intro)
	}

	return writeSettings(cmd.OutOrStdout(), am.GetViper().AllSettings(), configFormat)
}

// writeSettings marshals the nested settings map in format
func writeSettings(out io.Writer, settings map[string]interface{}, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(out, string(data))

	case "yaml":
		data, err := yaml.Marshal(settings)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(out, "# tagweb configuration\n%s", data)

	case "toml":
		data, err := toml.Marshal(settings)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(out, "# tagweb configuration\n%s", data)

	default:
		return errors.NewUnsupportedFormatError(format, "toml", "json", "yaml")
	}
	return nil
}

func printSources(intro *am.ConfigIntrospection) error {
	data := pterm.TableData{{"Key", "Value", "Source", "Origin"}}
	for _, s := range intro.Settings {
		data = append(data, []string{s.Key, fmt.Sprint(s.Value), string(s.Source), s.SourcePath})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}

	counts := intro.CountBySource()
	pterm.Info.Printf("%d settings: %d default, %d system, %d user, %d project, %d environment\n",
		len(intro.Settings),
		counts[am.SourceDefault], counts[am.SourceSystem], counts[am.SourceUser],
		counts[am.SourceProject], counts[am.SourceEnvironment])
	return nil
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	v := am.GetViper()
	if !v.IsSet(key) {
		return errors.WithHint(
			errors.Newf("configuration key %q not found", key),
			"run 'tagweb am show' to list keys")
	}

	fmt.Fprintln(cmd.OutOrStdout(), am.Get(key))
	return nil
}

func runAmSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], am.ParseValue(args[1])

	path := configSetFile
	var err error
	if path == "" {
		path, err = am.SetUserValue(key, value)
	} else {
		err = am.SetValue(path, key, value)
	}
	if err != nil {
		return err
	}

	am.Reset()
	pterm.Success.Printf("%s = %v written to %s\n", key, value, path)
	if env := am.EnvVarName(key); os.Getenv(env) != "" {
		pterm.Warning.Printf("%s is set and overrides this value\n", env)
	}
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}

	pterm.Success.Println("Configuration is valid")
	return nil
}
