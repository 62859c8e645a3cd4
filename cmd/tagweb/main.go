package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/teranos/tagweb/cmd/tagweb/commands"
	"github.com/teranos/tagweb/errors"
	"github.com/teranos/tagweb/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tagweb",
	Short: "tagweb - Tag relationship network visualizer",
	Long: `tagweb - Force-directed layout of bookmark tags and their relations.

Tags become circles sized by how many websites use them; typed, weighted
relations become springs. Render a snapshot to PNG or SVG, or serve a live,
draggable view in the browser.

Available commands:
  render  - Lay out a snapshot and write a PNG or SVG frame
  serve   - Serve a live view over WebSocket
  am      - Manage tagweb configuration ("I am")
  version - Show version information

Examples:
  tagweb render tags.json -o tags.png --settle
  tagweb serve tags.yaml --watch
  tagweb am show --sources`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// TAGWEB_* overrides may live in a .env file; a missing file is fine
		_ = godotenv.Load()

		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit logs as JSON")

	rootCmd.AddCommand(commands.RenderCmd)
	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
