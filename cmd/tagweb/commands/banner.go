package commands

import (
	"github.com/pterm/pterm"

	"github.com/teranos/tagweb/logger"
	"github.com/teranos/tagweb/version"
)

// serveBanner describes a running live view
type serveBanner struct {
	url        string
	snapshot   string
	configFile string
	tags       int
	relations  int
	watching   bool
	verbosity  int
}

// printServeBanner prints the startup message for serve
func printServeBanner(b serveBanner) {
	info := version.Get()

	pterm.DefaultHeader.WithFullWidth().Println("tagweb live view")
	pterm.Println()
	pterm.Printf("  %s %s (commit %s)\n", pterm.Gray("Version:  "), info.Label(), info.Short())
	pterm.Printf("  %s %s\n", pterm.Gray("Snapshot: "), b.snapshot)
	pterm.Printf("  %s %d tags, %d relations\n", pterm.Gray("Contents: "), b.tags, b.relations)
	if b.configFile != "" {
		pterm.Printf("  %s %s\n", pterm.Gray("Config:   "), b.configFile)
	} else {
		pterm.Printf("  %s %s\n", pterm.Gray("Config:   "), "built-in defaults")
	}
	pterm.Printf("  %s %s\n", pterm.Gray("Verbosity:"), logger.LevelName(b.verbosity))
	if b.watching {
		pterm.Printf("  %s %s\n", pterm.Gray("Watching: "), pterm.Green("snapshot and config reload on change"))
	}
	pterm.Println()
	pterm.Info.Printf("Open %s\n", pterm.LightCyan(b.url))
	pterm.Println(pterm.Gray("  Press Ctrl+C to stop"))
	pterm.Println()
}
