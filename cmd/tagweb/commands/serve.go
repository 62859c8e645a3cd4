package commands

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/tagweb/am"
	"github.com/teranos/tagweb/errors"
	"github.com/teranos/tagweb/logger"
	"github.com/teranos/tagweb/server"
	"github.com/teranos/tagweb/snapshot"
)

// ServeCmd starts the live view server
var ServeCmd = &cobra.Command{
	Use:     "serve <snapshot>",
	Aliases: []string{"server"},
	Short:   "Serve a live, interactive view over WebSocket",
	Long: `Run the simulation continuously and stream frames to browsers. Drag tags
to pin them, drag the background to pan, and use the toolbar to zoom, filter
and reset.

With --watch the snapshot file and the active am.toml are watched: snapshot
changes rebuild the graph (keeping positions of surviving tags) and config
changes retune physics, styling and zoom limits without a restart.

Examples:
  tagweb serve tags.json
  tagweb serve tags.yaml --port 9000 --watch
  tagweb serve https://example.com/export/tags.json`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

var (
	servePort  int
	serveWatch bool
	serveScene sceneFlags
)

const reloadDebounce = 200 * time.Millisecond

func init() {
	ServeCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (default from server.port)")
	ServeCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload snapshot and config when the files change")
	serveScene.register(ServeCmd.Flags())
}

func runServe(cmd *cobra.Command, args []string) error {
	snapshotPath := args[0]
	verbosity, _ := cmd.Flags().GetCount("verbose")

	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	file, err := loadSnapshot(cmd.Context(), cfg, snapshotPath)
	if err != nil {
		return err
	}

	scene, err := buildScene(cfg, file, serveScene)
	if err != nil {
		return err
	}

	srv := server.New(scene, cfg.EngineConfig(), server.Config{
		MaxFPS:         cfg.Server.MaxFPS,
		AllowedOrigins: cfg.GetServerAllowedOrigins(),
	}, logger.Logger)

	configFile := am.ActiveConfigFile()
	if serveWatch {
		watchPath := snapshotPath
		if snapshot.IsRemote(snapshotPath) {
			pterm.Warning.Println("Remote snapshots are not watched; only the config file reloads")
			watchPath = ""
		}
		stop, err := watchInputs(srv, watchPath, configFile)
		if err != nil {
			return err
		}
		defer stop()
	}

	port := cfg.Server.Port
	if servePort > 0 {
		port = servePort
	}

	banner := serveBanner{
		snapshot:   snapshotPath,
		configFile: configFile,
		tags:       len(file.Tags),
		relations:  len(file.Relations),
		watching:   serveWatch,
		verbosity:  verbosity,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.ListenAndServe(port, func(url string) {
			banner.url = url
			printServeBanner(banner)
		})
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		srv.Stop()
		if err != nil {
			return errors.Wrap(err, "server failed")
		}
		return nil
	case <-sigChan:
		pterm.Info.Println("Shutting down gracefully (press Ctrl+C again to force)...")

		shutdownDone := make(chan error, 1)
		go func() {
			shutdownDone <- srv.Stop()
		}()

		select {
		case err := <-shutdownDone:
			if err != nil {
				return errors.Wrap(err, "shutdown error")
			}
			pterm.Success.Println("Server stopped cleanly")
			return nil
		case <-sigChan:
			pterm.Warning.Println("Force shutdown - exiting immediately")
			os.Exit(1)
			return nil
		}
	}
}

// watchInputs reloads the snapshot and config into the running engine.
// Empty paths are not watched. The returned func stops the watchers.
func watchInputs(srv *server.Server, snapshotPath, configFile string) (func(), error) {
	engine := srv.Engine()

	var snapWatcher *snapshot.Watcher
	if snapshotPath != "" {
		w, err := snapshot.NewWatcher(snapshotPath, func(f *snapshot.File) {
			engine.SetSnapshot(f.Snapshot())
			if f.Filter != nil {
				engine.SetFilter(*f.Filter)
			}
			pterm.Info.Printf("Snapshot reloaded: %d tags, %d relations\n", len(f.Tags), len(f.Relations))
		}, reloadDebounce)
		if err != nil {
			return nil, errors.Wrap(err, "failed to watch snapshot")
		}
		snapWatcher = w
		snapWatcher.Start()
	}
	stopSnapshot := func() {
		if snapWatcher != nil {
			snapWatcher.Stop()
		}
	}

	if configFile == "" {
		return stopSnapshot, nil
	}

	cfgWatcher, err := am.NewConfigWatcher(configFile, reloadDebounce)
	if err != nil {
		stopSnapshot()
		return nil, errors.Wrap(err, "failed to watch config")
	}
	cfgWatcher.OnReload(func(c *am.Config) error {
		engine.Retune(c.Physics.Config, c.Style(), c.Interaction)
		pterm.Info.Println("Configuration reloaded")
		return nil
	})
	am.SetGlobalWatcher(cfgWatcher)
	cfgWatcher.Start()

	return func() {
		stopSnapshot()
		cfgWatcher.Stop()
		am.SetGlobalWatcher(nil)
	}, nil
}
