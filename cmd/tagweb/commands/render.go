package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/tagweb/am"
	"github.com/teranos/tagweb/errors"
	"github.com/teranos/tagweb/logger"
	"github.com/teranos/tagweb/physics"
	"github.com/teranos/tagweb/render"
	"github.com/teranos/tagweb/render/raster"
	"github.com/teranos/tagweb/render/vector"
	"github.com/teranos/tagweb/snapshot"
	"github.com/teranos/tagweb/view"
)

// RenderCmd lays out a snapshot offline and writes one frame
var RenderCmd = &cobra.Command{
	Use:   "render <snapshot>",
	Short: "Lay out a snapshot and write a PNG or SVG frame",
	Long: `Run the force simulation on a snapshot (a .json, .yaml or .toml file, or
an http(s) URL) and write the resulting frame. The output format follows the
file extension; repeat -o to write several files from the same layout.

Examples:
  tagweb render tags.json -o tags.png
  tagweb render tags.yaml -o tags.svg --settle --threshold 0.5
  tagweb render tags.toml -o tags.png --relation parent --select go --zoom 1.5
  tagweb render tags.json -o tags.svg -o tags.png --layout layout.json
  tagweb render https://example.com/export/tags.json -o tags.png`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

// renderOptions are the render command flags
type renderOptions struct {
	scene        sceneFlags
	outputs      []string
	layoutPath   string
	steps        int
	settle       bool
	settleEnergy float64
	zoom         float64
}

var renderOpts renderOptions

func init() {
	RenderCmd.Flags().StringArrayVarP(&renderOpts.outputs, "output", "o", nil, "Output file (.png or .svg), repeatable")
	RenderCmd.Flags().StringVar(&renderOpts.layoutPath, "layout", "", "Also write node positions as JSON to this file")
	RenderCmd.Flags().IntVar(&renderOpts.steps, "steps", 300, "Simulation steps (upper bound with --settle)")
	RenderCmd.Flags().BoolVar(&renderOpts.settle, "settle", false, "Stop early once kinetic energy drops below --settle-energy")
	RenderCmd.Flags().Float64Var(&renderOpts.settleEnergy, "settle-energy", 0.01, "Kinetic energy treated as settled")
	RenderCmd.Flags().Float64Var(&renderOpts.zoom, "zoom", 1, "Zoom factor, clamped to interaction limits")
	renderOpts.scene.register(RenderCmd.Flags())
	_ = RenderCmd.MarkFlagRequired("output")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	file, err := loadSnapshot(cmd.Context(), cfg, args[0])
	if err != nil {
		return err
	}

	result, err := renderSnapshot(cfg, file, renderOpts)
	if err != nil {
		return err
	}

	pterm.Success.Printf("Rendered %d tags and %d links to %s (%d steps)\n",
		result.nodes, result.links, strings.Join(renderOpts.outputs, ", "), result.steps)
	return nil
}

type renderResult struct {
	nodes int
	links int
	steps int
}

// renderSnapshot simulates file and writes the frame to every output
func renderSnapshot(cfg *am.Config, file *snapshot.File, opts renderOptions) (*renderResult, error) {
	if len(opts.outputs) == 0 {
		return nil, errors.New("no output file given")
	}
	for _, out := range opts.outputs {
		if format := strings.ToLower(filepath.Ext(out)); format != ".png" && format != ".svg" {
			return nil, errors.NewUnsupportedFormatError(format, ".png", ".svg")
		}
	}
	if opts.steps < 0 {
		return nil, errors.Newf("--steps must be >= 0, got %d", opts.steps)
	}

	scene, err := buildScene(cfg, file, opts.scene)
	if err != nil {
		return nil, err
	}

	steps := opts.steps
	if opts.settle {
		steps = scene.Settle(opts.steps, opts.settleEnergy)
	} else {
		for i := 0; i < steps; i++ {
			scene.Step()
		}
	}
	if opts.zoom > 0 {
		scene.SetZoom(opts.zoom)
	}

	logger.Infow("Simulation finished",
		logger.FieldSteps, steps,
		logger.FieldEnergy, scene.Energy(),
		logger.FieldNodes, len(scene.Graph().Nodes),
		logger.FieldLinks, len(scene.Graph().Links),
	)

	if err := writeFrames(scene, opts.outputs); err != nil {
		return nil, err
	}
	if opts.layoutPath != "" {
		if err := writeLayout(scene, opts.layoutPath); err != nil {
			return nil, err
		}
	}

	return &renderResult{
		nodes: len(scene.Graph().Nodes),
		links: len(scene.Graph().Links),
		steps: steps,
	}, nil
}

// writeFrames draws the settled scene into each output in parallel. The
// frame is captured once; renderers only read it.
func writeFrames(scene *view.Scene, paths []string) error {
	frame := scene.Frame()
	bounds := scene.Bounds()
	renderer := scene.Renderer()

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, path := range paths {
		g.Go(func() error {
			return writeFrame(renderer, frame, bounds, path)
		})
	}
	return g.Wait()
}

func writeFrame(renderer *render.Renderer, frame render.Scene, bounds physics.Bounds, path string) error {
	width, height := int(bounds.Width), int(bounds.Height)
	format := strings.ToLower(filepath.Ext(path))

	switch format {
	case ".png":
		canvas, err := raster.New(width, height)
		if err != nil {
			return err
		}
		renderer.Render(canvas, frame)
		if err := canvas.SavePNG(path); err != nil {
			return err
		}

	case ".svg":
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrapf(err, "failed to create %s", path)
		}
		canvas := vector.New(f, width, height)
		renderer.Render(canvas, frame)
		canvas.Close()
		if err := f.Close(); err != nil {
			return errors.Wrapf(err, "failed to write %s", path)
		}
	}

	logger.Debugw("Frame written", logger.FieldFile, path, logger.FieldFormat, format)
	return nil
}

func writeLayout(scene *view.Scene, path string) error {
	data, err := json.MarshalIndent(scene.Layout(), "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal layout")
	}
	if err := os.WriteFile(path, data, am.DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
