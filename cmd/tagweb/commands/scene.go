package commands

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/teranos/tagweb/am"
	"github.com/teranos/tagweb/errors"
	"github.com/teranos/tagweb/graph"
	"github.com/teranos/tagweb/internal/httpclient"
	"github.com/teranos/tagweb/logger"
	"github.com/teranos/tagweb/snapshot"
	"github.com/teranos/tagweb/view"
)

// sceneFlags are the layout overrides shared by render and serve
type sceneFlags struct {
	threshold float64
	relation  string
	selected  string
	width     int
	height    int
	seed      int64
}

func (f *sceneFlags) register(fs *pflag.FlagSet) {
	fs.Float64Var(&f.threshold, "threshold", 0, "Hide relations weaker than this strength (0-1)")
	fs.StringVar(&f.relation, "relation", "", "Show only this relation type (all, parent, child, similar, complement, alternative)")
	fs.StringVar(&f.selected, "select", "", "Tag id to select")
	fs.IntVar(&f.width, "width", 0, "Canvas width in pixels (default from config)")
	fs.IntVar(&f.height, "height", 0, "Canvas height in pixels (default from config)")
	fs.Int64Var(&f.seed, "seed", 0, "Initial placement seed (default from config, 0 = time-based)")
}

// buildScene combines config, snapshot defaults and flag overrides. Flags
// win over the snapshot, the snapshot wins over config.
func buildScene(cfg *am.Config, file *snapshot.File, flags sceneFlags) (*view.Scene, error) {
	opts := cfg.SceneOptions()
	if file.Filter != nil {
		opts.Filter = *file.Filter
	}

	if flags.threshold != 0 {
		opts.Filter.StrengthThreshold = flags.threshold
	}
	if flags.relation != "" {
		rt, ok := graph.ParseRelationType(flags.relation, true)
		if !ok {
			return nil, errors.WithHintf(
				errors.NewInvalidConfigError("unknown relation type %q", flags.relation),
				"use \"all\" or one of %v", graph.RelationTypes())
		}
		opts.Filter.RelationType = rt
	}
	if err := opts.Filter.Validate(); err != nil {
		return nil, err
	}

	if flags.width > 0 {
		opts.Width = float64(flags.width)
	}
	if flags.height > 0 {
		opts.Height = float64(flags.height)
	}
	if flags.seed != 0 {
		opts.Seed = flags.seed
	}

	scene := view.NewScene(opts, logger.Logger)
	scene.SetSnapshot(file.Snapshot())

	selected := file.Selected
	if flags.selected != "" {
		selected = flags.selected
	}
	if selected != "" {
		if scene.Graph().Node(selected) == nil {
			logger.Warnw("Selected tag is not in the snapshot", logger.FieldTagID, selected)
		}
		scene.SelectTag(selected)
	}
	return scene, nil
}

// loadSnapshot reads source from disk, or over HTTP when it is a URL
func loadSnapshot(ctx context.Context, cfg *am.Config, source string) (*snapshot.File, error) {
	if !snapshot.IsRemote(source) {
		return snapshot.Load(source)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger.Infow("Fetching snapshot", logger.FieldFile, source)
	client := httpclient.New(cfg.FetchOptions())
	return snapshot.Fetch(ctx, client, source, cfg.Fetch.MaxBytes)
}
