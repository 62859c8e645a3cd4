package graph

import (
	"math/rand"
	"sort"

	"github.com/teranos/tagweb/internal/util"
	"go.uber.org/zap"
)

// Builder turns a host snapshot plus filter settings into nodes and links.
// Apart from the random source used to scatter new nodes it holds no state.
type Builder struct {
	rng    *rand.Rand
	logger *zap.SugaredLogger
}

// NewBuilder creates a graph builder drawing initial positions from rng
func NewBuilder(rng *rand.Rand, logger *zap.SugaredLogger) *Builder {
	return &Builder{
		rng:    rng,
		logger: logger.Named("graph.builder"),
	}
}

// Build creates a fresh node and link set.
//
// Nodes that existed in previous (matched by id) keep their position,
// velocity and pin; all others are scattered uniformly inside the
// width x height surface, inset by their radius. Radius and usage count are
// always recomputed from the snapshot. Relations failing the filter, or
// referring to tags that are not in the snapshot, are dropped.
func (b *Builder) Build(snap Snapshot, filter FilterState, previous []*TagNode, width, height float64) *Graph {
	g := &Graph{
		Nodes: make([]*TagNode, 0, len(snap.Tags)),
		Links: []*LinkEdge{},
	}

	usage := countUsage(snap.Websites)

	prev := make(map[string]*TagNode, len(previous))
	for _, n := range previous {
		prev[n.ID] = n
	}

	index := make(map[string]*TagNode, len(snap.Tags))
	for _, tag := range snap.Tags {
		if _, dup := index[tag.ID]; dup {
			b.logger.Debugw("Skipping duplicate tag id", "tag_id", tag.ID)
			continue
		}

		color := tag.Color
		if color == "" {
			color = defaultTagColor
		}

		node := &TagNode{
			ID:         tag.ID,
			Label:      tag.Name,
			Color:      color,
			UsageCount: usage[tag.Name],
		}
		node.Radius = NodeRadius(node.UsageCount)

		if old, ok := prev[tag.ID]; ok {
			node.X, node.Y = old.X, old.Y
			node.VX, node.VY = old.VX, old.VY
			node.Pinned = old.Pinned
		} else {
			node.X = b.scatter(width, node.Radius)
			node.Y = b.scatter(height, node.Radius)
		}

		index[tag.ID] = node
		g.Nodes = append(g.Nodes, node)
	}

	dropped := 0
	for _, rel := range snap.Relations {
		if !filter.Allows(rel) {
			continue
		}
		source, okSource := index[rel.FromTagID]
		target, okTarget := index[rel.ToTagID]
		if !okSource || !okTarget {
			dropped++
			continue
		}
		g.Links = append(g.Links, &LinkEdge{
			Source:       source,
			Target:       target,
			RelationType: rel.RelationType,
			Strength:     rel.Strength,
		})
	}

	g.Meta = Meta{
		Stats: Stats{
			TotalNodes:    len(g.Nodes),
			TotalEdges:    len(g.Links),
			IsolatedNodes: countIsolated(g),
			DroppedEdges:  dropped,
		},
		RelationTypes: collectRelationTypeCounts(g.Links),
	}

	b.logger.Debugw("Built tag graph",
		"nodes", g.Meta.Stats.TotalNodes,
		"links", g.Meta.Stats.TotalEdges,
		"isolated", g.Meta.Stats.IsolatedNodes,
		"dropped", dropped,
	)

	return g
}

// NodeRadius derives the drawn radius from a usage count
func NodeRadius(usageCount int) float64 {
	return util.Clamp(radiusBase+radiusPerUse*float64(usageCount), MinRadius, MaxRadius)
}

// scatter returns a uniform coordinate in [r, extent-r], or the centre when
// the node does not fit.
func (b *Builder) scatter(extent, r float64) float64 {
	span := extent - 2*r
	if span <= 0 {
		return extent / 2
	}
	return r + b.rng.Float64()*span
}

// countUsage maps tag name -> number of websites listing it.
// A website naming a tag twice counts once.
func countUsage(websites []Website) map[string]int {
	usage := make(map[string]int)
	for _, site := range websites {
		seen := make(map[string]bool, len(site.Tags))
		for _, name := range site.Tags {
			if seen[name] {
				continue
			}
			seen[name] = true
			usage[name]++
		}
	}
	return usage
}

func countIsolated(g *Graph) int {
	degree := make(map[string]int, len(g.Nodes))
	for _, l := range g.Links {
		degree[l.Source.ID]++
		degree[l.Target.ID]++
	}
	isolated := 0
	for _, n := range g.Nodes {
		if degree[n.ID] == 0 {
			isolated++
		}
	}
	return isolated
}

// collectRelationTypeCounts counts links per relation type.
// Sorted by count (descending), then by type name for stable output.
func collectRelationTypeCounts(links []*LinkEdge) []RelationTypeCount {
	counts := make(map[RelationType]int)
	for _, l := range links {
		counts[l.RelationType]++
	}

	result := make([]RelationTypeCount, 0, len(counts))
	for t, count := range counts {
		info := t.Info()
		result = append(result, RelationTypeCount{
			Type:  t,
			Label: info.Label,
			Color: info.Color,
			Count: count,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Type < result[j].Type
	})

	return result
}
