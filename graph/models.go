package graph

// Snapshot is the read-only model the host application hands to the engine.
// The engine never mutates or persists it.
type Snapshot struct {
	Tags      []Tag      `json:"tags" yaml:"tags" toml:"tags"`
	Relations []Relation `json:"relations" yaml:"relations" toml:"relations"`
	Websites  []Website  `json:"websites" yaml:"websites" toml:"websites"`
}

// Tag is a bookmark tag as stored by the host
type Tag struct {
	ID       string `json:"id" yaml:"id" toml:"id"`
	Name     string `json:"name" yaml:"name" toml:"name"`
	Color    string `json:"color" yaml:"color" toml:"color"`                               // Hex colour, e.g. "#3b82f6"
	Category string `json:"category,omitempty" yaml:"category,omitempty" toml:"category"` // Display only
	IsCore   bool   `json:"is_core,omitempty" yaml:"is_core,omitempty" toml:"is_core"`    // Host-side flag, not used by layout
	Count    int    `json:"count,omitempty" yaml:"count,omitempty" toml:"count"`          // Host-maintained; layout counts websites instead
}

// Relation is a weighted, typed tag-to-tag relation
type Relation struct {
	ID           string       `json:"id" yaml:"id" toml:"id"`
	FromTagID    string       `json:"from_tag_id" yaml:"from_tag_id" toml:"from_tag_id"`
	ToTagID      string       `json:"to_tag_id" yaml:"to_tag_id" toml:"to_tag_id"`
	RelationType RelationType `json:"relation_type" yaml:"relation_type" toml:"relation_type"`
	Strength     float64      `json:"strength" yaml:"strength" toml:"strength"` // [0,1]
	Description  string       `json:"description,omitempty" yaml:"description,omitempty" toml:"description"`
}

// Website carries the tag names of one bookmarked site.
// Only the tag list is consumed.
type Website struct {
	Tags []string `json:"tags" yaml:"tags" toml:"tags"`
}

// TagNode is the simulated and rendered representation of one tag.
// Position and velocity belong to the simulator; Pinned belongs to the
// interaction controller.
type TagNode struct {
	ID         string
	Label      string
	Color      string
	UsageCount int
	Radius     float64

	X, Y   float64
	VX, VY float64
	Pinned bool
}

// LinkEdge is one visible relation between two nodes of the current build
type LinkEdge struct {
	Source       *TagNode
	Target       *TagNode
	RelationType RelationType
	Strength     float64
}

// Other returns the endpoint of the edge opposite to id, or nil when id is
// not an endpoint.
func (l *LinkEdge) Other(id string) *TagNode {
	switch id {
	case l.Source.ID:
		return l.Target
	case l.Target.ID:
		return l.Source
	}
	return nil
}

// Graph is the output of one build
type Graph struct {
	Nodes []*TagNode
	Links []*LinkEdge
	Meta  Meta
}

// Meta contains statistics about a build
type Meta struct {
	Stats         Stats               `json:"stats"`
	RelationTypes []RelationTypeCount `json:"relation_types"`
}

// Stats provides graph statistics
type Stats struct {
	TotalNodes    int `json:"total_nodes"`
	TotalEdges    int `json:"total_edges"`
	IsolatedNodes int `json:"isolated_nodes"`
	DroppedEdges  int `json:"dropped_edges"` // Relations referencing tags missing from the snapshot
}

// RelationTypeCount describes a relation type present in the built graph
type RelationTypeCount struct {
	Type  RelationType `json:"type"`
	Label string       `json:"label"`
	Color string       `json:"color"`
	Count int          `json:"count"`
}

// Index returns an id -> node lookup for the graph
func (g *Graph) Index() map[string]*TagNode {
	idx := make(map[string]*TagNode, len(g.Nodes))
	for _, n := range g.Nodes {
		idx[n.ID] = n
	}
	return idx
}

// Node returns the node with the given id, or nil
func (g *Graph) Node(id string) *TagNode {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// Neighbors returns the ids of every node sharing an edge with id
func (g *Graph) Neighbors(id string) map[string]bool {
	neighbors := make(map[string]bool)
	for _, l := range g.Links {
		if other := l.Other(id); other != nil && other.ID != id {
			neighbors[other.ID] = true
		}
	}
	return neighbors
}

// PinnedCount reports how many nodes are currently pinned
func (g *Graph) PinnedCount() int {
	count := 0
	for _, n := range g.Nodes {
		if n.Pinned {
			count++
		}
	}
	return count
}

// NodeList returns the graph's nodes in build order
func (g *Graph) NodeList() []*TagNode {
	return g.Nodes
}
