package render

import "github.com/teranos/tagweb/graph"

// NodeState is the three-way highlight state of a node
type NodeState int

const (
	StateDefault NodeState = iota
	StateConnected
	StateSelected
)

func (s NodeState) String() string {
	switch s {
	case StateSelected:
		return "selected"
	case StateConnected:
		return "connected"
	default:
		return "default"
	}
}

// Classify assigns a state to every node. The node matching selectedID is
// selected, nodes sharing a link with it are connected, all others default.
// An empty or unknown selectedID leaves every node default.
func Classify(nodes []*graph.TagNode, links []*graph.LinkEdge, selectedID string) map[string]NodeState {
	states := make(map[string]NodeState, len(nodes))
	selected := false
	for _, n := range nodes {
		states[n.ID] = StateDefault
		if selectedID != "" && n.ID == selectedID {
			selected = true
		}
	}
	if !selected {
		return states
	}

	for _, l := range links {
		if other := l.Other(selectedID); other != nil {
			states[other.ID] = StateConnected
		}
	}
	states[selectedID] = StateSelected
	return states
}

// Highlighted reports whether the node belongs to the selection
// neighbourhood, i.e. is the selected node or linked to it.
func (s NodeState) Highlighted() bool {
	return s != StateDefault
}
