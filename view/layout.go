package view

import (
	"github.com/teranos/tagweb/graph"
	"github.com/teranos/tagweb/interact"
	"github.com/teranos/tagweb/render"
)

// Layout is a JSON-friendly copy of the scene's positions and view
type Layout struct {
	Width  float64            `json:"width"`
	Height float64            `json:"height"`
	Nodes  []LayoutNode       `json:"nodes"`
	Links  []LayoutLink       `json:"links"`
	View   interact.ViewState `json:"view"`
	Filter graph.FilterState  `json:"filter"`
	Meta   graph.Meta         `json:"meta"`
	Steps  int64              `json:"steps"`
}

// LayoutNode is one positioned tag
type LayoutNode struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	Color      string  `json:"color"`
	UsageCount int     `json:"usage_count"`
	Radius     float64 `json:"radius"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Pinned     bool    `json:"pinned,omitempty"`
	State      string  `json:"state"`
}

// LayoutLink is one visible relation
type LayoutLink struct {
	Source       string             `json:"source"`
	Target       string             `json:"target"`
	RelationType graph.RelationType `json:"relation_type"`
	Strength     float64            `json:"strength"`
}

// Layout copies the current state so it can leave the owning goroutine
func (s *Scene) Layout() Layout {
	view := s.controller.View()
	states := render.Classify(s.graph.Nodes, s.graph.Links, view.SelectedID)

	l := Layout{
		Width:  s.bounds.Width,
		Height: s.bounds.Height,
		Nodes:  make([]LayoutNode, 0, len(s.graph.Nodes)),
		Links:  make([]LayoutLink, 0, len(s.graph.Links)),
		View:   view,
		Filter: s.filter,
		Meta:   s.graph.Meta,
		Steps:  s.simulator.Steps(),
	}
	for _, n := range s.graph.Nodes {
		l.Nodes = append(l.Nodes, LayoutNode{
			ID:         n.ID,
			Label:      n.Label,
			Color:      n.Color,
			UsageCount: n.UsageCount,
			Radius:     n.Radius,
			X:          n.X,
			Y:          n.Y,
			Pinned:     n.Pinned,
			State:      states[n.ID].String(),
		})
	}
	for _, e := range s.graph.Links {
		l.Links = append(l.Links, LayoutLink{
			Source:       e.Source.ID,
			Target:       e.Target.ID,
			RelationType: e.RelationType,
			Strength:     e.Strength,
		})
	}
	return l
}
