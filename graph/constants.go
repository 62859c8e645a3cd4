package graph

const (
	// Node radius derivation: clamp(base + perUse*usageCount, min, max)
	radiusBase   = 15.0
	radiusPerUse = 2.0
	MinRadius    = 20.0
	MaxRadius    = 50.0

	// Default node colour when a tag carries none
	defaultTagColor = "#6b7280"
)
