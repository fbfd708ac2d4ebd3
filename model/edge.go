package model

import (
	"time"
)

// RelationType represents the type of relationship between nodes
type RelationType string

const (
	// Extraction-time relationship types
	RelationCommitted       RelationType = "COMMITTED"
	RelationPenalizedBy     RelationType = "PENALIZED_BY"
	RelationSimilarTo       RelationType = "SIMILAR_TO"
	RelationReceivedPenalty RelationType = "RECEIVED_PENALTY"
	// Graph-construction-time relationship types, added by the builder
	RelationCitedIn   RelationType = "CITED_IN"
	RelationDescribes RelationType = "DESCRIBES"
)

// Edge represents a directed relationship between two nodes.
// The graph is a multigraph: multiple edges may exist between the same
// ordered pair of nodes, distinguished by insertion order and properties.
type Edge struct {
	SourceID       string       `json:"source_id"`
	TargetID       string       `json:"target_id"`
	Relation       RelationType `json:"relation"`
	Confidence     float64      `json:"confidence,omitempty"`
	Context        string       `json:"context,omitempty"`
	SourceDocument string       `json:"source_document,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	Metadata       Metadata     `json:"metadata,omitempty"`
}
