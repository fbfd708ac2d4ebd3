package model

import (
	"time"

	"github.com/google/uuid"
)

// ProcessResult describes the outcome of processing a single document
type ProcessResult struct {
	DocumentNodeID     string            `json:"document_node_id"`
	EntitiesAdded      int               `json:"entities_added"`
	RelationshipsAdded int               `json:"relationships_added"`
	Summary            ExtractionSummary `json:"extraction_summary"`
}

// BatchResult describes the outcome of processing a batch of documents.
// Errors counts documents that failed; the batch itself never aborts.
type BatchResult struct {
	RunID              uuid.UUID       `json:"run_id"`
	DocumentsProcessed int             `json:"documents_processed"`
	TotalEntities      int             `json:"total_entities"`
	TotalRelationships int             `json:"total_relationships"`
	Errors             int             `json:"errors"`
	Results            []ProcessResult `json:"results"`
}

// ViolationHit is one violation associated with an entity, one entry per edge
type ViolationHit struct {
	Violation   string       `json:"violation"`
	ViolationID string       `json:"violation_id"`
	Relation    RelationType `json:"relationship"`
	Confidence  float64      `json:"confidence"`
	Context     string       `json:"context,omitempty"`
}

// SimilarCase is an entity associated with a queried violation type
type SimilarCase struct {
	Entity        string   `json:"entity"`
	EntityID      string   `json:"entity_id"`
	Violation     string   `json:"violation"`
	CitationCount int      `json:"citation_count"`
	Documents     []string `json:"documents,omitempty"`
}

// Statistics describes the current shape of the graph.
// The per-type counts always sum to the totals.
type Statistics struct {
	GraphName     string               `json:"graph_name"`
	TotalNodes    int                  `json:"total_nodes"`
	TotalEdges    int                  `json:"total_edges"`
	NodeTypes     map[NodeType]int     `json:"node_types"`
	RelationTypes map[RelationType]int `json:"relationship_types"`
	IsDirected    bool                 `json:"is_directed"`
	IsMultigraph  bool                 `json:"is_multigraph"`
	CreatedAt     time.Time            `json:"created_at"`
	LastUpdated   time.Time            `json:"last_updated"`
}

// DomainCounts holds domain node counts and running extraction counters
type DomainCounts struct {
	Entities               int `json:"entities"`
	Violations             int `json:"violations"`
	Documents              int `json:"documents"`
	Regulators             int `json:"regulators"`
	Penalties              int `json:"penalties"`
	ProcessedDocuments     int `json:"processed_documents"`
	ExtractedEntities      int `json:"extracted_entities"`
	ExtractedRelationships int `json:"extracted_relationships"`
}

// NodeCitation pairs a node with its citation count for rankings
type NodeCitation struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Citations int    `json:"citations"`
}

// DomainStatistics extends the base graph statistics with domain counts
// and the most cited entities and violations.
type DomainStatistics struct {
	Statistics
	Domain        DomainCounts   `json:"domain"`
	TopEntities   []NodeCitation `json:"top_entities"`
	TopViolations []NodeCitation `json:"top_violations"`
}
