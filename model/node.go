package model

import (
	"time"
)

// NodeType classifies a node in the knowledge graph
type NodeType string

const (
	NodeTypeEntity     NodeType = "Entity"
	NodeTypeViolation  NodeType = "Violation"
	NodeTypeRegulator  NodeType = "Regulator"
	NodeTypeDocument   NodeType = "Document"
	NodeTypePenalty    NodeType = "Penalty"
	NodeTypePerson     NodeType = "Person"
	NodeTypeDate       NodeType = "Date"
	NodeTypeNumber     NodeType = "Number"
	NodeTypeLocation   NodeType = "Location"
	NodeTypeRegulation NodeType = "Regulation"
	NodeTypeUnknown    NodeType = "Unknown"
)

// Node represents a node in the knowledge graph.
// ID is globally unique and immutable once created, and Type never changes.
// CitationCount and Documents track how often and where an entity was
// mentioned across processed documents; Documents is a set, a document ID
// appears at most once.
type Node struct {
	ID            string    `json:"id"`
	Type          NodeType  `json:"type"`
	Name          string    `json:"name"`
	Confidence    float64   `json:"confidence,omitempty"`
	CitationCount int       `json:"citation_count,omitempty"`
	Documents     []string  `json:"documents,omitempty"`
	Context       string    `json:"context,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	Metadata      Metadata  `json:"metadata,omitempty"`
}

// HasDocument reports whether the node already references the given document node ID.
func (n *Node) HasDocument(documentID string) bool {
	for _, d := range n.Documents {
		if d == documentID {
			return true
		}
	}
	return false
}

// AddDocument appends a document node ID to the node's document set.
// It returns true if the document was added and false if it was already present.
func (n *Node) AddDocument(documentID string) bool {
	if n.HasDocument(documentID) {
		return false
	}
	n.Documents = append(n.Documents, documentID)
	return true
}
