package graph

import (
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/siherrmann/regraph/helper"
	"github.com/siherrmann/regraph/model"
)

// Snapshot is the persisted form of the whole graph
type Snapshot struct {
	Metadata SnapshotMetadata `json:"metadata"`
	Nodes    []*model.Node    `json:"nodes"`
	Edges    []*model.Edge    `json:"edges"`
}

// SnapshotMetadata carries the graph-level metadata of a snapshot
type SnapshotMetadata struct {
	GraphName   string    `json:"graph_name"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

// NodeLinkExport is a node-link representation of the graph for
// visualization tooling. This is a read-only derived view and is never used
// as the persistence format.
type NodeLinkExport struct {
	Nodes      []NodeLinkNode   `json:"nodes"`
	Edges      []NodeLinkEdge   `json:"edges"`
	Statistics model.Statistics `json:"statistics"`
	Metadata   SnapshotMetadata `json:"metadata"`
}

// NodeLinkNode is one node in the node-link export
type NodeLinkNode struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Type      string `json:"type"`
	Citations int    `json:"citations"`
	Group     string `json:"group"`
}

// NodeLinkEdge is one edge in the node-link export
type NodeLinkEdge struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// edgeList returns all edges in a deterministic order: sources in node
// insertion order, edges per source in insertion order.
func (s *Store) edgeList() []*model.Edge {
	edges := make([]*model.Edge, 0, s.edgeCount)
	for _, id := range s.order {
		edges = append(edges, s.outgoing[id]...)
	}
	return edges
}

// Snapshot captures the whole graph plus metadata
func (s *Store) Snapshot() *Snapshot {
	return &Snapshot{
		Metadata: SnapshotMetadata{
			GraphName:   s.name,
			CreatedAt:   s.createdAt,
			LastUpdated: s.lastUpdated,
		},
		Nodes: s.nodeList(),
		Edges: s.edgeList(),
	}
}

// Restore replaces the graph contents with the given snapshot. The new state
// is built into fresh structures first, so a failed restore leaves the
// existing graph untouched.
func (s *Store) Restore(snap *Snapshot) {
	nodes := make(map[string]*model.Node, len(snap.Nodes))
	order := make([]string, 0, len(snap.Nodes))
	for _, node := range snap.Nodes {
		if _, exists := nodes[node.ID]; !exists {
			order = append(order, node.ID)
		}
		nodes[node.ID] = node
	}

	outgoing := map[string][]*model.Edge{}
	byRelation := map[string]map[model.RelationType][]string{}
	for _, edge := range snap.Edges {
		outgoing[edge.SourceID] = append(outgoing[edge.SourceID], edge)
		byRel, ok := byRelation[edge.SourceID]
		if !ok {
			byRel = map[model.RelationType][]string{}
			byRelation[edge.SourceID] = byRel
		}
		byRel[edge.Relation] = append(byRel[edge.Relation], edge.TargetID)
	}

	s.nodes = nodes
	s.order = order
	s.outgoing = outgoing
	s.byRelation = byRelation
	s.edgeCount = len(snap.Edges)
	if snap.Metadata.GraphName != "" {
		s.name = snap.Metadata.GraphName
	}
	if !snap.Metadata.CreatedAt.IsZero() {
		s.createdAt = snap.Metadata.CreatedAt
	}
	if !snap.Metadata.LastUpdated.IsZero() {
		s.lastUpdated = snap.Metadata.LastUpdated
	}
}

// Save writes the whole graph plus metadata to a single snapshot file.
// A failed save leaves the in-memory graph untouched.
func (s *Store) Save(path string) error {
	snap := s.Snapshot()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return helper.NewError("marshal graph snapshot", err)
	}

	if err := os.WriteFile(path, data, 0640); err != nil {
		return helper.NewError("write graph snapshot", err)
	}

	s.log.Info("Graph saved",
		slog.String("path", path),
		slog.Int("nodes", len(snap.Nodes)),
		slog.Int("edges", len(snap.Edges)),
	)
	return nil
}

// Load replaces the graph contents with a snapshot read from path.
// A missing snapshot is reported as found=false, not an error. A corrupt
// snapshot is an error, and the existing in-memory graph is left untouched.
func (s *Store) Load(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s.log.Warn("Graph snapshot not found", slog.String("path", path))
		return false, nil
	}
	if err != nil {
		return false, helper.NewError("read graph snapshot", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return false, helper.NewError("unmarshal graph snapshot", err)
	}

	s.Restore(&snap)

	s.log.Info("Graph loaded",
		slog.String("path", path),
		slog.Int("nodes", len(snap.Nodes)),
		slog.Int("edges", len(snap.Edges)),
	)
	return true, nil
}

// NodeLink builds the node-link view of the current graph
func (s *Store) NodeLink() *NodeLinkExport {
	export := &NodeLinkExport{
		Statistics: s.Statistics(),
		Metadata: SnapshotMetadata{
			GraphName:   s.name,
			CreatedAt:   s.createdAt,
			LastUpdated: s.lastUpdated,
		},
	}

	for _, node := range s.nodeList() {
		label := node.Name
		if label == "" {
			label = node.ID
		}
		export.Nodes = append(export.Nodes, NodeLinkNode{
			ID:        node.ID,
			Label:     label,
			Type:      string(node.Type),
			Citations: node.CitationCount,
			Group:     string(node.Type),
		})
	}

	for _, edge := range s.edgeList() {
		export.Edges = append(export.Edges, NodeLinkEdge{
			From:       edge.SourceID,
			To:         edge.TargetID,
			Label:      string(edge.Relation),
			Confidence: edge.Confidence,
		})
	}

	return export
}

// ExportJSON writes the node-link view to a file for visualization tooling
func (s *Store) ExportJSON(path string) error {
	data, err := json.MarshalIndent(s.NodeLink(), "", "  ")
	if err != nil {
		return helper.NewError("marshal graph export", err)
	}

	if err := os.WriteFile(path, data, 0640); err != nil {
		return helper.NewError("write graph export", err)
	}

	s.log.Info("Graph exported", slog.String("path", path))
	return nil
}
