package graph

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/siherrmann/regraph/helper"
	"github.com/siherrmann/regraph/model"
)

// Store is a directed, labeled multigraph keyed by string node IDs.
// It owns node and edge storage and has no domain knowledge. Edges between
// the same ordered pair of nodes are never collapsed; deduplication, where
// desired, is a caller policy.
//
// The store assumes single-writer access for the whole batch window and has
// no internal locking. Concurrent readers during an in-progress batch are
// unsafe.
type Store struct {
	name  string
	nodes map[string]*model.Node
	// Node IDs in first-insertion order; overwrites keep the original position
	order []string
	// Outgoing adjacency per source node, in insertion order
	outgoing map[string][]*model.Edge
	// Index from (source node, relation) to neighbor IDs for filtered lookups
	byRelation map[string]map[model.RelationType][]string
	edgeCount  int

	createdAt   time.Time
	lastUpdated time.Time

	log *slog.Logger
}

// NewStore creates an empty graph store
func NewStore(name string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now()
	store := &Store{
		name:        name,
		nodes:       map[string]*model.Node{},
		outgoing:    map[string][]*model.Edge{},
		byRelation:  map[string]map[model.RelationType][]string{},
		createdAt:   now,
		lastUpdated: now,
		log:         logger,
	}
	logger.Info("Graph store initialized", slog.String("name", name))
	return store
}

// Name returns the graph name used for snapshots and statistics
func (s *Store) Name() string {
	return s.name
}

// AddNode inserts a node into the graph. Calling AddNode for an existing ID
// overwrites the stored node as given; callers that want merge semantics must
// read the node first and write back the merged state. CreatedAt is set on
// every call.
func (s *Store) AddNode(node *model.Node) {
	node.CreatedAt = time.Now()
	if _, exists := s.nodes[node.ID]; !exists {
		s.order = append(s.order, node.ID)
	}
	s.nodes[node.ID] = node
	s.touch()
}

// GetNode returns the node with the given ID. The returned node is the live
// record: mutations by a single writer are visible to subsequent reads.
func (s *Store) GetNode(id string) (*model.Node, bool) {
	node, ok := s.nodes[id]
	return node, ok
}

// Touch records a mutation made directly on a node returned by GetNode
func (s *Store) Touch() {
	s.touch()
}

// AddEdge appends a directed edge. Both endpoints must already exist as
// nodes; a missing endpoint indicates a caller bug and is returned as an
// error. Duplicate edges between the same pair are always kept.
func (s *Store) AddEdge(edge *model.Edge) error {
	if _, ok := s.nodes[edge.SourceID]; !ok {
		return helper.NewError("add edge", fmt.Errorf("source node %q does not exist", edge.SourceID))
	}
	if _, ok := s.nodes[edge.TargetID]; !ok {
		return helper.NewError("add edge", fmt.Errorf("target node %q does not exist", edge.TargetID))
	}

	edge.CreatedAt = time.Now()
	s.outgoing[edge.SourceID] = append(s.outgoing[edge.SourceID], edge)
	s.indexEdge(edge)
	s.edgeCount++
	s.touch()
	return nil
}

func (s *Store) indexEdge(edge *model.Edge) {
	byRel, ok := s.byRelation[edge.SourceID]
	if !ok {
		byRel = map[model.RelationType][]string{}
		s.byRelation[edge.SourceID] = byRel
	}
	byRel[edge.Relation] = append(byRel[edge.Relation], edge.TargetID)
}

// OutgoingEdges returns all edges leaving the given node in insertion order
func (s *Store) OutgoingEdges(id string) []*model.Edge {
	return s.outgoing[id]
}

// EdgesBetween returns all edges from source to target in insertion order
func (s *Store) EdgesBetween(sourceID, targetID string) []*model.Edge {
	var edges []*model.Edge
	for _, edge := range s.outgoing[sourceID] {
		if edge.TargetID == targetID {
			edges = append(edges, edge)
		}
	}
	return edges
}

// GetNeighbors returns the distinct neighbor IDs reachable from the given
// node. If relation is non-empty, only neighbors reachable by at least one
// edge of that relation type are returned.
func (s *Store) GetNeighbors(id string, relation model.RelationType) []string {
	if _, ok := s.nodes[id]; !ok {
		return nil
	}

	var candidates []string
	if relation != "" {
		candidates = s.byRelation[id][relation]
	} else {
		for _, edge := range s.outgoing[id] {
			candidates = append(candidates, edge.TargetID)
		}
	}

	seen := map[string]bool{}
	var neighbors []string
	for _, neighbor := range candidates {
		if !seen[neighbor] {
			seen[neighbor] = true
			neighbors = append(neighbors, neighbor)
		}
	}
	return neighbors
}

// FindNodesByType returns the IDs of all nodes of the given type.
// This is a linear scan; the graph is built append-only in batches, so no
// secondary index is maintained.
func (s *Store) FindNodesByType(nodeType model.NodeType) []string {
	var ids []string
	for _, node := range s.nodeList() {
		if node.Type == nodeType {
			ids = append(ids, node.ID)
		}
	}
	return ids
}

// FindNodesByProperty returns the IDs of all nodes whose named property
// equals the given value. Known record fields are matched first, then the
// node's extension metadata.
func (s *Store) FindNodesByProperty(key string, value interface{}) []string {
	var ids []string
	for _, node := range s.nodeList() {
		if nodeProperty(node, key) == value {
			ids = append(ids, node.ID)
		}
	}
	return ids
}

func nodeProperty(node *model.Node, key string) interface{} {
	switch key {
	case "name":
		return node.Name
	case "type":
		return string(node.Type)
	case "confidence":
		return node.Confidence
	case "citation_count":
		return node.CitationCount
	case "context":
		return node.Context
	default:
		return node.Metadata[key]
	}
}

// nodeList returns all nodes in insertion order, so scans and the
// tie-breaking they feed are deterministic across calls.
func (s *Store) nodeList() []*model.Node {
	nodes := make([]*model.Node, 0, len(s.order))
	for _, id := range s.order {
		nodes = append(nodes, s.nodes[id])
	}
	return nodes
}

// NodeCount returns the number of nodes in the graph
func (s *Store) NodeCount() int {
	return len(s.nodes)
}

// EdgeCount returns the number of edges in the graph
func (s *Store) EdgeCount() int {
	return s.edgeCount
}

// Statistics returns counts per node and relationship type along with the
// graph metadata. The per-type counts always sum to the totals.
func (s *Store) Statistics() model.Statistics {
	nodeTypes := map[model.NodeType]int{}
	for _, node := range s.nodes {
		nodeTypes[node.Type]++
	}

	relationTypes := map[model.RelationType]int{}
	for _, edges := range s.outgoing {
		for _, edge := range edges {
			relationTypes[edge.Relation]++
		}
	}

	return model.Statistics{
		GraphName:     s.name,
		TotalNodes:    len(s.nodes),
		TotalEdges:    s.edgeCount,
		NodeTypes:     nodeTypes,
		RelationTypes: relationTypes,
		IsDirected:    true,
		IsMultigraph:  true,
		CreatedAt:     s.createdAt,
		LastUpdated:   s.lastUpdated,
	}
}

// Clear removes all nodes and edges for a full rebuild
func (s *Store) Clear() {
	s.nodes = map[string]*model.Node{}
	s.order = nil
	s.outgoing = map[string][]*model.Edge{}
	s.byRelation = map[string]map[model.RelationType][]string{}
	s.edgeCount = 0
	s.touch()
	s.log.Info("Graph cleared", slog.String("name", s.name))
}

func (s *Store) touch() {
	s.lastUpdated = time.Now()
}
