package graph

import (
	"testing"

	"github.com/siherrmann/regraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore("test_graph", nil)
}

func addNodes(t *testing.T, store *Store, nodes ...*model.Node) {
	t.Helper()
	for _, node := range nodes {
		store.AddNode(node)
	}
}

func TestStoreAddNode(t *testing.T) {
	t.Run("Add and get node", func(t *testing.T) {
		store := newTestStore(t)
		store.AddNode(&model.Node{ID: "entity_apex", Type: model.NodeTypeEntity, Name: "Apex Traders"})

		node, ok := store.GetNode("entity_apex")
		require.True(t, ok)
		assert.Equal(t, "Apex Traders", node.Name)
		assert.False(t, node.CreatedAt.IsZero(), "Expected CreatedAt to be set on insert")
		assert.Equal(t, 1, store.NodeCount())
	})

	t.Run("Adding an existing ID overwrites the node", func(t *testing.T) {
		store := newTestStore(t)
		store.AddNode(&model.Node{ID: "entity_apex", Type: model.NodeTypeEntity, Name: "Apex Traders", CitationCount: 3})
		store.AddNode(&model.Node{ID: "entity_apex", Type: model.NodeTypeEntity, Name: "Apex Traders Ltd."})

		node, ok := store.GetNode("entity_apex")
		require.True(t, ok)
		assert.Equal(t, "Apex Traders Ltd.", node.Name)
		assert.Equal(t, 0, node.CitationCount, "Expected overwrite, not merge")
		assert.Equal(t, 1, store.NodeCount(), "Expected no duplicate node")
	})

	t.Run("Get missing node", func(t *testing.T) {
		store := newTestStore(t)
		_, ok := store.GetNode("missing")
		assert.False(t, ok)
	})

	t.Run("Mutations on the live node are visible", func(t *testing.T) {
		store := newTestStore(t)
		store.AddNode(&model.Node{ID: "entity_apex", Type: model.NodeTypeEntity, CitationCount: 1})

		node, ok := store.GetNode("entity_apex")
		require.True(t, ok)
		node.CitationCount++
		store.Touch()

		again, _ := store.GetNode("entity_apex")
		assert.Equal(t, 2, again.CitationCount)
	})
}

func TestStoreAddEdge(t *testing.T) {
	t.Run("Add edge between existing nodes", func(t *testing.T) {
		store := newTestStore(t)
		addNodes(t, store,
			&model.Node{ID: "a", Type: model.NodeTypeEntity},
			&model.Node{ID: "b", Type: model.NodeTypeViolation},
		)

		err := store.AddEdge(&model.Edge{SourceID: "a", TargetID: "b", Relation: model.RelationCommitted})
		assert.NoError(t, err)
		assert.Equal(t, 1, store.EdgeCount())

		edges := store.OutgoingEdges("a")
		require.Len(t, edges, 1)
		assert.False(t, edges[0].CreatedAt.IsZero(), "Expected CreatedAt to be set on insert")
	})

	t.Run("Missing source node is an error", func(t *testing.T) {
		store := newTestStore(t)
		store.AddNode(&model.Node{ID: "b", Type: model.NodeTypeViolation})

		err := store.AddEdge(&model.Edge{SourceID: "a", TargetID: "b", Relation: model.RelationCommitted})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "source node")
		assert.Equal(t, 0, store.EdgeCount(), "Expected graph to be unchanged after rejected edge")
	})

	t.Run("Missing target node is an error", func(t *testing.T) {
		store := newTestStore(t)
		store.AddNode(&model.Node{ID: "a", Type: model.NodeTypeEntity})

		err := store.AddEdge(&model.Edge{SourceID: "a", TargetID: "b", Relation: model.RelationCommitted})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "target node")
	})

	t.Run("Parallel edges are never collapsed", func(t *testing.T) {
		store := newTestStore(t)
		addNodes(t, store,
			&model.Node{ID: "a", Type: model.NodeTypeEntity},
			&model.Node{ID: "b", Type: model.NodeTypeViolation},
		)

		require.NoError(t, store.AddEdge(&model.Edge{SourceID: "a", TargetID: "b", Relation: model.RelationCommitted}))
		require.NoError(t, store.AddEdge(&model.Edge{SourceID: "a", TargetID: "b", Relation: model.RelationCommitted}))
		require.NoError(t, store.AddEdge(&model.Edge{SourceID: "a", TargetID: "b", Relation: model.RelationCitedIn}))

		assert.Equal(t, 3, store.EdgeCount())
		assert.Len(t, store.EdgesBetween("a", "b"), 3, "Expected all parallel edges to be kept")
	})
}

func TestStoreGetNeighbors(t *testing.T) {
	store := newTestStore(t)
	addNodes(t, store,
		&model.Node{ID: "a", Type: model.NodeTypeEntity},
		&model.Node{ID: "b", Type: model.NodeTypeViolation},
		&model.Node{ID: "c", Type: model.NodeTypeDocument},
	)
	require.NoError(t, store.AddEdge(&model.Edge{SourceID: "a", TargetID: "b", Relation: model.RelationCommitted}))
	require.NoError(t, store.AddEdge(&model.Edge{SourceID: "a", TargetID: "b", Relation: model.RelationCommitted}))
	require.NoError(t, store.AddEdge(&model.Edge{SourceID: "a", TargetID: "c", Relation: model.RelationCitedIn}))

	t.Run("All neighbors are distinct", func(t *testing.T) {
		neighbors := store.GetNeighbors("a", "")
		assert.Equal(t, []string{"b", "c"}, neighbors, "Expected distinct neighbors despite parallel edges")
	})

	t.Run("Relation filter restricts neighbors", func(t *testing.T) {
		assert.Equal(t, []string{"b"}, store.GetNeighbors("a", model.RelationCommitted))
		assert.Equal(t, []string{"c"}, store.GetNeighbors("a", model.RelationCitedIn))
		assert.Empty(t, store.GetNeighbors("a", model.RelationPenalizedBy))
	})

	t.Run("Missing node yields no neighbors", func(t *testing.T) {
		assert.Empty(t, store.GetNeighbors("missing", ""))
	})

	t.Run("Node without outgoing edges", func(t *testing.T) {
		assert.Empty(t, store.GetNeighbors("b", ""))
	})
}

func TestStoreFindNodes(t *testing.T) {
	store := newTestStore(t)
	addNodes(t, store,
		&model.Node{ID: "entity_apex", Type: model.NodeTypeEntity, Name: "Apex Traders", CitationCount: 2},
		&model.Node{ID: "violation_fraud", Type: model.NodeTypeViolation, Name: "fraud"},
		&model.Node{ID: "entity_xyz", Type: model.NodeTypeEntity, Name: "XYZ Industries", Metadata: model.Metadata{"sector": "manufacturing"}},
	)

	t.Run("Find nodes by type in insertion order", func(t *testing.T) {
		assert.Equal(t, []string{"entity_apex", "entity_xyz"}, store.FindNodesByType(model.NodeTypeEntity))
		assert.Equal(t, []string{"violation_fraud"}, store.FindNodesByType(model.NodeTypeViolation))
		assert.Empty(t, store.FindNodesByType(model.NodeTypeRegulator))
	})

	t.Run("Find nodes by record field", func(t *testing.T) {
		assert.Equal(t, []string{"entity_apex"}, store.FindNodesByProperty("name", "Apex Traders"))
		assert.Equal(t, []string{"entity_apex"}, store.FindNodesByProperty("citation_count", 2))
		assert.Equal(t, []string{"entity_apex", "entity_xyz"}, store.FindNodesByProperty("type", "Entity"))
	})

	t.Run("Find nodes by metadata key", func(t *testing.T) {
		assert.Equal(t, []string{"entity_xyz"}, store.FindNodesByProperty("sector", "manufacturing"))
		assert.Empty(t, store.FindNodesByProperty("sector", "banking"))
	})
}

func TestStoreStatistics(t *testing.T) {
	store := newTestStore(t)
	addNodes(t, store,
		&model.Node{ID: "a", Type: model.NodeTypeEntity},
		&model.Node{ID: "b", Type: model.NodeTypeEntity},
		&model.Node{ID: "c", Type: model.NodeTypeViolation},
	)
	require.NoError(t, store.AddEdge(&model.Edge{SourceID: "a", TargetID: "c", Relation: model.RelationCommitted}))
	require.NoError(t, store.AddEdge(&model.Edge{SourceID: "b", TargetID: "c", Relation: model.RelationCommitted}))
	require.NoError(t, store.AddEdge(&model.Edge{SourceID: "a", TargetID: "b", Relation: model.RelationSimilarTo}))

	t.Run("Counts and metadata", func(t *testing.T) {
		stats := store.Statistics()
		assert.Equal(t, "test_graph", stats.GraphName)
		assert.Equal(t, 3, stats.TotalNodes)
		assert.Equal(t, 3, stats.TotalEdges)
		assert.Equal(t, 2, stats.NodeTypes[model.NodeTypeEntity])
		assert.Equal(t, 1, stats.NodeTypes[model.NodeTypeViolation])
		assert.Equal(t, 2, stats.RelationTypes[model.RelationCommitted])
		assert.Equal(t, 1, stats.RelationTypes[model.RelationSimilarTo])
		assert.True(t, stats.IsDirected)
		assert.True(t, stats.IsMultigraph)
		assert.False(t, stats.CreatedAt.IsZero())
		assert.False(t, stats.LastUpdated.IsZero())
	})

	t.Run("Per-type counts sum to totals", func(t *testing.T) {
		stats := store.Statistics()

		nodeSum := 0
		for _, count := range stats.NodeTypes {
			nodeSum += count
		}
		assert.Equal(t, stats.TotalNodes, nodeSum, "Expected node type counts to sum to total")

		edgeSum := 0
		for _, count := range stats.RelationTypes {
			edgeSum += count
		}
		assert.Equal(t, stats.TotalEdges, edgeSum, "Expected relationship type counts to sum to total")
	})

	t.Run("Empty graph statistics", func(t *testing.T) {
		empty := NewStore("empty", nil)
		stats := empty.Statistics()
		assert.Equal(t, 0, stats.TotalNodes)
		assert.Equal(t, 0, stats.TotalEdges)
		assert.Empty(t, stats.NodeTypes)
		assert.Empty(t, stats.RelationTypes)
	})
}

func TestStoreClear(t *testing.T) {
	store := newTestStore(t)
	addNodes(t, store,
		&model.Node{ID: "a", Type: model.NodeTypeEntity},
		&model.Node{ID: "b", Type: model.NodeTypeViolation},
	)
	require.NoError(t, store.AddEdge(&model.Edge{SourceID: "a", TargetID: "b", Relation: model.RelationCommitted}))

	t.Run("Clear removes all nodes and edges", func(t *testing.T) {
		store.Clear()

		assert.Equal(t, 0, store.NodeCount())
		assert.Equal(t, 0, store.EdgeCount())
		_, ok := store.GetNode("a")
		assert.False(t, ok)
		assert.Empty(t, store.GetNeighbors("a", ""))
	})

	t.Run("Store is usable after clear", func(t *testing.T) {
		store.AddNode(&model.Node{ID: "c", Type: model.NodeTypeEntity})
		assert.Equal(t, 1, store.NodeCount())
	})
}
