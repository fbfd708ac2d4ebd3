package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/siherrmann/regraph/core/graph"
	"github.com/siherrmann/regraph/helper"
	"github.com/siherrmann/regraph/model"
	loadSql "github.com/siherrmann/regraph/sql"
)

// GraphDBHandlerFunctions defines the interface for graph snapshot database operations.
type GraphDBHandlerFunctions interface {
	SaveSnapshot(snap *graph.Snapshot) (*model.SnapshotRecord, error)
	LoadSnapshot(id uuid.UUID) (*graph.Snapshot, error)
	LoadLatestSnapshot(graphName string) (*graph.Snapshot, *model.SnapshotRecord, error)
	SelectSnapshot(id uuid.UUID) (*model.SnapshotRecord, error)
	SelectAllSnapshots(graphName string) ([]*model.SnapshotRecord, error)
	DeleteSnapshot(id uuid.UUID) error
}

// GraphDBHandler handles graph snapshot database operations
type GraphDBHandler struct {
	db *helper.Database
}

// NewGraphDBHandler creates a new graph snapshot database handler.
// It initializes the database connection and loads snapshot-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewGraphDBHandler(db *helper.Database, force bool) (*GraphDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	graphDbHandler := &GraphDBHandler{
		db: db,
	}

	err := loadSql.LoadAllSql(graphDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load graph sql", err)
	}

	err = graphDbHandler.CreateTables()
	if err != nil {
		return nil, helper.NewError("create tables", err)
	}

	db.Logger.Info("Initialized GraphDBHandler")

	return graphDbHandler, nil
}

// CreateTables creates the snapshot, node and edge tables in the database.
// Tables that already exist are not created again.
func (h *GraphDBHandler) CreateTables() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// The snapshots table must exist first, the payload tables reference it
	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_snapshots();`)
	if err != nil {
		log.Panicf("error initializing snapshots table: %#v", err)
	}

	_, err = h.db.Instance.ExecContext(ctx, `SELECT init_graph_nodes();`)
	if err != nil {
		log.Panicf("error initializing graph_nodes table: %#v", err)
	}

	_, err = h.db.Instance.ExecContext(ctx, `SELECT init_graph_edges();`)
	if err != nil {
		log.Panicf("error initializing graph_edges table: %#v", err)
	}

	h.db.Logger.Info("Checked/created tables snapshots, graph_nodes, graph_edges")

	return nil
}

// SaveSnapshot writes a whole graph snapshot to the database.
// The header row and all node and edge rows are written in one transaction,
// a failed save leaves the database unchanged.
func (h *GraphDBHandler) SaveSnapshot(snap *graph.Snapshot) (*model.SnapshotRecord, error) {
	tx, err := h.db.Instance.Begin()
	if err != nil {
		return nil, helper.NewError("begin transaction", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(
		`SELECT * FROM insert_snapshot($1, $2, $3, $4, $5)`,
		snap.Metadata.GraphName,
		len(snap.Nodes),
		len(snap.Edges),
		snap.Metadata.CreatedAt,
		snap.Metadata.LastUpdated,
	)

	record := &model.SnapshotRecord{}
	err = row.Scan(
		&record.ID,
		&record.GraphName,
		&record.NodeCount,
		&record.EdgeCount,
		&record.GraphCreatedAt,
		&record.GraphLastUpdated,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	for position, node := range snap.Nodes {
		_, err = tx.Exec(
			`SELECT insert_graph_node($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			record.ID,
			position,
			node.ID,
			node.Type,
			node.Name,
			node.Confidence,
			node.CitationCount,
			pq.Array(node.Documents),
			node.Context,
			node.CreatedAt,
			node.Metadata,
		)
		if err != nil {
			return nil, helper.NewError(fmt.Sprintf("insert node %s", node.ID), err)
		}
	}

	for position, edge := range snap.Edges {
		_, err = tx.Exec(
			`SELECT insert_graph_edge($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			record.ID,
			position,
			edge.SourceID,
			edge.TargetID,
			edge.Relation,
			edge.Confidence,
			edge.Context,
			edge.SourceDocument,
			edge.CreatedAt,
			edge.Metadata,
		)
		if err != nil {
			return nil, helper.NewError(fmt.Sprintf("insert edge %s -> %s", edge.SourceID, edge.TargetID), err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return nil, helper.NewError("commit transaction", err)
	}

	return record, nil
}

// LoadSnapshot reads a whole graph snapshot from the database by snapshot ID
func (h *GraphDBHandler) LoadSnapshot(id uuid.UUID) (*graph.Snapshot, error) {
	record, err := h.SelectSnapshot(id)
	if err != nil {
		return nil, err
	}

	nodes, err := h.selectNodes(id)
	if err != nil {
		return nil, err
	}

	edges, err := h.selectEdges(id)
	if err != nil {
		return nil, err
	}

	return &graph.Snapshot{
		Metadata: graph.SnapshotMetadata{
			GraphName:   record.GraphName,
			CreatedAt:   record.GraphCreatedAt,
			LastUpdated: record.GraphLastUpdated,
		},
		Nodes: nodes,
		Edges: edges,
	}, nil
}

// LoadLatestSnapshot reads the most recently saved snapshot of a graph.
// A graph without snapshots is reported as nil, nil, nil and not as an error.
func (h *GraphDBHandler) LoadLatestSnapshot(graphName string) (*graph.Snapshot, *model.SnapshotRecord, error) {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_latest_snapshot($1)`,
		graphName,
	)

	record := &model.SnapshotRecord{}
	err := row.Scan(
		&record.ID,
		&record.GraphName,
		&record.NodeCount,
		&record.EdgeCount,
		&record.GraphCreatedAt,
		&record.GraphLastUpdated,
		&record.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, helper.NewError("scan", err)
	}

	snap, err := h.LoadSnapshot(record.ID)
	if err != nil {
		return nil, nil, err
	}

	return snap, record, nil
}

// SelectSnapshot retrieves a snapshot header row by ID
func (h *GraphDBHandler) SelectSnapshot(id uuid.UUID) (*model.SnapshotRecord, error) {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_snapshot($1)`,
		id,
	)

	record := &model.SnapshotRecord{}
	err := row.Scan(
		&record.ID,
		&record.GraphName,
		&record.NodeCount,
		&record.EdgeCount,
		&record.GraphCreatedAt,
		&record.GraphLastUpdated,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return record, nil
}

// SelectAllSnapshots retrieves all snapshot header rows of a graph, newest first
func (h *GraphDBHandler) SelectAllSnapshots(graphName string) ([]*model.SnapshotRecord, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_all_snapshots($1)`,
		graphName,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var records []*model.SnapshotRecord
	for rows.Next() {
		record := &model.SnapshotRecord{}
		err := rows.Scan(
			&record.ID,
			&record.GraphName,
			&record.NodeCount,
			&record.EdgeCount,
			&record.GraphCreatedAt,
			&record.GraphLastUpdated,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		records = append(records, record)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return records, nil
}

// DeleteSnapshot deletes a snapshot by ID.
// Node and edge rows are removed by the foreign key cascade.
func (h *GraphDBHandler) DeleteSnapshot(id uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_snapshot($1)`,
		id,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// selectNodes retrieves the node rows of a snapshot in insertion order
func (h *GraphDBHandler) selectNodes(snapshotID uuid.UUID) ([]*model.Node, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_graph_nodes($1)`,
		snapshotID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var nodes []*model.Node
	for rows.Next() {
		node := &model.Node{}
		err := rows.Scan(
			&node.ID,
			&node.Type,
			&node.Name,
			&node.Confidence,
			&node.CitationCount,
			pq.Array(&node.Documents),
			&node.Context,
			&node.CreatedAt,
			&node.Metadata,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		nodes = append(nodes, node)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return nodes, nil
}

// selectEdges retrieves the edge rows of a snapshot in insertion order
func (h *GraphDBHandler) selectEdges(snapshotID uuid.UUID) ([]*model.Edge, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_graph_edges($1)`,
		snapshotID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var edges []*model.Edge
	for rows.Next() {
		edge := &model.Edge{}
		err := rows.Scan(
			&edge.SourceID,
			&edge.TargetID,
			&edge.Relation,
			&edge.Confidence,
			&edge.Context,
			&edge.SourceDocument,
			&edge.CreatedAt,
			&edge.Metadata,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		edges = append(edges, edge)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return edges, nil
}
