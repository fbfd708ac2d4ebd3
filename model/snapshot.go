package model

import (
	"time"

	"github.com/google/uuid"
)

// SnapshotRecord is the database header row of a persisted graph snapshot.
// GraphCreatedAt and GraphLastUpdated are the timestamps of the graph itself,
// CreatedAt is when the snapshot row was written.
type SnapshotRecord struct {
	ID               uuid.UUID `json:"id"`
	GraphName        string    `json:"graph_name"`
	NodeCount        int       `json:"node_count"`
	EdgeCount        int       `json:"edge_count"`
	GraphCreatedAt   time.Time `json:"graph_created_at"`
	GraphLastUpdated time.Time `json:"graph_last_updated"`
	CreatedAt        time.Time `json:"created_at"`
}
