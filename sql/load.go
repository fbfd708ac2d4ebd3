package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed snapshots.sql
var snapshotsSQL string

//go:embed nodes.sql
var nodesSQL string

//go:embed edges.sql
var edgesSQL string

// Function lists for verification
var SnapshotsFunctions = []string{
	"init_snapshots",
	"insert_snapshot",
	"select_snapshot",
	"select_latest_snapshot",
	"select_all_snapshots",
	"delete_snapshot",
}

var NodesFunctions = []string{
	"init_graph_nodes",
	"insert_graph_node",
	"select_graph_nodes",
	"delete_graph_nodes",
}

var EdgesFunctions = []string{
	"init_graph_edges",
	"insert_graph_edge",
	"select_graph_edges",
	"delete_graph_edges",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadSnapshotsSql loads snapshot-related SQL functions
func LoadSnapshotsSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, SnapshotsFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing snapshots functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(snapshotsSQL)
	if err != nil {
		return fmt.Errorf("error executing snapshots SQL: %w", err)
	}

	exist, err := checkFunctions(db, SnapshotsFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL snapshots functions loaded successfully")
	return nil
}

// LoadNodesSql loads node-related SQL functions
func LoadNodesSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, NodesFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing nodes functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(nodesSQL)
	if err != nil {
		return fmt.Errorf("error executing nodes SQL: %w", err)
	}

	exist, err := checkFunctions(db, NodesFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL nodes functions loaded successfully")
	return nil
}

// LoadEdgesSql loads edge-related SQL functions
func LoadEdgesSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, EdgesFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing edges functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(edgesSQL)
	if err != nil {
		return fmt.Errorf("error executing edges SQL: %w", err)
	}

	exist, err := checkFunctions(db, EdgesFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL edges functions loaded successfully")
	return nil
}

// LoadAllSql loads all SQL functions
func LoadAllSql(db *sql.DB, force bool) error {
	if err := LoadSnapshotsSql(db, force); err != nil {
		return err
	}

	if err := LoadNodesSql(db, force); err != nil {
		return err
	}

	if err := LoadEdgesSql(db, force); err != nil {
		return err
	}

	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
