package main

import (
	"context"
	"fmt"
	"log"

	"github.com/siherrmann/regraph"
	"github.com/siherrmann/regraph/core/pipeline"
	"github.com/siherrmann/regraph/helper"
	"github.com/siherrmann/regraph/model"
)

const longOrderContent = `XYZ Industries Ltd. was found guilty of insider trading in the scrip of Apex Pharma Ltd.
The Noticee traded while in possession of unpublished price sensitive information.

The investigation further revealed that Crest Capital Ltd. engaged in circular trading
together with connected entities. The trades created a false market in the scrip.

SEBI imposed a penalty of ₹50,00,000 on XYZ Industries Ltd. under the adjudication order.
A penalty of ₹25,00,000 was imposed on Crest Capital Ltd. for the violations described above.`

func main() {
	// Start a test PostgreSQL container for the snapshot store
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	r, err := regraph.NewDefaultRegraph("enforcement")
	if err != nil {
		log.Fatalf("Failed to create regraph: %v", err)
	}
	defer r.Close()

	// Attach Postgres so snapshots are versioned in the database
	if err := r.UseDatabase(dbConfig); err != nil {
		log.Fatalf("Failed to attach database: %v", err)
	}

	// Long orders are split into paragraph chunks before extraction
	doc := &model.Document{
		DocumentID:   "sebi_2024_341",
		Title:        "Adjudication Order against XYZ Industries and Crest Capital",
		DocumentType: "enforcement_order",
		Content:      longOrderContent,
	}

	fmt.Println("Processing chunked document...")
	batch, err := r.ProcessChunked(doc, pipeline.ParagraphChunker())
	if err != nil {
		log.Fatalf("Failed to process document: %v", err)
	}
	fmt.Printf("Run %s: %d chunks, %d entities, %d relationships\n",
		batch.RunID, batch.DocumentsProcessed, batch.TotalEntities, batch.TotalRelationships)

	// Version the graph in the database
	record, err := r.SaveSnapshot()
	if err != nil {
		log.Fatalf("Failed to save snapshot: %v", err)
	}
	fmt.Printf("Saved snapshot %s (%d nodes, %d edges)\n", record.ID, record.NodeCount, record.EdgeCount)

	// A fresh instance can restore the latest version
	restored, err := regraph.NewDefaultRegraph("enforcement")
	if err != nil {
		log.Fatalf("Failed to create second regraph: %v", err)
	}
	defer restored.Close()

	if err := restored.UseDatabase(dbConfig); err != nil {
		log.Fatalf("Failed to attach database: %v", err)
	}

	found, err := restored.LoadLatestSnapshot()
	if err != nil {
		log.Fatalf("Failed to load snapshot: %v", err)
	}
	if !found {
		log.Fatal("Expected a snapshot to exist")
	}

	stats := restored.DomainStatistics()
	fmt.Printf("Restored graph %q: %d nodes, %d edges\n", stats.GraphName, stats.TotalNodes, stats.TotalEdges)

	fmt.Println("\nViolations of XYZ Industries Ltd.:")
	for _, hit := range restored.FindEntityViolations("XYZ Industries Ltd.") {
		fmt.Printf("  %s (%s)\n", hit.Violation, hit.Relation)
	}

	// Export the node-link view for visualization tooling
	if err := restored.ExportJSON("enforcement_graph_export.json"); err != nil {
		log.Fatalf("Failed to export graph: %v", err)
	}
	fmt.Println("\nExported node-link JSON to enforcement_graph_export.json")
}
