package main

import (
	"fmt"
	"log"
	"time"

	"github.com/siherrmann/regraph"
	"github.com/siherrmann/regraph/model"
)

const orderContent = `XYZ Industries Ltd. was found guilty of insider trading in the scrip of Apex Pharma Ltd.
The investigation revealed that the Noticee engaged in market manipulation through circular trading.
SEBI imposed a penalty of ₹50,00,000 on the company under the adjudication order dated 15 March 2024.`

const followupContent = `Beacon Securities Ltd. indulged in insider trading in the same scrip.
The case is similar to SEBI/2024/112. A penalty of ₹10,00,000 was imposed on Beacon Securities.`

func main() {
	// Uses the bundled NER model, downloaded on first run
	r, err := regraph.NewDefaultRegraph("enforcement")
	if err != nil {
		log.Fatalf("Failed to create regraph: %v", err)
	}

	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	docs := []*model.Document{
		{
			DocumentID:   "sebi_2024_341",
			Title:        "Adjudication Order against XYZ Industries",
			DocumentType: "enforcement_order",
			Date:         &date,
			Content:      orderContent,
		},
		{
			DocumentID:   "sebi_2024_409",
			Title:        "Adjudication Order against Beacon Securities",
			DocumentType: "enforcement_order",
			Content:      followupContent,
		},
	}

	fmt.Println("Building the knowledge graph...")
	batch := r.ProcessBatch(docs)
	fmt.Printf("Processed %d documents, %d entities, %d relationships (%d errors)\n",
		batch.DocumentsProcessed, batch.TotalEntities, batch.TotalRelationships, batch.Errors)

	// What did a specific entity do?
	fmt.Println("\nViolations of XYZ Industries Ltd.:")
	for _, hit := range r.FindEntityViolations("XYZ Industries Ltd.") {
		fmt.Printf("  %s (%s, confidence %.2f)\n", hit.Violation, hit.Relation, hit.Confidence)
	}

	// Who else committed the same violation?
	fmt.Println("\nSimilar insider trading cases:")
	for _, c := range r.FindSimilarCases("insider trading", 5) {
		fmt.Printf("  %s (cited in %d documents)\n", c.Entity, c.CitationCount)
	}

	// Walk outward from an entity
	traversal := r.MultiHop("entity_xyz_industries_ltd", 2, nil)
	fmt.Printf("\nReached %d nodes within 2 hops of XYZ Industries\n", len(traversal.Nodes))

	stats := r.DomainStatistics()
	fmt.Printf("\nGraph %q: %d nodes, %d edges, %d entities, %d violations\n",
		stats.GraphName, stats.TotalNodes, stats.TotalEdges,
		stats.Domain.Entities, stats.Domain.Violations)

	// Persist to a snapshot file
	if err := r.Save("enforcement_graph.json"); err != nil {
		log.Fatalf("Failed to save graph: %v", err)
	}
	fmt.Println("\nGraph saved to enforcement_graph.json")
}
