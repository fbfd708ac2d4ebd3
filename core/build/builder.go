package build

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/siherrmann/regraph/core/extract"
	"github.com/siherrmann/regraph/core/graph"
	"github.com/siherrmann/regraph/model"
)

// Builder consumes a stream of enforcement documents, resolves extracted
// mentions into graph nodes and merges repeated mentions of the same
// real-world entity. It holds no graph state of its own beyond running
// counters; the store exclusively owns node and edge storage.
type Builder struct {
	store     *graph.Store
	extractor *extract.Extractor
	log       *slog.Logger

	// Running extraction counters
	processedDocuments     int
	extractedEntities      int
	extractedRelationships int
}

// NewBuilder creates a builder over the given store and extractor
func NewBuilder(store *graph.Store, extractor *extract.Extractor, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		store:     store,
		extractor: extractor,
		log:       logger,
	}
}

// Store returns the underlying graph store
func (b *Builder) Store() *graph.Store {
	return b.store
}

// NormalizeID derives the deterministic node ID used to merge repeated
// mentions: lowercased, trimmed, spaces replaced by underscores, all
// characters that are not alphanumeric or underscore stripped, prefixed with
// the node type. The same (text, type) pair always yields the same ID; this
// is the sole identity-merge key, no fuzzy matching is performed.
func NormalizeID(text string, nodeType model.NodeType) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	normalized = strings.ReplaceAll(normalized, " ", "_")

	var builder strings.Builder
	for _, r := range normalized {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			builder.WriteRune(r)
		}
	}

	return fmt.Sprintf("%s_%s", strings.ToLower(string(nodeType)), builder.String())
}

// DocumentNodeID derives the graph node ID for a document chunk
func DocumentNodeID(doc *model.Document) string {
	return fmt.Sprintf("doc_%s_%d", doc.DocumentID, doc.ChunkIndex)
}

// ProcessDocument extracts entities and relationships from a single document
// and merges them into the graph. A document with empty content is skipped
// with zero counts, not an error.
func (b *Builder) ProcessDocument(doc *model.Document) (*model.ProcessResult, error) {
	if strings.TrimSpace(doc.Content) == "" {
		b.log.Warn("Skipping document with empty content",
			slog.String("document_id", doc.DocumentID),
			slog.Int("chunk_index", doc.ChunkIndex),
		)
		return &model.ProcessResult{}, nil
	}

	extraction, err := b.extractor.Extract(doc.Content)
	if err != nil {
		return nil, err
	}

	docNodeID := b.addDocumentNode(doc)

	// Resolve extracted entities into graph nodes with citation accounting
	for _, entity := range extraction.Entities {
		entityID := b.upsertNode(entity.Text, entity.Type, entity.Confidence, entity.Context, docNodeID)

		err := b.store.AddEdge(&model.Edge{
			SourceID:   entityID,
			TargetID:   docNodeID,
			Relation:   model.RelationCitedIn,
			Confidence: entity.Confidence,
		})
		if err != nil {
			return nil, err
		}
	}

	// Resolve relationship endpoints, creating stub nodes where the endpoint
	// was not separately extracted as an entity
	for _, relationship := range extraction.Relationships {
		sourceID := b.upsertNode(relationship.SourceText, relationship.SourceType, relationship.Confidence, "", docNodeID)
		targetID := b.upsertNode(relationship.TargetText, relationship.TargetType, relationship.Confidence, "", docNodeID)

		err := b.store.AddEdge(&model.Edge{
			SourceID:       sourceID,
			TargetID:       targetID,
			Relation:       relationship.Relation,
			Confidence:     relationship.Confidence,
			Context:        relationship.Context,
			SourceDocument: docNodeID,
		})
		if err != nil {
			return nil, err
		}
	}

	// Pre-classified metadata contributes nodes independently of extraction
	if err := b.processMetadata(doc, docNodeID); err != nil {
		return nil, err
	}

	b.processedDocuments++
	b.extractedEntities += len(extraction.Entities)
	b.extractedRelationships += len(extraction.Relationships)

	b.log.Info("Processed document",
		slog.String("document_node", docNodeID),
		slog.Int("entities", len(extraction.Entities)),
		slog.Int("relationships", len(extraction.Relationships)),
	)

	return &model.ProcessResult{
		DocumentNodeID:     docNodeID,
		EntitiesAdded:      len(extraction.Entities),
		RelationshipsAdded: len(extraction.Relationships),
		Summary:            extraction.Summary(),
	}, nil
}

// ProcessBatch processes documents strictly sequentially. A failure
// processing one document is counted and logged but never aborts the batch
// or affects previously committed graph state.
func (b *Builder) ProcessBatch(docs []*model.Document) *model.BatchResult {
	result := &model.BatchResult{
		RunID:              uuid.New(),
		DocumentsProcessed: len(docs),
	}

	b.log.Info("Processing document batch",
		slog.String("run_id", result.RunID.String()),
		slog.Int("documents", len(docs)),
	)

	for i, doc := range docs {
		if (i+1)%10 == 0 {
			b.log.Info("Batch progress",
				slog.Int("processed", i+1),
				slog.Int("total", len(docs)),
			)
		}

		processed, err := b.ProcessDocument(doc)
		if err != nil {
			result.Errors++
			b.log.Error("Failed to process document",
				slog.String("document_id", doc.DocumentID),
				slog.Int("chunk_index", doc.ChunkIndex),
				slog.String("error", err.Error()),
			)
			continue
		}

		result.Results = append(result.Results, *processed)
		result.TotalEntities += processed.EntitiesAdded
		result.TotalRelationships += processed.RelationshipsAdded
	}

	b.log.Info("Batch complete",
		slog.String("run_id", result.RunID.String()),
		slog.Int("documents", result.DocumentsProcessed),
		slog.Int("entities", result.TotalEntities),
		slog.Int("relationships", result.TotalRelationships),
		slog.Int("errors", result.Errors),
	)

	return result
}

// addDocumentNode inserts the node representing one document chunk
func (b *Builder) addDocumentNode(doc *model.Document) string {
	docNodeID := DocumentNodeID(doc)

	metadata := model.Metadata{
		"title":           doc.Title,
		"document_type":   doc.DocumentType,
		"document_id":     doc.DocumentID,
		"chunk_index":     doc.ChunkIndex,
		"content_preview": doc.ContentPreview(200),
	}
	if doc.Date != nil {
		metadata["date"] = doc.Date.Format("2006-01-02")
	}
	if doc.URL != "" {
		metadata["url"] = doc.URL
	}

	b.store.AddNode(&model.Node{
		ID:            docNodeID,
		Type:          model.NodeTypeDocument,
		Name:          doc.Title,
		CitationCount: 1,
		Metadata:      metadata,
	})

	return docNodeID
}

// upsertNode resolves a mention to its normalized node, creating the node on
// first sight and otherwise merging the mention into the existing node.
// The citation count increments once per (entity, document) pair: merging the
// same document into the same node a second time is a no-op, so reprocessing
// a document does not double-count citations.
func (b *Builder) upsertNode(text string, nodeType model.NodeType, confidence float64, context string, docNodeID string) string {
	id := NormalizeID(text, nodeType)

	if node, ok := b.store.GetNode(id); ok {
		if node.AddDocument(docNodeID) {
			node.CitationCount++
			b.store.Touch()
		}
		return id
	}

	b.store.AddNode(&model.Node{
		ID:            id,
		Type:          nodeType,
		Name:          strings.TrimSpace(text),
		Confidence:    confidence,
		CitationCount: 1,
		Documents:     []string{docNodeID},
		Context:       context,
	})

	return id
}

// processMetadata merges the document's own pre-classified violation types
// and entity names, independent of free-text extraction. The resulting edges
// are tagged with their metadata origin.
func (b *Builder) processMetadata(doc *model.Document, docNodeID string) error {
	for _, violationType := range doc.ViolationTypes {
		violationID := b.upsertNode(violationType, model.NodeTypeViolation, 0, "", docNodeID)

		err := b.store.AddEdge(&model.Edge{
			SourceID: docNodeID,
			TargetID: violationID,
			Relation: model.RelationDescribes,
			Metadata: model.Metadata{"source": "metadata"},
		})
		if err != nil {
			return err
		}
	}

	for _, entityName := range doc.Entities {
		entityID := b.upsertNode(entityName, model.NodeTypeEntity, 0, "", docNodeID)

		err := b.store.AddEdge(&model.Edge{
			SourceID: entityID,
			TargetID: docNodeID,
			Relation: model.RelationCitedIn,
			Metadata: model.Metadata{"source": "metadata"},
		})
		if err != nil {
			return err
		}
	}

	return nil
}
