package regraph

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/siherrmann/regraph/core/build"
	"github.com/siherrmann/regraph/core/extract"
	"github.com/siherrmann/regraph/core/graph"
	"github.com/siherrmann/regraph/core/pipeline"
	"github.com/siherrmann/regraph/database"
	"github.com/siherrmann/regraph/helper"
	"github.com/siherrmann/regraph/model"
	loadSql "github.com/siherrmann/regraph/sql"
)

// Regraph provides a unified interface to the extraction, graph and query layers
type Regraph struct {
	Store     *graph.Store
	Extractor *extract.Extractor
	Builder   *build.Builder
	DB        *helper.Database         // Optional snapshot database
	Snapshots *database.GraphDBHandler // Optional snapshot handler
	// Logging
	log *slog.Logger
}

// NewRegraph creates a new Regraph instance with the given graph name and
// entity recognizer. Use extract.DefaultNER() for the bundled ONNX model or
// pass a custom NERFunc, for example a stub in tests.
func NewRegraph(graphName string, ner extract.NERFunc) (*Regraph, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	extractor, err := extract.NewExtractor(ner, logger)
	if err != nil {
		return nil, helper.NewError("create extractor", err)
	}

	store := graph.NewStore(graphName, logger)
	builder := build.NewBuilder(store, extractor, logger)

	return &Regraph{
		Store:     store,
		Extractor: extractor,
		Builder:   builder,
		log:       logger,
	}, nil
}

// NewDefaultRegraph creates a Regraph instance with the default NER model.
// The model is downloaded on first use, so this needs network access once.
func NewDefaultRegraph(graphName string) (*Regraph, error) {
	ner, err := extract.DefaultNER()
	if err != nil {
		return nil, helper.NewError("create default ner", err)
	}
	return NewRegraph(graphName, ner)
}

// UseDatabase attaches a Postgres snapshot store.
// Without it the graph lives in memory only and Save/Load work on files.
func (r *Regraph) UseDatabase(config *helper.DatabaseConfiguration) error {
	db := helper.NewDatabase("regraph", config, r.log)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return helper.NewError("initialize database extensions", err)
	}

	// force=false to not reload if functions already exist
	snapshots, err := database.NewGraphDBHandler(db, false)
	if err != nil {
		return helper.NewError("create graph handler", err)
	}

	r.DB = db
	r.Snapshots = snapshots
	return nil
}

// Close closes the database connection
func (r *Regraph) Close() error {
	if r.DB != nil && r.DB.Instance != nil {
		return r.DB.Instance.Close()
	}
	return nil
}

// ProcessDocument extracts entities and relationships from a document and
// merges them into the graph
func (r *Regraph) ProcessDocument(doc *model.Document) (*model.ProcessResult, error) {
	return r.Builder.ProcessDocument(doc)
}

// ProcessDocumentFile reads a document from a JSON file and processes it
func (r *Regraph) ProcessDocumentFile(filePath string, documentType string) (*model.ProcessResult, error) {
	doc, err := model.NewDocumentFromFile(filePath, documentType)
	if err != nil {
		return nil, helper.NewError("read document file", err)
	}
	return r.Builder.ProcessDocument(doc)
}

// ProcessChunked splits a long document with the given chunker and processes
// the chunks as a batch. Use pipeline.SentenceChunker or
// pipeline.ParagraphChunker for rule-based splitting, or
// pipeline.SemanticChunker for embedding-based boundaries.
func (r *Regraph) ProcessChunked(doc *model.Document, chunker pipeline.ChunkFunc) (*model.BatchResult, error) {
	chunks, err := pipeline.ChunkDocument(doc, chunker)
	if err != nil {
		return nil, err
	}
	return r.Builder.ProcessBatch(chunks), nil
}

// ProcessBatch processes a batch of documents.
// A document that fails does not stop the batch, failures are counted in the result.
func (r *Regraph) ProcessBatch(docs []*model.Document) *model.BatchResult {
	return r.Builder.ProcessBatch(docs)
}

// FindEntityViolations returns all violations connected to the named entity.
// The name is normalized the same way as during graph construction.
func (r *Regraph) FindEntityViolations(entityName string) []model.ViolationHit {
	return r.Builder.FindEntityViolations(entityName)
}

// FindSimilarCases returns entities that committed the given violation type,
// ordered by citation count
func (r *Regraph) FindSimilarCases(violationType string, limit int) []model.SimilarCase {
	return r.Builder.FindSimilarCases(violationType, limit)
}

// MultiHop traverses the graph from a start node, visiting up to maxHops
// hops out and recording the closing edges of nodes at the bound,
// optionally restricted to the given relation types
func (r *Regraph) MultiHop(startID string, maxHops int, relationFilter []model.RelationType) *graph.TraversalResult {
	return r.Store.MultiHop(startID, maxHops, relationFilter)
}

// Statistics returns graph-level statistics
func (r *Regraph) Statistics() model.Statistics {
	return r.Store.Statistics()
}

// DomainStatistics returns graph statistics plus domain counters and
// most-cited entities and violations
func (r *Regraph) DomainStatistics() model.DomainStatistics {
	return r.Builder.DomainStatistics()
}

// Save writes the graph to a snapshot file
func (r *Regraph) Save(path string) error {
	return r.Store.Save(path)
}

// Load replaces the graph contents with a snapshot file.
// A missing file is reported as found=false, not an error.
func (r *Regraph) Load(path string) (bool, error) {
	return r.Store.Load(path)
}

// ExportJSON writes the node-link view of the graph for visualization tooling
func (r *Regraph) ExportJSON(path string) error {
	return r.Store.ExportJSON(path)
}

// Clear removes all nodes and edges from the graph
func (r *Regraph) Clear() {
	r.Store.Clear()
}

// SaveSnapshot persists the current graph as a new snapshot version in the database
func (r *Regraph) SaveSnapshot() (*model.SnapshotRecord, error) {
	if r.Snapshots == nil {
		return nil, helper.NewError("save snapshot", fmt.Errorf("database not attached, use UseDatabase() first"))
	}

	record, err := r.Snapshots.SaveSnapshot(r.Store.Snapshot())
	if err != nil {
		return nil, helper.NewError("save snapshot", err)
	}

	r.log.Info("Saved graph snapshot",
		slog.String("snapshot_id", record.ID.String()),
		slog.Int("nodes", record.NodeCount),
		slog.Int("edges", record.EdgeCount),
	)
	return record, nil
}

// LoadSnapshot replaces the graph contents with a stored snapshot version
func (r *Regraph) LoadSnapshot(id uuid.UUID) error {
	if r.Snapshots == nil {
		return helper.NewError("load snapshot", fmt.Errorf("database not attached, use UseDatabase() first"))
	}

	snap, err := r.Snapshots.LoadSnapshot(id)
	if err != nil {
		return helper.NewError("load snapshot", err)
	}

	r.Store.Restore(snap)
	return nil
}

// LoadLatestSnapshot replaces the graph contents with the most recently saved
// snapshot of this graph. A graph without snapshots is reported as found=false.
func (r *Regraph) LoadLatestSnapshot() (bool, error) {
	if r.Snapshots == nil {
		return false, helper.NewError("load latest snapshot", fmt.Errorf("database not attached, use UseDatabase() first"))
	}

	snap, record, err := r.Snapshots.LoadLatestSnapshot(r.Store.Name())
	if err != nil {
		return false, helper.NewError("load latest snapshot", err)
	}
	if record == nil {
		return false, nil
	}

	r.Store.Restore(snap)
	return true, nil
}
