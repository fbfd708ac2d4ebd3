package model

import (
	"os"
	"path/filepath"
	"time"
)

// Document represents one pre-processed chunk of an enforcement document
// as delivered by the acquisition pipeline. Content is the raw text the
// extractor runs over; ViolationTypes and Entities are pre-classified
// metadata that is merged into the graph independently of extraction.
type Document struct {
	DocumentID     string     `json:"document_id"`
	ChunkIndex     int        `json:"chunk_index"`
	Title          string     `json:"title"`
	DocumentType   string     `json:"document_type"`
	Date           *time.Time `json:"date,omitempty"`
	URL            string     `json:"url,omitempty"`
	Content        string     `json:"content"`
	ViolationTypes []string   `json:"violation_types,omitempty"`
	Entities       []string   `json:"entities,omitempty"`
}

// NewDocumentFromFile reads a file and creates a Document with the file content.
// The document ID defaults to the filename, the title to the filename without extension.
func NewDocumentFromFile(filePath string, documentType string) (*Document, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	// Get filename without extension for default title
	filename := filepath.Base(filePath)
	title := filename[:len(filename)-len(filepath.Ext(filename))]
	if title == "" {
		title = filename
	}

	return &Document{
		DocumentID:   filename,
		Title:        title,
		DocumentType: documentType,
		URL:          filePath,
		Content:      string(content),
	}, nil
}

// ContentPreview returns the first n characters of the document content,
// stored on document nodes so queries can show a snippet without the full text.
func (d *Document) ContentPreview(n int) string {
	if len(d.Content) <= n {
		return d.Content
	}
	return d.Content[:n]
}
