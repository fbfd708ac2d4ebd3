package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocumentFromFile(t *testing.T) {
	t.Run("Defaults derived from the file path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "order_123.txt")
		err := os.WriteFile(path, []byte("XYZ Industries Ltd. committed fraud."), 0644)
		require.NoError(t, err)

		doc, err := NewDocumentFromFile(path, "enforcement_order")
		require.NoError(t, err)

		assert.Equal(t, "order_123.txt", doc.DocumentID)
		assert.Equal(t, "order_123", doc.Title)
		assert.Equal(t, "enforcement_order", doc.DocumentType)
		assert.Equal(t, path, doc.URL)
		assert.Equal(t, "XYZ Industries Ltd. committed fraud.", doc.Content)
		assert.Equal(t, 0, doc.ChunkIndex)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := NewDocumentFromFile(filepath.Join(t.TempDir(), "nope.txt"), "enforcement_order")
		assert.Error(t, err)
	})

	t.Run("Extension-only filename keeps the full name as title", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".hidden")
		err := os.WriteFile(path, []byte("content"), 0644)
		require.NoError(t, err)

		doc, err := NewDocumentFromFile(path, "note")
		require.NoError(t, err)
		assert.Equal(t, ".hidden", doc.Title)
	})
}

func TestContentPreview(t *testing.T) {
	doc := &Document{Content: "0123456789"}

	assert.Equal(t, "01234", doc.ContentPreview(5))
	assert.Equal(t, "0123456789", doc.ContentPreview(10))
	assert.Equal(t, "0123456789", doc.ContentPreview(100), "Expected short content to be returned whole")
	assert.Equal(t, "", doc.ContentPreview(0))
}
