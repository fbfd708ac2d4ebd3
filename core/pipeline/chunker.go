package pipeline

import (
	"fmt"
	"math"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/siherrmann/regraph/helper"
	"github.com/siherrmann/regraph/model"
)

// ChunkFunc splits raw document text into chunk texts. Enforcement orders
// regularly run to dozens of pages, so they are split before extraction to
// keep pattern contexts local.
type ChunkFunc func(text string) ([]string, error)

// ChunkDocument splits a document's content with the given chunker and
// returns one document per chunk. All chunks share the source document's
// identity and metadata, only ChunkIndex and Content differ.
func ChunkDocument(doc *model.Document, chunker ChunkFunc) ([]*model.Document, error) {
	texts, err := chunker(doc.Content)
	if err != nil {
		return nil, helper.NewError("chunk document", err)
	}

	chunks := make([]*model.Document, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, &model.Document{
			DocumentID:     doc.DocumentID,
			ChunkIndex:     i,
			Title:          doc.Title,
			DocumentType:   doc.DocumentType,
			Date:           doc.Date,
			URL:            doc.URL,
			Content:        text,
			ViolationTypes: doc.ViolationTypes,
			Entities:       doc.Entities,
		})
	}
	return chunks, nil
}

// SentenceChunker creates a chunker that groups up to maxSentencesPerChunk
// sentences per chunk
func SentenceChunker(maxSentencesPerChunk int) ChunkFunc {
	return func(text string) ([]string, error) {
		if maxSentencesPerChunk <= 0 {
			return nil, fmt.Errorf("max sentences per chunk must be positive")
		}

		sentences := splitSentences(text)
		if len(sentences) == 0 {
			return []string{}, nil
		}

		var chunks []string
		for start := 0; start < len(sentences); start += maxSentencesPerChunk {
			end := start + maxSentencesPerChunk
			if end > len(sentences) {
				end = len(sentences)
			}
			chunks = append(chunks, strings.Join(sentences[start:end], " "))
		}
		return chunks, nil
	}
}

// ParagraphChunker creates a chunker that splits on blank lines
func ParagraphChunker() ChunkFunc {
	return func(text string) ([]string, error) {
		var chunks []string
		for _, para := range strings.Split(text, "\n\n") {
			para = strings.TrimSpace(para)
			if para != "" {
				chunks = append(chunks, para)
			}
		}
		return chunks, nil
	}
}

// splitSentences splits on sentence-ending punctuation followed by a space
func splitSentences(text string) []string {
	text = strings.ReplaceAll(text, "! ", "!|")
	text = strings.ReplaceAll(text, "? ", "?|")
	text = strings.ReplaceAll(text, ". ", ".|")

	var sentences []string
	for _, s := range strings.Split(text, "|") {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// cosineSimilarity calculates the cosine similarity between two embedding vectors
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float32
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}

// SemanticChunker creates a chunker that uses sentence embeddings to place
// chunk boundaries where semantic similarity drops. The embedding model is
// downloaded on first use.
func SemanticChunker(maxChunkSize int, similarityThreshold float32) ChunkFunc {
	return func(text string) ([]string, error) {
		sentences := splitSentences(text)
		if len(sentences) == 0 {
			return nil, fmt.Errorf("no sentences found in text")
		}

		modelPath, err := helper.PrepareModel("sentence-transformers/all-MiniLM-L6-v2", "")
		if err != nil {
			return nil, err
		}

		session, err := hugot.NewGoSession()
		if err != nil {
			return nil, fmt.Errorf("failed to create hugot session: %w", err)
		}
		defer session.Destroy()

		config := hugot.FeatureExtractionConfig{
			ModelPath: modelPath,
			Name:      "semantic-chunker-pipeline",
		}
		sentencePipeline, err := hugot.NewPipeline(session, config)
		if err != nil {
			return nil, fmt.Errorf("failed to create sentence pipeline: %w", err)
		}

		embeddingResult, err := sentencePipeline.RunPipeline(sentences)
		if err != nil {
			return nil, fmt.Errorf("failed to generate embeddings: %w", err)
		}

		embeddings := embeddingResult.Embeddings
		if len(embeddings) != len(sentences) {
			return nil, fmt.Errorf("embedding count mismatch: got %d embeddings for %d sentences", len(embeddings), len(sentences))
		}

		var chunks []string
		var currentChunk []string
		var currentEmbeddings [][]float32
		var currentLength int

		for i, sentence := range sentences {
			if len(currentChunk) > 0 {
				// Average embedding of the chunk so far
				avgEmbedding := make([]float32, len(currentEmbeddings[0]))
				for _, emb := range currentEmbeddings {
					for j := range emb {
						avgEmbedding[j] += emb[j]
					}
				}
				for j := range avgEmbedding {
					avgEmbedding[j] /= float32(len(currentEmbeddings))
				}

				similarity := cosineSimilarity(avgEmbedding, embeddings[i])
				if similarity < similarityThreshold || currentLength+len(sentence) > maxChunkSize {
					chunks = append(chunks, strings.Join(currentChunk, " "))
					currentChunk = nil
					currentEmbeddings = nil
					currentLength = 0
				}
			}

			currentChunk = append(currentChunk, sentence)
			currentEmbeddings = append(currentEmbeddings, embeddings[i])
			currentLength += len(sentence)
		}

		if len(currentChunk) > 0 {
			chunks = append(chunks, strings.Join(currentChunk, " "))
		}
		return chunks, nil
	}
}
