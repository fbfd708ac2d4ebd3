package extract

import (
	"fmt"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/siherrmann/regraph/helper"
)

// DefaultNER creates a NER capability backed by a token classification model.
// Uses the KnightsAnalytics optimized distilbert-NER model, which detects
// PER, ORG, LOC and MISC entities. The model is downloaded on first use.
func DefaultNER() (NERFunc, error) {
	modelName := "KnightsAnalytics/distilbert-NER"
	modelPath, err := helper.PrepareModel(modelName, "model.onnx")
	if err != nil {
		return nil, err
	}

	// Initialize hugot session with Go backend
	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	// Create token classification pipeline for NER
	config := hugot.TokenClassificationConfig{
		ModelPath: modelPath,
		Name:      "ner-pipeline",
		Options: []hugot.TokenClassificationOption{
			pipelines.WithSimpleAggregation(),
			pipelines.WithIgnoreLabels([]string{"O"}), // Ignore non-entity tokens
		},
	}
	nerPipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create NER pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create NER pipeline: %w", err)
	}

	return func(text string) ([]NERSpan, error) {
		result, err := nerPipeline.RunPipeline([]string{text})
		if err != nil {
			return nil, fmt.Errorf("failed to run NER: %w", err)
		}

		if len(result.Entities) == 0 {
			return nil, nil
		}

		var spans []NERSpan
		for _, entity := range result.Entities[0] {
			spans = append(spans, NERSpan{
				Text:       strings.TrimSpace(entity.Word),
				Label:      normalizeNERLabel(entity.Entity),
				Start:      int(entity.Start),
				End:        int(entity.End),
				Confidence: float64(entity.Score),
			})
		}

		return spans, nil
	}, nil
}

// normalizeNERLabel removes B- and I- prefixes from BIO-tagged NER labels
func normalizeNERLabel(label string) string {
	if strings.HasPrefix(label, "B-") {
		return label[2:]
	}
	if strings.HasPrefix(label, "I-") {
		return label[2:]
	}
	return label
}
