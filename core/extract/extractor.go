package extract

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/siherrmann/regraph/helper"
	"github.com/siherrmann/regraph/model"
)

// NERSpan is a typed span produced by a named-entity recognition capability.
// Label carries the model's native label (e.g. ORG, PER, MONEY).
type NERSpan struct {
	Text       string
	Label      string
	Start      int
	End        int
	Confidence float64
}

// NERFunc runs named-entity recognition over a text span
type NERFunc func(text string) ([]NERSpan, error)

// Extractor identifies candidate entities and relationships in enforcement
// text. NER output is combined with a fixed vocabulary of violation phrases,
// currency-amount patterns and company-name patterns; relationships come from
// a regex template table. The extractor holds no graph state.
type Extractor struct {
	ner NERFunc
	log *slog.Logger
}

// NewExtractor creates an extractor with the given NER capability.
// A nil NER capability is a configuration error: the extractor must not be
// used uninitialized.
func NewExtractor(ner NERFunc, logger *slog.Logger) (*Extractor, error) {
	if ner == nil {
		return nil, helper.NewError("create extractor", fmt.Errorf("ner capability is nil"))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{ner: ner, log: logger}, nil
}

// Extract runs entity and relationship extraction over a text span.
// Empty or whitespace-only input yields an empty extraction, not an error;
// a NER runtime failure is returned to the caller.
func (e *Extractor) Extract(text string) (*model.Extraction, error) {
	if strings.TrimSpace(text) == "" {
		return &model.Extraction{}, nil
	}

	entities, err := e.extractEntities(text)
	if err != nil {
		return nil, err
	}

	relationships := e.extractRelationships(text, entities)

	e.log.Debug("Extraction complete",
		slog.Int("entities", len(entities)),
		slog.Int("relationships", len(relationships)),
	)

	return &model.Extraction{
		Entities:      entities,
		Relationships: relationships,
	}, nil
}

func (e *Extractor) extractEntities(text string) ([]model.RawEntity, error) {
	var entities []model.RawEntity

	// Named-entity recognition, labels mapped into the domain type set
	spans, err := e.ner(text)
	if err != nil {
		return nil, helper.NewError("run ner", err)
	}
	for _, span := range spans {
		entityType := mapNERLabel(span.Label)
		if entityType == "" {
			continue
		}
		entities = append(entities, model.RawEntity{
			Text:       strings.TrimSpace(span.Text),
			Type:       entityType,
			Start:      span.Start,
			End:        span.End,
			Confidence: span.Confidence,
			Context:    contextWindow(text, span.Start, span.End, 50),
		})
	}

	// Violation vocabulary phrases
	for _, pattern := range violationRegexps {
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			entities = append(entities, model.RawEntity{
				Text:       text[loc[0]:loc[1]],
				Type:       model.NodeTypeViolation,
				Start:      loc[0],
				End:        loc[1],
				Confidence: 0.9,
				Context:    contextWindow(text, loc[0], loc[1], 50),
			})
		}
	}

	// Currency amounts
	for _, pattern := range penaltyPatterns {
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			entities = append(entities, model.RawEntity{
				Text:       text[loc[0]:loc[1]],
				Type:       model.NodeTypePenalty,
				Start:      loc[0],
				End:        loc[1],
				Confidence: 0.95,
				Context:    contextWindow(text, loc[0], loc[1], 50),
			})
		}
	}

	// Company names with legal suffixes
	for _, pattern := range companyPatterns {
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			name := text[loc[0]:loc[1]]

			// Single-word matches that are not all caps are usually artifacts
			if len(strings.Fields(name)) < 2 && !isAllUpper(name) {
				continue
			}

			entities = append(entities, model.RawEntity{
				Text:       name,
				Type:       model.NodeTypeEntity,
				Start:      loc[0],
				End:        loc[1],
				Confidence: 0.85,
				Context:    contextWindow(text, loc[0], loc[1], 50),
			})
		}
	}

	entities = dedupeEntities(entities)

	filtered := entities[:0:0]
	for _, entity := range entities {
		if shouldKeep(entity) {
			filtered = append(filtered, entity)
		}
	}

	e.log.Debug("Extracted entities",
		slog.Int("kept", len(filtered)),
		slog.Int("total", len(entities)),
	)

	return filtered, nil
}

func (e *Extractor) extractRelationships(text string, entities []model.RawEntity) []model.RawRelationship {
	var relationships []model.RawRelationship

	for _, relType := range relationshipOrder {
		for _, pattern := range relationshipPatterns[relType] {
			for _, match := range pattern.FindAllStringSubmatchIndex(text, -1) {
				source, target, ok := captureGroups(text, match, pattern.NumSubexp())
				if !ok {
					continue
				}

				relationships = append(relationships, model.RawRelationship{
					SourceText: source,
					SourceType: inferEntityType(source, entities),
					Relation:   relType,
					TargetText: target,
					TargetType: inferEntityType(target, entities),
					Confidence: 0.7,
					Context:    contextWindow(text, match[0], match[1], 100),
				})
			}
		}
	}

	return relationships
}

// captureGroups extracts source and target strings from a submatch index
// slice. Templates with two or more captures map them to source and target;
// single-capture templates synthesize the source as the current case.
func captureGroups(text string, match []int, numGroups int) (string, string, bool) {
	group := func(i int) (string, bool) {
		if 2*i+1 >= len(match) || match[2*i] < 0 {
			return "", false
		}
		return strings.TrimSpace(text[match[2*i]:match[2*i+1]]), true
	}

	first, ok := group(1)
	if !ok || first == "" {
		return "", "", false
	}

	if numGroups >= 2 {
		if second, ok := group(2); ok && second != "" {
			return first, second, true
		}
	}

	return "current_case", first, true
}

// shouldKeep applies the quality filter: stopwords and very short strings are
// always rejected; Violation, Penalty and Regulator entities are always kept;
// Date and Number entities need an enforcement or currency keyword in their
// context window; everything else is kept unconditionally.
func shouldKeep(entity model.RawEntity) bool {
	if entityStopwords[strings.ToLower(strings.TrimSpace(entity.Text))] {
		return false
	}
	if len(entity.Text) < 3 {
		return false
	}

	switch entity.Type {
	case model.NodeTypeViolation, model.NodeTypePenalty, model.NodeTypeRegulator:
		return true
	case model.NodeTypeDate:
		return containsAny(strings.ToLower(entity.Context), dateKeywords)
	case model.NodeTypeNumber:
		return containsAny(strings.ToLower(entity.Context), numberKeywords)
	}

	return true
}

// dedupeEntities groups entities by case-insensitive text and keeps the
// highest-confidence entity from each group, preserving first-seen order.
// This is a within-single-extraction dedup, not cross-document.
func dedupeEntities(entities []model.RawEntity) []model.RawEntity {
	best := map[string]int{}
	var order []string

	for i, entity := range entities {
		key := strings.ToLower(entity.Text)
		if j, ok := best[key]; !ok {
			best[key] = i
			order = append(order, key)
		} else if entity.Confidence > entities[j].Confidence {
			best[key] = i
		}
	}

	deduplicated := make([]model.RawEntity, 0, len(order))
	for _, key := range order {
		deduplicated = append(deduplicated, entities[best[key]])
	}
	return deduplicated
}

// inferEntityType determines the type of a relationship endpoint:
// exact match against extracted entities, then known-regulator lookup,
// then violation-vocabulary membership, then a capitalization heuristic.
func inferEntityType(text string, entities []model.RawEntity) model.NodeType {
	lower := strings.ToLower(text)

	for _, entity := range entities {
		if strings.ToLower(entity.Text) == lower {
			return entity.Type
		}
	}

	if knownRegulators[lower] {
		return model.NodeTypeRegulator
	}

	for _, phrase := range violationVocabulary {
		if strings.Contains(lower, phrase) {
			return model.NodeTypeViolation
		}
	}

	if r, _ := utf8.DecodeRuneInString(text); unicode.IsUpper(r) {
		return model.NodeTypeEntity
	}

	return model.NodeTypeUnknown
}

// contextWindow slices the surrounding text, widening the cut points to rune
// boundaries so multibyte characters like ₹ are never split.
func contextWindow(text string, start, end, window int) string {
	from := start - window
	if from < 0 {
		from = 0
	}
	for from > 0 && !utf8.RuneStart(text[from]) {
		from--
	}

	to := end + window
	if to > len(text) {
		to = len(text)
	}
	for to < len(text) && !utf8.RuneStart(text[to]) {
		to++
	}

	return text[from:to]
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}
