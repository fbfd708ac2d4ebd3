package build

import (
	"sort"
	"strings"

	"github.com/siherrmann/regraph/model"
)

// FindEntityViolations returns all violations associated with an entity,
// one entry per edge, so parallel edges to the same violation are all
// reported. An unknown entity yields an empty result, not an error.
func (b *Builder) FindEntityViolations(entityName string) []model.ViolationHit {
	entityID := NormalizeID(entityName, model.NodeTypeEntity)

	if _, ok := b.store.GetNode(entityID); !ok {
		return nil
	}

	var hits []model.ViolationHit
	for _, neighborID := range b.store.GetNeighbors(entityID, "") {
		neighbor, ok := b.store.GetNode(neighborID)
		if !ok || neighbor.Type != model.NodeTypeViolation {
			continue
		}

		for _, edge := range b.store.EdgesBetween(entityID, neighborID) {
			hits = append(hits, model.ViolationHit{
				Violation:   neighbor.Name,
				ViolationID: neighborID,
				Relation:    edge.Relation,
				Confidence:  edge.Confidence,
				Context:     edge.Context,
			})
		}
	}

	return hits
}

// FindSimilarCases returns entities associated with the given violation
// type, ordered by citation count descending with ties kept in insertion
// order, truncated to limit. An unknown violation yields an empty result.
func (b *Builder) FindSimilarCases(violationType string, limit int) []model.SimilarCase {
	violationID := NormalizeID(violationType, model.NodeTypeViolation)

	if _, ok := b.store.GetNode(violationID); !ok {
		return nil
	}

	var cases []model.SimilarCase
	for _, entityID := range b.store.FindNodesByType(model.NodeTypeEntity) {
		entity, ok := b.store.GetNode(entityID)
		if !ok {
			continue
		}

		for _, hit := range b.FindEntityViolations(entity.Name) {
			if strings.EqualFold(hit.Violation, violationType) {
				cases = append(cases, model.SimilarCase{
					Entity:        entity.Name,
					EntityID:      entityID,
					Violation:     hit.Violation,
					CitationCount: entity.CitationCount,
					Documents:     entity.Documents,
				})
			}
		}
	}

	// More citations first, stable so insertion order breaks ties
	sort.SliceStable(cases, func(i, j int) bool {
		return cases[i].CitationCount > cases[j].CitationCount
	})

	if limit > 0 && len(cases) > limit {
		cases = cases[:limit]
	}
	return cases
}

// DomainStatistics returns the base graph statistics extended with domain
// node counts, the running extraction counters and the ten most cited
// entities and violations.
func (b *Builder) DomainStatistics() model.DomainStatistics {
	return model.DomainStatistics{
		Statistics: b.store.Statistics(),
		Domain: model.DomainCounts{
			Entities:               len(b.store.FindNodesByType(model.NodeTypeEntity)),
			Violations:             len(b.store.FindNodesByType(model.NodeTypeViolation)),
			Documents:              len(b.store.FindNodesByType(model.NodeTypeDocument)),
			Regulators:             len(b.store.FindNodesByType(model.NodeTypeRegulator)),
			Penalties:              len(b.store.FindNodesByType(model.NodeTypePenalty)),
			ProcessedDocuments:     b.processedDocuments,
			ExtractedEntities:      b.extractedEntities,
			ExtractedRelationships: b.extractedRelationships,
		},
		TopEntities:   b.topCitations(model.NodeTypeEntity, 10),
		TopViolations: b.topCitations(model.NodeTypeViolation, 10),
	}
}

// topCitations ranks nodes of a type by citation count descending,
// stable so insertion order breaks ties.
func (b *Builder) topCitations(nodeType model.NodeType, limit int) []model.NodeCitation {
	var citations []model.NodeCitation
	for _, id := range b.store.FindNodesByType(nodeType) {
		node, ok := b.store.GetNode(id)
		if !ok {
			continue
		}
		citations = append(citations, model.NodeCitation{
			ID:        id,
			Name:      node.Name,
			Citations: node.CitationCount,
		})
	}

	sort.SliceStable(citations, func(i, j int) bool {
		return citations[i].Citations > citations[j].Citations
	})

	if len(citations) > limit {
		citations = citations[:limit]
	}
	return citations
}
