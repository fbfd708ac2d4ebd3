package model

// RawEntity is a candidate entity produced by the extractor. It is
// transient: the builder resolves it into a graph node immediately.
type RawEntity struct {
	Text       string   `json:"text"`
	Type       NodeType `json:"entity_type"`
	Start      int      `json:"start"`
	End        int      `json:"end"`
	Confidence float64  `json:"confidence"`
	Context    string   `json:"context,omitempty"`
}

// RawRelationship is a candidate relationship between two surface strings,
// produced by the extractor's pattern templates.
type RawRelationship struct {
	SourceText string       `json:"source_text"`
	SourceType NodeType     `json:"source_type"`
	Relation   RelationType `json:"relationship_type"`
	TargetText string       `json:"target_text"`
	TargetType NodeType     `json:"target_type"`
	Confidence float64      `json:"confidence"`
	Context    string       `json:"context,omitempty"`
}

// Extraction is the result of running the extractor over a single text span.
type Extraction struct {
	Entities      []RawEntity       `json:"entities"`
	Relationships []RawRelationship `json:"relationships"`
}

// EntitiesByType groups extracted entity texts by their type.
func (e *Extraction) EntitiesByType() map[NodeType][]string {
	byType := map[NodeType][]string{}
	for _, entity := range e.Entities {
		byType[entity.Type] = append(byType[entity.Type], entity.Text)
	}
	return byType
}

// ExtractionSummary summarizes an extraction for processing results.
type ExtractionSummary struct {
	Companies  int `json:"companies"`
	Violations int `json:"violations"`
	Penalties  int `json:"penalties"`
	People     int `json:"people"`
	Regulators int `json:"regulators"`
}

// Summary counts the extracted entities per domain type.
func (e *Extraction) Summary() ExtractionSummary {
	byType := e.EntitiesByType()
	return ExtractionSummary{
		Companies:  len(byType[NodeTypeEntity]),
		Violations: len(byType[NodeTypeViolation]),
		Penalties:  len(byType[NodeTypePenalty]),
		People:     len(byType[NodeTypePerson]),
		Regulators: len(byType[NodeTypeRegulator]),
	}
}
