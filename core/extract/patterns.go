package extract

import (
	"regexp"

	"github.com/siherrmann/regraph/model"
)

// violationVocabulary is the fixed set of violation phrases matched
// case-insensitively as Violation entities, independent of NER output.
var violationVocabulary = []string{
	"insider trading", "market manipulation", "price rigging",
	"wash trading", "front running", "churning", "pump and dump",
	"ponzi scheme", "fraud", "misrepresentation", "disclosure violation",
	"circular trading", "matched orders", "fictitious trades",
	"false market", "spoofing", "layering", "corporate governance",
	"money laundering", "unfair trade practice", "market abuse",
}

// entityStopwords filters out generic legal and procedural terms that the
// NER model tends to pick up but that never identify a real-world party.
var entityStopwords = map[string]bool{
	"inter alia": true, "individuals": true, "companies": true, "parties": true,
	"entities": true, "persons": true, "appellant": true, "respondent": true,
	"petitioner": true, "noticee": true, "scn": true, "etc": true, "viz": true,
	"vide": true, "ibid": true, "supra": true, "infra": true,
	"show cause notice": true, "interim order": true, "final order": true,
	"adjudication order": true, "settlement order": true, "consent order": true,
	"applicant": true, "appellee": true, "claimant": true, "defendant": true,
	"case": true, "matter": true, "proceedings": true, "order": true,
	"notice": true, "regulation": true, "provision": true, "clause": true,
	"section": true, "act": true, "board": true, "tribunal": true,
	"authority": true, "commission": true, "the company": true,
	"the entity": true, "the person": true, "the individual": true,
	"said": true, "same": true, "aforesaid": true, "aforementioned": true,
}

// knownRegulators maps regulator abbreviations used in endpoint type inference
var knownRegulators = map[string]bool{
	"sebi": true, "rbi": true, "irdai": true, "pfrda": true,
}

// dateKeywords gates Date entities, numberKeywords gates Number entities:
// the entity is kept only if its context window contains one of them.
var dateKeywords = []string{"order", "violation", "penalty", "dated", "adjudication", "enforcement"}
var numberKeywords = []string{"₹", "rupees", "lakh", "crore", "penalty", "fine", "amount", "rs"}

// penaltyPatterns match currency amounts, symbol-prefixed or suffixed with
// lakh/crore magnitude words.
var penaltyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)₹\s*\d+(?:,\d+)*(?:\.\d+)?(?:\s*(?:lakh|crore|L|Cr))?`),
	regexp.MustCompile(`(?i)(?:Rs\.?|INR)\s*\d+(?:,\d+)*(?:\.\d+)?(?:\s*(?:lakh|crore))?`),
	regexp.MustCompile(`(?i)penalty of ₹[\d,.]+`),
}

// companyPatterns match capitalized name sequences followed by a legal suffix
var companyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\s+(?:Ltd\.|Limited|Corporation|Corp\.|Inc\.|Private Limited|Pvt\.?\s*Ltd\.?)`),
	regexp.MustCompile(`([A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)+)\s+(?:Ltd\.|Limited)`),
	regexp.MustCompile(`([A-Z][A-Z]+)\s+(?:Ltd\.|Limited|Corporation|Corp\.)`),
}

// relationshipPatterns is the fixed table of regex templates per relationship
// type, run over the raw text. Capture groups become source/target; templates
// with a single capture synthesize source "current_case". Patterns are not
// mutually exclusive, first match wins for type inference.
var relationshipPatterns = map[model.RelationType][]*regexp.Regexp{
	model.RelationCommitted: {
		regexp.MustCompile(`(?i)([A-Z][A-Za-z\s&]+?(?:Ltd|Limited|Corporation|Corp|Inc)?\.?)\s+(?:committed|involved in|engaged in|indulged in)\s+(insider trading|fraud|market manipulation|[\w\s]+violation)`),
		regexp.MustCompile(`(?i)([A-Z][A-Za-z\s&]+?(?:Ltd|Limited|Corporation|Corp|Inc)?\.?)\s+(?:was |were )?(?:found )?guilty of\s+(insider trading|fraud|market manipulation|[\w\s]+)`),
		regexp.MustCompile(`(?i)([A-Z][A-Za-z\s&]+?)\s+(?:has |have )?violated\s+`),
		regexp.MustCompile(`(?i)violation(?:s)? (?:by|of)\s+([A-Z][A-Za-z\s&]+?)\s+`),
	},
	model.RelationPenalizedBy: {
		regexp.MustCompile(`(?i)([A-Z][A-Za-z\s&]+?(?:Ltd|Limited|Corporation|Corp|Inc)?\.?)\s+(?:was |were )?(?:directed to pay|imposed with|penalized)\s+.*?(?:by\s+)?(SEBI|Securities and Exchange Board)`),
		regexp.MustCompile(`(?i)(SEBI|Securities and Exchange Board).*?(?:imposed|directed|ordered)\s+.*?(?:penalty|fine|disgorgement)\s+(?:on|upon)\s+([A-Z][A-Za-z\s&]+)`),
		regexp.MustCompile(`(?i)(SEBI|Securities and Exchange Board).*?(?:penalized|sanctioned)\s+([A-Z][A-Za-z\s&]+)`),
		regexp.MustCompile(`(?i)([A-Z][A-Za-z\s&]+?)\s+(?:shall pay|directed to pay|ordered to pay).*?penalty`),
		regexp.MustCompile(`(?i)penalty.*?imposed on\s+([A-Z][A-Za-z\s&]+)`),
	},
	model.RelationSimilarTo: {
		regexp.MustCompile(`(?i)similar to\s+(?:case\s+)?(?:no\.?\s*)?([A-Z]+[/-]\d+[/-]\d+)`),
		regexp.MustCompile(`(?i)(?:akin|comparable|analogous) to\s+(?:the )?case\s+(?:of\s+)?([A-Z][A-Za-z\s&]+)`),
		regexp.MustCompile(`(?i)(?:in line with|consistent with|following)\s+(?:case\s+)?([A-Z]+[/-]\d+)`),
		regexp.MustCompile(`(?i)(?:vide|reference to|as in)\s+(?:case\s+)?(?:no\.?\s*)?([A-Z]+[/-]\d+)`),
	},
	model.RelationReceivedPenalty: {
		regexp.MustCompile(`(?i)([A-Z][A-Za-z\s&]+?(?:Ltd|Limited)?\.?)\s+(?:was directed to pay|shall pay|ordered to pay)\s+(₹[\d,]+\s*(?:lakh|crore)?)`),
		regexp.MustCompile(`(?i)penalty of\s+(₹[\d,]+\s*(?:lakh|crore)?)\s+(?:on|imposed on|upon)\s+([A-Z][A-Za-z\s&]+)`),
	},
}

// relationshipOrder fixes the iteration order over the pattern table so
// repeated extractions over the same text yield relationships in the same order.
var relationshipOrder = []model.RelationType{
	model.RelationCommitted,
	model.RelationPenalizedBy,
	model.RelationSimilarTo,
	model.RelationReceivedPenalty,
}

// violationRegexps are the vocabulary phrases compiled for case-insensitive matching
var violationRegexps = compileVocabulary()

func compileVocabulary() []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(violationVocabulary))
	for _, phrase := range violationVocabulary {
		compiled = append(compiled, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(phrase)))
	}
	return compiled
}

// mapNERLabel maps NER model labels to domain node types.
// Unmapped labels are dropped by returning an empty type.
func mapNERLabel(label string) model.NodeType {
	switch label {
	case "ORG", "ORGANIZATION":
		return model.NodeTypeEntity
	case "PER", "PERSON":
		return model.NodeTypePerson
	case "LOC", "GPE", "LOCATION":
		return model.NodeTypeLocation
	case "MONEY":
		return model.NodeTypePenalty
	case "DATE":
		return model.NodeTypeDate
	case "CARDINAL":
		return model.NodeTypeNumber
	case "LAW":
		return model.NodeTypeRegulation
	default:
		return ""
	}
}
