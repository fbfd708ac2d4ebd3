package extract

import (
	"testing"

	"github.com/siherrmann/regraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapNERLabel(t *testing.T) {
	t.Run("Known labels map to domain types", func(t *testing.T) {
		assert.Equal(t, model.NodeTypeEntity, mapNERLabel("ORG"))
		assert.Equal(t, model.NodeTypeEntity, mapNERLabel("ORGANIZATION"))
		assert.Equal(t, model.NodeTypePerson, mapNERLabel("PER"))
		assert.Equal(t, model.NodeTypeLocation, mapNERLabel("GPE"))
		assert.Equal(t, model.NodeTypePenalty, mapNERLabel("MONEY"))
		assert.Equal(t, model.NodeTypeDate, mapNERLabel("DATE"))
		assert.Equal(t, model.NodeTypeNumber, mapNERLabel("CARDINAL"))
		assert.Equal(t, model.NodeTypeRegulation, mapNERLabel("LAW"))
	})

	t.Run("Unknown labels map to empty type", func(t *testing.T) {
		assert.Equal(t, model.NodeType(""), mapNERLabel("MISC"))
		assert.Equal(t, model.NodeType(""), mapNERLabel(""))
	})
}

func TestPenaltyPatterns(t *testing.T) {
	match := func(text string) string {
		for _, pattern := range penaltyPatterns {
			if loc := pattern.FindStringIndex(text); loc != nil {
				return text[loc[0]:loc[1]]
			}
		}
		return ""
	}

	t.Run("Rupee symbol amounts", func(t *testing.T) {
		assert.Equal(t, "₹50,00,000", match("a penalty amounting to ₹50,00,000 was imposed"))
		assert.Equal(t, "₹5 lakh", match("shall pay ₹5 lakh within 45 days"))
		assert.Equal(t, "₹1.5 crore", match("disgorgement of ₹1.5 crore"))
	})

	t.Run("Rs and INR amounts", func(t *testing.T) {
		assert.Equal(t, "Rs. 10 lakh", match("a fine of Rs. 10 lakh"))
		assert.Equal(t, "INR 2,00,000", match("an amount of INR 2,00,000 payable"))
	})

	t.Run("No match without an amount", func(t *testing.T) {
		assert.Empty(t, match("a monetary penalty was imposed"))
	})
}

func TestCompanyPatterns(t *testing.T) {
	match := func(text string) []string {
		var names []string
		for _, pattern := range companyPatterns {
			for _, loc := range pattern.FindAllStringIndex(text, -1) {
				names = append(names, text[loc[0]:loc[1]])
			}
		}
		return names
	}

	t.Run("Mixed-case company with suffix", func(t *testing.T) {
		names := match("Apex Traders Ltd. entered into the transactions")
		assert.Contains(t, names, "Apex Traders Ltd.")
	})

	t.Run("Acronym company with suffix", func(t *testing.T) {
		names := match("NSDL Ltd. acted as depository")
		assert.Contains(t, names, "NSDL Ltd.")
	})

	t.Run("No suffix no match", func(t *testing.T) {
		assert.Empty(t, match("Apex Traders entered into the transactions"))
	})
}

func TestRelationshipPatterns(t *testing.T) {
	firstMatch := func(relation model.RelationType, text string) []string {
		for _, pattern := range relationshipPatterns[relation] {
			match := pattern.FindStringSubmatch(text)
			if match != nil {
				return match
			}
		}
		return nil
	}

	t.Run("Committed via guilty of", func(t *testing.T) {
		match := firstMatch(model.RelationCommitted,
			"XYZ Industries Ltd. was found guilty of insider trading.")
		require.NotNil(t, match, "Expected a COMMITTED pattern to match")
		assert.Equal(t, "XYZ Industries Ltd.", match[1])
		assert.Equal(t, "insider trading", match[2])
	})

	t.Run("Committed via engaged in", func(t *testing.T) {
		match := firstMatch(model.RelationCommitted,
			"Apex Traders Ltd. engaged in market manipulation during the period.")
		require.NotNil(t, match)
		assert.Equal(t, "Apex Traders Ltd.", match[1])
		assert.Equal(t, "market manipulation", match[2])
	})

	t.Run("Penalized by regulator", func(t *testing.T) {
		match := firstMatch(model.RelationPenalizedBy,
			"SEBI thereafter penalized Apex Traders for the violations.")
		require.NotNil(t, match, "Expected a PENALIZED_BY pattern to match")
	})

	t.Run("Similar to case reference", func(t *testing.T) {
		match := firstMatch(model.RelationSimilarTo,
			"The facts are similar to case no. SAT/104/2019 cited above.")
		require.NotNil(t, match, "Expected a SIMILAR_TO pattern to match")
		assert.Equal(t, "SAT/104/2019", match[1])
	})

	t.Run("Received penalty with amount", func(t *testing.T) {
		match := firstMatch(model.RelationReceivedPenalty,
			"a penalty of ₹25,00,000 imposed on Apex Traders under section 15HA")
		require.NotNil(t, match, "Expected a RECEIVED_PENALTY pattern to match")
	})
}

func TestViolationVocabulary(t *testing.T) {
	t.Run("Vocabulary phrases compile case-insensitively", func(t *testing.T) {
		require.Len(t, violationRegexps, len(violationVocabulary))
		assert.True(t, violationRegexps[0].MatchString("alleged INSIDER TRADING by the promoters"))
	})
}
