package service

import (
	"strings"

	complianceDomain "github.com/riskforge/compliance/internal/compliance/domain"
)

// maxClassifyDepth bounds recursion into nested payloads so adversarially
// deep structures cannot blow the stack or the latency budget.
const maxClassifyDepth = 10

// Keyword sets matched case-insensitively as substrings of field names.
var (
	personalKeywords = []string{
		"name", "email", "phone", "address", "birth", "ssn", "passport",
	}
	financialKeywords = []string{
		"account", "balance", "payment", "credit", "card", "iban", "salary",
		"invoice", "transaction",
	}
	healthKeywords = []string{
		"health", "medical", "diagnosis", "prescription", "patient", "treatment",
	}
	securityKeywords = []string{
		"password", "secret", "token", "credential", "vulnerability", "risk",
	}
)

// keywordClassifier implements Classifier with a fixed keyword scan over
// field names.
type keywordClassifier struct{}

// NewKeywordClassifier creates the keyword-based Classifier.
func NewKeywordClassifier() Classifier {
	return &keywordClassifier{}
}

// Classify walks the payload and derives the classification.
//
// A personal or financial match raises the level to confidential, a health
// match to restricted; restricted dominates. A security match adds the
// category tag without raising the level. An empty payload classifies as
// internal with no categories.
func (c *keywordClassifier) Classify(payload map[string]any) *complianceDomain.DataClassification {
	classification := &complianceDomain.DataClassification{
		Level: complianceDomain.LevelInternal,
	}

	c.walk(payload, 0, classification)

	if classification.PersonalData {
		classification.Categories = append(classification.Categories, complianceDomain.CategoryPersonal)
		classification.Level = classification.Level.Max(complianceDomain.LevelConfidential)
	}
	if classification.FinancialData {
		classification.Categories = append(classification.Categories, complianceDomain.CategoryFinancial)
		classification.Level = classification.Level.Max(complianceDomain.LevelConfidential)
	}
	if classification.HealthData {
		classification.Categories = append(classification.Categories, complianceDomain.CategoryHealth)
		classification.Level = classification.Level.Max(complianceDomain.LevelRestricted)
	}

	return classification
}

// walk recursively matches field names against the keyword sets, descending
// into nested objects and arrays up to maxClassifyDepth.
func (c *keywordClassifier) walk(
	payload map[string]any,
	depth int,
	classification *complianceDomain.DataClassification,
) {
	if depth >= maxClassifyDepth {
		return
	}

	for field, value := range payload {
		name := strings.ToLower(field)

		if !classification.PersonalData && matchesAny(name, personalKeywords) {
			classification.PersonalData = true
		}
		if !classification.FinancialData && matchesAny(name, financialKeywords) {
			classification.FinancialData = true
		}
		if !classification.HealthData && matchesAny(name, healthKeywords) {
			classification.HealthData = true
		}
		if matchesAny(name, securityKeywords) {
			classification.Categories = appendUnique(
				classification.Categories, complianceDomain.CategorySecurity)
		}

		c.walkValue(value, depth, classification)
	}
}

// walkValue descends into nested objects and arrays; scalars carry no field
// names and are ignored.
func (c *keywordClassifier) walkValue(
	value any,
	depth int,
	classification *complianceDomain.DataClassification,
) {
	switch v := value.(type) {
	case map[string]any:
		c.walk(v, depth+1, classification)
	case []any:
		for _, item := range v {
			c.walkValue(item, depth+1, classification)
		}
	}
}

func matchesAny(name string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(name, keyword) {
			return true
		}
	}
	return false
}

func appendUnique(values []string, value string) []string {
	for _, v := range values {
		if v == value {
			return values
		}
	}
	return append(values, value)
}
