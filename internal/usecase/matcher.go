package usecase

import (
	"regexp"
	"strings"

	"github.com/platewise/nutrition-engine/internal/domain"
)

var punctuationRegex = regexp.MustCompile(`[^\w\s]`)

// matchStopWords are tokens that carry no signal when comparing a queued
// ingredient name against external record descriptions.
var matchStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "in": true, "on": true, "with": true, "for": true,
	"raw": true, "fresh": true, "frozen": true, "canned": true,
	"oz": true, "g": true, "ml": true, "pack": true, "count": true,
}

// bestMatchIndex picks the external record whose description best overlaps
// the queued name, by fraction of name tokens found in the description.
// When nothing scores above zero the first record wins, preserving the
// "any result counts" contract of the discovery pipeline.
func bestMatchIndex(name string, records []domain.ExternalRecord) int {
	nameTokens := tokenize(name)
	if len(nameTokens) == 0 || len(records) == 0 {
		return 0
	}

	bestIdx := 0
	bestScore := 0.0
	for i, rec := range records {
		score := overlapScore(nameTokens, tokenize(rec.Description))
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	return bestIdx
}

// tokenize lowercases, strips punctuation and drops stop words.
func tokenize(s string) []string {
	s = strings.ToLower(s)
	s = punctuationRegex.ReplaceAllString(s, " ")

	fields := strings.Fields(s)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if !matchStopWords[f] {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// overlapScore is the fraction of query tokens present in the candidate.
func overlapScore(query, candidate []string) float64 {
	if len(query) == 0 || len(candidate) == 0 {
		return 0
	}
	candidateSet := make(map[string]bool, len(candidate))
	for _, t := range candidate {
		candidateSet[t] = true
	}

	matched := 0
	for _, t := range query {
		if candidateSet[t] {
			matched++
		}
	}
	return float64(matched) / float64(len(query))
}
