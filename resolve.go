package docmirror

import (
	"sort"
	"strings"
	"unicode"
)

// Scoring weights for query resolution. A query token found among a
// document's topics is worth more than one found in its summary text.
const (
	topicMatchScore   = 3
	summaryMatchScore = 1
)

// Match is one scored query result.
type Match struct {
	Reference string `json:"reference"`
	Title     string `json:"title"`
	Score     int    `json:"score"`
}

// QueryTokens lowercases a query and splits it on non-alphanumeric
// runes, deduplicating while preserving first-seen order.
func QueryTokens(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]bool, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		tokens = append(tokens, f)
	}
	return tokens
}

// ResolveQuery scores a source's documents against the query and
// returns up to topK matches, best first. Each distinct query token
// contributes once per scoring channel: topic hits score 3, summary
// hits score 1, and a token present in both scores 4. Documents that
// score zero and documents whose last fetch failed are omitted. Ties
// are broken by manifest order, so equal inputs always produce equal
// output.
func ResolveQuery(src *Source, query string, topK int) []Match {
	tokens := QueryTokens(query)
	if len(tokens) == 0 || src == nil {
		return nil
	}

	type scored struct {
		match Match
		pos   int
	}
	var results []scored
	for pos, d := range src.Descriptors {
		// A document whose last fetch failed is never returned, even
		// when carried-forward metadata would match.
		if d.FetchStatus == FetchFailed {
			continue
		}
		score := scoreDescriptor(d, tokens)
		if score == 0 {
			continue
		}
		results = append(results, scored{
			match: Match{Reference: d.Reference, Title: d.Title, Score: score},
			pos:   pos,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].match.Score != results[j].match.Score {
			return results[i].match.Score > results[j].match.Score
		}
		return results[i].pos < results[j].pos
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = r.match
	}
	return matches
}

func scoreDescriptor(d *Descriptor, tokens []string) int {
	summary := strings.ToLower(d.Summary)

	// Topics match on whole tokens, so "api" does not hit "rapid".
	topicTokens := make(map[string]bool)
	for _, t := range d.Topics {
		for _, tt := range QueryTokens(t) {
			topicTokens[tt] = true
		}
	}

	score := 0
	for _, tok := range tokens {
		if topicTokens[tok] {
			score += topicMatchScore
		}
		if strings.Contains(summary, tok) {
			score += summaryMatchScore
		}
	}
	return score
}
