package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Match is one ranked hit against a list of titles
type Match struct {
	Index          int   // Index in the source slice
	Score          int   // Lower is better
	MatchedIndexes []int // Rune positions in the title, for highlighting
}

// Score bands. A query word is scored against each title word and the best
// band wins.
const (
	scoreExact       = 0
	scorePrefix      = 10
	scoreContains    = 50
	scoreSubsequence = 80
	scoreTypo        = 100
	scoreExtraWord   = 5
)

// Rank matches query against titles. Every query word must match some
// title word (AND semantics, any order). Results are sorted best first.
func Rank(query string, titles []string) []Match {
	words := tokenize(query)
	if len(words) == 0 {
		return nil
	}

	var matches []Match
	for i, title := range titles {
		if m, ok := matchTitle(words, title); ok {
			m.Index = i
			matches = append(matches, m)
		}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		if matches[a].Score != matches[b].Score {
			return matches[a].Score < matches[b].Score
		}
		return len(titles[matches[a].Index]) < len(titles[matches[b].Index])
	})
	return matches
}

type token struct {
	text  string
	start int // rune offset in the original string
}

// tokenize lowercases s and splits it into letter/digit runs
func tokenize(s string) []token {
	var tokens []token
	runes := []rune(strings.ToLower(s))
	start := -1
	for i, r := range runes {
		word := unicode.IsLetter(r) || unicode.IsDigit(r)
		switch {
		case word && start < 0:
			start = i
		case !word && start >= 0:
			tokens = append(tokens, token{text: string(runes[start:i]), start: start})
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, token{text: string(runes[start:]), start: start})
	}
	return tokens
}

func matchTitle(words []token, title string) (Match, bool) {
	titleWords := tokenize(title)
	used := make([]bool, len(titleWords))

	var m Match
	for _, w := range words {
		best, bestIdx := -1, -1
		var bestIndexes []int
		for i, tw := range titleWords {
			if used[i] {
				continue
			}
			score, indexes := matchWord(w.text, tw)
			if score >= 0 && (best < 0 || score < best) {
				best, bestIdx, bestIndexes = score, i, indexes
			}
		}
		if best < 0 {
			return Match{}, false
		}
		used[bestIdx] = true
		m.Score += best
		m.MatchedIndexes = append(m.MatchedIndexes, bestIndexes...)
	}

	if extra := len(titleWords) - len(words); extra > 0 {
		m.Score += extra * scoreExtraWord
	}
	sort.Ints(m.MatchedIndexes)
	return m, true
}

// matchWord scores one query word against one title word; -1 means no match
func matchWord(q string, tw token) (int, []int) {
	t := tw.text
	qLen := len([]rune(q))

	switch {
	case q == t:
		return scoreExact, span(tw.start, qLen)
	case strings.HasPrefix(t, q):
		return scorePrefix, span(tw.start, qLen)
	case strings.Contains(t, q):
		at := len([]rune(t[:strings.Index(t, q)]))
		return scoreContains + at, span(tw.start+at, qLen)
	case fuzzy.Match(q, t):
		return scoreSubsequence + len([]rune(t)) - qLen, subsequence(q, tw)
	}

	if maxTypos := allowedTypos(qLen); maxTypos > 0 {
		if d := fuzzy.LevenshteinDistance(q, t); d <= maxTypos {
			return scoreTypo + d*20, span(tw.start, len([]rune(t)))
		}
	}
	return -1, nil
}

// allowedTypos: 1-3 chars = 0, 4-6 chars = 1, 7+ chars = 2
func allowedTypos(n int) int {
	switch {
	case n <= 3:
		return 0
	case n <= 6:
		return 1
	default:
		return 2
	}
}

func span(start, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = start + i
	}
	return out
}

// subsequence returns the positions of q's runes inside tw, matched greedily
func subsequence(q string, tw token) []int {
	qr := []rune(q)
	var out []int
	j := 0
	for i, r := range []rune(tw.text) {
		if j < len(qr) && r == qr[j] {
			out = append(out, tw.start+i)
			j++
		}
	}
	return out
}
