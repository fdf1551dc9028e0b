package search

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/grimoire/internal/domain"
)

// CachedSource supplies collections without touching the network.
// library.Service implements it.
type CachedSource interface {
	CachedItems(kind domain.Kind) ([]domain.ListItem, bool)
}

// Result is one search hit with match metadata for highlighting
type Result struct {
	Item           domain.ListItem
	MatchedIndexes []int
	Score          int
}

// Service searches whatever collections are already cached.
type Service struct {
	source CachedSource
	logger *slog.Logger
}

// NewService creates a new search service
func NewService(source CachedSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, logger: logger}
}

// Search ranks cached items of the given kinds (nil = all kinds) against
// query. Collections that have not been loaded are skipped.
func (s *Service) Search(query string, kinds []domain.Kind) []Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if len(kinds) == 0 {
		kinds = domain.Kinds
	}

	var items []domain.ListItem
	for _, kind := range kinds {
		cached, ok := s.source.CachedItems(kind)
		if !ok {
			continue
		}
		items = append(items, cached...)
	}
	if len(items) == 0 {
		return nil
	}

	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.GetTitle()
	}

	matches := Rank(query, titles)
	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Item:           items[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	s.logger.Debug("search complete", "query", query, "candidates", len(items), "results", len(results))
	return results
}

// Suggest returns up to limit titles closest to query, for "did you mean"
// hints when Search finds nothing. Ordering is by edit distance.
func (s *Service) Suggest(query string, kind domain.Kind, limit int) []string {
	cached, ok := s.source.CachedItems(kind)
	if !ok || query == "" {
		return nil
	}
	titles := make([]string, len(cached))
	for i, item := range cached {
		titles[i] = item.GetTitle()
	}

	ranks := fuzzy.RankFindFold(query, titles)
	if len(ranks) == 0 {
		return nil
	}
	sort.Sort(ranks)
	out := make([]string, 0, limit)
	for _, r := range ranks {
		if len(out) == limit {
			break
		}
		out = append(out, r.Target)
	}
	return out
}
