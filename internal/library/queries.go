package library

import (
	"github.com/mmcdole/grimoire/internal/domain"
	"github.com/mmcdole/grimoire/internal/query"
)

// Cache-only reads. None of these touch the network.

func (s *Service) CachedHouses() ([]domain.House, bool) {
	return query.Peek[[]domain.House](s.cache, query.CollectionKey(domain.KindHouses))
}

func (s *Service) CachedSpells() ([]domain.Spell, bool) {
	return query.Peek[[]domain.Spell](s.cache, query.CollectionKey(domain.KindSpells))
}

func (s *Service) CachedElixirs() ([]domain.Elixir, bool) {
	return query.Peek[[]domain.Elixir](s.cache, query.CollectionKey(domain.KindElixirs))
}

func (s *Service) CachedIngredients() ([]domain.Ingredient, bool) {
	return query.Peek[[]domain.Ingredient](s.cache, query.CollectionKey(domain.KindIngredients))
}

func (s *Service) CachedWizards() ([]domain.Wizard, bool) {
	return query.Peek[[]domain.Wizard](s.cache, query.CollectionKey(domain.KindWizards))
}

// WizardFromCache finds a wizard inside the cached wizards collection.
// It reports false when the collection has not been loaded or has no such id.
func (s *Service) WizardFromCache(id string) (*domain.Wizard, bool) {
	if id == "" {
		return nil, false
	}
	wizards, ok := s.CachedWizards()
	if !ok {
		return nil, false
	}
	for i := range wizards {
		if wizards[i].ID == id {
			return &wizards[i], true
		}
	}
	return nil, false
}

// CachedItems returns a cached collection as list items
func (s *Service) CachedItems(kind domain.Kind) ([]domain.ListItem, bool) {
	var (
		items []domain.ListItem
		ok    bool
	)
	switch kind {
	case domain.KindHouses:
		var v []domain.House
		if v, ok = s.CachedHouses(); ok {
			items, _ = toListItems(v, nil)
		}
	case domain.KindSpells:
		var v []domain.Spell
		if v, ok = s.CachedSpells(); ok {
			items, _ = toListItems(v, nil)
		}
	case domain.KindElixirs:
		var v []domain.Elixir
		if v, ok = s.CachedElixirs(); ok {
			items, _ = toListItems(v, nil)
		}
	case domain.KindIngredients:
		var v []domain.Ingredient
		if v, ok = s.CachedIngredients(); ok {
			items, _ = toListItems(v, nil)
		}
	case domain.KindWizards:
		var v []domain.Wizard
		if v, ok = s.CachedWizards(); ok {
			items, _ = toListItems(v, nil)
		}
	}
	return items, ok
}

// State reports the cache state of a collection without fetching
func (s *Service) State(kind domain.Kind) query.State {
	return s.cache.Inspect(s.CollectionQuery(kind))
}
