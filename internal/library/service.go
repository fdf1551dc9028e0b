package library

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmcdole/grimoire/internal/domain"
	"github.com/mmcdole/grimoire/internal/query"
)

// Default staleness windows
const (
	DefaultCollectionStaleTime = 5 * time.Minute
	DefaultItemStaleTime       = 10 * time.Minute
)

// Staleness holds how long fetched data counts as fresh.
type Staleness struct {
	Collection time.Duration
	Item       time.Duration
}

// Service reads Wizard World resources through the query cache.
// Every read is keyed, deduplicated and mirrored to disk by the cache.
type Service struct {
	repo      domain.ResourceRepository
	cache     *query.Cache
	staleness Staleness
	logger    *slog.Logger
}

// NewService creates a new library service. Zero staleness values fall back
// to the defaults.
func NewService(repo domain.ResourceRepository, cache *query.Cache, staleness Staleness, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if staleness.Collection <= 0 {
		staleness.Collection = DefaultCollectionStaleTime
	}
	if staleness.Item <= 0 {
		staleness.Item = DefaultItemStaleTime
	}
	return &Service{repo: repo, cache: cache, staleness: staleness, logger: logger}
}

// Cache exposes the underlying query cache (for observers and snapshots)
func (s *Service) Cache() *query.Cache {
	return s.cache
}

// === Query builders ===

// CollectionQuery returns the cache query for a whole collection
func (s *Service) CollectionQuery(kind domain.Kind) query.Query {
	return query.Query{
		Key:       query.CollectionKey(kind),
		StaleTime: s.staleness.Collection,
		Fetch: func(ctx context.Context) (any, error) {
			return s.fetchCollection(ctx, kind)
		},
	}
}

// ItemQuery returns the cache query for one record. An empty id yields a
// disabled query.
func (s *Service) ItemQuery(kind domain.Kind, id string) query.Query {
	return query.Query{
		Key:       query.ItemKey(kind, id),
		StaleTime: s.staleness.Item,
		Disabled:  id == "",
		Fetch: func(ctx context.Context) (any, error) {
			return s.fetchItem(ctx, kind, id)
		},
	}
}

func (s *Service) fetchCollection(ctx context.Context, kind domain.Kind) (any, error) {
	var (
		items any
		count int
		err   error
	)
	switch kind {
	case domain.KindHouses:
		var v []domain.House
		v, err = s.repo.Houses(ctx)
		items, count = v, len(v)
	case domain.KindSpells:
		var v []domain.Spell
		v, err = s.repo.Spells(ctx)
		items, count = v, len(v)
	case domain.KindElixirs:
		var v []domain.Elixir
		v, err = s.repo.Elixirs(ctx)
		items, count = v, len(v)
	case domain.KindIngredients:
		var v []domain.Ingredient
		v, err = s.repo.Ingredients(ctx)
		items, count = v, len(v)
	case domain.KindWizards:
		var v []domain.Wizard
		v, err = s.repo.Wizards(ctx)
		items, count = v, len(v)
	default:
		return nil, domain.ErrUnknownKind
	}
	if err != nil {
		s.logger.Error("failed to fetch collection", "error", err, "kind", kind)
		return nil, err
	}
	s.logger.Debug("fetched collection", "kind", kind, "count", count)
	return items, nil
}

func (s *Service) fetchItem(ctx context.Context, kind domain.Kind, id string) (any, error) {
	var (
		item any
		err  error
	)
	switch kind {
	case domain.KindHouses:
		item, err = s.repo.House(ctx, id)
	case domain.KindSpells:
		item, err = s.repo.Spell(ctx, id)
	case domain.KindElixirs:
		item, err = s.repo.Elixir(ctx, id)
	case domain.KindIngredients:
		item, err = s.repo.Ingredient(ctx, id)
	case domain.KindWizards:
		item, err = s.repo.Wizard(ctx, id)
	default:
		return nil, domain.ErrUnknownKind
	}
	if err != nil {
		s.logger.Error("failed to fetch item", "error", err, "kind", kind, "id", id)
		return nil, err
	}
	return item, nil
}

// === Typed reads ===

func getCollection[T any](ctx context.Context, s *Service, kind domain.Kind) ([]T, error) {
	items, _, err := query.Get[[]T](ctx, s.cache, s.CollectionQuery(kind))
	if err != nil {
		return nil, err
	}
	return items, nil
}

func getItem[T any](ctx context.Context, s *Service, kind domain.Kind, id string) (*T, error) {
	q := s.ItemQuery(kind, id)
	if q.Disabled {
		return nil, nil
	}
	item, state, err := query.Get[T](ctx, s.cache, q)
	if err != nil {
		return nil, err
	}
	if !state.HasData() {
		return nil, nil
	}
	return &item, nil
}

// Houses returns all houses, from cache when fresh
func (s *Service) Houses(ctx context.Context) ([]domain.House, error) {
	return getCollection[domain.House](ctx, s, domain.KindHouses)
}

// House returns one house; nil for an empty id
func (s *Service) House(ctx context.Context, id string) (*domain.House, error) {
	return getItem[domain.House](ctx, s, domain.KindHouses, id)
}

func (s *Service) Spells(ctx context.Context) ([]domain.Spell, error) {
	return getCollection[domain.Spell](ctx, s, domain.KindSpells)
}

func (s *Service) Spell(ctx context.Context, id string) (*domain.Spell, error) {
	return getItem[domain.Spell](ctx, s, domain.KindSpells, id)
}

func (s *Service) Elixirs(ctx context.Context) ([]domain.Elixir, error) {
	return getCollection[domain.Elixir](ctx, s, domain.KindElixirs)
}

func (s *Service) Elixir(ctx context.Context, id string) (*domain.Elixir, error) {
	return getItem[domain.Elixir](ctx, s, domain.KindElixirs, id)
}

func (s *Service) Ingredients(ctx context.Context) ([]domain.Ingredient, error) {
	return getCollection[domain.Ingredient](ctx, s, domain.KindIngredients)
}

func (s *Service) Ingredient(ctx context.Context, id string) (*domain.Ingredient, error) {
	return getItem[domain.Ingredient](ctx, s, domain.KindIngredients, id)
}

func (s *Service) Wizards(ctx context.Context) ([]domain.Wizard, error) {
	return getCollection[domain.Wizard](ctx, s, domain.KindWizards)
}

func (s *Service) Wizard(ctx context.Context, id string) (*domain.Wizard, error) {
	return getItem[domain.Wizard](ctx, s, domain.KindWizards, id)
}

// Items returns a collection as list items, for views that do not care
// about the concrete type
func (s *Service) Items(ctx context.Context, kind domain.Kind) ([]domain.ListItem, error) {
	switch kind {
	case domain.KindHouses:
		v, err := s.Houses(ctx)
		return toListItems(v, err)
	case domain.KindSpells:
		v, err := s.Spells(ctx)
		return toListItems(v, err)
	case domain.KindElixirs:
		v, err := s.Elixirs(ctx)
		return toListItems(v, err)
	case domain.KindIngredients:
		v, err := s.Ingredients(ctx)
		return toListItems(v, err)
	case domain.KindWizards:
		v, err := s.Wizards(ctx)
		return toListItems(v, err)
	}
	return nil, domain.ErrUnknownKind
}

// Item returns one record as a list item
func (s *Service) Item(ctx context.Context, kind domain.Kind, id string) (domain.ListItem, error) {
	switch kind {
	case domain.KindHouses:
		v, err := s.House(ctx, id)
		return toListItem(v, err)
	case domain.KindSpells:
		v, err := s.Spell(ctx, id)
		return toListItem(v, err)
	case domain.KindElixirs:
		v, err := s.Elixir(ctx, id)
		return toListItem(v, err)
	case domain.KindIngredients:
		v, err := s.Ingredient(ctx, id)
		return toListItem(v, err)
	case domain.KindWizards:
		v, err := s.Wizard(ctx, id)
		return toListItem(v, err)
	}
	return nil, domain.ErrUnknownKind
}

// listable is satisfied by pointers to the domain entities
type listable[T any] interface {
	*T
	domain.ListItem
}

func toListItems[T any, P listable[T]](items []T, err error) ([]domain.ListItem, error) {
	if err != nil {
		return nil, err
	}
	out := make([]domain.ListItem, len(items))
	for i := range items {
		out[i] = P(&items[i])
	}
	return out, nil
}

func toListItem[T any, P listable[T]](item *T, err error) (domain.ListItem, error) {
	if err != nil || item == nil {
		return nil, err
	}
	return P(item), nil
}
