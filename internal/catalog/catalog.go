package catalog

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mmcdole/grimoire/internal/domain"
)

// Source supplies whole collections. library.Service implements it, so
// every load goes through the query cache.
type Source interface {
	Houses(ctx context.Context) ([]domain.House, error)
	Spells(ctx context.Context) ([]domain.Spell, error)
	Elixirs(ctx context.Context) ([]domain.Elixir, error)
	Ingredients(ctx context.Context) ([]domain.Ingredient, error)
	Wizards(ctx context.Context) ([]domain.Wizard, error)
}

// Catalog holds the five collection resources.
type Catalog struct {
	Houses      *Resource[domain.House]
	Spells      *Resource[domain.Spell]
	Ingredients *Resource[domain.Ingredient]
	Elixirs     *Resource[domain.Elixir]
	Wizards     *Resource[domain.Wizard]

	logger *slog.Logger
}

// New creates a catalog whose resources load from src.
func New(src Source, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		Houses:      NewResource(domain.KindHouses, src.Houses, func(h domain.House) string { return h.ID }, logger),
		Spells:      NewResource(domain.KindSpells, src.Spells, func(s domain.Spell) string { return s.ID }, logger),
		Ingredients: NewResource(domain.KindIngredients, src.Ingredients, func(i domain.Ingredient) string { return i.ID }, logger),
		Elixirs:     NewResource(domain.KindElixirs, src.Elixirs, func(e domain.Elixir) string { return e.ID }, logger),
		Wizards:     NewResource(domain.KindWizards, src.Wizards, func(w domain.Wizard) string { return w.ID }, logger),
		logger:      logger,
	}
}

// FetchAllResources loads all five collections concurrently and waits for
// every one to settle. Individual failures are recorded on the resource and
// logged; the aggregate never fails.
func (c *Catalog) FetchAllResources(ctx context.Context) {
	var g errgroup.Group
	for _, r := range c.fetchers() {
		r := r
		g.Go(func() error {
			if err := r.fetch(ctx); err != nil {
				c.logger.Warn("failed to load collection", "kind", r.kind, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// IsAnyLoading reports whether any collection is loading.
func (c *Catalog) IsAnyLoading() bool {
	return c.Houses.IsLoading() ||
		c.Spells.IsLoading() ||
		c.Ingredients.IsLoading() ||
		c.Elixirs.IsLoading() ||
		c.Wizards.IsLoading()
}

// Fetch loads one collection by kind.
func (c *Catalog) Fetch(ctx context.Context, kind domain.Kind) error {
	for _, r := range c.fetchers() {
		if r.kind == kind {
			return r.fetch(ctx)
		}
	}
	return domain.ErrUnknownKind
}

type fetcher struct {
	kind  domain.Kind
	fetch func(context.Context) error
}

func (c *Catalog) fetchers() []fetcher {
	return []fetcher{
		{domain.KindHouses, c.Houses.FetchAll},
		{domain.KindSpells, c.Spells.FetchAll},
		{domain.KindIngredients, c.Ingredients.FetchAll},
		{domain.KindElixirs, c.Elixirs.FetchAll},
		{domain.KindWizards, c.Wizards.FetchAll},
	}
}
