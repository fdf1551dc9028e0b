package domain

import "context"

// ResourceRepository reads the Wizard World API.
// Collections are returned whole; the API does not paginate.
type ResourceRepository interface {
	Houses(ctx context.Context) ([]House, error)
	House(ctx context.Context, id string) (*House, error)

	Spells(ctx context.Context) ([]Spell, error)
	Spell(ctx context.Context, id string) (*Spell, error)

	Elixirs(ctx context.Context) ([]Elixir, error)
	Elixir(ctx context.Context, id string) (*Elixir, error)

	Ingredients(ctx context.Context) ([]Ingredient, error)
	Ingredient(ctx context.Context, id string) (*Ingredient, error)

	Wizards(ctx context.Context) ([]Wizard, error)
	Wizard(ctx context.Context, id string) (*Wizard, error)
}
