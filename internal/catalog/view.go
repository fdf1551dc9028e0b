package catalog

import "github.com/mmcdole/grimoire/internal/domain"

// View is a display snapshot of one resource
type View struct {
	Kind    domain.Kind
	Items   []domain.ListItem
	Loading bool
	Error   string
}

type listable[T any] interface {
	*T
	domain.ListItem
}

func viewOf[T any, P listable[T]](r *Resource[T]) View {
	items := r.Items()
	out := make([]domain.ListItem, len(items))
	for i := range items {
		out[i] = P(&items[i])
	}
	return View{Kind: r.kind, Items: out, Loading: r.IsLoading(), Error: r.Error()}
}

func lookup[T any, P listable[T]](r *Resource[T], id string) (domain.ListItem, bool) {
	item, ok := r.GetByID(id)
	if !ok {
		return nil, false
	}
	return P(&item), true
}

// View returns the display snapshot for kind
func (c *Catalog) View(kind domain.Kind) (View, error) {
	switch kind {
	case domain.KindHouses:
		return viewOf(c.Houses), nil
	case domain.KindSpells:
		return viewOf(c.Spells), nil
	case domain.KindElixirs:
		return viewOf(c.Elixirs), nil
	case domain.KindIngredients:
		return viewOf(c.Ingredients), nil
	case domain.KindWizards:
		return viewOf(c.Wizards), nil
	}
	return View{Kind: kind}, domain.ErrUnknownKind
}

// Lookup finds a loaded record by kind and id
func (c *Catalog) Lookup(kind domain.Kind, id string) (domain.ListItem, bool) {
	switch kind {
	case domain.KindHouses:
		return lookup(c.Houses, id)
	case domain.KindSpells:
		return lookup(c.Spells, id)
	case domain.KindElixirs:
		return lookup(c.Elixirs, id)
	case domain.KindIngredients:
		return lookup(c.Ingredients, id)
	case domain.KindWizards:
		return lookup(c.Wizards, id)
	}
	return nil, false
}
