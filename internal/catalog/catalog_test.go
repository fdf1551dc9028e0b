package catalog

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mmcdole/grimoire/internal/domain"
	"github.com/mmcdole/grimoire/internal/testutil"
)

type stubSource struct {
	wizardsErr error
	calls      atomic.Int32
}

func (s *stubSource) Houses(context.Context) ([]domain.House, error) {
	s.calls.Add(1)
	return []domain.House{{ID: "h1", Name: "Hufflepuff"}}, nil
}

func (s *stubSource) Spells(context.Context) ([]domain.Spell, error) {
	s.calls.Add(1)
	return []domain.Spell{{ID: "s1", Name: "Accio"}, {ID: "s2", Name: "Alohomora"}}, nil
}

func (s *stubSource) Elixirs(context.Context) ([]domain.Elixir, error) {
	s.calls.Add(1)
	return []domain.Elixir{{ID: "e1", Name: "Polyjuice Potion"}}, nil
}

func (s *stubSource) Ingredients(context.Context) ([]domain.Ingredient, error) {
	s.calls.Add(1)
	return []domain.Ingredient{}, nil
}

func (s *stubSource) Wizards(context.Context) ([]domain.Wizard, error) {
	s.calls.Add(1)
	if s.wizardsErr != nil {
		return nil, s.wizardsErr
	}
	return []domain.Wizard{{ID: "w1"}}, nil
}

func TestResource_FetchAllSuccess(t *testing.T) {
	r := NewResource(domain.KindSpells, func(context.Context) ([]domain.Spell, error) {
		return []domain.Spell{{ID: "s1", Name: "Lumos"}}, nil
	}, func(s domain.Spell) string { return s.ID }, testutil.Logger())

	require.NoError(t, r.FetchAll(context.Background()))
	require.False(t, r.IsLoading())
	require.Empty(t, r.Error())
	require.Len(t, r.Items(), 1)

	spell, ok := r.GetByID("s1")
	require.True(t, ok)
	require.Equal(t, "Lumos", spell.Name)

	_, ok = r.GetByID("missing")
	require.False(t, ok)
}

func TestResource_FetchAllFailureKeepsItems(t *testing.T) {
	fail := false
	r := NewResource(domain.KindHouses, func(context.Context) ([]domain.House, error) {
		if fail {
			return nil, errors.New("Failed to fetch houses")
		}
		return []domain.House{{ID: "h1"}}, nil
	}, func(h domain.House) string { return h.ID }, testutil.Logger())

	require.NoError(t, r.FetchAll(context.Background()))

	fail = true
	err := r.FetchAll(context.Background())
	require.EqualError(t, err, "Failed to fetch houses")
	require.Equal(t, "Failed to fetch houses", r.Error())
	require.False(t, r.IsLoading())
	require.Len(t, r.Items(), 1)

	// The next attempt clears the error as it starts.
	fail = false
	require.NoError(t, r.FetchAll(context.Background()))
	require.Empty(t, r.Error())
}

func TestResource_LoadingDuringFetch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	r := NewResource(domain.KindWizards, func(context.Context) ([]domain.Wizard, error) {
		close(started)
		<-release
		return nil, nil
	}, func(w domain.Wizard) string { return w.ID }, testutil.Logger())

	done := make(chan error)
	go func() { done <- r.FetchAll(context.Background()) }()

	<-started
	require.True(t, r.IsLoading())
	close(release)
	require.NoError(t, <-done)
	require.False(t, r.IsLoading())
}

func TestResource_LatestRequestWins(t *testing.T) {
	var n atomic.Int32
	slow := make(chan struct{})
	r := NewResource(domain.KindSpells, func(context.Context) ([]domain.Spell, error) {
		if n.Add(1) == 1 {
			<-slow
			return []domain.Spell{{ID: "old"}}, nil
		}
		return []domain.Spell{{ID: "new"}}, nil
	}, func(s domain.Spell) string { return s.ID }, testutil.Logger())

	first := make(chan error)
	go func() { first <- r.FetchAll(context.Background()) }()
	require.Eventually(t, func() bool { return n.Load() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, r.FetchAll(context.Background()))
	close(slow)
	require.NoError(t, <-first)

	items := r.Items()
	require.Len(t, items, 1)
	require.Equal(t, "new", items[0].ID, "superseded result must not overwrite newer state")
	require.False(t, r.IsLoading())
}

func TestResource_ItemsIsACopy(t *testing.T) {
	r := NewResource(domain.KindHouses, func(context.Context) ([]domain.House, error) {
		return []domain.House{{ID: "h1", Name: "Ravenclaw"}}, nil
	}, func(h domain.House) string { return h.ID }, testutil.Logger())
	require.NoError(t, r.FetchAll(context.Background()))

	items := r.Items()
	items[0].Name = "changed"
	require.Equal(t, "Ravenclaw", r.Items()[0].Name)
}

func TestFetchAllResources_SettlesAll(t *testing.T) {
	src := &stubSource{wizardsErr: domain.ErrServerOffline}
	c := New(src, testutil.Logger())

	c.FetchAllResources(context.Background())

	require.EqualValues(t, 5, src.calls.Load())
	require.Len(t, c.Houses.Items(), 1)
	require.Len(t, c.Spells.Items(), 2)
	require.Len(t, c.Elixirs.Items(), 1)
	require.Empty(t, c.Ingredients.Items())
	require.Empty(t, c.Ingredients.Error())
	require.Contains(t, c.Wizards.Error(), "unreachable")
	require.False(t, c.IsAnyLoading())
}

func TestFetchByKind(t *testing.T) {
	c := New(&stubSource{}, testutil.Logger())
	require.NoError(t, c.Fetch(context.Background(), domain.KindElixirs))
	require.Equal(t, 1, c.Elixirs.Len())
	require.ErrorIs(t, c.Fetch(context.Background(), "dragons"), domain.ErrUnknownKind)
}

func TestIsAnyLoading_AllCombinations(t *testing.T) {
	c := New(&stubSource{}, testutil.Logger())
	setters := []func(bool){
		func(v bool) { c.Houses.mu.Lock(); c.Houses.loading = v; c.Houses.mu.Unlock() },
		func(v bool) { c.Spells.mu.Lock(); c.Spells.loading = v; c.Spells.mu.Unlock() },
		func(v bool) { c.Ingredients.mu.Lock(); c.Ingredients.loading = v; c.Ingredients.mu.Unlock() },
		func(v bool) { c.Elixirs.mu.Lock(); c.Elixirs.loading = v; c.Elixirs.mu.Unlock() },
		func(v bool) { c.Wizards.mu.Lock(); c.Wizards.loading = v; c.Wizards.mu.Unlock() },
	}

	for mask := 0; mask < 1<<len(setters); mask++ {
		for i, set := range setters {
			set(mask&(1<<i) != 0)
		}
		if got, want := c.IsAnyLoading(), mask != 0; got != want {
			t.Fatalf("IsAnyLoading() with mask %05b = %v, want %v", mask, got, want)
		}
	}
}

func TestCatalog_ViewAndLookup(t *testing.T) {
	c := New(&stubSource{}, testutil.Logger())
	c.FetchAllResources(context.Background())

	v, err := c.View(domain.KindSpells)
	require.NoError(t, err)
	require.Equal(t, domain.KindSpells, v.Kind)
	require.False(t, v.Loading)
	require.Len(t, v.Items, 2)
	require.Equal(t, "Accio", v.Items[0].GetTitle())
	require.Equal(t, domain.KindSpells, v.Items[0].GetKind())

	item, ok := c.Lookup(domain.KindHouses, "h1")
	require.True(t, ok)
	require.Equal(t, "Hufflepuff", item.GetTitle())

	_, ok = c.Lookup(domain.KindHouses, "nope")
	require.False(t, ok)

	_, err = c.View(domain.Kind("dragons"))
	require.ErrorIs(t, err, domain.ErrUnknownKind)
}
