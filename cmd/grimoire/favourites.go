package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmcdole/grimoire/internal/domain"
)

func favouritesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "favourites [kind]",
		Aliases: []string{"favorites", "favs"},
		Short:   "List favourites per kind",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := favouriteKinds
			if len(args) == 1 {
				kind, err := domain.ParseKind(args[0])
				if err != nil {
					return err
				}
				if !isFavouriteKind(kind) {
					return fmt.Errorf("%s cannot be favourited", kind)
				}
				kinds = []domain.Kind{kind}
			}

			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			for _, kind := range kinds {
				store := a.favourites[kind]
				fmt.Fprintf(out, "%s (%d)\n", kind.Label(), store.Len())

				titles := cachedTitles(a, kind)
				for _, id := range store.IDs() {
					if title, ok := titles[id]; ok {
						fmt.Fprintf(out, "  ★ %s  %s\n", title, id)
					} else {
						fmt.Fprintf(out, "  ★ %s\n", id)
					}
				}
			}
			return nil
		},
	}
}

func isFavouriteKind(kind domain.Kind) bool {
	for _, k := range favouriteKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// cachedTitles maps ids to titles for whatever of kind is cached
func cachedTitles(a *app, kind domain.Kind) map[string]string {
	items, _ := a.library.CachedItems(kind)
	titles := make(map[string]string, len(items))
	for _, item := range items {
		titles[item.GetID()] = item.GetTitle()
	}
	return titles
}
