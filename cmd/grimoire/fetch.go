package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mmcdole/grimoire/internal/domain"
	"github.com/mmcdole/grimoire/internal/router"
)

func fetchCmd(opts *globalOptions) *cobra.Command {
	var (
		refresh bool
		format  string
	)
	cmd := &cobra.Command{
		Use:   "fetch <kind> [id]",
		Short: "Print a collection or a single record",
		Long: "Print a collection (houses, spells, elixirs, ingredients, wizards) or one\n" +
			"record by id. Results go through the same cache as the TUI.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseKind(args[0])
			if err != nil {
				return err
			}
			id := ""
			if len(args) == 2 {
				id = args[1]
			}

			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := checkAccess(a, kind); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			out := cmd.OutOrStdout()
			if id != "" {
				if refresh {
					if err := a.library.RefreshItem(ctx, kind, id); err != nil {
						return err
					}
				}
				if kind == domain.KindWizards && !refresh {
					// The wizard list already carries every field
					if w, ok := a.library.WizardFromCache(id); ok {
						return printRecord(out, format, w)
					}
				}
				item, err := a.library.Item(ctx, kind, id)
				if err != nil {
					return err
				}
				return printRecord(out, format, item)
			}

			if refresh {
				if err := a.library.Refresh(ctx, kind); err != nil {
					return err
				}
			}
			items, err := a.library.Items(ctx, kind)
			if err != nil {
				return err
			}
			if format == "table" {
				var favs favouriteSet
				if store, ok := a.favourites[kind]; ok {
					favs = store
				}
				return printTable(out, items, favs)
			}
			return printRecord(out, format, items)
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached data and fetch again")
	cmd.Flags().StringVarP(&format, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}

// checkAccess applies the route guard of the kind's list page, so the CLI
// shows no more than the TUI would. Kinds without a page are open.
func checkAccess(a *app, kind domain.Kind) error {
	match, ok := router.Resolve(router.ListPath(kind))
	if !ok {
		return nil
	}
	switch router.Guard(match.Route, a.auth.User()) {
	case "":
		return nil
	case router.LoginPath:
		return fmt.Errorf("%s: sign in first with 'grimoire login'", kind)
	default:
		return fmt.Errorf("%s: requires the %s role", kind, match.Route.Role)
	}
}

type favouriteSet interface {
	IsFavourite(id string) bool
}

func printTable(out io.Writer, items []domain.ListItem, favs favouriteSet) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tNAME\tDETAILS")
	for _, item := range items {
		mark := ""
		if favs != nil && favs.IsFavourite(item.GetID()) {
			mark = "★"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", mark, item.GetID(), item.GetTitle(), item.GetDescription())
	}
	return w.Flush()
}

func printRecord(out io.Writer, format string, v any) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "json", "table":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
