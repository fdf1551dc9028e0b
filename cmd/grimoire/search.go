package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmcdole/grimoire/internal/domain"
	"github.com/mmcdole/grimoire/internal/search"
)

func searchCmd(opts *globalOptions) *cobra.Command {
	var (
		kindNames []string
		load      bool
		limit     int
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy-search the cached archives",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := parseKinds(kindNames)
			if err != nil {
				return err
			}

			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if load {
				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
				defer stop()
				a.catalog.FetchAllResources(ctx)
			}

			// Only search what the signed-in user could open
			var allowed []domain.Kind
			var denied error
			for _, kind := range kinds {
				if err := checkAccess(a, kind); err != nil {
					denied = err
					continue
				}
				allowed = append(allowed, kind)
			}
			if len(allowed) == 0 {
				return denied
			}

			svc := search.NewService(a.library, a.logger)
			query := strings.Join(args, " ")
			results := svc.Search(query, allowed)
			if len(results) == 0 {
				return printNoMatches(cmd.OutOrStdout(), svc, query, allowed)
			}
			if limit > 0 && len(results) > limit {
				results = results[:limit]
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tID\tNAME\tDETAILS")
			for _, r := range results {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Item.GetKind().Singular(), r.Item.GetID(), r.Item.GetTitle(), r.Item.GetDescription())
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringSliceVarP(&kindNames, "kind", "k", nil, "limit to these kinds (repeatable)")
	cmd.Flags().BoolVar(&load, "load", false, "fetch every collection before searching")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum results, 0 for all")
	return cmd
}

// parseKinds resolves kind names; none means every kind
func parseKinds(names []string) ([]domain.Kind, error) {
	if len(names) == 0 {
		return domain.Kinds, nil
	}
	kinds := make([]domain.Kind, 0, len(names))
	for _, name := range names {
		kind, err := domain.ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func printNoMatches(out io.Writer, svc *search.Service, query string, kinds []domain.Kind) error {
	fmt.Fprintln(out, "No matches in the cached archives")
	var suggestions []string
	for _, kind := range kinds {
		suggestions = append(suggestions, svc.Suggest(query, kind, 3)...)
	}
	if len(suggestions) > 0 {
		fmt.Fprintf(out, "Did you mean: %s\n", strings.Join(suggestions, ", "))
	}
	return nil
}
