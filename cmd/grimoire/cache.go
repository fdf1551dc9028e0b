package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func cacheCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the on-disk cache",
	}
	cmd.AddCommand(cacheInfoCmd(opts))
	cmd.AddCommand(cacheClearCmd(opts))
	return cmd
}

func cacheInfoCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "List cached queries and their age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if path := a.store.Path(); path != "" {
				fmt.Fprintf(out, "Database: %s\n", path)
			} else {
				fmt.Fprintln(out, "Database: (memory only)")
			}

			keys := a.cache.Keys()
			if len(keys) == 0 {
				fmt.Fprintln(out, "No cached queries")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tSTATUS\tBYTES\tAGE")
			for _, key := range keys {
				state := a.cache.State(key)
				age := "-"
				if !state.UpdatedAt.IsZero() {
					age = time.Since(state.UpdatedAt).Round(time.Second).String()
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", key, state.Status, len(state.Data), age)
			}
			return w.Flush()
		},
	}
}

func cacheClearCmd(opts *globalOptions) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Drop cached API responses",
		Long:  "Drop cached API responses. With --all the session and favourites go too.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if all {
				if err := a.store.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "✓ Cache, session and favourites cleared")
				return nil
			}

			if err := a.store.RemoveClient(context.Background()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Cache cleared")
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "also remove the session and favourites")
	return cmd
}
