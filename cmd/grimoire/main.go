package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags
var Version = "dev"

// globalOptions are the flags shared by every command
type globalOptions struct {
	configFile string
	envFile    string
	noCache    bool
}

func main() {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "grimoire",
		Short:         "Browse the Wizard World archives from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}
	root.Version = Version
	root.SetVersionTemplate("grimoire {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "path to config.yaml")
	flags.StringVar(&opts.envFile, "env-file", "", "path to a .env file (default ./.env)")
	flags.BoolVar(&opts.noCache, "no-cache", false, "keep the cache in memory only")

	root.AddCommand(loginCmd(opts))
	root.AddCommand(logoutCmd(opts))
	root.AddCommand(whoamiCmd(opts))
	root.AddCommand(hashPasswordCmd())
	root.AddCommand(fetchCmd(opts))
	root.AddCommand(searchCmd(opts))
	root.AddCommand(favouritesCmd(opts))
	root.AddCommand(cacheCmd(opts))
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "grimoire %s\n", Version)
		},
	}
}
