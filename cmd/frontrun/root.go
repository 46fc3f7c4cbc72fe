package main

import (
	"time"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	driver      string
	dsn         string
	configPath  string
	metricsPath string
	verbose     bool
	dispatcher  bool
	timeout     time.Duration
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "frontrun",
		Short:         "Frontrun search request registry",
		Long:          "Runs the frontrun search registry on a simulated chain backed by sqlite or postgres.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.driver, "driver", "sqlite3", "database driver (sqlite3 or postgres)")
	flags.StringVar(&opts.dsn, "dsn", "file:frontrun.db?_foreign_keys=on", "database DSN")
	flags.StringVar(&opts.configPath, "config", "", "YAML config file layered over defaults")
	flags.StringVar(&opts.metricsPath, "metrics-out", "", "write Prometheus text metrics to this file on exit")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log service operations to stderr")
	flags.BoolVar(&opts.dispatcher, "dispatcher", false, "route list and events through the command dispatcher")
	flags.DurationVar(&opts.timeout, "timeout", time.Minute, "operation timeout")

	root.AddCommand(
		newMigrateCommand(opts),
		newMineCommand(opts),
		newGetCommand(opts),
		newListCommand(opts),
		newCountCommand(opts),
		newEventsCommand(opts),
		newBlocksCommand(opts),
	)
	return root
}
