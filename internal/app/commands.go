// Package app holds the command line entry points of the restaurant API.
package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd creates the root command with the serve and seed subcommands.
// Flags are bound to viper keys, so RESTAURANT_* environment variables and
// the config file can set the same values.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "restaurantapi",
		Short:         "Restaurant API server",
		Long:          "Restaurant API serves restaurants and their dishes behind claim based authorization policies.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to an optional configuration file")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("storage", "mysql", "Storage backend (mysql or memory)")
	flags.String("dsn", "", "MySQL data source name")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return errors.Join(
			bindFlag(cmd, "config", "config"),
			bindFlag(cmd, "log_level", "log-level"),
			bindFlag(cmd, "storage", "storage"),
			bindFlag(cmd, "db_dsn", "dsn"),
		)
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newSeedCmd())
	return root
}

// bindFlag binds a flag only when it was set explicitly, so unset flags do
// not shadow environment variables.
func bindFlag(cmd *cobra.Command, key, name string) error {
	f := cmd.Flags().Lookup(name)
	if f == nil {
		return fmt.Errorf("unknown flag %s", name)
	}
	if !f.Changed {
		return nil
	}
	if err := viper.BindPFlag(key, f); err != nil {
		return fmt.Errorf("bind flag %s: %w", name, err)
	}
	return nil
}
