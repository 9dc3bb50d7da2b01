package app

import (
	"errors"

	intconfig "restaurantapi/internal/config"
	intdb "restaurantapi/internal/db"
	"restaurantapi/internal/utils"

	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the MySQL schema and load roles and sample restaurants",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}
			if env.Storage != intconfig.StorageMySQL {
				return errors.New("seed needs mysql storage")
			}

			db, err := intconfig.ConnectDB(env.DSN)
			if err != nil {
				return err
			}
			defer intconfig.CloseDB()

			if err := intdb.EnsureSchema(cmd.Context(), db); err != nil {
				return err
			}
			if err := intdb.Seed(cmd.Context(), db); err != nil {
				return err
			}
			utils.LogEvent("", "app", "seed", "schema and seed data ready")
			return nil
		},
	}
}
