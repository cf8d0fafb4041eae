package cli

import (
	"cayo/database"
	"cayo/services/auth"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema and ensure the admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			cfg.Database.AutoMigrate = true
			st, closeStore, err := openStore(cfg.Database, log)
			if err != nil {
				return err
			}
			defer closeStore()

			_, err = database.EnsureAdmin(cmd.Context(), st, auth.NewBcrypt(cfg.Auth.BcryptCost), cfg.Auth, log)
			return err
		},
	}
}
