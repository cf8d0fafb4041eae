package cli

import (
	"fmt"
	"time"

	"cayo/helpers"
	"cayo/models"
	"cayo/services/auth"
	"cayo/services/ledger"
	"cayo/store"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage back-office accounts",
	}
	cmd.AddCommand(newAccountCreateCmd())
	return cmd
}

func newAccountCreateCmd() *cobra.Command {
	var (
		username, password, name, role, rate string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin or agent account",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := models.ParseRole(role)
			if err != nil {
				return err
			}
			commission, err := decimal.NewFromString(rate)
			if err != nil {
				return fmt.Errorf("invalid --rate: %w", err)
			}
			generated := password == ""
			if generated {
				if password, err = helpers.GenerateSecret(16); err != nil {
					return err
				}
			}

			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()
			st, closeStore, err := openStore(cfg.Database, log)
			if err != nil {
				return err
			}
			defer closeStore()

			digest, err := auth.NewBcrypt(cfg.Auth.BcryptCost).Hash(password)
			if err != nil {
				return err
			}
			var acc models.Account
			err = st.Update(cmd.Context(), func(snap *store.Snapshot) error {
				acc, err = ledger.CreateAccount(snap, ledger.NewAccount{
					Username:       username,
					DisplayName:    name,
					Role:           r,
					PasswordHash:   digest,
					CommissionRate: commission,
				}, time.Now().UTC())
				return err
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "created %s %s (%s)\n", acc.Role, acc.Username, acc.ID)
			if generated {
				fmt.Fprintf(out, "password: %s\n", password)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "password (generated when empty)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&role, "role", "agent", "admin or agent")
	cmd.Flags().StringVar(&rate, "rate", "0", "commission rate for agents, 0..1")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}
