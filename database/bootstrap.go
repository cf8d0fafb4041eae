package database

import (
	"context"
	"time"

	"cayo/config"
	"cayo/models"
	"cayo/services/auth"
	"cayo/services/ledger"
	"cayo/store"

	"go.uber.org/zap"
)

// EnsureAdmin creates the configured admin account when its username is not
// taken yet. An existing account is left untouched, password included.
func EnsureAdmin(ctx context.Context, st store.Store, hasher auth.Hasher, cfg config.Auth, log *zap.Logger) (bool, error) {
	if cfg.AdminPassword == "" {
		log.Warn("ADMIN_PASSWORD not set, skipping admin bootstrap")
		return false, nil
	}
	digest, err := hasher.Hash(cfg.AdminPassword)
	if err != nil {
		return false, err
	}

	created := false
	err = st.Update(ctx, func(snap *store.Snapshot) error {
		if _, ok := snap.AccountByUsername(cfg.AdminUsername); ok {
			return nil
		}
		_, err := ledger.CreateAccount(snap, ledger.NewAccount{
			Username:     cfg.AdminUsername,
			DisplayName:  cfg.AdminName,
			Role:         models.RoleAdmin,
			PasswordHash: digest,
		}, time.Now())
		created = err == nil
		return err
	})
	if err != nil {
		return false, err
	}
	if created {
		log.Info("admin account created", zap.String("username", cfg.AdminUsername))
	}
	return created, nil
}
