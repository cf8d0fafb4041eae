package ledger

import (
	"strings"
	"time"

	"cayo/errs"
	"cayo/models"
	"cayo/services/auth"
	"cayo/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type NewAccount struct {
	Username       string
	DisplayName    string
	Role           models.Role
	PasswordHash   string
	CommissionRate decimal.Decimal
}

func CreateAccount(snap *store.Snapshot, req NewAccount, now time.Time) (models.Account, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return models.Account{}, errs.NewValidation("USERNAME_REQUIRED")
	}
	if _, taken := snap.AccountByUsername(username); taken {
		return models.Account{}, errs.NewConflict("USERNAME_ALREADY_EXISTS")
	}
	if !req.Role.Valid() {
		return models.Account{}, errs.NewValidation("INVALID_ROLE")
	}
	if req.PasswordHash == "" {
		return models.Account{}, errs.NewValidation("PASSWORD_REQUIRED")
	}

	rate := decimal.Zero
	switch req.Role {
	case models.RoleAgent:
		if !models.ValidRate(req.CommissionRate) {
			return models.Account{}, errs.NewValidation("COMMISSION_RATE_OUT_OF_RANGE")
		}
		rate = req.CommissionRate
	case models.RoleAdmin:
		if !req.CommissionRate.IsZero() {
			return models.Account{}, errs.NewValidation("ADMIN_HAS_NO_COMMISSION_RATE")
		}
	}

	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		name = username
	}
	acc := models.Account{
		ID:             uuid.NewString(),
		Username:       username,
		DisplayName:    name,
		Role:           req.Role,
		PasswordHash:   req.PasswordHash,
		CommissionRate: rate,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	snap.AddAccount(acc)
	return acc, nil
}

// AccountPatch carries optional changes; nil fields are left alone.
type AccountPatch struct {
	DisplayName    *string
	PasswordHash   *string
	CommissionRate *decimal.Decimal
	Active         *bool
	Role           *models.Role
}

func (p AccountPatch) adminOnly() bool {
	return p.CommissionRate != nil || p.Active != nil
}

// PatchAccount lets an admin change any account and anyone else change only
// the display name and password of their own account. Roles never change.
func PatchAccount(snap *store.Snapshot, actor auth.Identity, id string, patch AccountPatch, now time.Time) (models.Account, error) {
	acc, ok := snap.Account(id)
	if !ok {
		return models.Account{}, errs.NewNotFound("ACCOUNT_NOT_FOUND")
	}

	self := actor.ID == acc.ID
	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleAgent:
		if !self {
			return models.Account{}, errs.NewForbidden("CANNOT_MODIFY_OTHER_ACCOUNT")
		}
		if patch.adminOnly() {
			return models.Account{}, errs.NewForbidden("REQUIRES_ADMIN_ROLE")
		}
	default:
		return models.Account{}, errs.NewForbidden("UNKNOWN_ROLE")
	}

	if patch.Role != nil && *patch.Role != acc.Role {
		return models.Account{}, errs.NewValidation("ROLE_IS_IMMUTABLE")
	}
	if patch.CommissionRate != nil {
		if acc.Role != models.RoleAgent {
			return models.Account{}, errs.NewValidation("ADMIN_HAS_NO_COMMISSION_RATE")
		}
		if !models.ValidRate(*patch.CommissionRate) {
			return models.Account{}, errs.NewValidation("COMMISSION_RATE_OUT_OF_RANGE")
		}
	}
	if patch.Active != nil && !*patch.Active && self {
		return models.Account{}, errs.NewValidation("CANNOT_DISABLE_SELF")
	}
	if patch.DisplayName != nil && strings.TrimSpace(*patch.DisplayName) == "" {
		return models.Account{}, errs.NewValidation("NAME_REQUIRED")
	}

	if patch.DisplayName != nil {
		acc.DisplayName = strings.TrimSpace(*patch.DisplayName)
	}
	if patch.PasswordHash != nil {
		acc.PasswordHash = *patch.PasswordHash
	}
	if patch.CommissionRate != nil {
		acc.CommissionRate = *patch.CommissionRate
	}
	if patch.Active != nil {
		acc.Active = *patch.Active
	}
	acc.UpdatedAt = now
	return *acc, nil
}
