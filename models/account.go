package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// money travels as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

type Account struct {
	ID             string          `gorm:"primaryKey;size:36" json:"id"`
	Username       string          `gorm:"uniqueIndex;size:32;not null" json:"username"`
	DisplayName    string          `gorm:"size:64" json:"name"`
	Role           Role            `gorm:"size:16;index;not null" json:"role"`
	PasswordHash   string          `gorm:"size:128" json:"-"`
	CommissionRate decimal.Decimal `gorm:"type:numeric" json:"commissionRate"`
	Active         bool            `gorm:"not null" json:"active"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// ValidRate reports whether r is a usable commission rate.
func ValidRate(r decimal.Decimal) bool {
	return !r.IsNegative() && r.LessThanOrEqual(decimal.NewFromInt(1))
}

// Rate is the multiplier applied to GGR; admins earn nothing.
func (a Account) Rate() decimal.Decimal {
	switch a.Role {
	case RoleAgent:
		return a.CommissionRate
	case RoleAdmin:
		return decimal.Zero
	default:
		return decimal.Zero
	}
}
