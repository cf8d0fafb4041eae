package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Outcome string

const (
	OutcomeOpen Outcome = "open"
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
)

func (o Outcome) Valid() bool {
	switch o {
	case OutcomeOpen, OutcomeWin, OutcomeLose:
		return true
	}
	return false
}

// Payout is null while open, zero on a loss, stake*odds on a win.
type Bet struct {
	ID        string              `gorm:"primaryKey;size:36" json:"id"`
	PlayerID  string              `gorm:"index;size:36;not null" json:"playerId"`
	Sport     string              `gorm:"size:64;index" json:"sport"`
	Stake     decimal.Decimal     `gorm:"type:numeric" json:"stake"`
	Odds      decimal.Decimal     `gorm:"type:numeric" json:"odds"`
	Outcome   Outcome             `gorm:"size:8;index" json:"outcome"`
	Payout    decimal.NullDecimal `gorm:"type:numeric" json:"payout"`
	CreatedAt time.Time           `gorm:"index" json:"createdAt"`
	SettledAt *time.Time          `json:"settledAt,omitempty"`
}

func (b *Bet) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// PayoutFor derives the payout an outcome implies.
func PayoutFor(stake, odds decimal.Decimal, outcome Outcome) decimal.NullDecimal {
	switch outcome {
	case OutcomeWin:
		return decimal.NewNullDecimal(stake.Mul(odds))
	case OutcomeLose:
		return decimal.NewNullDecimal(decimal.Zero)
	default:
		return decimal.NullDecimal{}
	}
}

// CheckPayout reports a bet whose payout disagrees with its outcome.
func (b Bet) CheckPayout() error {
	want := PayoutFor(b.Stake, b.Odds, b.Outcome)
	if want.Valid != b.Payout.Valid {
		return fmt.Errorf("bet %s: outcome %s with payout valid=%t", b.ID, b.Outcome, b.Payout.Valid)
	}
	if want.Valid && !want.Decimal.Round(2).Equal(b.Payout.Decimal.Round(2)) {
		return fmt.Errorf("bet %s: payout %s, want %s", b.ID, b.Payout.Decimal, want.Decimal)
	}
	return nil
}
