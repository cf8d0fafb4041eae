package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TxDeposit  TransactionType = "deposit"
	TxWithdraw TransactionType = "withdraw"
)

func (t TransactionType) Valid() bool {
	return t == TxDeposit || t == TxWithdraw
}

// TransactionStatus is terminal once set.
type TransactionStatus string

const (
	TxPending  TransactionStatus = "pending"
	TxSuccess  TransactionStatus = "success"
	TxRejected TransactionStatus = "rejected"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TxPending, TxSuccess, TxRejected:
		return true
	}
	return false
}

type Transaction struct {
	ID        string            `gorm:"primaryKey;size:36" json:"id"`
	PlayerID  string            `gorm:"index;size:36;not null" json:"playerId"`
	Type      TransactionType   `gorm:"size:16;index" json:"type"`
	Status    TransactionStatus `gorm:"size:16;index" json:"status"`
	Amount    decimal.Decimal   `gorm:"type:numeric" json:"amount"`
	Note      string            `gorm:"size:255" json:"note,omitempty"`
	CreatedAt time.Time         `gorm:"index" json:"createdAt"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
