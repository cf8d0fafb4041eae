package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Player struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	AgentID   string          `gorm:"index;size:36;not null" json:"agentId"`
	Name      string          `gorm:"size:128" json:"name"`
	Email     string          `gorm:"size:128" json:"email"`
	Phone     string          `gorm:"size:32" json:"phone"`
	Level     int             `json:"level"`
	Balance   decimal.Decimal `gorm:"type:numeric" json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (p *Player) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
