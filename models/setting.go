package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const SettingWallet = "wallet"

type Setting struct {
	Key       string         `gorm:"primaryKey;size:64" json:"key"`
	Value     datatypes.JSON `json:"value"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Wallet is the house float kept under the "wallet" setting.
type Wallet struct {
	Amount decimal.Decimal `json:"amount"`
}

func DecodeWallet(s Setting) (Wallet, error) {
	var w Wallet
	if len(s.Value) == 0 {
		return w, nil
	}
	err := json.Unmarshal(s.Value, &w)
	return w, err
}

func (w Wallet) Setting() (Setting, error) {
	b, err := json.Marshal(w)
	if err != nil {
		return Setting{}, err
	}
	return Setting{Key: SettingWallet, Value: datatypes.JSON(b)}, nil
}
