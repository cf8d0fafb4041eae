package ledger

import (
	"strings"
	"time"

	"cayo/errs"
	"cayo/models"
	"cayo/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type NewTransaction struct {
	Type   models.TransactionType
	Status models.TransactionStatus
	Amount decimal.Decimal
	Note   string
}

// ApplyTransaction records a deposit or withdraw. Only a successful one moves
// the player balance and the house wallet; pending and rejected ones are kept
// for the record.
func ApplyTransaction(snap *store.Snapshot, playerID string, req NewTransaction, now time.Time) (models.Transaction, error) {
	p, ok := snap.Player(playerID)
	if !ok {
		return models.Transaction{}, errs.NewNotFound("PLAYER_NOT_FOUND")
	}
	if !req.Type.Valid() {
		return models.Transaction{}, errs.NewValidation("INVALID_TRANSACTION_TYPE")
	}
	if req.Status == "" {
		req.Status = models.TxSuccess
	}
	if !req.Status.Valid() {
		return models.Transaction{}, errs.NewValidation("INVALID_TRANSACTION_STATUS")
	}
	if !req.Amount.IsPositive() {
		return models.Transaction{}, errs.NewValidation("AMOUNT_MUST_BE_POSITIVE")
	}

	if req.Status == models.TxSuccess {
		delta := req.Amount
		if req.Type == models.TxWithdraw {
			if p.Balance.LessThan(req.Amount) {
				return models.Transaction{}, errs.NewValidation("INSUFFICIENT_BALANCE")
			}
			delta = req.Amount.Neg()
		}
		p.Balance = p.Balance.Add(delta)
		p.UpdatedAt = now
		if err := adjustWallet(snap, delta, now); err != nil {
			return models.Transaction{}, err
		}
	}

	note := strings.TrimSpace(req.Note)
	if note == "" {
		note = "System " + string(req.Type) + " via API"
	}
	tx := models.Transaction{
		ID:        uuid.NewString(),
		PlayerID:  playerID,
		Type:      req.Type,
		Status:    req.Status,
		Amount:    req.Amount,
		Note:      note,
		CreatedAt: now,
	}
	snap.AddTransaction(tx)
	return tx, nil
}

// Wallet reads the house float; a missing setting is an empty wallet.
func Wallet(snap *store.Snapshot) (models.Wallet, error) {
	s, ok := snap.Setting(models.SettingWallet)
	if !ok {
		return models.Wallet{}, nil
	}
	w, err := models.DecodeWallet(s)
	if err != nil {
		return models.Wallet{}, errs.Wrap(errs.Internal, "CORRUPT_WALLET_SETTING", err)
	}
	return w, nil
}

func adjustWallet(snap *store.Snapshot, delta decimal.Decimal, now time.Time) error {
	w, err := Wallet(snap)
	if err != nil {
		return err
	}
	w.Amount = w.Amount.Add(delta)
	s, err := w.Setting()
	if err != nil {
		return errs.Wrap(errs.Internal, "WALLET_ENCODE_FAILED", err)
	}
	s.UpdatedAt = now
	snap.PutSetting(s)
	return nil
}
