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

type NewBet struct {
	Sport string
	Stake decimal.Decimal
	Odds  decimal.Decimal
}

// PlaceBet debits the stake and opens the bet with no payout.
func PlaceBet(snap *store.Snapshot, playerID string, req NewBet, now time.Time) (models.Bet, error) {
	p, ok := snap.Player(playerID)
	if !ok {
		return models.Bet{}, errs.NewNotFound("PLAYER_NOT_FOUND")
	}
	sport := strings.TrimSpace(req.Sport)
	if sport == "" {
		return models.Bet{}, errs.NewValidation("SPORT_REQUIRED")
	}
	if !req.Stake.IsPositive() {
		return models.Bet{}, errs.NewValidation("STAKE_MUST_BE_POSITIVE")
	}
	if !req.Odds.IsPositive() {
		return models.Bet{}, errs.NewValidation("ODDS_MUST_BE_POSITIVE")
	}
	if p.Balance.LessThan(req.Stake) {
		return models.Bet{}, errs.NewValidation("INSUFFICIENT_BALANCE")
	}

	p.Balance = p.Balance.Sub(req.Stake)
	p.UpdatedAt = now

	b := models.Bet{
		ID:        uuid.NewString(),
		PlayerID:  playerID,
		Sport:     sport,
		Stake:     req.Stake,
		Odds:      req.Odds,
		Outcome:   models.OutcomeOpen,
		CreatedAt: now,
	}
	snap.AddBet(b)
	return b, nil
}

// SettleBet closes an open bet and credits its payout to the player.
func SettleBet(snap *store.Snapshot, betID string, outcome models.Outcome, now time.Time) (models.Bet, error) {
	b, ok := snap.Bet(betID)
	if !ok {
		return models.Bet{}, errs.NewNotFound("BET_NOT_FOUND")
	}
	if outcome != models.OutcomeWin && outcome != models.OutcomeLose {
		return models.Bet{}, errs.NewValidation("OUTCOME_MUST_BE_WIN_OR_LOSE")
	}
	if b.Outcome != models.OutcomeOpen {
		return models.Bet{}, errs.NewValidation("BET_ALREADY_SETTLED")
	}

	b.Outcome = outcome
	b.Payout = models.PayoutFor(b.Stake, b.Odds, outcome)
	settled := now
	b.SettledAt = &settled

	if p, ok := snap.Player(b.PlayerID); ok && b.Payout.Decimal.IsPositive() {
		p.Balance = p.Balance.Add(b.Payout.Decimal)
		p.UpdatedAt = now
	}
	return *b, nil
}
