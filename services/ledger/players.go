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

type NewPlayer struct {
	AgentID string
	Name    string
	Email   string
	Phone   string
	Level   int
}

func CreatePlayer(snap *store.Snapshot, req NewPlayer, now time.Time) (models.Player, error) {
	if !snap.IsAgent(req.AgentID) {
		return models.Player{}, errs.NewValidation("AGENT_NOT_FOUND")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Player{}, errs.NewValidation("NAME_REQUIRED")
	}
	level := req.Level
	if level <= 0 {
		level = 1
	}
	p := models.Player{
		ID:        uuid.NewString(),
		AgentID:   req.AgentID,
		Name:      name,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		Level:     level,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	snap.AddPlayer(p)
	return p, nil
}

type PlayerPatch struct {
	Name  *string
	Email *string
	Phone *string
	Level *int
}

// PatchPlayer edits contact fields and tier. Ownership and balance are not
// editable here; balance only moves through transactions and bets.
func PatchPlayer(snap *store.Snapshot, id string, patch PlayerPatch, now time.Time) (models.Player, error) {
	p, ok := snap.Player(id)
	if !ok {
		return models.Player{}, errs.NewNotFound("PLAYER_NOT_FOUND")
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return models.Player{}, errs.NewValidation("NAME_REQUIRED")
		}
		p.Name = name
	}
	if patch.Email != nil {
		p.Email = strings.ToLower(strings.TrimSpace(*patch.Email))
	}
	if patch.Phone != nil {
		p.Phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.Level != nil {
		if *patch.Level < 1 {
			return models.Player{}, errs.NewValidation("LEVEL_OUT_OF_RANGE")
		}
		p.Level = *patch.Level
	}
	p.UpdatedAt = now
	return *p, nil
}
