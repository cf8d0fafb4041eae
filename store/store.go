package store

import (
	"context"
	"slices"

	"cayo/models"
)

// State is the whole record set: four collections plus settings.
type State struct {
	Accounts     []models.Account
	Players      []models.Player
	Transactions []models.Transaction
	Bets         []models.Bet
	Settings     []models.Setting
}

// Store hands out consistent snapshots and writes whole states back.
// Update runs fn against a private snapshot and persists it only when fn
// returns nil; concurrent Updates on one Store are serialized.
type Store interface {
	LoadAll(ctx context.Context) (*Snapshot, error)
	Persist(ctx context.Context, st *State) error
	Update(ctx context.Context, fn func(*Snapshot) error) error
	Ping(ctx context.Context) error
}

func (s *State) Clone() *State {
	if s == nil {
		return &State{}
	}
	out := &State{
		Accounts:     slices.Clone(s.Accounts),
		Players:      slices.Clone(s.Players),
		Transactions: slices.Clone(s.Transactions),
		Bets:         slices.Clone(s.Bets),
		Settings:     make([]models.Setting, len(s.Settings)),
	}
	for i, st := range s.Settings {
		st.Value = slices.Clone(st.Value)
		out.Settings[i] = st
	}
	for i := range out.Bets {
		if at := out.Bets[i].SettledAt; at != nil {
			t := *at
			out.Bets[i].SettledAt = &t
		}
	}
	return out
}
