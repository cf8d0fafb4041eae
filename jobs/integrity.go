package jobs

import (
	"context"
	"fmt"
	"time"

	"cayo/metrics"
	"cayo/store"

	"go.uber.org/zap"
)

type Violation struct {
	Kind     string
	RecordID string
	Detail   string
}

// CheckIntegrity lists records the write paths should never have produced:
// bets whose payout disagrees with their outcome, records pointing at a
// missing player and players owned by something other than an agent.
func CheckIntegrity(snap *store.Snapshot) []Violation {
	var out []Violation
	for _, p := range snap.Players {
		if !snap.IsAgent(p.AgentID) {
			out = append(out, Violation{"player_owner", p.ID, fmt.Sprintf("agent %q is not an agent account", p.AgentID)})
		}
	}
	for _, b := range snap.Bets {
		if err := b.CheckPayout(); err != nil {
			out = append(out, Violation{"bet_payout", b.ID, err.Error()})
		}
		if _, ok := snap.Player(b.PlayerID); !ok {
			out = append(out, Violation{"bet_player", b.ID, fmt.Sprintf("player %q missing", b.PlayerID)})
		}
	}
	for _, t := range snap.Transactions {
		if _, ok := snap.Player(t.PlayerID); !ok {
			out = append(out, Violation{"transaction_player", t.ID, fmt.Sprintf("player %q missing", t.PlayerID)})
		}
	}
	return out
}

// StartIntegrityScheduler runs CheckIntegrity every interval until ctx ends.
// A zero interval disables it.
func StartIntegrityScheduler(ctx context.Context, st store.Store, every time.Duration, log *zap.Logger) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runIntegrity(ctx, st, log)
			}
		}
	}()
}

func runIntegrity(ctx context.Context, st store.Store, log *zap.Logger) {
	snap, err := st.LoadAll(ctx)
	if err != nil {
		log.Warn("integrity check skipped", zap.Error(err))
		return
	}
	found := CheckIntegrity(snap)
	metrics.IntegrityViolations.Set(float64(len(found)))
	for _, v := range found {
		log.Error("integrity violation",
			zap.String("kind", v.Kind),
			zap.String("record", v.RecordID),
			zap.String("detail", v.Detail),
		)
	}
}
