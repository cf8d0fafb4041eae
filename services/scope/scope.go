package scope

import (
	"cayo/models"
	"cayo/services/auth"
	"cayo/store"
)

// Scope is the set of records one identity may see within a snapshot.
// It never broadens: an agent is pinned to itself whatever agent filter the
// client asks for, and an admin's filter only narrows.
type Scope struct {
	snap    *store.Snapshot
	all     bool
	none    bool
	agentID string
}

func New(snap *store.Snapshot, id auth.Identity, requestedAgent string) Scope {
	switch id.Role {
	case models.RoleAdmin:
		if requestedAgent != "" {
			return Scope{snap: snap, agentID: requestedAgent}
		}
		return Scope{snap: snap, all: true}
	case models.RoleAgent:
		return Scope{snap: snap, agentID: id.ID}
	default:
		return Scope{snap: snap, none: true}
	}
}

// Owns reports whether records owned by agentID are visible.
func (s Scope) Owns(agentID string) bool {
	if s.none {
		return false
	}
	return s.all || agentID == s.agentID
}

// AgentID is the single agent this scope is pinned to, empty when unpinned.
func (s Scope) AgentID() string {
	if s.all || s.none {
		return ""
	}
	return s.agentID
}

// OwnsPlayer resolves playerID's owner through the snapshot index.
func (s Scope) OwnsPlayer(playerID string) bool {
	owner, ok := s.snap.PlayerOwner(playerID)
	return ok && s.Owns(owner)
}

func (s Scope) Players() []models.Player {
	switch {
	case s.none:
		return nil
	case s.all:
		return Filter(s.snap.Players, func(models.Player) (string, bool) { return "", true }, s)
	default:
		return s.snap.PlayersOf(s.agentID)
	}
}

func (s Scope) Transactions() []models.Transaction {
	return Filter(s.snap.Transactions, func(t models.Transaction) (string, bool) {
		return s.snap.PlayerOwner(t.PlayerID)
	}, s)
}

func (s Scope) Bets() []models.Bet {
	return Filter(s.snap.Bets, func(b models.Bet) (string, bool) {
		return s.snap.PlayerOwner(b.PlayerID)
	}, s)
}

// Agents lists the agent accounts whose records are visible.
func (s Scope) Agents() []models.Account {
	switch {
	case s.none:
		return nil
	case s.all:
		return s.snap.Agents()
	}
	if a, ok := s.snap.Account(s.agentID); ok && a.Role == models.RoleAgent {
		return []models.Account{*a}
	}
	return nil
}

// Filter keeps, in input order, the records whose owner the scope covers.
// Records whose owner cannot be resolved are only visible to an unpinned admin.
func Filter[T any](records []T, owner func(T) (string, bool), s Scope) []T {
	if s.none {
		return nil
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		if s.all {
			out = append(out, r)
			continue
		}
		if id, ok := owner(r); ok && id == s.agentID {
			out = append(out, r)
		}
	}
	return out
}
