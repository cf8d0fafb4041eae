package scope

import (
	"testing"

	"cayo/models"
	"cayo/services/auth"
	"cayo/store"
)

func fixture() *store.Snapshot {
	return store.NewSnapshot(&store.State{
		Accounts: []models.Account{
			{ID: "root", Role: models.RoleAdmin},
			{ID: "A", Role: models.RoleAgent},
			{ID: "B", Role: models.RoleAgent},
		},
		Players: []models.Player{
			{ID: "p1", AgentID: "A"},
			{ID: "p2", AgentID: "B"},
			{ID: "p3", AgentID: "A"},
		},
		Transactions: []models.Transaction{
			{ID: "t1", PlayerID: "p2"},
			{ID: "t2", PlayerID: "p3"},
			{ID: "t3", PlayerID: "p1"},
			{ID: "t4", PlayerID: "ghost"},
		},
		Bets: []models.Bet{
			{ID: "b1", PlayerID: "p1"},
			{ID: "b2", PlayerID: "p2"},
			{ID: "b3", PlayerID: "p3"},
		},
	})
}

var (
	admin  = auth.Identity{ID: "root", Role: models.RoleAdmin}
	agentA = auth.Identity{ID: "A", Role: models.RoleAgent}
)

func ids[T any](rows []T, id func(T) string) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, id(r))
	}
	return out
}

func equal(t *testing.T, what string, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s = %v, want %v", what, got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("%s = %v, want %v", what, got, want)
		}
	}
}

func playerID(p models.Player) string   { return p.ID }
func txID(t models.Transaction) string  { return t.ID }
func betID(b models.Bet) string         { return b.ID }
func accountID(a models.Account) string { return a.ID }

func TestAdminSeesEverythingInOrder(t *testing.T) {
	s := New(fixture(), admin, "")
	equal(t, "players", ids(s.Players(), playerID), []string{"p1", "p2", "p3"})
	equal(t, "transactions", ids(s.Transactions(), txID), []string{"t1", "t2", "t3", "t4"})
	equal(t, "bets", ids(s.Bets(), betID), []string{"b1", "b2", "b3"})
	equal(t, "agents", ids(s.Agents(), accountID), []string{"A", "B"})
}

func TestAgentSeesOnlyOwnRecords(t *testing.T) {
	s := New(fixture(), agentA, "")
	equal(t, "players", ids(s.Players(), playerID), []string{"p1", "p3"})
	equal(t, "transactions", ids(s.Transactions(), txID), []string{"t2", "t3"})
	equal(t, "bets", ids(s.Bets(), betID), []string{"b1", "b3"})
	equal(t, "agents", ids(s.Agents(), accountID), []string{"A"})
	if s.OwnsPlayer("p2") || !s.OwnsPlayer("p1") {
		t.Fatal("OwnsPlayer mismatch")
	}
}

func TestAgentCannotWidenWithFilter(t *testing.T) {
	s := New(fixture(), agentA, "B")
	equal(t, "players", ids(s.Players(), playerID), []string{"p1", "p3"})
	equal(t, "bets", ids(s.Bets(), betID), []string{"b1", "b3"})
	if s.AgentID() != "A" {
		t.Fatalf("AgentID = %q", s.AgentID())
	}
}

func TestAdminFilterNarrows(t *testing.T) {
	s := New(fixture(), admin, "B")
	equal(t, "players", ids(s.Players(), playerID), []string{"p2"})
	equal(t, "transactions", ids(s.Transactions(), txID), []string{"t1"})
	equal(t, "agents", ids(s.Agents(), accountID), []string{"B"})
}

func TestUnknownRoleSeesNothing(t *testing.T) {
	s := New(fixture(), auth.Identity{ID: "A", Role: models.Role("player")}, "")
	if len(s.Players())+len(s.Transactions())+len(s.Bets())+len(s.Agents()) != 0 {
		t.Fatal("unknown role must see nothing")
	}
}

// Every agent scope is exactly the records whose owner is that agent.
func TestAgentScopeMatchesOwnership(t *testing.T) {
	snap := fixture()
	for _, agent := range []string{"A", "B", "nobody"} {
		s := New(snap, auth.Identity{ID: agent, Role: models.RoleAgent}, "")
		var want []string
		for _, tx := range snap.Transactions {
			if owner, ok := snap.PlayerOwner(tx.PlayerID); ok && owner == agent {
				want = append(want, tx.ID)
			}
		}
		equal(t, agent+" transactions", ids(s.Transactions(), txID), want)
	}
}
