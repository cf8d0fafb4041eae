package report

import (
	"time"

	"cayo/models"

	"github.com/shopspring/decimal"
)

// Window is an inclusive time range; a zero bound is open.
type Window struct {
	From time.Time
	To   time.Time
}

func (w Window) Contains(t time.Time) bool {
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && t.After(w.To) {
		return false
	}
	return true
}

// OwnerIndex resolves a player to its owning agent.
type OwnerIndex interface {
	PlayerOwner(playerID string) (string, bool)
}

// Input is an already scoped record set. Agents carries the rates.
type Input struct {
	Agents       []models.Account
	Players      []models.Player
	Bets         []models.Bet
	Transactions []models.Transaction
	Window       Window
	Owners       OwnerIndex
}

type AgentLine struct {
	AgentID      string          `json:"agentId"`
	Username     string          `json:"username"`
	Name         string          `json:"name"`
	Rate         decimal.Decimal `json:"rate"`
	PlayersCount int             `json:"playersCount"`
	BetsCount    int             `json:"betsCount"`
	TotalStake   decimal.Decimal `json:"totalStake"`
	TotalPayout  decimal.Decimal `json:"totalPayout"`
	GGR          decimal.Decimal `json:"ggr"`
	Commission   decimal.Decimal `json:"commission"`
}

type Summary struct {
	PlayersCount   int             `json:"playersCount"`
	BetsCount      int             `json:"betsCount"`
	TotalStake     decimal.Decimal `json:"totalStake"`
	TotalPayout    decimal.Decimal `json:"totalPayout"`
	GGR            decimal.Decimal `json:"ggr"`
	Commission     decimal.Decimal `json:"commission"`
	TotalDeposits  decimal.Decimal `json:"totalDeposits"`
	TotalWithdraws decimal.Decimal `json:"totalWithdraws"`
	Agents         []AgentLine     `json:"agents"`
}

// Summarize reduces a scoped record set in one pass per collection.
// Commission is decomposed per agent: each agent's GGR is multiplied by that
// agent's own rate and the products are summed. Nothing is rounded here.
func Summarize(in Input) Summary {
	var sum Summary

	lines := make([]AgentLine, 0, len(in.Agents))
	pos := make(map[string]int, len(in.Agents))
	for _, a := range in.Agents {
		pos[a.ID] = len(lines)
		lines = append(lines, AgentLine{
			AgentID:  a.ID,
			Username: a.Username,
			Name:     a.DisplayName,
			Rate:     a.Rate(),
		})
	}
	lineOf := func(agentID string) int {
		if i, ok := pos[agentID]; ok {
			return i
		}
		// owner without a visible agent account earns no commission
		pos[agentID] = len(lines)
		lines = append(lines, AgentLine{AgentID: agentID})
		return len(lines) - 1
	}

	sum.PlayersCount = len(in.Players)
	for _, p := range in.Players {
		lines[lineOf(p.AgentID)].PlayersCount++
	}

	for _, b := range in.Bets {
		if !in.Window.Contains(b.CreatedAt) {
			continue
		}
		owner := ""
		if in.Owners != nil {
			owner, _ = in.Owners.PlayerOwner(b.PlayerID)
		}
		l := &lines[lineOf(owner)]
		l.BetsCount++
		l.TotalStake = l.TotalStake.Add(b.Stake)
		if b.Payout.Valid {
			l.TotalPayout = l.TotalPayout.Add(b.Payout.Decimal)
		}
	}

	for i := range lines {
		l := &lines[i]
		l.GGR = l.TotalStake.Sub(l.TotalPayout)
		l.Commission = l.GGR.Mul(l.Rate)

		sum.BetsCount += l.BetsCount
		sum.TotalStake = sum.TotalStake.Add(l.TotalStake)
		sum.TotalPayout = sum.TotalPayout.Add(l.TotalPayout)
		sum.Commission = sum.Commission.Add(l.Commission)
	}
	sum.GGR = sum.TotalStake.Sub(sum.TotalPayout)

	for _, t := range in.Transactions {
		if t.Status != models.TxSuccess || !in.Window.Contains(t.CreatedAt) {
			continue
		}
		switch t.Type {
		case models.TxDeposit:
			sum.TotalDeposits = sum.TotalDeposits.Add(t.Amount)
		case models.TxWithdraw:
			sum.TotalWithdraws = sum.TotalWithdraws.Add(t.Amount)
		}
	}

	sum.Agents = lines
	return sum
}

// Rounded returns the summary with every money figure at two decimals.
// Call it once, when the summary leaves the service.
func (s Summary) Rounded() Summary {
	out := s
	out.TotalStake = money(s.TotalStake)
	out.TotalPayout = money(s.TotalPayout)
	out.GGR = money(s.GGR)
	out.Commission = money(s.Commission)
	out.TotalDeposits = money(s.TotalDeposits)
	out.TotalWithdraws = money(s.TotalWithdraws)
	out.Agents = make([]AgentLine, len(s.Agents))
	for i, l := range s.Agents {
		l.TotalStake = money(l.TotalStake)
		l.TotalPayout = money(l.TotalPayout)
		l.GGR = money(l.GGR)
		l.Commission = money(l.Commission)
		out.Agents[i] = l
	}
	return out
}

func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
