package bet

import (
	"sort"
	"strings"

	"cayo/controllers"
	"cayo/errs"
	"cayo/helpers"
	"cayo/metrics"
	"cayo/middlewares"
	"cayo/models"
	"cayo/services/events"
	"cayo/services/ledger"
	"cayo/services/scope"
	"cayo/store"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Handler struct {
	controllers.Deps
}

func New(d controllers.Deps) *Handler {
	return &Handler{Deps: d}
}

type Row struct {
	models.Bet
	PlayerName string `json:"playerName"`
	AgentID    string `json:"agentId"`
}

func (h *Handler) ListBets(c *fiber.Ctx) error {
	page, err := helpers.ParsePage(c.Query("page"), c.Query("pageSize"))
	if err != nil {
		return helpers.JSONError(c, err)
	}
	outcome := models.Outcome(c.Query("outcome"))
	if outcome != "" && !outcome.Valid() {
		return helpers.JSONError(c, errs.NewValidation("INVALID_OUTCOME"))
	}

	snap, err := h.Store.LoadAll(c.UserContext())
	if err != nil {
		return helpers.JSONError(c, err)
	}
	sc := scope.New(snap, middlewares.CurrentIdentity(c), c.Query("agentId"))

	q := c.Query("q")
	playerID := c.Query("playerId")
	sport := strings.TrimSpace(c.Query("sport"))
	rows := make([]Row, 0)
	for _, b := range sc.Bets() {
		if playerID != "" && b.PlayerID != playerID {
			continue
		}
		if outcome != "" && b.Outcome != outcome {
			continue
		}
		if sport != "" && !strings.EqualFold(b.Sport, sport) {
			continue
		}
		r := Row{Bet: b}
		if p, ok := snap.Player(b.PlayerID); ok {
			r.PlayerName = p.Name
			r.AgentID = p.AgentID
		}
		if !helpers.Matches(q, r.PlayerName, b.Sport, b.ID, b.PlayerID) {
			continue
		}
		rows = append(rows, r)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	return helpers.JSONSuccess(c, "OK", helpers.Paginate(rows, page))
}

type PlaceBetRequest struct {
	Sport string  `json:"sport" validate:"required,max=64"`
	Stake float64 `json:"stake" validate:"gt=0"`
	Odds  float64 `json:"odds" validate:"gt=0"`
}

func (h *Handler) PlaceBet(c *fiber.Ctx) error {
	var req PlaceBetRequest
	if err := controllers.Bind(c, &req); err != nil {
		return helpers.JSONError(c, err)
	}

	actor := middlewares.CurrentIdentity(c)
	playerID := c.Params("id")
	var b models.Bet
	err := h.Store.Update(c.UserContext(), func(snap *store.Snapshot) error {
		if !scope.New(snap, actor, "").OwnsPlayer(playerID) {
			return errs.NewNotFound("PLAYER_NOT_FOUND")
		}
		var err error
		b, err = ledger.PlaceBet(snap, playerID, ledger.NewBet{
			Sport: req.Sport,
			Stake: decimal.NewFromFloat(req.Stake),
			Odds:  decimal.NewFromFloat(req.Odds),
		}, h.Clock())
		return err
	})
	if err != nil {
		return helpers.JSONError(c, err)
	}

	metrics.Bets.WithLabelValues(string(b.Outcome)).Inc()
	h.Emit(c.UserContext(), events.New(events.BetPlaced, actor.ID, b.ID, b))
	return helpers.JSONCreated(c, "Bet placed successfully", b)
}

type SettleBetRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=win lose"`
}

func (h *Handler) SettleBet(c *fiber.Ctx) error {
	var req SettleBetRequest
	if err := controllers.Bind(c, &req); err != nil {
		return helpers.JSONError(c, err)
	}

	var b models.Bet
	err := h.Store.Update(c.UserContext(), func(snap *store.Snapshot) error {
		var err error
		b, err = ledger.SettleBet(snap, c.Params("id"), models.Outcome(req.Outcome), h.Clock())
		return err
	})
	if err != nil {
		return helpers.JSONError(c, err)
	}
	if err := b.CheckPayout(); err != nil {
		h.Log.Error("settled bet violates payout rule", zap.Error(err))
	}

	metrics.Bets.WithLabelValues(string(b.Outcome)).Inc()
	h.Emit(c.UserContext(), events.New(events.BetSettled, middlewares.CurrentIdentity(c).ID, b.ID, b))
	return helpers.JSONSuccess(c, "Bet settled successfully", b)
}
