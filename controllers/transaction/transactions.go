package transaction

import (
	"sort"

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
)

type Handler struct {
	controllers.Deps
}

func New(d controllers.Deps) *Handler {
	return &Handler{Deps: d}
}

// Row is a transaction with its player resolved for display.
type Row struct {
	models.Transaction
	PlayerName string `json:"playerName"`
	AgentID    string `json:"agentId"`
}

func (h *Handler) ListTransactions(c *fiber.Ctx) error {
	page, err := helpers.ParsePage(c.Query("page"), c.Query("pageSize"))
	if err != nil {
		return helpers.JSONError(c, err)
	}
	txType := models.TransactionType(c.Query("type"))
	if txType != "" && !txType.Valid() {
		return helpers.JSONError(c, errs.NewValidation("INVALID_TYPE"))
	}
	status := models.TransactionStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		return helpers.JSONError(c, errs.NewValidation("INVALID_STATUS"))
	}

	snap, err := h.Store.LoadAll(c.UserContext())
	if err != nil {
		return helpers.JSONError(c, err)
	}
	sc := scope.New(snap, middlewares.CurrentIdentity(c), c.Query("agentId"))

	q := c.Query("q")
	playerID := c.Query("playerId")
	rows := make([]Row, 0)
	for _, t := range sc.Transactions() {
		if playerID != "" && t.PlayerID != playerID {
			continue
		}
		if txType != "" && t.Type != txType {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		r := Row{Transaction: t}
		if p, ok := snap.Player(t.PlayerID); ok {
			r.PlayerName = p.Name
			r.AgentID = p.AgentID
		}
		if !helpers.Matches(q, r.PlayerName, t.Note, t.ID, t.PlayerID) {
			continue
		}
		rows = append(rows, r)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	return helpers.JSONSuccess(c, "OK", helpers.Paginate(rows, page))
}

type CreateTransactionRequest struct {
	Type   string  `json:"type" validate:"required,oneof=deposit withdraw"`
	Status string  `json:"status" validate:"omitempty,oneof=pending success rejected"`
	Amount float64 `json:"amount" validate:"gt=0"`
	Note   string  `json:"note" validate:"max=255"`
}

func (h *Handler) CreateTransaction(c *fiber.Ctx) error {
	var req CreateTransactionRequest
	if err := controllers.Bind(c, &req); err != nil {
		return helpers.JSONError(c, err)
	}

	actor := middlewares.CurrentIdentity(c)
	playerID := c.Params("id")
	var tx models.Transaction
	err := h.Store.Update(c.UserContext(), func(snap *store.Snapshot) error {
		if !scope.New(snap, actor, "").OwnsPlayer(playerID) {
			return errs.NewNotFound("PLAYER_NOT_FOUND")
		}
		var err error
		tx, err = ledger.ApplyTransaction(snap, playerID, ledger.NewTransaction{
			Type:   models.TransactionType(req.Type),
			Status: models.TransactionStatus(req.Status),
			Amount: decimal.NewFromFloat(req.Amount),
			Note:   req.Note,
		}, h.Clock())
		return err
	})
	if err != nil {
		return helpers.JSONError(c, err)
	}

	metrics.Transactions.WithLabelValues(string(tx.Type), string(tx.Status)).Inc()
	h.Emit(c.UserContext(), events.New(events.TransactionCreated, actor.ID, tx.ID, tx))
	return helpers.JSONCreated(c, "Transaction recorded successfully", tx)
}
