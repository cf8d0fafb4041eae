package dashboard

import (
	"time"

	"cayo/controllers"
	"cayo/helpers"
	"cayo/middlewares"
	"cayo/services/report"
	"cayo/services/scope"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type Handler struct {
	controllers.Deps
}

func New(d controllers.Deps) *Handler {
	return &Handler{Deps: d}
}

// summarize scopes the snapshot to the caller and reduces it over the
// from/to window of the query. The scope is returned so callers can echo
// the agent filter that was actually applied.
func (h *Handler) summarize(c *fiber.Ctx) (report.Summary, report.Window, scope.Scope, error) {
	w, err := helpers.ParseWindow(c.Query("from"), c.Query("to"))
	if err != nil {
		return report.Summary{}, w, scope.Scope{}, err
	}
	snap, err := h.Store.LoadAll(c.UserContext())
	if err != nil {
		return report.Summary{}, w, scope.Scope{}, err
	}
	sc := scope.New(snap, middlewares.CurrentIdentity(c), c.Query("agentId"))

	sum := report.Summarize(report.Input{
		Agents:       sc.Agents(),
		Players:      sc.Players(),
		Bets:         sc.Bets(),
		Transactions: sc.Transactions(),
		Window:       w,
		Owners:       snap,
	})
	return sum.Rounded(), w, sc, nil
}

func (h *Handler) Summary(c *fiber.Ctx) error {
	sum, _, _, err := h.summarize(c)
	if err != nil {
		return helpers.JSONError(c, err)
	}
	return helpers.JSONSuccess(c, "OK", sum)
}

type CommissionReport struct {
	AgentID     string             `json:"agentId,omitempty"`
	From        *time.Time         `json:"from"`
	To          *time.Time         `json:"to"`
	Agents      []report.AgentLine `json:"agents"`
	TotalStake  decimal.Decimal    `json:"totalStake"`
	TotalPayout decimal.Decimal    `json:"totalPayout"`
	GGR         decimal.Decimal    `json:"ggr"`
	Commission  decimal.Decimal    `json:"commission"`
}

func (h *Handler) Commissions(c *fiber.Ctx) error {
	sum, w, sc, err := h.summarize(c)
	if err != nil {
		return helpers.JSONError(c, err)
	}
	out := CommissionReport{
		AgentID:     sc.AgentID(),
		Agents:      sum.Agents,
		TotalStake:  sum.TotalStake,
		TotalPayout: sum.TotalPayout,
		GGR:         sum.GGR,
		Commission:  sum.Commission,
	}
	if !w.From.IsZero() {
		out.From = &w.From
	}
	if !w.To.IsZero() {
		out.To = &w.To
	}
	return helpers.JSONSuccess(c, "OK", out)
}
