package wallet

import (
	"cayo/controllers"
	"cayo/helpers"
	"cayo/services/ledger"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	controllers.Deps
}

func New(d controllers.Deps) *Handler {
	return &Handler{Deps: d}
}

func (h *Handler) Wallet(c *fiber.Ctx) error {
	snap, err := h.Store.LoadAll(c.UserContext())
	if err != nil {
		return helpers.JSONError(c, err)
	}
	w, err := ledger.Wallet(snap)
	if err != nil {
		return helpers.JSONError(c, err)
	}
	w.Amount = helpers.FormatMoney(w.Amount)
	return helpers.JSONSuccess(c, "OK", w)
}
