package agent

import (
	"strings"

	"cayo/controllers"
	"cayo/errs"
	"cayo/helpers"
	"cayo/middlewares"
	"cayo/models"
	"cayo/services/events"
	"cayo/services/ledger"
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

// ListAccounts shows an admin every account and anyone else only their own.
func (h *Handler) ListAccounts(c *fiber.Ctx) error {
	page, err := helpers.ParsePage(c.Query("page"), c.Query("pageSize"))
	if err != nil {
		return helpers.JSONError(c, err)
	}
	snap, err := h.Store.LoadAll(c.UserContext())
	if err != nil {
		return helpers.JSONError(c, err)
	}

	id := middlewares.CurrentIdentity(c)
	q := c.Query("q")
	role := models.Role(strings.ToLower(c.Query("role")))

	rows := make([]models.Account, 0)
	for _, a := range snap.Accounts {
		if !id.IsAdmin() && a.ID != id.ID {
			continue
		}
		if role != "" && a.Role != role {
			continue
		}
		if !helpers.Matches(q, a.Username, a.DisplayName) {
			continue
		}
		rows = append(rows, a)
	}
	return helpers.JSONSuccess(c, "OK", helpers.Paginate(rows, page))
}

type CreateAccountRequest struct {
	Username       string  `json:"username" validate:"required,min=3,max=32"`
	Password       string  `json:"password" validate:"required,min=6,max=128"`
	Name           string  `json:"name" validate:"max=64"`
	Role           string  `json:"role" validate:"required,oneof=admin agent"`
	CommissionRate float64 `json:"commissionRate" validate:"gte=0,lte=1"`
}

func (h *Handler) CreateAccount(c *fiber.Ctx) error {
	var req CreateAccountRequest
	if err := controllers.Bind(c, &req); err != nil {
		return helpers.JSONError(c, err)
	}

	digest, err := h.Auth.Hash(req.Password)
	if err != nil {
		return helpers.JSONError(c, errs.Wrap(errs.Internal, "HASH_FAILED", err))
	}

	var acc models.Account
	err = h.Store.Update(c.UserContext(), func(snap *store.Snapshot) error {
		var err error
		acc, err = ledger.CreateAccount(snap, ledger.NewAccount{
			Username:       req.Username,
			DisplayName:    req.Name,
			Role:           models.Role(req.Role),
			PasswordHash:   digest,
			CommissionRate: decimal.NewFromFloat(req.CommissionRate),
		}, h.Clock())
		return err
	})
	if err != nil {
		return helpers.JSONError(c, err)
	}

	actor := middlewares.CurrentIdentity(c)
	h.Emit(c.UserContext(), events.New(events.AccountCreated, actor.ID, acc.ID, acc))
	return helpers.JSONCreated(c, "Account created successfully", acc)
}

type PatchAccountRequest struct {
	Name           *string  `json:"name" validate:"omitempty,max=64"`
	Password       *string  `json:"password" validate:"omitempty,min=6,max=128"`
	CommissionRate *float64 `json:"commissionRate" validate:"omitempty,gte=0,lte=1"`
	Active         *bool    `json:"active"`
	Role           *string  `json:"role"`
}

func (h *Handler) PatchAccount(c *fiber.Ctx) error {
	var req PatchAccountRequest
	if err := controllers.Bind(c, &req); err != nil {
		return helpers.JSONError(c, err)
	}

	patch := ledger.AccountPatch{DisplayName: req.Name, Active: req.Active}
	if req.Password != nil {
		digest, err := h.Auth.Hash(*req.Password)
		if err != nil {
			return helpers.JSONError(c, errs.Wrap(errs.Internal, "HASH_FAILED", err))
		}
		patch.PasswordHash = &digest
	}
	if req.CommissionRate != nil {
		rate := decimal.NewFromFloat(*req.CommissionRate)
		patch.CommissionRate = &rate
	}
	if req.Role != nil {
		role := models.Role(strings.ToLower(strings.TrimSpace(*req.Role)))
		patch.Role = &role
	}

	actor := middlewares.CurrentIdentity(c)
	var acc models.Account
	err := h.Store.Update(c.UserContext(), func(snap *store.Snapshot) error {
		var err error
		acc, err = ledger.PatchAccount(snap, actor, c.Params("id"), patch, h.Clock())
		return err
	})
	if err != nil {
		return helpers.JSONError(c, err)
	}
	return helpers.JSONSuccess(c, "Account updated successfully", acc)
}
