package player

import (
	"sort"
	"strconv"
	"strings"

	"cayo/controllers"
	"cayo/errs"
	"cayo/helpers"
	"cayo/middlewares"
	"cayo/models"
	"cayo/services/events"
	"cayo/services/ledger"
	"cayo/services/scope"
	"cayo/store"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	controllers.Deps
}

func New(d controllers.Deps) *Handler {
	return &Handler{Deps: d}
}

func (h *Handler) ListPlayers(c *fiber.Ctx) error {
	page, err := helpers.ParsePage(c.Query("page"), c.Query("pageSize"))
	if err != nil {
		return helpers.JSONError(c, err)
	}
	level := 0
	if s := c.Query("level"); s != "" {
		if level, err = strconv.Atoi(s); err != nil || level < 1 {
			return helpers.JSONError(c, errs.NewValidation("INVALID_LEVEL"))
		}
	}

	snap, err := h.Store.LoadAll(c.UserContext())
	if err != nil {
		return helpers.JSONError(c, err)
	}
	sc := scope.New(snap, middlewares.CurrentIdentity(c), c.Query("agentId"))

	q := c.Query("q")
	rows := make([]models.Player, 0)
	for _, p := range sc.Players() {
		if level != 0 && p.Level != level {
			continue
		}
		if !helpers.Matches(q, p.Name, p.Email, p.Phone, p.ID) {
			continue
		}
		rows = append(rows, p)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return strings.ToLower(rows[i].Name) < strings.ToLower(rows[j].Name)
	})
	return helpers.JSONSuccess(c, "OK", helpers.Paginate(rows, page))
}

type CreatePlayerRequest struct {
	AgentID string `json:"agentId" validate:"omitempty,max=36"`
	Name    string `json:"name" validate:"required,max=128"`
	Email   string `json:"email" validate:"omitempty,email,max=128"`
	Phone   string `json:"phone" validate:"omitempty,max=32"`
	Level   int    `json:"level" validate:"omitempty,min=1"`
}

// CreatePlayer files the player under the calling agent. An admin has to
// name the agent.
func (h *Handler) CreatePlayer(c *fiber.Ctx) error {
	var req CreatePlayerRequest
	if err := controllers.Bind(c, &req); err != nil {
		return helpers.JSONError(c, err)
	}

	actor := middlewares.CurrentIdentity(c)
	agentID := req.AgentID
	switch actor.Role {
	case models.RoleAgent:
		agentID = actor.ID
	case models.RoleAdmin:
		if agentID == "" {
			return helpers.JSONError(c, errs.NewValidation("AGENT_ID_REQUIRED"))
		}
	default:
		return helpers.JSONError(c, errs.NewForbidden("UNKNOWN_ROLE"))
	}

	var p models.Player
	err := h.Store.Update(c.UserContext(), func(snap *store.Snapshot) error {
		var err error
		p, err = ledger.CreatePlayer(snap, ledger.NewPlayer{
			AgentID: agentID,
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Level:   req.Level,
		}, h.Clock())
		return err
	})
	if err != nil {
		return helpers.JSONError(c, err)
	}

	h.Emit(c.UserContext(), events.New(events.PlayerCreated, actor.ID, p.ID, p))
	return helpers.JSONCreated(c, "Player created successfully", p)
}

type PatchPlayerRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=128"`
	Email *string `json:"email" validate:"omitempty,email,max=128"`
	Phone *string `json:"phone" validate:"omitempty,max=32"`
	Level *int    `json:"level" validate:"omitempty,min=1"`
}

func (h *Handler) PatchPlayer(c *fiber.Ctx) error {
	var req PatchPlayerRequest
	if err := controllers.Bind(c, &req); err != nil {
		return helpers.JSONError(c, err)
	}

	actor := middlewares.CurrentIdentity(c)
	id := c.Params("id")
	var p models.Player
	err := h.Store.Update(c.UserContext(), func(snap *store.Snapshot) error {
		if !scope.New(snap, actor, "").OwnsPlayer(id) {
			return errs.NewNotFound("PLAYER_NOT_FOUND")
		}
		var err error
		p, err = ledger.PatchPlayer(snap, id, ledger.PlayerPatch{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
			Level: req.Level,
		}, h.Clock())
		return err
	})
	if err != nil {
		return helpers.JSONError(c, err)
	}
	return helpers.JSONSuccess(c, "Player updated successfully", p)
}
