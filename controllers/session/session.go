package session

import (
	"cayo/controllers"
	"cayo/errs"
	"cayo/helpers"
	"cayo/metrics"
	"cayo/middlewares"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	controllers.Deps
}

func New(d controllers.Deps) *Handler {
	return &Handler{Deps: d}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=128"`
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := controllers.Bind(c, &req); err != nil {
		return helpers.JSONError(c, err)
	}

	sess, err := h.Auth.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errs.Is(err, errs.InvalidCredentials) {
			metrics.Logins.WithLabelValues("rejected").Inc()
		}
		return helpers.JSONError(c, err)
	}
	metrics.Logins.WithLabelValues("ok").Inc()

	return helpers.JSONSuccess(c, "Login successful", sess)
}

func (h *Handler) Me(c *fiber.Ctx) error {
	return helpers.JSONSuccess(c, "OK", middlewares.CurrentIdentity(c))
}
