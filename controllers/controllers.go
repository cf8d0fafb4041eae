package controllers

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"cayo/errs"
	"cayo/services/auth"
	"cayo/services/events"
	"cayo/store"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Deps is what every handler group is built from.
type Deps struct {
	Store  store.Store
	Auth   *auth.Resolver
	Events events.Publisher
	Log    *zap.Logger
	Now    func() time.Time
}

func (d Deps) Clock() time.Time {
	if d.Now == nil {
		return time.Now().UTC()
	}
	return d.Now()
}

// Emit publishes an event after a committed write; failures are only logged.
func (d Deps) Emit(ctx context.Context, e events.Event) {
	if d.Events == nil {
		return
	}
	events.Emit(ctx, d.Events, d.Log, e)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Bind parses the JSON body into req and validates it. The first failing
// field becomes the message, e.g. INVALID_AMOUNT.
func Bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return errs.Wrap(errs.Validation, "INVALID_JSON", err)
	}
	if err := validate.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return errs.Wrap(errs.Validation, "INVALID_"+upperSnake(ve[0].Field()), err)
		}
		return errs.Wrap(errs.Validation, "INVALID_REQUEST", err)
	}
	return nil
}

func upperSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}
