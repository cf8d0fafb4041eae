package helpers

import (
	"errors"

	"cayo/errs"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func JSONSuccess(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func JSONCreated(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// JSONError renders err with the status its kind maps to. Errors without a
// kind are internal and their text never reaches the client.
func JSONError(c *fiber.Ctx, err error) error {
	kind := errs.KindOf(err)
	return c.Status(errs.Status(kind)).JSON(fiber.Map{
		"success":   false,
		"message":   errs.MessageOf(err),
		"code":      kind,
		"retriable": errs.Retriable(kind),
		"data":      nil,
	})
}

// ErrorHandler is the fiber.Config ErrorHandler. It folds fiber's own errors
// (unknown route, bad method, oversized body) into the same envelope.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			switch fe.Code {
			case fiber.StatusNotFound:
				err = errs.NewNotFound("ROUTE_NOT_FOUND")
			case fiber.StatusMethodNotAllowed:
				err = errs.NewValidation("METHOD_NOT_ALLOWED")
			case fiber.StatusUnauthorized:
				err = errs.NewUnauthenticated("UNAUTHENTICATED")
			case fiber.StatusForbidden:
				err = errs.NewForbidden("FORBIDDEN")
			default:
				if fe.Code < fiber.StatusInternalServerError {
					err = errs.Wrap(errs.Validation, "BAD_REQUEST", fe)
				}
			}
		}
		if errs.KindOf(err) == errs.Internal {
			log.Error("unhandled error",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}
		return JSONError(c, err)
	}
}

// FormatMoney rounds a money figure for display.
func FormatMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
