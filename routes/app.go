package routes

import (
	"os"

	"cayo/config"
	"cayo/controllers"
	"cayo/helpers"
	"cayo/middlewares"
	"cayo/services/policy"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the fiber app with the API routes and, when the directory
// exists, the single-page panel served from cfg.PublicDir.
func NewApp(cfg config.Config, d controllers.Deps, p *policy.Policy) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.ServiceName,
		ErrorHandler:          helpers.ErrorHandler(d.Log),
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(middlewares.RequestLog(d.Log))
	if cfg.CORSOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.CORSOrigins,
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		}))
	}

	Setup(app, d, p)

	if st, err := os.Stat(cfg.PublicDir); err == nil && st.IsDir() {
		app.Static("/", cfg.PublicDir)
	}
	return app
}
