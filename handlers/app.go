// handlers/app.go
package handlers

import (
	"strings"

	"nird-resistance/middleware"
	"nird-resistance/services"
	"nird-resistance/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

// Deps is everything the HTTP layer needs. Captcha may be nil.
type Deps struct {
	Warriors       *services.WarriorService
	Queries        *services.QueryService
	Captcha        *services.CaptchaService
	Health         *workers.HealthMonitor
	AllowedOrigins []string
	Logger         *zap.Logger
}

// NewApp builds the fiber app with middleware and every route mounted.
func NewApp(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "nird-resistance",
		BodyLimit:             64 * 1024,
		ErrorHandler:          ErrorHandler(d.Logger),
		DisableStartupMessage: true,
	})

	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(d.Logger))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(d.AllowedOrigins, ","),
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, X-Request-ID",
		ExposeHeaders: "Content-Length, Content-Type, X-Request-ID",
		MaxAge:        86400, // 24 hours
	}))

	SetupSystemRoutes(app, d.Health)

	api := app.Group("/api")
	SetupWarriorRoutes(api, d.Warriors, d.Queries)
	SetupStatsRoutes(api, d.Queries)
	if d.Captcha != nil {
		SetupCaptchaRoutes(api, d.Captcha)
	}

	app.Use(NotFound)
	return app
}
