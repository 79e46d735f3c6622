package middleware

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// Config carries optional dependencies for the shared middleware chain.
type Config struct {
	Logger *zerolog.Logger
}

// Register installs the middleware chain every request passes through:
// panic recovery, correlation tagging, metrics, request logging and CORS.
func Register(app *fiber.App, cfg Config) {
	requestLogger := zerolog.New(io.Discard)
	if cfg.Logger != nil {
		requestLogger = *cfg.Logger
	}

	chain := []fiber.Handler{
		recover.New(),
		CorrelationID(),
		Observability(requestLogger),
		logger.New(),
		cors.New(cors.Config{
			AllowOrigins: "*",
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
			AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		}),
	}
	for _, mw := range chain {
		app.Use(mw)
	}
}
