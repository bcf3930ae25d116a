package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"memoapi/internal/config"
)

// Recover turns handler panics into errors for the global error handler.
func Recover() fiber.Handler {
	return recover.New()
}

// SecurityHeaders sets the usual hardening headers. The content security policy
// allows the htmx script used by the HTML front end. Swagger UI relies on inline
// scripts and is left alone.
func SecurityHeaders() fiber.Handler {
	return helmet.New(helmet.Config{
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/swagger")
		},
		ContentSecurityPolicy: "default-src 'self'; script-src 'self' https://unpkg.com; style-src 'self' 'unsafe-inline'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	})
}

// CORS allows the configured origins.
func CORS(cfg config.CORSConfig) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:  strings.Join(cfg.AllowedOrigins, ","),
		AllowMethods:  "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept," + RequestIDHeader,
		ExposeHeaders: RequestIDHeader,
		MaxAge:        3600,
	})
}

// RateLimit applies a per-IP fixed window. Probes and metrics are never limited.
// A non-positive Max disables limiting.
func RateLimit(cfg config.RateLimitConfig) fiber.Handler {
	if cfg.Max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        cfg.Max,
		Expiration: time.Duration(cfg.WindowSec) * time.Second,
		Next: func(c *fiber.Ctx) bool {
			switch c.Path() {
			case "/health", "/healthz", MetricsPath:
				return true
			}
			return false
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.ErrTooManyRequests
		},
	})
}
