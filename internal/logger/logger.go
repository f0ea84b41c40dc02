// Package logger provides the structured, levelled logger used across the
// storefront, built on log/slog.
//
// FromCtx returns a logger already tagged with the request id assigned by the
// requestid middleware, so every line a handler writes is correlated:
//
//	log := logger.FromCtx(c)
//	log.Info("order placed", "order_id", order.ID)
package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
)

// RequestIDKey is the Fiber locals key the requestid middleware stores ids under.
const RequestIDKey = "requestid"

// Setup installs the default logger: JSON for production, text otherwise.
func Setup(production bool) *slog.Logger {
	return SetupWriter(os.Stdout, production)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(w io.Writer, production bool) *slog.Logger {
	var handler slog.Handler
	if production {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

// FromCtx returns the default logger tagged with the request id of c, if any.
func FromCtx(c *fiber.Ctx) *slog.Logger {
	if id, ok := c.Locals(RequestIDKey).(string); ok && id != "" {
		return slog.Default().With("request_id", id)
	}
	return slog.Default()
}
