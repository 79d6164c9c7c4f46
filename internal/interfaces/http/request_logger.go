package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// RequestLogger registra método, ruta, estado y latencia de cada request.
// Los 5xx salen en nivel error.
func RequestLogger(log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		var ev *zerolog.Event
		if status >= fiber.StatusInternalServerError {
			ev = log.Error().Err(err)
		} else {
			ev = log.Info()
		}
		if uid, ok := c.Locals(LocalUserID).(string); ok && uid != "" {
			ev = ev.Str("user_id", uid)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}
