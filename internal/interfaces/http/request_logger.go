package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/Estore-api/pkg/logger"
)

const (
	// HeaderRequestID se acepta del cliente o se genera.
	HeaderRequestID = "X-Request-ID"
	localLogger     = "logger"
)

// RequestLogger asigna un request id, deja un sublogger en c.Locals y registra cada petición al terminar.
func RequestLogger(log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID := c.Get(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Set(HeaderRequestID, reqID)
		reqLog := log.WithStr("request_id", reqID)
		c.Locals(localLogger, reqLog)

		err := c.Next()
		if err != nil {
			// el ErrorHandler de Fiber fija el status después; aquí solo se registra.
			reqLog.Warn().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("petición con error")
			return err
		}

		status := c.Response().StatusCode()
		event := reqLog.Info()
		if status >= fiber.StatusInternalServerError {
			event = reqLog.Error()
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Str("user_id", GetUserID(c)).
			Msg("petición")
		return nil
	}
}

// requestLog logger de la petición; Nop si RequestLogger no está montado.
func requestLog(c *fiber.Ctx) *logger.Logger {
	if l, ok := c.Locals(localLogger).(*logger.Logger); ok {
		return l
	}
	return logger.Nop()
}
