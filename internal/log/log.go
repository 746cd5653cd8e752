// Package log writes one JSON event per line: info, audit, warn (security) and error.
package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"mymat/internal/domain"
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(os.Stdout)
)

func init() {
	zerolog.TimestampFieldName = "ts"
	zerolog.ErrorFieldName = "err"
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
}

// SetOutput redirects every subsequent event to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	logger = zerolog.New(w)
	mu.Unlock()
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func write(level string, c *fiber.Ctx, action string, err error, fields map[string]any) {
	l := current()
	// NoLevel keeps zerolog from writing its own level so "audit" can be used
	ev := l.Log().Timestamp().Str(zerolog.LevelFieldName, level).Str("action", action)
	if c != nil {
		ev = ev.Str("ip", c.IP()).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode())
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			ev = ev.Str("req_id", rid)
		}
		if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
			ev = ev.Str("user_id", u.ID)
		}
	}
	if err != nil {
		ev = ev.Err(err)
	}
	if len(fields) > 0 {
		ev = ev.Interface("fields", fields)
	}
	ev.Send()
}

func Info(c *fiber.Ctx, action string, fields map[string]any) { write("info", c, action, nil, fields) }
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write("audit", c, action, nil, fields)
}
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write("warn", c, action, nil, fields)
}
func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write("error", c, action, err, fields)
}
