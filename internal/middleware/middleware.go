package middleware

import (
	contextPkg "VoiceAssistant/pkg/context"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type Middleware interface {
	NewRateLimiter(ctx *fiber.Ctx) error
	NewSessionMiddleware(ctx *fiber.Ctx) error
	NewWebSocketUpgrade(ctx *fiber.Ctx) error
	NewRequestIDMiddleware() fiber.Handler
	NewLoggingMiddleware() fiber.Handler
	GetRequestID(ctx *fiber.Ctx) string
	GetScope(ctx *fiber.Ctx) string
}

// ScopeProvisioner prepares storage for a scope before any handler touches it.
type ScopeProvisioner interface {
	EnsureScope(scope string) error
}

type Config struct {
	RateLimit float64
	RateBurst int
	Session   SessionConfig
	Scopes    ScopeProvisioner
}

type middleware struct {
	session             *sessionMiddleware
	rateLimitter        *rateLimiter
	loggingMiddleware   *loggingMiddleware
	requestIDMiddleware fiber.Handler
	log                 *logrus.Logger
}

func New(logger *logrus.Logger, cfg Config) (Middleware, error) {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 50
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 100
	}

	session, err := newSessionMiddleware(cfg.Session, cfg.Scopes)
	if err != nil {
		return nil, err
	}

	return &middleware{
		session:             session,
		rateLimitter:        newRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		loggingMiddleware:   newLoggingMiddleware(logger),
		requestIDMiddleware: NewRequestIDMiddleware(),
		log:                 logger,
	}, nil
}

func (m *middleware) GetRequestID(ctx *fiber.Ctx) string {
	requestID, ok := ctx.Locals(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

func (m *middleware) GetScope(ctx *fiber.Ctx) string {
	scope, _ := ctx.Locals(contextPkg.ScopeLocalsKey).(string)
	return scope
}

func (m *middleware) NewRequestIDMiddleware() fiber.Handler {
	return m.requestIDMiddleware
}
