package middleware

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	contextPkg "VoiceAssistant/pkg/context"
	"VoiceAssistant/pkg/document"
	jwtPkg "VoiceAssistant/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	ScopeModeSession = "session"
	ScopeModeGlobal  = "global"

	// GlobalScope is the single scope shared by every client in global mode.
	GlobalScope = "global"

	DefaultCookieName = "voice_session"
	DefaultSessionTTL = 30 * 24 * time.Hour
)

type SessionConfig struct {
	Mode       string
	CookieName string
	Secret     []byte
	TTL        time.Duration
	Secure     bool
}

type sessionMiddleware struct {
	cfg    SessionConfig
	scopes ScopeProvisioner
}

func newSessionMiddleware(cfg SessionConfig, scopes ScopeProvisioner) (*sessionMiddleware, error) {
	if scopes == nil {
		return nil, errors.New("scope provisioner is required")
	}

	switch cfg.Mode {
	case "":
		cfg.Mode = ScopeModeSession
	case ScopeModeSession, ScopeModeGlobal:
	default:
		return nil, fmt.Errorf("unknown scope mode %q", cfg.Mode)
	}

	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultSessionTTL
	}
	if len(cfg.Secret) == 0 {
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		cfg.Secret = secret
	}

	return &sessionMiddleware{cfg: cfg, scopes: scopes}, nil
}

// resolve returns the scope for the request, issuing a new session cookie
// when the presented one is missing or no longer valid.
func (s *sessionMiddleware) resolve(ctx *fiber.Ctx) (string, bool, error) {
	if s.cfg.Mode == ScopeModeGlobal {
		return GlobalScope, false, nil
	}

	if raw := ctx.Cookies(s.cfg.CookieName); raw != "" {
		sid, err := jwtPkg.ParseSessionToken(s.cfg.Secret, raw)
		if err == nil && document.ValidScope(sid) {
			return sid, false, nil
		}
	}

	sid := uuid.NewString()
	token, expiresAt, err := jwtPkg.NewSessionToken(s.cfg.Secret, sid, s.cfg.TTL)
	if err != nil {
		return "", false, err
	}

	ctx.Cookie(&fiber.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(s.cfg.TTL.Seconds()),
		HTTPOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return sid, true, nil
}

func (m *middleware) NewSessionMiddleware(ctx *fiber.Ctx) error {
	requestID := m.GetRequestID(ctx)

	scope, issued, err := m.session.resolve(ctx)
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to issue session")
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to start session",
		})
	}

	if err := m.session.scopes.EnsureScope(scope); err != nil {
		m.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"scope":      scope,
			"error":      err.Error(),
		}).Error("Failed to provision scope storage")
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to prepare session storage",
		})
	}

	if issued {
		m.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"scope":      scope,
		}).Info("New session issued")
	}

	ctx.Locals(contextPkg.ScopeLocalsKey, scope)
	return ctx.Next()
}

func (m *middleware) NewWebSocketUpgrade(ctx *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(ctx) {
		return ctx.Next()
	}
	return fiber.ErrUpgradeRequired
}
