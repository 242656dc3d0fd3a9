package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingScopes struct {
	mu     sync.Mutex
	scopes []string
	err    error
}

func (r *recordingScopes) EnsureScope(scope string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scopes = append(r.scopes, scope)
	return r.err
}

func newTestApp(t *testing.T, session SessionConfig, scopes ScopeProvisioner) *fiber.App {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	m, err := New(logger, Config{Session: session, Scopes: scopes})
	require.NoError(t, err)

	app := fiber.New()
	app.Use(m.NewRequestIDMiddleware())
	app.Get("/scope", m.NewSessionMiddleware, func(c *fiber.Ctx) error {
		return c.SendString(m.GetScope(c))
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, cookie *http.Cookie) (*http.Response, string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/scope", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == DefaultCookieName {
			return c
		}
	}
	return nil
}

func TestSessionIssuedAndReused(t *testing.T) {
	scopes := &recordingScopes{}
	app := newTestApp(t, SessionConfig{Secret: []byte("secret")}, scopes)

	resp, first := doRequest(t, app, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, first)

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie, "first request receives a session cookie")
	assert.True(t, cookie.HttpOnly)

	resp, second := doRequest(t, app, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, first, second)
	assert.Nil(t, sessionCookie(resp), "valid cookie is not reissued")

	assert.Equal(t, []string{first, first}, scopes.scopes)
}

func TestSessionsAreDistinct(t *testing.T) {
	app := newTestApp(t, SessionConfig{Secret: []byte("secret")}, &recordingScopes{})

	_, a := doRequest(t, app, nil)
	_, b := doRequest(t, app, nil)
	assert.NotEqual(t, a, b)
}

func TestInvalidCookieStartsNewSession(t *testing.T) {
	app := newTestApp(t, SessionConfig{Secret: []byte("secret")}, &recordingScopes{})

	forged := &http.Cookie{Name: DefaultCookieName, Value: "forged"}
	resp, scope := doRequest(t, app, forged)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, scope)
	assert.NotNil(t, sessionCookie(resp))
}

func TestCookieFromOtherSecretIsRejected(t *testing.T) {
	appA := newTestApp(t, SessionConfig{Secret: []byte("a")}, &recordingScopes{})
	appB := newTestApp(t, SessionConfig{Secret: []byte("b")}, &recordingScopes{})

	resp, scopeA := doRequest(t, appA, nil)
	_, scopeB := doRequest(t, appB, sessionCookie(resp))
	assert.NotEqual(t, scopeA, scopeB)
}

func TestGlobalMode(t *testing.T) {
	app := newTestApp(t, SessionConfig{Mode: ScopeModeGlobal}, &recordingScopes{})

	resp, scope := doRequest(t, app, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, GlobalScope, scope)
	assert.Nil(t, sessionCookie(resp))
}

func TestScopeProvisionFailure(t *testing.T) {
	app := newTestApp(t, SessionConfig{Mode: ScopeModeGlobal}, &recordingScopes{err: assert.AnError})

	resp, _ := doRequest(t, app, nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestUnknownScopeMode(t *testing.T) {
	_, err := New(logrus.New(), Config{
		Session: SessionConfig{Mode: "per-tab"},
		Scopes:  &recordingScopes{},
	})
	assert.Error(t, err)
}

func TestSessionTTLOnCookie(t *testing.T) {
	app := newTestApp(t, SessionConfig{Secret: []byte("s"), TTL: time.Hour}, &recordingScopes{})

	resp, _ := doRequest(t, app, nil)
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.Equal(t, 3600, cookie.MaxAge)
}
