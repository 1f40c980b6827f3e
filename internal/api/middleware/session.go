package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/referral-dashboard/internal/core/ports"
)

const (
	ctxSessionKey    = "session"
	ctxCredentialKey = "credential"
)

// CookieConfig describes the session id cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// StoreOpener binds a session store to a session id.
type StoreOpener func(sid string) ports.SessionStore

// Session resolves the session id cookie, issuing a new one when the request
// carries none, and injects the bound store into the Echo context.
func Session(cfg CookieConfig, open StoreOpener) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := ""
			if ck, err := c.Cookie(cfg.Name); err == nil {
				sid = ck.Value
			}
			if _, err := uuid.Parse(sid); err != nil {
				sid = uuid.NewString()
				c.SetCookie(newCookie(cfg, sid))
			}

			c.Set(ctxSessionKey, open(sid))
			return next(c)
		}
	}
}

// SessionFrom returns the store injected by Session, or nil.
func SessionFrom(c echo.Context) ports.SessionStore {
	store, _ := c.Get(ctxSessionKey).(ports.SessionStore)
	return store
}

func newCookie(cfg CookieConfig, sid string) *http.Cookie {
	ck := &http.Cookie{
		Name:     cfg.Name,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if cfg.TTL > 0 {
		ck.MaxAge = int(cfg.TTL / time.Second)
	}
	return ck
}
