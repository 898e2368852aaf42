package handler

import (
	"net/http"
	"strings"
	"time"
)

// CookiePolicy describes the session cookie issued on login.
type CookiePolicy struct {
	Name     string
	Secure   bool
	SameSite http.SameSite
	// MaxAge of zero issues a browser-session cookie.
	MaxAge time.Duration
}

// ParseSameSite maps a configuration value to http.SameSite. Unknown values
// yield http.SameSiteDefaultMode.
func ParseSameSite(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return http.SameSiteNoneMode
	case "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	default:
		return http.SameSiteDefaultMode
	}
}

func (p CookiePolicy) name() string {
	if p.Name == "" {
		return "token"
	}
	return p.Name
}

func (p CookiePolicy) session(token string) *http.Cookie {
	c := &http.Cookie{
		Name:     p.name(),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
	}
	if p.MaxAge > 0 {
		c.MaxAge = int(p.MaxAge.Seconds())
		c.Expires = time.Now().Add(p.MaxAge)
	}
	return c
}

func (p CookiePolicy) cleared() *http.Cookie {
	return &http.Cookie{
		Name:     p.name(),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	}
}
