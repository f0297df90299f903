package auth

import (
	"net/http"
	"strings"
	"time"
)

const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"
)

// Cookies defines how the auth cookies are issued.
type Cookies struct {
	Domain     string
	Path       string
	Secure     bool
	SameSite   http.SameSite
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// ParseSameSite maps lax, strict and none; anything else gives the browser default.
func ParseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteDefaultMode
	}
}

func (c Cookies) path() string {
	if c.Path == "" {
		return "/"
	}
	return c.Path
}

// SetAuthCookies issues both tokens. Only the refresh cookie is http-only;
// client script reads the access cookie.
func (c Cookies) SetAuthCookies(w http.ResponseWriter, pair TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    pair.RefreshToken,
		Path:     c.path(),
		Domain:   c.Domain,
		MaxAge:   int(c.RefreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     AccessCookieName,
		Value:    pair.AccessToken,
		Path:     c.path(),
		Domain:   c.Domain,
		MaxAge:   int(c.AccessTTL.Seconds()),
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
}

// ClearAuthCookies expires both cookies (Max-Age=0 on the wire).
func (c Cookies) ClearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{RefreshCookieName, AccessCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     c.path(),
			Domain:   c.Domain,
			MaxAge:   -1,
			HttpOnly: name == RefreshCookieName,
			Secure:   c.Secure,
			SameSite: c.SameSite,
		})
	}
}
