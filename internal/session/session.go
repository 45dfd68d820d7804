// Package session keeps per-browser state in a signed cookie: the admin
// bearer token, the visitor id used for favorites, and display preferences.
package session

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/propertyhub/internal/domain"
)

// Name is the cookie name of the site session.
const Name = "propertyhub-session"

const (
	keyToken    = "token"
	keyVisitor  = "visitor"
	keyTheme    = "theme"
	keyLocation = "location"
)

// NewStore creates the cookie store used by the session middleware.
func NewStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Middleware installs the echo-contrib session middleware for store.
func Middleware(store sessions.Store) echo.MiddlewareFunc {
	return session.Middleware(store)
}

func get(c echo.Context) (*sessions.Session, error) {
	return session.Get(Name, c)
}

func stringValue(sess *sessions.Session, key string) string {
	v, _ := sess.Values[key].(string)
	return v
}

// Token returns the admin bearer token, or "" when nobody is logged in.
func Token(c echo.Context) string {
	sess, err := get(c)
	if err != nil {
		return ""
	}
	return stringValue(sess, keyToken)
}

// SetToken stores the bearer token returned by the backend login.
func SetToken(c echo.Context, token string) error {
	sess, err := get(c)
	if err != nil {
		return err
	}
	sess.Values[keyToken] = token
	return sess.Save(c.Request(), c.Response())
}

// ClearToken logs the admin out without touching visitor state.
func ClearToken(c echo.Context) error {
	sess, err := get(c)
	if err != nil {
		return err
	}
	delete(sess.Values, keyToken)
	return sess.Save(c.Request(), c.Response())
}

// VisitorID returns the anonymous visitor id, minting and saving one on first
// use so favorites survive between requests.
func VisitorID(c echo.Context) (string, error) {
	sess, err := get(c)
	if err != nil {
		return "", err
	}
	if id := stringValue(sess, keyVisitor); id != "" {
		return id, nil
	}
	id := uuid.NewString()
	sess.Values[keyVisitor] = id
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return "", err
	}
	return id, nil
}

// Preferences reads the display preferences, falling back to the system theme.
func Preferences(c echo.Context) domain.Preferences {
	prefs := domain.Preferences{Theme: domain.ThemeSystem}
	sess, err := get(c)
	if err != nil {
		return prefs
	}
	if theme := stringValue(sess, keyTheme); theme != "" {
		prefs.Theme = theme
	}
	prefs.Location = stringValue(sess, keyLocation)
	return prefs
}

// SavePreferences writes prefs into the session cookie.
func SavePreferences(c echo.Context, prefs domain.Preferences) error {
	sess, err := get(c)
	if err != nil {
		return err
	}
	sess.Values[keyTheme] = prefs.Theme
	sess.Values[keyLocation] = prefs.Location
	return sess.Save(c.Request(), c.Response())
}
