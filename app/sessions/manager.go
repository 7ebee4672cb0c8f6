package sessions

import (
	"net/http"
	"time"

	"blog/app/models"

	"go.uber.org/zap"
)

// CookieName is the session cookie.
const CookieName = "blog_session"

// Manager implements login, identity resolution and logout on top of Tokens and a Revoker.
type Manager struct {
	tokens  *Tokens
	revoker Revoker
	secure  bool
	log     *zap.Logger
}

func NewManager(tokens *Tokens, revoker Revoker, secureCookie bool, log *zap.Logger) *Manager {
	return &Manager{tokens: tokens, revoker: revoker, secure: secureCookie, log: log}
}

// Login binds user to the response's session cookie.
func (m *Manager) Login(w http.ResponseWriter, user *models.User) (models.Identity, error) {
	signed, claims, err := m.tokens.Issue(user)
	if err != nil {
		return models.Anonymous, err
	}
	http.SetCookie(w, m.cookie(signed, claims.ExpiresAt.Time))
	return identityFrom(claims, user.ID), nil
}

// Resolve returns the identity carried by the request's cookie. Any invalid,
// expired or revoked session resolves to Anonymous.
func (m *Manager) Resolve(r *http.Request) models.Identity {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return models.Anonymous
	}
	claims, err := m.tokens.Parse(c.Value)
	if err != nil {
		m.log.Debug("rejected session token", zap.Error(err))
		return models.Anonymous
	}
	revoked, err := m.revoker.IsRevoked(r.Context(), claims.ID)
	if err != nil {
		m.log.Warn("revocation lookup failed", zap.Error(err))
		return models.Anonymous
	}
	if revoked {
		return models.Anonymous
	}
	uid, _ := claims.UserID()
	return identityFrom(claims, uid)
}

// Logout revokes the current token, if any, and clears the cookie.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	defer http.SetCookie(w, m.expired())

	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	claims, err := m.tokens.Parse(c.Value)
	if err != nil {
		return nil
	}
	return m.revoker.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time)
}

func (m *Manager) cookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (m *Manager) expired() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func identityFrom(c *Claims, uid uint) models.Identity {
	return models.Identity{
		UserID:    uid,
		Name:      c.Name,
		SessionID: c.ID,
		ExpiresAt: c.ExpiresAt.Time,
	}
}
