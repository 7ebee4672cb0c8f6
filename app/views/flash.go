package views

import (
	"crypto/sha256"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

const flashSession = "blog_flash"

// Flasher stores one-shot messages in a signed cookie.
type Flasher struct {
	store sessions.Store
}

// NewFlasher derives the cookie signing key from secret.
func NewFlasher(secret string, secure bool) *Flasher {
	key := sha256.Sum256([]byte("flash:" + secret))
	store := sessions.NewCookieStore(key[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Flasher{store: store}
}

// Add queues msg for the next page rendered for this browser.
func (f *Flasher) Add(w http.ResponseWriter, r *http.Request, msg string) error {
	session, _ := f.store.Get(r, flashSession)
	session.AddFlash(msg)
	return session.Save(r, w)
}

// Pop returns and clears the queued messages. A tampered cookie yields none.
// The messages are returned even when clearing the cookie fails.
func (f *Flasher) Pop(w http.ResponseWriter, r *http.Request) ([]string, error) {
	session, err := f.store.Get(r, flashSession)
	if err != nil {
		return nil, nil
	}
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil, nil
	}
	msgs := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			msgs = append(msgs, s)
		}
	}
	if err := session.Save(r, w); err != nil {
		return msgs, fmt.Errorf("clear flashes: %w", err)
	}
	return msgs, nil
}
