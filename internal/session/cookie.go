package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const cookieName = "sid"

// ID returns the visitor's session ID from the request cookie, minting and
// setting a fresh one when the visitor has none yet.
func ID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}

	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}
