package pkg

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// GenerateNewSessionID - generates a new unique sessionID.
func GenerateNewSessionID() string {
	return uuid.NewString()
}

// SessionCookie reads the session id from the request, issuing a new cookie when there is none.
type SessionCookie struct {
	Name string
	TTL  time.Duration
}

// Ensure returns the session id of the request and whether it was newly issued.
func (that SessionCookie) Ensure(writer http.ResponseWriter, req *http.Request) (string, bool) {
	id, cookie := that.Resolve(req)
	if cookie == nil {
		return id, false
	}

	http.SetCookie(writer, cookie)

	return id, true
}

// Resolve returns the session id of the request. The cookie is non-nil when a new session
// was issued and still has to be sent to the client.
func (that SessionCookie) Resolve(req *http.Request) (string, *http.Cookie) {
	if cookie, err := req.Cookie(that.Name); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	id := GenerateNewSessionID()

	return id, &http.Cookie{
		Name:     that.Name,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(that.TTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
