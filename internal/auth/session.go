package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// SessionCookieName carries the signed login session. Unlike the cart
// cookie it is HttpOnly, scripts have no business reading it.
const SessionCookieName = "session"

const sessionTTL = 7 * 24 * time.Hour

var (
	ErrNoSession      = errors.New("no session")
	ErrInvalidSession = errors.New("invalid session")
	ErrSessionExpired = errors.New("session expired")
)

type Session struct {
	Username  string
	Role      Role
	ExpiresAt time.Time
}

// SessionManager issues and verifies HMAC-SHA256 signed session cookies.
// The token format is base64(username|role|expiry) + "." + base64(signature).
type SessionManager struct {
	secret []byte
	secure bool
}

func NewSessionManager(secret string, secure bool) *SessionManager {
	return &SessionManager{secret: []byte(secret), secure: secure}
}

func (m *SessionManager) sign(payload string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (m *SessionManager) token(username string, role Role, expiresAt time.Time) string {
	payload := fmt.Sprintf("%s|%s|%d", username, role, expiresAt.Unix())
	return base64.RawURLEncoding.EncodeToString([]byte(payload)) + "." + m.sign(payload)
}

// Issue writes a fresh session cookie for the user.
func (m *SessionManager) Issue(w http.ResponseWriter, username string, role Role) Session {
	s := Session{
		Username:  username,
		Role:      role,
		ExpiresAt: time.Now().Add(sessionTTL),
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    m.token(username, role, s.ExpiresAt),
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

// Clear tells the client to delete the session cookie.
func (m *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest verifies the session cookie and returns the session it carries.
func (m *SessionManager) FromRequest(r *http.Request) (*Session, error) {
	ck, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, ErrNoSession
	}

	encoded, sig, ok := strings.Cut(ck.Value, ".")
	if !ok {
		return nil, ErrInvalidSession
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidSession
	}
	payload := string(raw)

	if !hmac.Equal([]byte(m.sign(payload)), []byte(sig)) {
		return nil, ErrInvalidSession
	}

	parts := strings.Split(payload, "|")
	if len(parts) != 3 {
		return nil, ErrInvalidSession
	}

	role := Role(parts[1])
	if !validRole(role) {
		return nil, ErrInvalidSession
	}

	expiry, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return nil, ErrInvalidSession
	}

	s := &Session{
		Username:  parts[0],
		Role:      role,
		ExpiresAt: time.Unix(expiry, 0),
	}
	if time.Now().After(s.ExpiresAt) {
		return nil, ErrSessionExpired
	}
	return s, nil
}
