package cart

import (
	"encoding/base64"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// CookieName is the client-side cookie that carries the serialized cart.
const CookieName = "cart"

const cookieTTL = 7 * 24 * time.Hour

// CookieStore keeps the whole cart in a client-visible cookie instead of a
// server-side session, so any instance can serve any request. The blob is
// re-decoded on every request; there is no compare-and-swap on the
// round-trip, concurrent writes from the same client are last-write-wins.
type CookieStore struct {
	secure bool
	log    *zap.Logger
}

func NewCookieStore(secure bool, log *zap.Logger) *CookieStore {
	return &CookieStore{secure: secure, log: log}
}

// Load reads the cart from the request. An absent or corrupt cookie yields
// an empty cart, never an error.
func (s *CookieStore) Load(r *http.Request) Cart {
	ck, err := r.Cookie(CookieName)
	if err != nil {
		return Cart{}
	}

	raw, err := base64.RawURLEncoding.DecodeString(ck.Value)
	if err != nil {
		s.log.Debug("cart cookie not base64, starting fresh", zap.Error(err))
		return Cart{}
	}

	return Decode(string(raw))
}

// Save writes the cart back to the client. The cookie is deliberately not
// HttpOnly so client-side scripts can read the cart contents.
func (s *CookieStore) Save(w http.ResponseWriter, c Cart) error {
	blob, err := Encode(c)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(blob)),
		Path:     "/",
		Expires:  time.Now().Add(cookieTTL),
		MaxAge:   int(cookieTTL.Seconds()),
		HttpOnly: false,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Drop tells the client to delete the cart cookie.
func (s *CookieStore) Drop(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: false,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
