package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	cryptoutil "hrmportal/internal/platform/crypto"
)

const (
	SessionCookieName = "hrmportal_session"
	cookieIssuer      = "hrmportal"
)

// CookieCodec writes and reads the browser cookie that names a session. The
// cookie is an HS256 JWT whose jti is the session id.
type CookieCodec struct {
	key    []byte
	secure bool
	now    func() time.Time
}

func NewCookieCodec(secret string, secure bool) (*CookieCodec, error) {
	key, err := cryptoutil.DeriveKey(secret, cryptoutil.PurposeCookieSigning, 32)
	if err != nil {
		return nil, err
	}
	return &CookieCodec{key: key, secure: secure, now: time.Now}, nil
}

func (c *CookieCodec) Issue(w http.ResponseWriter, sess *Session) error {
	now := c.now()
	claims := jwt.RegisteredClaims{
		ID:        sess.ID,
		Issuer:    cookieIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    signed,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// SessionID returns the session id from r's cookie, or an error when the
// cookie is missing, tampered with or expired.
func (c *CookieCodec) SessionID(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", err
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return c.key, nil
	}, jwt.WithIssuer(cookieIssuer), jwt.WithTimeFunc(c.now))
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.ID == "" {
		return "", errors.New("invalid session cookie")
	}
	return claims.ID, nil
}

func (c *CookieCodec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
