package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"hrmportal/internal/hrapi"
	cryptoutil "hrmportal/internal/platform/crypto"
)

const missingCredentialsMessage = "Please enter email and password"

type Service struct {
	API    hrapi.Caller
	Store  SessionStore
	Crypto *cryptoutil.Service
	TTL    time.Duration
	now    func() time.Time
}

func NewService(api hrapi.Caller, store SessionStore, crypto *cryptoutil.Service, ttl time.Duration) *Service {
	return &Service{API: api, Store: store, Crypto: crypto, TTL: ttl, now: time.Now}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token  string   `json:"token"`
	Role   string   `json:"role"`
	UserID hrapi.ID `json:"userId"`
	Email  string   `json:"email"`
}

// Login signs in against the HR API. Any session in previousID is cleared
// first, so a failed attempt leaves the browser signed out.
func (s *Service) Login(ctx context.Context, previousID, email, password string) (*Session, error) {
	if previousID != "" {
		if err := s.Clear(ctx, previousID); err != nil {
			slog.Warn("clear previous session failed", "err", err)
		}
	}

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, hrapi.Invalid(hrapi.OpLogin, missingCredentialsMessage)
	}

	var out loginResponse
	resp, err := s.API.Do(ctx, hrapi.Request{
		Op:     hrapi.OpLogin,
		Method: http.MethodPost,
		Path:   "/auth/login",
		Public: true,
		Body:   loginRequest{Email: email, Password: password},
		Schema: hrapi.SchemaLoginResponse,
	}, &out)
	if err != nil {
		return nil, err
	}

	role, ok := ParseRole(out.Role)
	if !ok {
		return nil, &hrapi.Error{Kind: hrapi.ErrAuth, Op: hrapi.OpLogin, Message: fmt.Sprintf("role %q is not supported", out.Role)}
	}

	now := s.now()
	expires := now.Add(s.TTL)
	if exp, ok := tokenExpiry(out.Token); ok && exp.Before(expires) {
		expires = exp
	}
	if !expires.After(now) {
		return nil, &hrapi.Error{Kind: hrapi.ErrAuth, Op: hrapi.OpLogin, Message: "Session expired, please sign in again"}
	}

	sessionEmail := out.Email
	if sessionEmail == "" {
		sessionEmail = email
	}
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    out.UserID.String(),
		Email:     sessionEmail,
		Role:      role,
		Token:     out.Token,
		CreatedAt: now,
		ExpiresAt: expires,
	}
	if resp != nil {
		for _, c := range resp.Cookies {
			sess.Cookies = append(sess.Cookies, UpstreamCookie{Name: c.Name, Value: c.Value})
		}
	}

	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Current loads the session for id. Unknown, expired or unreadable sessions
// yield ErrSessionNotFound.
func (s *Service) Current(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}
	payload, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var sealed sealedSession
	if err := json.Unmarshal(payload, &sealed); err != nil {
		slog.Warn("decode session failed", "err", err)
		_ = s.Store.Delete(ctx, id)
		return nil, ErrSessionNotFound
	}
	token, err := s.Crypto.DecryptString(sealed.Token)
	if err != nil {
		slog.Warn("decrypt session token failed", "err", err)
		_ = s.Store.Delete(ctx, id)
		return nil, ErrSessionNotFound
	}
	sess := &Session{
		ID:        sealed.ID,
		UserID:    sealed.UserID,
		Email:     sealed.Email,
		Role:      sealed.Role,
		Token:     token,
		Cookies:   sealed.Cookies,
		CreatedAt: sealed.CreatedAt,
		ExpiresAt: sealed.ExpiresAt,
	}
	if sess.Expired(s.now()) {
		_ = s.Store.Delete(ctx, id)
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *Service) Clear(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.Store.Delete(ctx, id)
}

func (s *Service) save(ctx context.Context, sess *Session) error {
	token, err := s.Crypto.EncryptString(sess.Token)
	if err != nil {
		return fmt.Errorf("seal session token: %w", err)
	}
	payload, err := json.Marshal(sealedSession{
		ID:        sess.ID,
		UserID:    sess.UserID,
		Email:     sess.Email,
		Role:      sess.Role,
		Token:     token,
		Cookies:   sess.Cookies,
		CreatedAt: sess.CreatedAt,
		ExpiresAt: sess.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.Store.Put(ctx, sess.ID, payload, sess.ExpiresAt.Sub(sess.CreatedAt)); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// tokenExpiry reads exp from a JWT bearer token without verifying it. The
// portal cannot verify HR API tokens; the value only shortens the session.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

func IsSessionMissing(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}
