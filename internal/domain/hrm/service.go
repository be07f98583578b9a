package hrm

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hrmportal/internal/hrapi"
)

const (
	NoRedirectMessage = "No redirect URL provided."
	FailedMessage     = "Failed to retrieve redirect URL."
)

var (
	ErrNoRedirect      = errors.New("no redirect url provided")
	ErrInvalidRedirect = errors.New("redirect url is not an absolute http(s) url")
)

type Service struct {
	API        hrapi.Caller
	TenantCode string
	Delay      time.Duration
}

func NewService(api hrapi.Caller, tenantCode string, delay time.Duration) *Service {
	return &Service{API: api, TenantCode: tenantCode, Delay: delay}
}

type handoffResponse struct {
	RedirectURL *string `json:"redirectUrl"`
	Error       *string `json:"error"`
}

// Handoff waits the configured delay, then asks the HR API for a signed-in
// URL into the HRM dashboard. A session-expired answer is ErrAuth, whether it
// arrives as an error status or inside a 200 body.
func (s *Service) Handoff(ctx context.Context, token string, cookies []*http.Cookie) (*url.URL, error) {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	var out handoffResponse
	_, err := s.API.Do(ctx, hrapi.Request{
		Op:      hrapi.OpHRMHandoff,
		Method:  http.MethodGet,
		Path:    "/auth/go-to-hrm",
		Query:   url.Values{"tenantCode": []string{s.TenantCode}},
		Token:   token,
		Cookies: cookies,
		Schema:  hrapi.SchemaHRMHandoff,
	}, &out)
	if err != nil {
		return nil, err
	}

	if out.Error != nil && strings.TrimSpace(*out.Error) == hrapi.SessionExpiredMessage {
		return nil, &hrapi.Error{Kind: hrapi.ErrAuth, Op: hrapi.OpHRMHandoff, Code: hrapi.CodeSessionExpired, Message: hrapi.SessionExpiredMessage}
	}
	if out.RedirectURL == nil || strings.TrimSpace(*out.RedirectURL) == "" {
		return nil, ErrNoRedirect
	}
	target, err := url.Parse(strings.TrimSpace(*out.RedirectURL))
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return nil, ErrInvalidRedirect
	}
	return target, nil
}

// Message is the text shown in place of the dashboard for err.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrNoRedirect):
		return NoRedirectMessage
	case errors.Is(err, ErrInvalidRedirect):
		return FailedMessage
	default:
		return hrapi.UserMessage(err, FailedMessage)
	}
}

// Origin is the scheme and host of target, for frame-src.
func Origin(target *url.URL) string {
	if target == nil {
		return ""
	}
	return target.Scheme + "://" + target.Host
}
