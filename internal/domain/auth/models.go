package auth

import (
	"net/http"
	"strings"
	"time"
)

type Role string

const (
	RoleEmployee       Role = "employee"
	RoleManager        Role = "manager"
	RoleProjectManager Role = "project_manager"
)

var Roles = []Role{RoleEmployee, RoleManager, RoleProjectManager}

// ParseRole accepts the HR API's role names in any case, e.g. MANAGER or
// Project_Manager.
func ParseRole(raw string) (Role, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	for _, role := range Roles {
		if normalized == string(role) {
			return role, true
		}
	}
	return "", false
}

func (r Role) IsManager() bool {
	return r == RoleManager || r == RoleProjectManager
}

func (r Role) Label() string {
	switch r {
	case RoleManager:
		return "Manager"
	case RoleProjectManager:
		return "Project Manager"
	case RoleEmployee:
		return "Employee"
	default:
		return string(r)
	}
}

// UpstreamCookie is a cookie the HR API set on login. It is replayed on the
// HRM handoff call.
type UpstreamCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Session struct {
	ID        string
	UserID    string
	Email     string
	Role      Role
	Token     string
	Cookies   []UpstreamCookie
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s *Session) IsManager() bool {
	return s != nil && s.Role.IsManager()
}

func (s *Session) Expired(now time.Time) bool {
	return s == nil || (!s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt))
}

func (s *Session) HTTPCookies() []*http.Cookie {
	if s == nil {
		return nil
	}
	out := make([]*http.Cookie, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}

// sealedSession is the stored form of a Session. The bearer token is kept
// encrypted.
type sealedSession struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Email     string           `json:"email"`
	Role      Role             `json:"role"`
	Token     []byte           `json:"token"`
	Cookies   []UpstreamCookie `json:"cookies,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	ExpiresAt time.Time        `json:"expiresAt"`
}
