package render

import (
	"fmt"
	"log/slog"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"hrmportal/internal/domain/auth"
)

const gateModel = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj
`

// Gate answers capability questions for portal roles from the role
// permission table.
type Gate struct {
	enforcer *casbin.Enforcer
}

func NewGate() (*Gate, error) {
	m, err := model.NewModelFromString(gateModel)
	if err != nil {
		return nil, fmt.Errorf("gate model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("gate enforcer: %w", err)
	}
	for role, perms := range auth.RolePermissions {
		for _, perm := range perms {
			if _, err := enforcer.AddPolicy(string(role), perm); err != nil {
				return nil, fmt.Errorf("gate policy %s %s: %w", role, perm, err)
			}
		}
	}
	for role, parent := range auth.RoleInherits {
		if _, err := enforcer.AddGroupingPolicy(string(role), string(parent)); err != nil {
			return nil, fmt.Errorf("gate inheritance %s: %w", role, err)
		}
	}
	return &Gate{enforcer: enforcer}, nil
}

func (g *Gate) Can(role auth.Role, perm string) bool {
	if g == nil || role == "" || perm == "" {
		return false
	}
	ok, err := g.enforcer.Enforce(string(role), perm)
	if err != nil {
		slog.Warn("capability check failed", "role", role, "perm", perm, "err", err)
		return false
	}
	return ok
}
