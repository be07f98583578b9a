package auth

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		raw     string
		want    Role
		ok      bool
		manager bool
	}{
		{raw: "EMPLOYEE", want: RoleEmployee, ok: true},
		{raw: "Manager", want: RoleManager, ok: true, manager: true},
		{raw: "PROJECT_MANAGER", want: RoleProjectManager, ok: true, manager: true},
		{raw: "project-manager", want: RoleProjectManager, ok: true, manager: true},
		{raw: "admin"},
		{raw: ""},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.raw, func(t *testing.T) {
			got, ok := ParseRole(tc.raw)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("ParseRole(%q) = %q, %v", tc.raw, got, ok)
			}
			if got.IsManager() != tc.manager {
				t.Fatalf("IsManager for %q = %v", tc.raw, got.IsManager())
			}
		})
	}
}

func TestNilSessionIsNotManager(t *testing.T) {
	var sess *Session
	if sess.IsManager() {
		t.Fatal("nil session must not be a manager")
	}
}
