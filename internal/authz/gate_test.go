package authz

import (
	"errors"
	"testing"

	"github.com/jfarfanc/ptap_monitor/internal/model"
)

func TestCanMutateConfig(t *testing.T) {
	cases := []struct {
		role    model.Role
		allowed bool
	}{
		{model.RoleSupervisor, true},
		{model.RoleOperador, false},
		{model.Role("supervisor"), false}, // case matters, no fuzzy matching
		{model.Role("Admin"), false},
		{model.Role(""), false},
	}
	for _, tc := range cases {
		if got := CanMutateConfig(tc.role); got != tc.allowed {
			t.Fatalf("role %q: expected %v, got %v", tc.role, tc.allowed, got)
		}
	}
}

func TestRequireConfigMutation(t *testing.T) {
	if err := RequireConfigMutation(model.RoleSupervisor); err != nil {
		t.Fatalf("supervisor must pass, got %v", err)
	}
	err := RequireConfigMutation(model.RoleOperador)
	if !errors.Is(err, model.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
