// Package authz gates mutation of the operational configuration. The role is
// context handed in by the caller; this is the single enforcement point, so
// swapping the request layer's role extraction for a real session lookup
// touches nothing else.
package authz

import (
	"fmt"

	"github.com/jfarfanc/ptap_monitor/internal/model"
)

// CanMutateConfig: only an exact Supervisor may change configuration.
// Unknown roles are denied, not defaulted.
func CanMutateConfig(role model.Role) bool {
	return role == model.RoleSupervisor
}

// RequireConfigMutation returns a Forbidden error for any non-supervisor
// role, so a denied mutation fails loudly instead of being ignored.
func RequireConfigMutation(role model.Role) error {
	if CanMutateConfig(role) {
		return nil
	}
	return fmt.Errorf("%w (rol %q)", model.ErrForbidden, string(role))
}
