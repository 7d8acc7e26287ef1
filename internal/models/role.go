package models

import "fmt"

// RoleKind identifies one of the three logical services composing a
// standalone deployment. The set is fixed; adding a role means revisiting
// the start ordering in the orchestrator as well.
type RoleKind string

const (
	RoleMeta     RoleKind = "meta"
	RoleCompute  RoleKind = "compute"
	RoleFrontend RoleKind = "frontend"
)

// AllRoles lists every role in declaration order (meta first).
var AllRoles = []RoleKind{RoleMeta, RoleCompute, RoleFrontend}

// ParseRoleKind converts a user-supplied role name.
func ParseRoleKind(s string) (RoleKind, error) {
	switch RoleKind(s) {
	case RoleMeta, RoleCompute, RoleFrontend:
		return RoleKind(s), nil
	}
	return "", fmt.Errorf("unknown role %q (expect meta/compute/frontend)", s)
}

func (r RoleKind) String() string {
	return string(r)
}
