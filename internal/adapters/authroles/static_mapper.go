// Package authroles maps identity-provider groups onto dashboard roles.
package authroles

import (
	"strings"

	domainauth "github.com/ai-ikigai/admin-dashboard/internal/domain/auth"
)

// StaticRoleMapper maps groups by exact membership. The most privileged
// matching group wins; identities without an admin group become plain users.
type StaticRoleMapper struct {
	SuperAdminGroup    string
	AdminGroup         string
	ReadonlyAdminGroup string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	set := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		set[strings.TrimSpace(g)] = struct{}{}
	}
	member := func(group string) bool {
		if group == "" {
			return false
		}
		_, ok := set[group]
		return ok
	}
	switch {
	case member(m.SuperAdminGroup):
		return domainauth.RoleSuperAdmin
	case member(m.AdminGroup):
		return domainauth.RoleAdmin
	case member(m.ReadonlyAdminGroup):
		return domainauth.RoleReadonlyAdmin
	case len(groups) == 0:
		return domainauth.RoleGuest
	default:
		return domainauth.RoleUser
	}
}
