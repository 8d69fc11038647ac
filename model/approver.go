package model

// Role represents a decision-making role an approver may hold.  The set is
// closed – policies reference roles by these constants, not free-form text.
type Role string

const (
	RoleSecurityTeam    Role = "SECURITY_TEAM"
	RoleComplianceTeam  Role = "COMPLIANCE_TEAM"
	RolePlatformAdmin   Role = "PLATFORM_ADMIN"
	RoleTenantAdmin     Role = "TENANT_ADMIN"
	RolePolicyOwner     Role = "POLICY_OWNER"
	RoleEngineeringLead Role = "ENGINEERING_LEAD"
	RoleOnCall          Role = "ON_CALL"
)

// KnownRoles lists every role the engine understands.
var KnownRoles = []Role{
	RoleSecurityTeam,
	RoleComplianceTeam,
	RolePlatformAdmin,
	RoleTenantAdmin,
	RolePolicyOwner,
	RoleEngineeringLead,
	RoleOnCall,
}

// IsValid reports whether the role belongs to the closed set.
func (r Role) IsValid() bool {
	for _, known := range KnownRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Approver represents a registered identity eligible to decide on requests.
// Identity fields are immutable after registration; Active and Roles may be
// updated through the registry's administrative operations.
type Approver struct {
	ID       string            `json:"id" yaml:"id"`
	Name     string            `json:"name" yaml:"name"`
	Contacts map[string]string `json:"contacts,omitempty" yaml:"contacts,omitempty"` // channel -> handle, e.g. "email" -> "a@example.com"
	Roles    []Role            `json:"roles" yaml:"roles"`
	Active   bool              `json:"active" yaml:"active"`
}

// HasRole reports whether the approver holds the given role.
func (a *Approver) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the approver holds at least one of the roles.
// An empty role list matches nothing.
func (a *Approver) HasAnyRole(roles []Role) bool {
	for _, r := range roles {
		if a.HasRole(r) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so DAO-backed registries never leak shared state.
func (a *Approver) Clone() *Approver {
	if a == nil {
		return nil
	}
	ret := *a
	ret.Roles = append([]Role(nil), a.Roles...)
	if a.Contacts != nil {
		ret.Contacts = make(map[string]string, len(a.Contacts))
		for k, v := range a.Contacts {
			ret.Contacts[k] = v
		}
	}
	return &ret
}
