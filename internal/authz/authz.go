package authz

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const (
	RoleMember     = "member"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// Objects guarded by the policy.
const (
	ObjectRecords   = "records"
	ObjectCompany   = "company"
	ObjectCompanies = "companies"
	ObjectTaxRates  = "tax-rates"
	ObjectReports   = "reports"
	ObjectAudit     = "audit"
	ObjectUsers     = "users"
)

const (
	ActionRead  = "read"
	ActionWrite = "write"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && (p.act == "*" || r.act == p.act)
`

var policies = [][]string{
	{RoleMember, ObjectRecords, "*"},
	{RoleMember, ObjectCompany, ActionRead},
	{RoleMember, ObjectTaxRates, ActionRead},
	{RoleMember, ObjectReports, "*"},
	{RoleAdmin, ObjectCompany, ActionWrite},
	{RoleAdmin, ObjectTaxRates, ActionWrite},
	{RoleAdmin, ObjectAudit, ActionRead},
	{RoleAdmin, ObjectUsers, ActionRead},
	{RoleSuperadmin, ObjectCompanies, "*"},
}

var inheritance = [][]string{
	{RoleAdmin, RoleMember},
	{RoleSuperadmin, RoleAdmin},
}

// Authorizer answers role permission questions from a fixed in-memory
// policy. It is built once at startup and only read afterwards.
type Authorizer struct {
	enforcer *casbin.Enforcer
}

func New() (*Authorizer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("authz model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authz enforcer: %w", err)
	}
	if _, err := enforcer.AddPolicies(policies); err != nil {
		return nil, fmt.Errorf("authz policies: %w", err)
	}
	if _, err := enforcer.AddGroupingPolicies(inheritance); err != nil {
		return nil, fmt.Errorf("authz roles: %w", err)
	}
	return &Authorizer{enforcer: enforcer}, nil
}

// NormalizeRole lower-cases a role name and folds legacy aliases.
func NormalizeRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	switch role {
	case "sysadmin":
		return RoleSuperadmin
	case "":
		return RoleMember
	default:
		return role
	}
}

func (a *Authorizer) Allowed(role, object, action string) (bool, error) {
	return a.enforcer.Enforce(NormalizeRole(role), object, action)
}

// IsSuperadmin reports whether role may act across tenants.
func (a *Authorizer) IsSuperadmin(role string) bool {
	ok, err := a.Allowed(role, ObjectCompanies, ActionRead)
	return err == nil && ok
}
