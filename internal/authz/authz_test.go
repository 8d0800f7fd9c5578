package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowed(t *testing.T) {
	a, err := New()
	require.NoError(t, err)

	cases := []struct {
		role   string
		object string
		action string
		want   bool
	}{
		{RoleMember, ObjectRecords, ActionWrite, true},
		{RoleMember, ObjectTaxRates, ActionRead, true},
		{RoleMember, ObjectTaxRates, ActionWrite, false},
		{RoleMember, ObjectCompany, ActionWrite, false},
		{RoleMember, ObjectAudit, ActionRead, false},
		{RoleAdmin, ObjectRecords, ActionRead, true},
		{RoleAdmin, ObjectTaxRates, ActionWrite, true},
		{RoleAdmin, ObjectCompanies, ActionRead, false},
		{RoleSuperadmin, ObjectCompanies, ActionWrite, true},
		{RoleSuperadmin, ObjectAudit, ActionRead, true},
		{"sysadmin", ObjectCompanies, ActionWrite, true},
		{"ADMIN", ObjectAudit, ActionRead, true},
		{"", ObjectRecords, ActionRead, true},
		{"guest", ObjectRecords, ActionRead, false},
	}
	for _, tc := range cases {
		t.Run(tc.role+"/"+tc.object+"/"+tc.action, func(t *testing.T) {
			got, err := a.Allowed(tc.role, tc.object, tc.action)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsSuperadmin(t *testing.T) {
	a, err := New()
	require.NoError(t, err)

	assert.True(t, a.IsSuperadmin("superadmin"))
	assert.True(t, a.IsSuperadmin("sysadmin"))
	assert.False(t, a.IsSuperadmin("admin"))
	assert.False(t, a.IsSuperadmin("member"))
}
