package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridi/hms/internal/platform/apperr"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		role    string
		action  Action
		allowed bool
	}{
		{RoleAdmin, ActionViewRevenue, true},
		{RoleStaff, ActionViewRevenue, false},
		{RoleUser, ActionViewRevenue, false},
		{"", ActionViewRevenue, false},

		{RoleAdmin, ActionManageDoctors, true},
		{RoleStaff, ActionManageDoctors, false},
		{RoleAdmin, ActionManageStaff, true},
		{RoleUser, ActionManageStaff, false},

		{RoleAdmin, ActionManageLabTests, true},
		{RoleStaff, ActionManageLabTests, true},
		{RoleUser, ActionManageLabTests, false},

		{RoleUser, ActionReadClinicalRecords, true},
		{RoleStaff, ActionExportReports, true},
		{RoleUser, ActionWrite, true},
		{"", ActionRead, false},
		{"superuser", ActionRead, false},
		{RoleAdmin, Action("launch_missiles"), false},
	}

	for _, tt := range tests {
		t.Run(tt.role+"/"+string(tt.action), func(t *testing.T) {
			d := Evaluate(tt.role, tt.action)
			assert.Equal(t, tt.allowed, d.Allowed, d.Reason)
			assert.NotEmpty(t, d.Reason)
		})
	}
}

func TestEvaluate_IsDeterministic(t *testing.T) {
	first := Evaluate(RoleStaff, ActionViewRevenue)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Evaluate(RoleStaff, ActionViewRevenue))
	}
}

func TestDecision_Err(t *testing.T) {
	require.NoError(t, Decision{Allowed: true, Reason: "ok"}.Err())

	err := Decision{Allowed: false, Reason: "view_revenue requires role admin"}.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrPermission))
	assert.Equal(t, "view_revenue requires role admin", err.Error())
}

func TestPrincipal(t *testing.T) {
	assert.False(t, Anonymous.Authenticated())
	assert.False(t, Anonymous.Can(ActionRead).Allowed)

	p := Principal{UserID: "u-1", Role: RoleStaff}
	assert.True(t, p.Authenticated())
	assert.True(t, p.Can(ActionManageLabTests).Allowed)
	assert.False(t, p.Can(ActionViewRevenue).Allowed)
}
