package auth

import (
	"fmt"
	"strings"

	"github.com/ridi/hms/internal/platform/apperr"
)

// Action names a permission-checked operation.
type Action string

const (
	ActionRead                Action = "read"
	ActionWrite               Action = "write"
	ActionReadClinicalRecords Action = "read_clinical_records"
	ActionExportReports       Action = "export_reports"
	ActionViewRevenue         Action = "view_revenue"
	ActionManageDoctors       Action = "manage_doctors"
	ActionManageStaff         Action = "manage_staff"
	ActionManageLabTests      Action = "manage_lab_tests"
)

// Decision is the result of a policy evaluation.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

// Err returns nil when the decision allows the action and a permission
// error carrying the reason otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return apperr.Permission(d.Reason)
}

var everyone = []string{RoleAdmin, RoleStaff, RoleUser}

var policy = map[Action][]string{
	ActionRead:                everyone,
	ActionWrite:               everyone,
	ActionReadClinicalRecords: everyone,
	ActionExportReports:       everyone,
	ActionViewRevenue:         {RoleAdmin},
	ActionManageDoctors:       {RoleAdmin},
	ActionManageStaff:         {RoleAdmin},
	ActionManageLabTests:      {RoleAdmin, RoleStaff},
}

var knownRoles = map[string]bool{RoleAdmin: true, RoleStaff: true, RoleUser: true}

// Evaluate decides whether role may perform action. It is a pure function of
// its two arguments.
func Evaluate(role string, action Action) Decision {
	if role == "" {
		return Decision{Allowed: false, Reason: "authentication required"}
	}
	if !knownRoles[role] {
		return Decision{Allowed: false, Reason: fmt.Sprintf("unknown role %q", role)}
	}
	allowed, ok := policy[action]
	if !ok {
		return Decision{Allowed: false, Reason: fmt.Sprintf("no policy for %s", action)}
	}
	for _, r := range allowed {
		if r == role {
			return Decision{Allowed: true, Reason: fmt.Sprintf("role %s may %s", role, action)}
		}
	}
	return Decision{Allowed: false, Reason: fmt.Sprintf("%s requires role %s", action, strings.Join(allowed, " or "))}
}
