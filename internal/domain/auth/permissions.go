package auth

import (
	"context"
	"slices"
)

const (
	RoleEmployee   = "Employee"
	RoleManager    = "Manager"
	RoleHR         = "HR"
	RolePayroll    = "Payroll"
	RoleAccountant = "Accountant"
)

const (
	PermCalendarRead = "calendar.read"
	PermLeaveRead    = "leave.read"
	PermPayrollRead  = "payroll.read"
	PermPayrollWrite = "payroll.write"
	PermPayrollFile  = "payroll.file"
	PermAuditRead    = "audit.read"
)

var DefaultPermissions = []string{
	PermCalendarRead,
	PermLeaveRead,
	PermPayrollRead,
	PermPayrollWrite,
	PermPayrollFile,
	PermAuditRead,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermCalendarRead,
		PermLeaveRead,
	},
	RoleManager: {
		PermCalendarRead,
		PermLeaveRead,
	},
	RoleHR: {
		PermCalendarRead,
		PermLeaveRead,
		PermPayrollRead,
		PermAuditRead,
	},
	RolePayroll: {
		PermCalendarRead,
		PermLeaveRead,
		PermPayrollRead,
		PermPayrollWrite,
		PermPayrollFile,
		PermAuditRead,
	},
	RoleAccountant: {
		PermCalendarRead,
		PermPayrollRead,
		PermPayrollWrite,
	},
}

// StaticPermissions answers permission checks from RolePermissions; roles are carried in
// the bearer token so no lookup store is involved.
type StaticPermissions struct {
	roles map[string][]string
}

func NewStaticPermissions() *StaticPermissions {
	return &StaticPermissions{roles: RolePermissions}
}

func (s *StaticPermissions) HasPermission(_ context.Context, role, permission string) (bool, error) {
	return slices.Contains(s.roles[role], permission), nil
}

func KnownRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}
