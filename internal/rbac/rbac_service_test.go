package rbac

import (
	"testing"

	"go-payroll/internal/rbac/infra"

	"github.com/stretchr/testify/assert"
)

type mockRepo struct{}

func (m *mockRepo) GetEmployeeRoles() ([]EmployeeRoleRow, error) {
	return []EmployeeRoleRow{
		{EmployeeID: "emp-1", RoleID: "role-payroll-admin"},
	}, nil
}

func (m *mockRepo) GetRolePermissions() ([]RolePermissionRow, error) {
	return []RolePermissionRow{
		{RoleID: "role-payroll-admin", Resource: "payrun", Action: "create"},
		{RoleID: "role-payroll-admin", Resource: "payrun", Action: "read"},
	}, nil
}

func (m *mockRepo) ListPermissions() ([]PermissionRow, error) {
	return nil, nil
}

func TestRBACService_Enforce(t *testing.T) {
	enforcer, err := infra.NewEnforcer()
	assert.NoError(t, err)

	service := NewService(&mockRepo{}, enforcer)

	assert.NoError(t, service.LoadPolicy())

	allowed, err := service.Enforce(EnforceRequest{
		EmployeeID: "emp-1",
		Resource:   "payrun",
		Action:     "create",
	})
	assert.NoError(t, err)
	assert.True(t, allowed)

	denied, err := service.Enforce(EnforceRequest{
		EmployeeID: "emp-1",
		Resource:   "payrun",
		Action:     "approve",
	})
	assert.NoError(t, err)
	assert.False(t, denied)

	denied, err = service.Enforce(EnforceRequest{
		EmployeeID: "emp-2",
		Resource:   "payrun",
		Action:     "read",
	})
	assert.NoError(t, err)
	assert.False(t, denied)
}
