package employeesalary

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	salaries := r.Group("/employee-salaries")
	salaries.Use(middleware.AuthMiddleware())
	{
		salaries.POST("", middleware.RBACAuthorize(rbacService, "employee_salary", "create"), handler.Assign)
		salaries.GET("/:employeeId", middleware.RBACAuthorize(rbacService, "employee_salary", "read"), handler.GetActive)
		salaries.GET("/:employeeId/history", middleware.RBACAuthorize(rbacService, "employee_salary", "read"), handler.GetHistory)

		salaries.POST("/:employeeId/allowances", middleware.RBACAuthorize(rbacService, "employee_salary", "update"), handler.GrantAllowance)
		salaries.DELETE("/:employeeId/allowances/:allowanceId", middleware.RBACAuthorize(rbacService, "employee_salary", "update"), handler.RevokeAllowance)
		salaries.POST("/:employeeId/deductions", middleware.RBACAuthorize(rbacService, "employee_salary", "update"), handler.GrantDeduction)
		salaries.DELETE("/:employeeId/deductions/:deductionId", middleware.RBACAuthorize(rbacService, "employee_salary", "update"), handler.RevokeDeduction)
	}
}
