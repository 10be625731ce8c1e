package salarystructure

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	structures := r.Group("/salary-structures")
	structures.Use(middleware.AuthMiddleware())
	{
		structures.GET("", middleware.RBACAuthorize(rbacService, "structure", "read"), handler.GetAll)
		structures.GET("/:id", middleware.RBACAuthorize(rbacService, "structure", "read"), handler.GetById)
		structures.POST("", middleware.RBACAuthorize(rbacService, "structure", "create"), handler.Create)
		structures.PUT("/:id", middleware.RBACAuthorize(rbacService, "structure", "update"), handler.Update)
		structures.POST("/:id/deactivate", middleware.RBACAuthorize(rbacService, "structure", "update"), handler.Deactivate)
		structures.POST("/:id/activate", middleware.RBACAuthorize(rbacService, "structure", "update"), handler.Activate)

		structures.POST("/:id/allowances/:allowanceId", middleware.RBACAuthorize(rbacService, "structure", "update"), handler.AttachAllowance)
		structures.DELETE("/:id/allowances/:allowanceId", middleware.RBACAuthorize(rbacService, "structure", "update"), handler.DetachAllowance)
		structures.POST("/:id/deductions/:deductionId", middleware.RBACAuthorize(rbacService, "structure", "update"), handler.AttachDeduction)
		structures.DELETE("/:id/deductions/:deductionId", middleware.RBACAuthorize(rbacService, "structure", "update"), handler.DetachDeduction)
	}
}
