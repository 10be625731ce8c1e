package allowance

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	allowances := r.Group("/allowances")
	allowances.Use(middleware.AuthMiddleware())
	{
		allowances.GET("", middleware.RBACAuthorize(rbacService, "allowance", "read"), handler.GetAll)
		allowances.GET("/:id", middleware.RBACAuthorize(rbacService, "allowance", "read"), handler.GetById)
		allowances.POST("", middleware.RBACAuthorize(rbacService, "allowance", "create"), handler.Create)
		allowances.PUT("/:id", middleware.RBACAuthorize(rbacService, "allowance", "update"), handler.Update)
		allowances.DELETE("/:id", middleware.RBACAuthorize(rbacService, "allowance", "delete"), handler.Delete)
	}
}
