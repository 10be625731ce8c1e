package takehome

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	takeHome := r.Group("/take-home")
	takeHome.Use(middleware.AuthMiddleware())
	{
		takeHome.GET("/:employeeId", middleware.RBACAuthorize(rbacService, "take_home", "read"), handler.GetTakeHome)
	}
}
