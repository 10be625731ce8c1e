package payrun

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, rdb *redis.Client) {
	payruns := r.Group("/payruns")
	payruns.Use(middleware.AuthMiddleware())
	{
		payruns.GET("", middleware.RBACAuthorize(rbacService, "payrun", "read"), handler.GetAll)
		payruns.GET("/:id", middleware.RBACAuthorize(rbacService, "payrun", "read"), handler.GetById)
		payruns.POST("", middleware.RBACAuthorize(rbacService, "payrun", "create"), middleware.Idempotency(rdb), handler.Generate)
		payruns.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "payrun", "approve"), handler.Approve)
		payruns.POST("/:id/complete", middleware.RBACAuthorize(rbacService, "payrun", "pay"), handler.Complete)
		payruns.DELETE("/:id", middleware.RBACAuthorize(rbacService, "payrun", "delete"), handler.Rollback)
	}
}
