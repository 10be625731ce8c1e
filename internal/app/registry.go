package app

import (
	"go-payroll/internal/allowance"
	"go-payroll/internal/deduction"
	"go-payroll/internal/employee"
	"go-payroll/internal/employeesalary"
	"go-payroll/internal/loan"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payrun"
	"go-payroll/internal/rbac"
	"go-payroll/internal/rbac/infra"
	"go-payroll/internal/salarystructure"
	"go-payroll/internal/takehome"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	allowanceRepo := allowance.NewRepository(gormDB)
	deductionRepo := deduction.NewRepository(gormDB)
	structureRepo := salarystructure.NewRepository(gormDB)
	employeeSalaryRepo := employeesalary.NewRepository(gormDB)
	loanRepo := loan.NewRepository(gormDB)
	takeHomeRepo := takehome.NewRepository(gormDB)
	payrunRepo := payrun.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	employeeService := employee.NewService(employeeRepo)
	allowanceService := allowance.NewService(gormDB, allowanceRepo)
	deductionService := deduction.NewService(gormDB, deductionRepo)
	structureService := salarystructure.NewService(gormDB, structureRepo)
	employeeSalaryService := employeesalary.NewService(gormDB, employeeSalaryRepo)
	loanService := loan.NewService(gormDB, loanRepo, logger)
	takeHomeService := takehome.NewService(takeHomeRepo)
	payrunService := payrun.NewService(gormDB, payrunRepo, takeHomeService, loanService, outboxRepo, logger)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	allowanceHandler := allowance.NewHandler(allowanceService)
	deductionHandler := deduction.NewHandler(deductionService)
	structureHandler := salarystructure.NewHandler(structureService)
	employeeSalaryHandler := employeesalary.NewHandler(employeeSalaryService)
	loanHandler := loan.NewHandler(loanService)
	takeHomeHandler := takehome.NewHandler(takeHomeService)
	payrunHandler := payrun.NewHandler(payrunService)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		allowance.RegisterRoutes(api, allowanceHandler, rbacService)
		deduction.RegisterRoutes(api, deductionHandler, rbacService)
		salarystructure.RegisterRoutes(api, structureHandler, rbacService)
		employeesalary.RegisterRoutes(api, employeeSalaryHandler, rbacService)
		loan.RegisterRoutes(api, loanHandler, rbacService)
		takehome.RegisterRoutes(api, takeHomeHandler, rbacService)
		payrun.RegisterRoutes(api, payrunHandler, rbacService, rdb)
	}

	rbac.RegisterRoutes(router, rbacHandler)

	return nil
}
