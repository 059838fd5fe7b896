// Package router wires services, handlers and middleware into the HTTP API.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/handlers"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/middleware"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/services"
)

// Options configures the engine built by New.
type Options struct {
	// PipelineAPIKey guards the out-of-band pipeline endpoints. Empty disables them.
	PipelineAPIKey string
	// Clock stamps records; nil uses the system clock.
	Clock services.Clock
	// Swagger mounts /swagger/*any.
	Swagger bool
}

// New builds every service on db and returns the routed gin engine.
func New(db *gorm.DB, opts Options) *gin.Engine {
	now := opts.Clock
	activity := services.NewActivityLogger(db, now)

	authHandler := handlers.NewAuthHandler(services.NewUserService(db, now), activity)
	parkHandler := handlers.NewParkHandler(services.NewParkService(db, now), activity)
	budgetHandler := handlers.NewBudgetHandler(services.NewBudgetService(db, now), activity)
	categoryHandler := handlers.NewBudgetCategoryHandler(services.NewBudgetCategoryService(db, now), activity)
	streamHandler := handlers.NewIncomeStreamHandler(services.NewIncomeStreamService(db, now), activity)
	expenseHandler := handlers.NewExpenseHandler(services.NewExpenseService(db, now), activity)
	withdrawHandler := handlers.NewWithdrawRequestHandler(services.NewWithdrawRequestService(db, now), activity)
	fundingHandler := handlers.NewFundingRequestHandler(services.NewFundingRequestService(db, now), activity)
	auditHandler := handlers.NewAuditHandler(services.NewAuditService(db, now), activity)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	if opts.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	v1.POST("/auth/login", authHandler.Login)

	// Pipeline routes authenticate with X-API-Key instead of a bearer token.
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(opts.PipelineAPIKey))
	pipeline.GET("/funding-requests/approved", fundingHandler.GetApprovedFundingRequests)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.POST("/users", authHandler.CreateUser)

	parks := protected.Group("/parks")
	parks.POST("", parkHandler.CreatePark)
	parks.GET("", parkHandler.ListParks)
	parks.GET("/:id", parkHandler.GetPark)
	parks.GET("/:id/budgets", budgetHandler.GetParkBudgets)
	parks.GET("/:id/expenses", expenseHandler.GetParkExpenses)
	parks.GET("/:id/withdraw-requests", withdrawHandler.GetParkWithdrawRequests)
	parks.GET("/:id/funding-requests", fundingHandler.GetParkFundingRequests)
	parks.GET("/:id/audits", auditHandler.GetParkAudits)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.POST("/:id/approve", budgetHandler.ApproveBudget)
	budgets.POST("/:id/reject", budgetHandler.RejectBudget)
	budgets.GET("/:id/summary", budgetHandler.GetBudgetSummary)
	budgets.POST("/:id/categories", categoryHandler.CreateCategory)
	budgets.GET("/:id/categories", categoryHandler.GetBudgetCategories)
	budgets.POST("/:id/income-streams", streamHandler.CreateIncomeStream)
	budgets.GET("/:id/income-streams", streamHandler.GetBudgetIncomeStreams)
	budgets.POST("/:id/expenses", expenseHandler.CreateExpense)
	budgets.GET("/:id/expenses", expenseHandler.GetBudgetExpenses)
	budgets.POST("/:id/withdraw-requests", withdrawHandler.CreateWithdrawRequest)
	budgets.GET("/:id/withdraw-requests", withdrawHandler.GetBudgetWithdrawRequests)

	categories := protected.Group("/categories")
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)
	categories.GET("/:id/expenses", expenseHandler.GetCategoryExpenses)
	categories.GET("/:id/withdraw-requests", withdrawHandler.GetCategoryWithdrawRequests)

	streams := protected.Group("/income-streams")
	streams.PUT("/:id", streamHandler.UpdateIncomeStream)
	streams.DELETE("/:id", streamHandler.DeleteIncomeStream)

	expenses := protected.Group("/expenses")
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.POST("/:id/approve", expenseHandler.ApproveExpense)
	expenses.POST("/:id/reject", expenseHandler.RejectExpense)
	expenses.PUT("/:id/audit-status", expenseHandler.UpdateExpenseAuditStatus)
	expenses.PUT("/:id/receipt", expenseHandler.AttachExpenseReceipt)

	withdrawals := protected.Group("/withdraw-requests")
	withdrawals.GET("/:id", withdrawHandler.GetWithdrawRequest)
	withdrawals.POST("/:id/approve", withdrawHandler.ApproveWithdrawRequest)
	withdrawals.POST("/:id/reject", withdrawHandler.RejectWithdrawRequest)
	withdrawals.PUT("/:id/audit-status", withdrawHandler.UpdateWithdrawRequestAuditStatus)
	withdrawals.PUT("/:id/receipt", withdrawHandler.AttachWithdrawRequestReceipt)

	funding := protected.Group("/funding-requests")
	funding.POST("", fundingHandler.CreateFundingRequest)
	funding.GET("/:id", fundingHandler.GetFundingRequest)
	funding.POST("/:id/approve", fundingHandler.ApproveFundingRequest)
	funding.POST("/:id/reject", fundingHandler.RejectFundingRequest)

	audits := protected.Group("/audits")
	audits.POST("", auditHandler.CreateAudit)
	audits.GET("/:id", auditHandler.GetAudit)
	audits.PUT("/:id/progress", auditHandler.UpdateAuditProgress)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
