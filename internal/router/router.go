package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ratbekn/umay/internal/engine"
	"github.com/ratbekn/umay/internal/handler"
	"gorm.io/gorm"
)

func Setup(eng *engine.Engine, db *gorm.DB) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "umay-settlement-service",
		})
	})

	// API版本组
	v1 := r.Group("/api/v1")
	{
		projectHandler := handler.NewProjectHandler(eng)
		investHandler := handler.NewInvestHandler(eng)
		settlementHandler := handler.NewSettlementHandler(eng)
		recordHandler := handler.NewRecordHandler(db)

		projects := v1.Group("/projects")
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", recordHandler.GetProjects)
			projects.GET("/ids", projectHandler.GetProjectIDs)
			projects.GET("/:id", projectHandler.GetProject)
			projects.DELETE("/:id", projectHandler.CancelProject)
			projects.GET("/:id/investors/:address", projectHandler.GetInvestorAmount)

			projects.POST("/:id/invest", investHandler.Invest)
			projects.POST("/:id/withdraw", settlementHandler.WithdrawFunds)
			projects.POST("/:id/distribute", settlementHandler.DistributeReturns)

			projects.GET("/:id/investments", recordHandler.GetProjectInvestments)
			projects.GET("/:id/events", recordHandler.GetProjectEvents)
			projects.GET("/:id/settlements", recordHandler.GetProjectSettlements)
			projects.GET("/:id/stats", recordHandler.GetProjectStats)
		}
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
