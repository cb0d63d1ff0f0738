package handlers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/splitmate/splitmate/internal/middleware"
)

// Router builds the gin engine with all routes and middleware registered.
func (h *Handlers) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(cors.Default())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", h.Register)
		authRoutes.POST("/login", h.Login)
		authRoutes.GET("/me", middleware.RequireAuth(h.jwtManager), h.CurrentUser)
	}

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(h.jwtManager))
	{
		protected.POST("/groups", h.CreateGroup)
		protected.GET("/groups", h.ListGroups)
		protected.GET("/groups/:id", h.GetGroup)
		protected.PUT("/groups/:id", h.UpdateGroup)
		protected.DELETE("/groups/:id", h.DeleteGroup)
		protected.POST("/groups/:id/members", h.AddGroupMembers)

		protected.POST("/groups/:id/expenses", h.CreateExpense)
		protected.GET("/groups/:id/expenses", h.ListExpenses)
		protected.GET("/expenses/:id", h.GetExpense)
		protected.PUT("/expenses/:id", h.UpdateExpense)
		protected.DELETE("/expenses/:id", h.DeleteExpense)

		protected.POST("/groups/:id/payments", h.CreatePayment)
		protected.GET("/groups/:id/payments", h.ListPayments)
		protected.DELETE("/payments/:id", h.DeletePayment)

		protected.GET("/groups/:id/balances", h.GetBalances)
		protected.GET("/groups/:id/settlements", h.GetSettlementPlan)

		protected.POST("/rates", h.CreateExchangeRate)
		protected.GET("/rates", h.ListExchangeRates)
	}

	return router
}
