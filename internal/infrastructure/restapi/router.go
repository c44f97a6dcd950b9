package restapi

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter wires the dashboard API onto a Gin engine.
func SetupRouter(h *DashboardHandler, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.Use(ZapLoggerMiddleware(logger))
	router.Use(gin.Recovery())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		wallet := v1.Group("/wallet")
		{
			wallet.POST("/connect", h.ConnectWallet)
			wallet.POST("/disconnect", h.DisconnectWallet)
			wallet.GET("/accounts", h.ListAccounts)
			wallet.GET("/account", h.CurrentAccount)
			wallet.PUT("/account", h.SelectAccount)
		}

		v1.GET("/chains", h.ListChains)
		v1.GET("/prices", h.GetPrices)

		v1.GET("/portfolio", h.GetPortfolio)
		v1.GET("/portfolio/health", h.GetHealth)
		v1.POST("/portfolio/refresh", h.RefreshPortfolio)

		ai := v1.Group("/ai")
		{
			ai.POST("/insights", h.AIInsights)
			ai.POST("/ask", h.AIAsk)
		}

		xcm := v1.Group("/xcm")
		{
			xcm.GET("/routes", h.ListXCMRoutes)
			xcm.POST("/validate", h.ValidateXCMTransfer)
			xcm.POST("/transfer", h.ExecuteXCMTransfer)
		}
	}

	return router
}
