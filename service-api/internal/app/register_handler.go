package app

import (
	"ppv-gate/pkg/logger"
	middleware "ppv-gate/service-api/internal/app/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (a *appServer) RegisterHandlers() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	handler := gin.New()

	// middlewares
	logger.Debugf("allowing CORS origins: %v", a.config.CORS.AllowedOrigins)

	corsConfig := cors.Config{
		AllowOrigins: a.config.CORS.AllowedOrigins,
		AllowMethods: a.config.CORS.AllowedMethods,
		AllowHeaders: a.config.CORS.AllowedHeaders,
	}
	handler.Use(cors.New(corsConfig))
	handler.Use(gin.Logger())
	handler.Use(gin.Recovery())

	// health check
	handler.GET("/healthz", a.controller.Healthz)

	// buyer flow
	handler.GET("/", a.controller.PaymentForm)
	handler.POST("/payments/initiate", a.controller.InitiatePayment)
	handler.GET("/resume", a.controller.Resume)

	// the gateway delivers the callback as POST form fields, but some
	// redirect variants arrive as GET query params
	handler.POST("/payments/callback", a.controller.PaymentCallback)
	handler.GET("/payments/callback", a.controller.PaymentCallback)

	// watch flow
	handler.GET("/watch/:token", a.controller.WatchPage)
	handler.GET("/verify", a.controller.Verify)
	handler.POST("/verify", a.controller.Verify)

	// admin routes (X-Admin-Token required)
	adminRoutes := handler.Group("/admin")
	adminRoutes.Use(middleware.AdminAuth(&a.config.Admin))
	{
		adminRoutes.GET("/logs", a.controller.AdminLogs)
		adminRoutes.POST("/kick", a.controller.AdminKick)
		adminRoutes.POST("/add-device", a.controller.AdminAddDevice)
	}

	return handler
}
