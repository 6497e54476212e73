package server

import (
	"github.com/GreenShard-market/JC-detector/internal/handler"
	"github.com/GreenShard-market/JC-detector/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the gin engine with middleware and routes registered.
func NewRouter(h *handler.Handler, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(logger))
	router.Use(middleware.Recovery(logger))

	h.RegisterRoutes(router)

	return router
}
