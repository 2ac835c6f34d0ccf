// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"freshfold/internal/http/handlers"
	"freshfold/internal/http/middleware"
	"freshfold/internal/modules/driver"
	"freshfold/internal/modules/order"
	"freshfold/internal/modules/revenue"
)

type RouterDeps struct {
	Order     *order.Service
	Driver    *driver.Service
	Revenue   *revenue.Service
	JWTSecret string
	Log       *zap.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(
		middleware.Recovery(deps.Log),
		middleware.Logging(deps.Log),
		middleware.Metrics(),
	)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api", middleware.Auth(deps.JWTSecret))

	orderHandler := handlers.NewOrderHandler(deps.Order)
	api.POST("/orders", orderHandler.Create)
	api.GET("/orders", orderHandler.List)
	api.GET("/orders/:id", orderHandler.Get)
	api.POST("/orders/:id/transition", orderHandler.Transition)
	api.POST("/orders/:id/driver", orderHandler.AssignDriver)
	api.PATCH("/orders/:id/priority", orderHandler.SetPriority)
	api.PATCH("/orders/:id/notes", orderHandler.SetNotes)
	api.GET("/orders/:id/history", orderHandler.History)

	driverHandler := handlers.NewDriverHandler(deps.Driver)
	api.POST("/drivers", driverHandler.Create)
	api.GET("/drivers", driverHandler.List)
	api.PATCH("/drivers/:id/status", driverHandler.SetStatus)
	api.POST("/drivers/:id/trips", driverHandler.StartTrip)
	api.POST("/trips/:id/complete", driverHandler.CompleteTrip)
	api.GET("/drivers/:id/performance", driverHandler.Performance)
	api.GET("/drivers/performance", driverHandler.PerformanceAll)

	revenueHandler := handlers.NewRevenueHandler(deps.Revenue)
	api.GET("/reports/revenue", revenueHandler.Report)

	return r
}
