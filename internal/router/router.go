package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/theatre-backoffice/internal/config"
	"github.com/iliyamo/theatre-backoffice/internal/handler"
	"github.com/iliyamo/theatre-backoffice/internal/middleware"
	"github.com/iliyamo/theatre-backoffice/internal/model"
)

// API bundles what the protected /v1 routes need.  Redis may be nil, in
// which case rate limiting and the export cache are disabled.
type API struct {
	Revenue       *handler.RevenueHandler
	DailyIncome   *handler.DailyIncomeHandler
	Notifications *handler.NotificationHandler
	JWTSecret     string
	RateLimit     config.RateLimitConfig
	Cache         config.CacheConfig
	Redis         *redis.Client
	Log           logrus.FieldLogger
}

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo, db handler.Pinger, rdb *redis.Client) {
	e.GET("/healthz", handler.Health(db, rdb))
}

// RegisterAPI registers the back office endpoints under /v1.  Every route
// requires a valid JWT with the ADMIN role and passes the rate limiter.
func RegisterAPI(e *echo.Echo, api API) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(api.JWTSecret),
		middleware.RequireRole(model.RoleAdmin),
		middleware.NewTokenBucket(api.RateLimit, api.Redis, api.Log),
	)

	// ---- Revenue analytics ----
	g.GET("/revenue/daily", api.Revenue.GetDailyRevenue)
	// Only the download is cached; the JSON figures are always computed live.
	g.GET("/revenue/daily/export", api.Revenue.ExportDailyRevenue, middleware.NewRedisCache(api.Cache, api.Redis, api.Log))
	g.GET("/revenue/payment-methods", api.Revenue.GetPaymentMethodBreakdown)
	g.GET("/revenue/time-slots", api.Revenue.GetTimeSlotPerformance)
	g.GET("/revenue/goals/:month/progress", api.Revenue.GetRevenueProgress)
	g.PUT("/revenue/goals/:month", api.Revenue.SetMonthlyGoal)

	// ---- Daily income ledger ----
	g.GET("/daily-income", api.DailyIncome.ListDailyIncome)
	g.POST("/daily-income", api.DailyIncome.CreateDailyIncome)
	g.POST("/daily-income/sync", api.DailyIncome.SyncDailyIncome)
	g.PUT("/daily-income/:id", api.DailyIncome.UpdateDailyIncome)
	g.DELETE("/daily-income/:id", api.DailyIncome.DeleteDailyIncome)

	// ---- Alerts ----
	g.POST("/alerts/revenue", api.Notifications.CheckRevenueGoal)
	g.POST("/alerts/cancellation", api.Notifications.CheckCancellationRate)
	g.GET("/notifications", api.Notifications.ListNotifications)
	g.POST("/notifications/:id/read", api.Notifications.MarkNotificationRead)
}
