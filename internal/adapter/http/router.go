package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rma010101/ecommerce-fullstack/internal/adapter/http/middleware"
	"github.com/rma010101/ecommerce-fullstack/internal/logging"
	"github.com/rma010101/ecommerce-fullstack/internal/usecase"
)

// RateLimits carries the per-class request budgets (requests per
// window, the window itself lives in the counter).
type RateLimits struct {
	Default int64
	Bulk    int64
	Search  int64
}

type Handlers struct {
	Products *ProductHandler
	Orders   *OrderHandler
	Auth     *AuthHandler
	Audit    *AuditHandler
}

func NewRouter(h Handlers, authz *middleware.Authz, audit *usecase.Audit, counter middleware.RateCounter, limits RateLimits) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())

	l := logging.New("http")
	r.Use(middleware.Logging(l))
	r.Use(middleware.Audit(audit))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limit := func(class string, n int64) gin.HandlerFunc {
		return middleware.RateLimit(counter, class, n)
	}

	auth := r.Group("/api/auth", limit("auth", limits.Default))
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/signin", h.Auth.Signin)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", authz.RequireUser(), h.Auth.Me)
	}

	products := r.Group("/api/products", authz.RequireUser())
	{
		products.GET("", limit("products", limits.Default), h.Products.List)
		products.GET("/:id", limit("products", limits.Default), h.Products.Get)
		products.GET("/search", limit("search", limits.Search), h.Products.SearchByName)
		products.GET("/price-range", limit("search", limits.Search), h.Products.PriceRange)
		products.GET("/low-stock", limit("search", limits.Search), h.Products.LowStock)
		products.GET("/in-stock", limit("search", limits.Search), h.Products.InStock)
		products.GET("/category/:category", limit("search", limits.Search), h.Products.ByCategory)
		products.GET("/brand/:brand", limit("search", limits.Search), h.Products.ByBrand)

		admin := products.Group("", authz.RequireAdmin())
		{
			admin.POST("", limit("products", limits.Default), h.Products.Create)
			admin.POST("/bulk", limit("bulk", limits.Bulk), h.Products.CreateBulk)
			admin.PUT("/:id", limit("products", limits.Default), h.Products.Update)
			admin.DELETE("/:id", limit("products", limits.Default), h.Products.Delete)
			admin.PATCH("/:id/inventory", limit("products", limits.Default), h.Products.UpdateInventory)
			admin.PATCH("/:id/price", limit("products", limits.Default), h.Products.UpdatePrice)
		}
	}

	orders := r.Group("/api/orders", limit("orders", limits.Default))
	{
		// Tracking lookup is public: the tracking number is the credential.
		orders.GET("/tracking/:trackingNumber", h.Orders.Track)

		user := orders.Group("", authz.RequireUser())
		{
			user.POST("", h.Orders.Create)
			user.GET("/my-orders", h.Orders.MyOrders)
			user.GET("/:id", h.Orders.Get)
			user.GET("/order-number/:orderNumber", h.Orders.GetByOrderNumber)
			user.PUT("/:id/cancel", h.Orders.Cancel)
		}

		admin := orders.Group("/admin", authz.RequireAdmin())
		{
			admin.GET("/all", h.Orders.ListAll)
			admin.GET("/status/:status", h.Orders.ListByStatus)
			admin.GET("/recent", h.Orders.Recent)
			admin.GET("/stats", h.Orders.Stats)
			admin.PUT("/:id/status", h.Orders.UpdateStatus)
			admin.PUT("/:id/tracking", h.Orders.SetTracking)
		}
	}

	logs := r.Group("/api/query-logs", authz.RequireAdmin(), limit("audit", limits.Default))
	{
		logs.GET("", h.Audit.List)
		logs.GET("/by-ip/:ip", h.Audit.ByClientIP)
		logs.GET("/by-method/:method", h.Audit.ByMethod)
		logs.GET("/by-status/:status", h.Audit.ByStatus)
		logs.GET("/failed", h.Audit.Failed)
		logs.GET("/slow", h.Audit.Slow)
		logs.GET("/by-date-range", h.Audit.Between)
		logs.GET("/search", h.Audit.SearchURI)
		logs.GET("/stats", h.Audit.Stats)
		logs.DELETE("", h.Audit.Purge)
	}

	return r
}
