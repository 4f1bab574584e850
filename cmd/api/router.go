package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"royalty-backend/internal/shared/middleware"
	"royalty-backend/pkg/container"
)

// Token scopes. "admin" passes every scope check.
const (
	scopeWrite  = "write"
	scopeSettle = "settle"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Metrics(),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.GET("/health", healthCheckHandler(c))

	api := v1.Group("")
	if c.Config.AuthEnabled {
		api.Use(middleware.AuthMiddleware(c.JWTManager))
	}
	write := scoped(c, scopeWrite)
	settle := scoped(c, scopeSettle)

	setupAuthorRoutes(api, c, write, settle)
	setupBookRoutes(api, c, write)
	setupSaleRoutes(api, c, write, settle)
	setupReportRoutes(api, c)

	return router
}

// scoped returns the scope check for a route, or a no-op when auth is off.
func scoped(c *container.Container, scope string) gin.HandlerFunc {
	if !c.Config.AuthEnabled {
		return func(ctx *gin.Context) { ctx.Next() }
	}
	return middleware.RequireScope(scope)
}

// ========================================
// AUTHOR ROUTES
// ========================================
func setupAuthorRoutes(api *gin.RouterGroup, c *container.Container, write, settle gin.HandlerFunc) {
	authors := api.Group("/authors")
	{
		authors.GET("", c.AuthorHandler.List)
		authors.POST("", write, c.AuthorHandler.Create)
		authors.GET("/:id", c.AuthorHandler.GetByID)
		authors.GET("/:id/unpaid-subtotal", c.SettlementHandler.UnpaidSubtotal)
		authors.POST("/:id/pay-unpaid", settle, c.SettlementHandler.PayAuthorUnpaid)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(api *gin.RouterGroup, c *container.Container, write gin.HandlerFunc) {
	books := api.Group("/books")
	{
		books.GET("", c.BookHandler.ListBooks)
		books.POST("", write, c.BookHandler.CreateBook)
		books.GET("/:id", c.BookHandler.GetBook)
		books.PATCH("/:id", write, c.BookHandler.UpdateBook)
		books.DELETE("/:id", write, c.BookHandler.DeleteBook)
		books.GET("/:id/contracts", c.BookHandler.GetContracts)
		books.PUT("/:id/contracts", write, c.BookHandler.ReplaceContracts)
		books.GET("/:id/sales-totals", c.ReportHandler.BookSalesTotals)
	}
}

// ========================================
// SALE ROUTES
// ========================================
func setupSaleRoutes(api *gin.RouterGroup, c *container.Container, write, settle gin.HandlerFunc) {
	sales := api.Group("/sales")
	{
		sales.GET("", c.SaleHandler.ListSales)
		sales.POST("", write, c.SaleHandler.CreateSale)
		sales.POST("/batch", write, c.SaleHandler.CreateSalesBatch)
		sales.GET("/:id", c.SaleHandler.GetSale)
		sales.PATCH("/:id", write, c.SaleHandler.EditSale)
		sales.DELETE("/:id", write, c.SaleHandler.DeleteSale)
		sales.POST("/:id/pay-authors", settle, c.SettlementHandler.PayAuthorsForSale)
	}
}

// ========================================
// REPORT ROUTES
// ========================================
func setupReportRoutes(api *gin.RouterGroup, c *container.Container) {
	api.GET("/author-payments", c.ReportHandler.GroupedAuthorPayments)
	api.GET("/author-payments/export", c.ReportHandler.ExportAuthorPayments)
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = "error: " + err.Error()
			}
		}
		health["services"] = gin.H{"database": dbStatus}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			health["status"] = "degraded"
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, health)
	}
}
