package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/dquintero/muebleria_backend/controllers"
)

// SetupRoutes registers the catalog, pricing and commission endpoints.
func SetupRoutes(e *echo.Echo,
	orderController *controllers.OrderController,
	categoryController *controllers.CategoryController,
	productController *controllers.ProductController,
	commissionController *controllers.CommissionController,
	exchangeRateController *controllers.ExchangeRateController,
) {
	api := e.Group("/api")

	// Categories and commission configuration
	api.POST("/categories", categoryController.CreateCategory)
	api.GET("/categories", categoryController.GetCategories)
	api.POST("/categories/:id/attributes", categoryController.AddAttribute)
	api.PUT("/categories/:id/commission", categoryController.SetCommission)
	api.PUT("/commission-rules/sale-types/:saleType", categoryController.SetSaleTypeRule)

	// Products
	api.POST("/products", productController.CreateProduct)
	api.GET("/products", productController.GetProducts)
	api.GET("/products/:id", productController.GetProduct)
	api.GET("/products/:id/label", productController.GetProductLabel)

	// Orders and pricing
	api.POST("/orders/quote", orderController.PriceQuote)
	api.POST("/orders/selection-check", orderController.CheckSelection)
	api.POST("/orders", orderController.CreateOrder)
	api.GET("/orders/:id", orderController.GetOrder)
	api.GET("/orders/:id/commissions", orderController.GetOrderCommissions)

	// Commission reporting
	api.GET("/commissions", commissionController.GetCommissions)
	api.GET("/commissions/summary", commissionController.GetCommissionSummary)
	api.PUT("/commissions/:id/paid", commissionController.MarkPaid)

	// Exchange rates
	api.GET("/exchange-rates", exchangeRateController.GetActiveRates)
	api.PUT("/exchange-rates/:currency", exchangeRateController.SetRate)
}
