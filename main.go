package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/dquintero/muebleria_backend/config"
	"github.com/dquintero/muebleria_backend/controllers"
	"github.com/dquintero/muebleria_backend/middleware"
	"github.com/dquintero/muebleria_backend/repositories"
	"github.com/dquintero/muebleria_backend/routes"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	logger, err := config.InitLogger()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Connect to Redis (optional, rate caching only)
	redisClient := config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()
	db := config.GetDatabase(client)

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	customValidator := &CustomValidator{validator: validator.New()}
	e.Validator = customValidator

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "Muebleria Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// Initialize repositories
	catalogRepo := repositories.NewCatalogRepository(db, logger)
	rateRepo := repositories.NewExchangeRateRepository(db, redisClient, logger)
	ruleRepo := repositories.NewCommissionRuleRepository(db, logger)

	// Initialize controllers
	orderController := controllers.NewOrderController(db, catalogRepo, rateRepo, ruleRepo, logger)
	categoryController := controllers.NewCategoryController(db, ruleRepo, logger)
	productController := controllers.NewProductController(db, catalogRepo, logger)
	commissionController := controllers.NewCommissionController(db, logger)
	exchangeRateController := controllers.NewExchangeRateController(rateRepo, logger)

	routes.SetupRoutes(e, orderController, categoryController, productController, commissionController, exchangeRateController)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info("starting server", zap.String("port", port))
	e.Logger.Fatal(e.Start(":" + port))
}
