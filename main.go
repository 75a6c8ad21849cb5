package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/ascentium/clubbonus_backend/config"
	"github.com/ascentium/clubbonus_backend/controllers"
	"github.com/ascentium/clubbonus_backend/middleware"
	"github.com/ascentium/clubbonus_backend/repositories"
	"github.com/ascentium/clubbonus_backend/routes"
	"github.com/ascentium/clubbonus_backend/services"
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

	// Connect to Redis (run locking; engine degrades gracefully without it)
	redisClient := config.ConnectRedis()
	defer config.CloseRedis()

	// Connect to database
	client := config.ConnectDB()

	// Data access layer
	memberRepo := repositories.NewMemberRepository(client)
	tierRepo := repositories.NewTierRepository(client)
	volumeRepo := repositories.NewVolumeRepository(client)
	clubRepo := repositories.NewClubRepository(client)

	// Club bonus engine
	tree := services.NewTreeResolver(memberRepo)
	volumes := services.NewVolumeAggregator(tree, volumeRepo)
	legs := services.NewLegAnalyzer(tree, volumes)
	evaluator := services.NewQualificationEvaluator(memberRepo, tierRepo, volumes, legs)
	distributor := services.NewDistributor(evaluator, clubRepo)

	var locker services.RunLocker
	if redisClient != nil {
		locker = services.NewRedisRunLock(redisClient)
	}

	workers := 0
	if w := os.Getenv("CLUB_RUN_WORKERS"); w != "" {
		if parsed, err := strconv.Atoi(w); err == nil {
			workers = parsed
		}
	}
	orchestrator := services.NewOrchestrator(memberRepo, tierRepo, distributor, clubRepo, locker, workers)

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
	e.Use(middleware.GlobalCORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeaders())

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "Club Bonus Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	e.Use(httpsRedirect())

	// Initialize controllers
	clubController := controllers.NewClubBonusController(
		orchestrator, evaluator, legs, volumes, memberRepo, tierRepo, clubRepo)

	// Register club bonus routes
	routes.RegisterClubRoutes(e, clubController)

	// Start the monthly distribution scheduler when enabled
	if os.Getenv("CLUB_AUTO_DISTRIBUTE") == "true" {
		services.StartMonthlyScheduler(context.Background(), orchestrator, time.Hour)
		log.Println("Monthly distribution scheduler enabled")
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}

func httpsRedirect() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("X-Forwarded-Proto") == "http" {
				return c.Redirect(301, "https://"+c.Request().Host+c.Request().RequestURI)
			}
			return next(c)
		}
	}
}
