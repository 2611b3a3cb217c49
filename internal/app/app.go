// Package app wires repositories, services and handlers into a Fiber app.
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"ecohaat/internal/config"
	"ecohaat/internal/handlers"
	"ecohaat/internal/middleware"
	"ecohaat/internal/repositories"
	"ecohaat/internal/services"
	"ecohaat/pkg/kafka"
	"ecohaat/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

const Version = "1.0.0"

// Broker is an event publisher that owns a broker connection.
type Broker interface {
	services.EventPublisher
	Close() error
}

// NewBroker connects to the broker selected by cfg.EventsBroker.
// It returns nil when events are disabled.
func NewBroker(cfg config.Config) (Broker, error) {
	switch cfg.EventsBroker {
	case "rabbitmq":
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: cfg.RabbitMQExchange})
		if err != nil {
			return nil, err
		}
		return client, nil
	case "kafka":
		producer, err := kafka.NewProducer(kafka.Config{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic})
		if err != nil {
			return nil, err
		}
		return producer, nil
	case "", "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown events broker %q", cfg.EventsBroker)
	}
}

// New builds the HTTP application. A nil publisher disables domain events.
func New(cfg config.Config, db *gorm.DB, publisher services.EventPublisher) *fiber.App {
	// Repositories
	userRepo := repositories.NewGORMUserRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	productService := services.NewProductService(productRepo, categoryRepo)
	categoryService := services.NewCategoryService(categoryRepo, productRepo)
	cartService := services.NewCartService(cartRepo, productRepo)
	orderService := services.NewOrderService(cartRepo, orderRepo, publisher)
	adminService := services.NewAdminService(productRepo, userRepo, orderRepo, publisher)

	app := fiber.New(fiber.Config{
		AppName:      "Eco Haat API " + Version,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to Eco Haat API",
			"version": Version,
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		if err := ping(c.UserContext(), db); err != nil {
			log.Printf("Health check: database unreachable: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "degraded",
				"time":     time.Now().Format(time.RFC3339),
				"database": "unreachable",
			})
		}
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "connected",
			"events":   publisher != nil,
		})
	})

	auth := middleware.AuthRequired(authService)
	handlers.NewAuthHandler(authService).RegisterRoutes(app, auth)
	handlers.NewProductHandler(productService).RegisterRoutes(app, auth)
	handlers.NewCartHandler(cartService).RegisterRoutes(app, auth)
	handlers.NewOrderHandler(orderService).RegisterRoutes(app, auth)
	handlers.NewAdminHandler(adminService, categoryService).RegisterRoutes(app, auth)

	return app
}

// SeedAdmin makes sure the configured admin account exists.
func SeedAdmin(ctx context.Context, cfg config.Config, db *gorm.DB) error {
	if cfg.AdminEmail == "" {
		log.Println("ADMIN_EMAIL not set, skipping admin bootstrap")
		return nil
	}
	authService := services.NewAuthService(repositories.NewGORMUserRepository(db), cfg.JWTSecret, cfg.TokenTTL)
	admin, err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	log.Printf("Admin account ready: %s", admin.Email)
	return nil
}

func ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// errorHandler renders errors that escape the handlers, such as unknown
// routes, in the same shape as handler errors.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	} else {
		log.Printf("%s %s: unhandled error: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{"message": message})
}
