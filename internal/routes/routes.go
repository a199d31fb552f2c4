package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/fnf/internal/config"
	"github.com/example/fnf/internal/handlers"
	"github.com/example/fnf/internal/middleware"
	"github.com/example/fnf/internal/repository"
	"github.com/example/fnf/internal/services"
	"github.com/example/fnf/internal/services/sms"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.VerificationService {
	challengeRepo := repository.NewChallengeRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	clock := services.SystemClock()
	gateway := sms.Select(cfg.SMSProvider, cfg.MSG91AuthKey, cfg.MSG91TemplateID, cfg.IdentitySecret)
	identity := sms.NewIdentityBridge(cfg.IdentitySecret)

	verification := services.NewVerificationService(
		challengeRepo, gateway, clock, services.RandomCodeSource(),
		cfg.OTPTTL, cfg.OTPMaxAttempts)
	customers := services.NewCustomerService(customerRepo, clock)
	orders := services.NewOrderService(orderRepo, customers, clock, cfg.StatsReverseOnCancel)

	authHandler := handlers.NewAuthHandler(verification, customers, adminRepo, identity, cfg)
	orderHandler := handlers.NewOrderHandler(orders)
	customerHandler := handlers.NewCustomerHandler(customers)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "FNF Backend API is running!",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"auth":      "/api/auth",
				"orders":    "/api/orders",
				"customers": "/api/customers",
			},
		})
	})

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/send-otp", authHandler.SendOTP)
	auth.Post("/verify-otp", authHandler.VerifyOTP)
	auth.Post("/identity-sync", authHandler.IdentitySync)
	auth.Post("/admin/login", authHandler.AdminLogin)
	auth.Post("/admin/register", authHandler.AdminRegister)
	auth.Get("/admin/me", middleware.AdminAuth(cfg), authHandler.AdminMe)

	// Order routes
	ordersGroup := api.Group("/orders")
	ordersGroup.Post("/", orderHandler.CreateOrder)
	ordersGroup.Get("/", orderHandler.ListOrders)
	ordersGroup.Get("/stats/summary", orderHandler.OrderStats)
	ordersGroup.Get("/:id", orderHandler.GetOrder)
	ordersGroup.Put("/:id", orderHandler.UpdateOrder)
	ordersGroup.Delete("/:id", middleware.AdminAuth(cfg), orderHandler.DeleteOrder)

	// Customer routes
	customersGroup := api.Group("/customers")
	customersGroup.Get("/", customerHandler.ListCustomers)
	customersGroup.Get("/:id", customerHandler.GetCustomer)
	customersGroup.Put("/:id", customerHandler.UpdateCustomer)
	customersGroup.Delete("/:id", middleware.AdminAuth(cfg), customerHandler.DeleteCustomer)

	return verification
}
