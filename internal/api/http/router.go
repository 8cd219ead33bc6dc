package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/shop-service/internal/api/http/handlers"
	"github.com/spec-kit/shop-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health           *handlers.HealthHandler
	Users            *handlers.UsersHandler
	Orders           *handlers.OrdersHandler
	Products         *handlers.ProductsHandler
	AuthMiddleware   *auth.AuthMiddleware
	MetricsGatherer  prometheus.Gatherer
	CORSAllowOrigins string
}

// RegisterEdgeMiddlewares installs middlewares that must run before logging.
func RegisterEdgeMiddlewares(app *fiber.App, allowOrigins string) {
	app.Use(requestid.New())
	if allowOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: allowOrigins,
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		}))
	}
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.MetricsGatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.MetricsGatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	products := api.Group("/products")
	products.Get("/", cfg.Products.ListProducts)
	products.Get("/:id", cfg.Products.GetProduct)

	users := api.Group("/user")
	users.Post("/register", cfg.Users.Register)
	users.Post("/login", cfg.Users.Login)
	users.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Users.Logout)
	users.Get("/me", cfg.AuthMiddleware.Handle, cfg.Users.Me)
	users.Put("/me", cfg.AuthMiddleware.Handle, cfg.Users.UpdateMe)
	users.Put("/password", cfg.AuthMiddleware.Handle, cfg.Users.ChangePassword)
	users.Get("/", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Users.ListUsers)
	users.Get("/:id", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Users.GetUser)

	orders := api.Group("/order", cfg.AuthMiddleware.Handle)
	orders.Post("/", cfg.Orders.CreateOrder)
	orders.Get("/", cfg.Orders.ListOrders)
	orders.Get("/:id", cfg.Orders.GetOrder)
	orders.Patch("/:id", cfg.Orders.UpdateOrder)
}
