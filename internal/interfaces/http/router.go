package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/alnatural-api/internal/application/access"
	"github.com/jhoicas/alnatural-api/internal/application/auth"
	"github.com/jhoicas/alnatural-api/internal/application/catalog"
	"github.com/jhoicas/alnatural-api/internal/application/clients"
	"github.com/jhoicas/alnatural-api/internal/application/orders"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	AccessUC   *access.AccessUseCase
	ClientsUC  *clients.ClientsUseCase
	CatalogUC  *catalog.CatalogUseCase
	OrdersUC   *orders.OrdersUseCase
	JWTSecret  string
	AccessRate *RateLimiter // nil: sin límite en validación de códigos
	Metrics    Observer     // nil: sin métricas de negocio
	Log        zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	limited := func(c *fiber.Ctx) error { return c.Next() }
	if deps.AccessRate != nil {
		limited = deps.AccessRate.Handler()
	}

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), RequireUser(), authHandler.Me)

	// Códigos de acceso (público, con límite por IP)
	accessHandler := NewAccessHandler(deps.AccessUC, deps.Metrics, deps.Log)
	api.Post("/access-codes/validate", limited, accessHandler.Validate)

	// Vínculos cuenta ↔ cliente (solo cuentas de usuario)
	links := api.Group("/clients", AuthMiddleware(deps.JWTSecret), RequireUser())
	links.Post("/link", limited, accessHandler.LinkClient)
	links.Post("/link-user", accessHandler.LinkUserClient)

	// Catálogo (público; precios con token)
	productHandler := NewProductHandler(deps.CatalogUC, deps.Log)
	api.Get("/products", OptionalAuth(deps.JWTSecret), productHandler.List)

	// Pedidos (cuenta o código de acceso)
	orderGroup := api.Group("/orders", AuthMiddleware(deps.JWTSecret))
	orderHandler := NewOrderHandler(deps.OrdersUC, deps.Metrics, deps.Log)
	orderGroup.Post("/", orderHandler.Place)
	orderGroup.Get("/:id/pdf", orderHandler.ReceiptPDF)

	// Administración (rol admin verificado en cada petición)
	admin := api.Group("/admin", AuthMiddleware(deps.JWTSecret), RequireAdmin(deps.AuthUC, deps.Log))
	clientHandler := NewClientHandler(deps.ClientsUC, deps.Log)
	admin.Post("/clients", clientHandler.Create)
	admin.Get("/clients", clientHandler.List)
	admin.Put("/clients", clientHandler.Update)
	admin.Patch("/clients/status", clientHandler.UpdateStatus)
	admin.Put("/products/price", productHandler.UpdatePrice)
}
