package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/servigo/platform-api/internal/application/auth"
	"github.com/servigo/platform-api/internal/application/usecase"
	"github.com/servigo/platform-api/internal/domain/entity"
	"github.com/servigo/platform-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC     *usecase.CompanyUseCase
	CustomerUC    *usecase.CustomerUseCase
	ServiceAreaUC *usecase.ServiceAreaUseCase
	AuthUC        *auth.AuthUseCase
	JWTSecret     string
	Log           *logger.Logger
}

// Router registra las rutas de la API. Las lecturas son públicas; las
// escrituras requieren Bearer token y el borrado además rol admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	requireAuth := AuthMiddleware(deps.JWTSecret)
	requireAdmin := RequireRole(entity.RoleAdmin)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies. Las rutas fijas (all, lookup) van antes que :id.
	companyHandler := NewCompanyHandler(deps.CompanyUC, deps.Log)
	companies := api.Group("/companies")
	companies.Get("/", companyHandler.List)
	companies.Get("/all", companyHandler.GetAll)
	companies.Get("/lookup", companyHandler.Lookup)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Post("/", requireAuth, companyHandler.Create)
	companies.Put("/:id", requireAuth, companyHandler.Update)
	companies.Patch("/:id/service-area", requireAuth, companyHandler.PatchServiceArea)
	companies.Patch("/:id/fleet-detail", requireAuth, companyHandler.PatchFleetDetail)
	companies.Patch("/:id/pricing-tier", requireAuth, companyHandler.PatchPricingTier)
	companies.Delete("/:id", requireAuth, requireAdmin, companyHandler.Delete)

	// Customers
	customerHandler := NewCustomerHandler(deps.CustomerUC, deps.Log)
	customers := api.Group("/customers")
	customers.Get("/", customerHandler.List)
	customers.Get("/all", customerHandler.GetAll)
	customers.Get("/lookup", customerHandler.Lookup)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Post("/authenticate", customerHandler.Authenticate)
	customers.Post("/", requireAuth, customerHandler.Create)
	customers.Put("/:id", requireAuth, customerHandler.Update)
	customers.Patch("/:id/profile", requireAuth, customerHandler.PatchProfile)
	customers.Patch("/:id/preferences", requireAuth, customerHandler.PatchPreferences)
	customers.Delete("/:id", requireAuth, requireAdmin, customerHandler.Delete)

	// Catálogos (público)
	catalogHandler := NewCatalogHandler(deps.ServiceAreaUC, deps.Log)
	api.Get("/service-areas", catalogHandler.ServiceAreas)
}
