package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Estore-api/internal/application/analytics"
	"github.com/jhoicas/Estore-api/internal/application/auth"
	"github.com/jhoicas/Estore-api/internal/application/checkout"
	"github.com/jhoicas/Estore-api/internal/application/usecase"
	"github.com/jhoicas/Estore-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	CompanyUC      *usecase.CompanyUseCase
	CategoryUC     *usecase.CategoryUseCase
	MeasureUnitsUC *usecase.MeasureUnitsUseCase
	ProductUC      *usecase.ProductUseCase
	AttributeUC    *usecase.AttributeUseCase
	PriceListUC    *usecase.PriceListUseCase
	UserUC         *usecase.UserUseCase
	OrderUC        *usecase.OrderUseCase
	CartUC         *checkout.CartUseCase
	CheckoutUC     *checkout.CheckoutUseCase
	ReportUC       *appanalytics.ReportUseCase
	Orders         OrderRecorder // opcional
	JWTSecret      string
	// LoginRatePerMinute intentos de login/registro por IP; 0 usa el valor por defecto.
	LoginRatePerMinute int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authn := AuthMiddleware(deps.JWTSecret)
	manager := RequireRole(entity.RoleManager, entity.RoleAdmin)
	admin := RequireRole(entity.RoleAdmin)

	// Auth (público, con límite por IP)
	limiter := NewIPRateLimiter(deps.LoginRatePerMinute).Handler()
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/signup", limiter, authHandler.Signup)
	api.Post("/auth/login", limiter, authHandler.Login)

	companyHandler := NewCompanyHandler(deps.CompanyUC)
	api.Get("/company", companyHandler.Info)

	// Categorías
	categoryHandler := NewCategoryHandler(deps.CategoryUC, deps.AttributeUC)
	api.Get("/categories", categoryHandler.List)
	api.Get("/categories/:id", categoryHandler.GetByID)
	api.Get("/categories/:id/attributes", categoryHandler.Attributes)
	api.Post("/categories", authn, manager, categoryHandler.Create)
	api.Put("/categories/:id", authn, manager, categoryHandler.Rename)
	api.Delete("/categories/:id", authn, manager, categoryHandler.Delete)

	// Unidades de medida
	muHandler := NewMeasureUnitsHandler(deps.MeasureUnitsUC)
	api.Get("/measure-units", muHandler.List)
	api.Post("/measure-units", authn, manager, muHandler.Create)
	api.Put("/measure-units/:id", authn, manager, muHandler.Rename)
	api.Delete("/measure-units/:id", authn, manager, muHandler.Delete)

	// Productos (las rutas fijas antes de /:id)
	productHandler := NewProductHandler(deps.ProductUC, deps.AttributeUC)
	api.Get("/products", productHandler.List)
	api.Get("/products/search", productHandler.Search)
	api.Get("/products/top", productHandler.Top)
	api.Get("/products/:id", productHandler.GetByID)
	api.Get("/products/:id/attributes", productHandler.ListAttributes)
	api.Post("/products", authn, manager, productHandler.Create)
	api.Put("/products/:id", authn, manager, productHandler.Update)
	api.Post("/products/:id/attributes", authn, manager, productHandler.AddAttribute)
	api.Put("/products/:id/attributes", authn, manager, productHandler.UpdateAttributes)
	api.Delete("/products/:id/attributes/:attributeId", authn, manager, productHandler.RemoveAttribute)

	// Lista de precios CSV
	priceListHandler := NewPriceListHandler(deps.PriceListUC)
	api.Get("/pricelist", authn, manager, priceListHandler.Export)
	api.Post("/pricelist", authn, manager, priceListHandler.Import)

	// Perfil propio. Middleware por ruta: un grupo con middleware alcanzaría /api/measure-units.
	userHandler := NewUserHandler(deps.UserUC)
	api.Get("/countries", userHandler.Countries)
	me := api.Group("/me")
	me.Get("/", authn, userHandler.Me)
	me.Put("/", authn, userHandler.UpdateDetails)
	me.Put("/password", authn, userHandler.ChangePassword)
	me.Post("/addresses", authn, userHandler.AddAddress)
	me.Put("/addresses/:id", authn, userHandler.UpdateAddress)
	me.Delete("/addresses/:id", authn, userHandler.RemoveAddress)

	// Carrito y checkout
	cartHandler := NewCartHandler(deps.CartUC, deps.CheckoutUC, deps.Orders)
	cart := api.Group("/cart")
	cart.Get("/", authn, cartHandler.View)
	cart.Delete("/", authn, cartHandler.Clear)
	cart.Post("/items", authn, cartHandler.AddItem)
	cart.Put("/items/:productId", authn, cartHandler.SetQuantity)
	cart.Delete("/items/:productId", authn, cartHandler.RemoveItem)
	cart.Post("/repeat/:orderId", authn, cartHandler.Repeat)
	api.Post("/checkout/reserve", authn, cartHandler.Reserve)
	api.Delete("/checkout/reserve", authn, cartHandler.CancelReservation)
	api.Post("/checkout", authn, cartHandler.Checkout)

	// Pedidos
	orderHandler := NewOrderHandler(deps.OrderUC)
	invoiceHandler := NewInvoiceHandler(deps.OrderUC)
	api.Get("/my-orders", authn, orderHandler.MyOrders)
	api.Get("/orders", authn, manager, orderHandler.Search)
	api.Get("/orders/:id", authn, orderHandler.GetByID)
	api.Get("/orders/:id/invoice", authn, invoiceHandler.Download)
	api.Put("/orders/:id/status", authn, manager, orderHandler.UpdateStatus)

	// Reportes
	reportHandler := NewReportHandler(deps.ReportUC)
	reports := api.Group("/reports")
	reports.Get("/dashboard", authn, manager, reportHandler.Dashboard)
	reports.Get("/revenue/monthly", authn, manager, reportHandler.Monthly)
	reports.Get("/revenue/weekly", authn, manager, reportHandler.Weekly)
	reports.Get("/top-products", authn, manager, reportHandler.TopProducts)
	reports.Get("/top-clients", authn, manager, reportHandler.TopClients)

	// Administración de usuarios
	api.Get("/users", authn, admin, userHandler.Search)
	api.Put("/users/:id/roles/:roleId", authn, admin, userHandler.GrantRole)
	api.Delete("/users/:id/roles/:roleId", authn, admin, userHandler.RevokeRole)
	api.Get("/roles", authn, admin, userHandler.Roles)
}
