package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/Estore-api/internal/application/analytics"
	"github.com/jhoicas/Estore-api/internal/application/auth"
	"github.com/jhoicas/Estore-api/internal/application/checkout"
	"github.com/jhoicas/Estore-api/internal/application/dto"
	"github.com/jhoicas/Estore-api/internal/application/usecase"
	"github.com/jhoicas/Estore-api/internal/domain/entity"
	"github.com/jhoicas/Estore-api/internal/infrastructure/memory"
	"github.com/jhoicas/Estore-api/internal/infrastructure/payment"
	apphttp "github.com/jhoicas/Estore-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Estore-api/pkg/jwt"
	"github.com/jhoicas/Estore-api/pkg/logger"
)

// ─── Fakes ───────────────────────────────────────────────────────────────────

type fakePDF struct{}

func (fakePDF) GenerateInvoicePDF(_ context.Context, order *entity.Order, _ *entity.User, _ entity.CompanyInfo) ([]byte, error) {
	return []byte("%PDF-fake " + order.ID), nil
}

type fakeRecorder struct{ methods []string }

func (f *fakeRecorder) OrderPlaced(method string) { f.methods = append(f.methods, method) }

// ─── Harness ─────────────────────────────────────────────────────────────────

type apiHarness struct {
	app      *fiber.App
	store    *memory.Store
	recorder *fakeRecorder
}

func newAPIHarness(t *testing.T, loginRate int) *apiHarness {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	store.AddCountry(entity.Country{ID: 1, Name: "Belarus"})

	categories := usecase.NewCategoryUseCase(store.Categories(), store.Products())
	products := usecase.NewProductUseCase(store.Products(), categories, store.MeasureUnits(), 5).WithTx(store.TxRunner())
	attributes := usecase.NewAttributeUseCase(store.Attributes(), store.Products(), categories)
	users := usecase.NewUserUseCase(store.Users(), store.Roles(), store.Countries())
	orders := usecase.NewOrderUseCase(store.Orders(), store.Users(), fakePDF{}, entity.CompanyInfo{Name: "E-Store"})
	authUC := auth.NewAuthUseCase(store.Users(), store.Roles(), store.Countries(),
		auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})

	rec := &fakeRecorder{}
	app := fiber.New()
	app.Use(apphttp.RequestLogger(logger.Nop()))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:         authUC,
		CompanyUC:      usecase.NewCompanyUseCase(entity.CompanyInfo{Name: "E-Store", Email: "info@estore.dev"}),
		CategoryUC:     categories,
		MeasureUnitsUC: usecase.NewMeasureUnitsUseCase(store.MeasureUnits(), store.Products()),
		ProductUC:      products,
		AttributeUC:    attributes,
		PriceListUC:    usecase.NewPriceListUseCase(products, store.TxRunner(), logger.Nop()),
		UserUC:         users,
		OrderUC:        orders,
		CartUC:         checkout.NewCartUseCase(store.Carts(), store.Products(), store.Orders(), store.Reservations()),
		CheckoutUC: checkout.NewCheckoutUseCase(store.TxRunner(), store.Carts(), store.Reservations(), store.Users(),
			payment.NewCardGateway(logger.Nop()), nil, products, checkout.Config{ReserveFor: 10 * time.Minute}, logger.Nop()),
		ReportUC:           appanalytics.NewReportUseCase(store.Orders(), products, users),
		Orders:             rec,
		JWTSecret:          testJWTSecret,
		LoginRatePerMinute: loginRate,
	})

	require.NoError(t, store.Categories().Create(ctx, &entity.Category{ID: "electronics", Name: "electronics", Type: entity.CategoryTypeFolder}))
	require.NoError(t, store.Categories().Create(ctx, &entity.Category{ID: "phones", Name: "phones", Type: entity.CategoryTypeCategory, ParentID: "electronics"}))
	require.NoError(t, store.MeasureUnits().Create(ctx, &entity.MeasureUnits{ID: "pcs", Name: "pcs"}))
	return &apiHarness{app: app, store: store, recorder: rec}
}

// call ejecuta la petición; body puede ser nil, string (crudo) o un valor a serializar en JSON.
func (h *apiHarness) call(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	contentType := fiber.MIMEApplicationJSON
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
		contentType = "text/csv"
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set(fiber.HeaderContentType, contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var out dto.ErrorResponse
	decode(t, resp, &out)
	return out.Code
}

func managerToken(t *testing.T) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, "manager-1", "boss@estore.dev", []string{entity.RoleManager}, testIssuer, testExpMin)
	require.NoError(t, err)
	return tok
}

func signupRequest(email string) dto.SignupRequest {
	return dto.SignupRequest{
		FirstName:   "Ana",
		LastName:    "Petrova",
		DateOfBirth: "1990-05-01",
		Email:       email,
		Password:    "secret-pass-1",
		Address: dto.AddressRequest{
			CountryID: 1, City: "Minsk", PostalCode: "220000", Street: "Lenina", House: "1",
		},
	}
}

// signupAndLogin registra un cliente y devuelve su token.
func (h *apiHarness) signupAndLogin(t *testing.T, email string) string {
	t.Helper()
	resp := h.call(t, http.MethodPost, "/api/auth/signup", "", signupRequest(email))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = h.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: "secret-pass-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	decode(t, resp, &login)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, []string{entity.RoleClient}, login.User.Roles)
	return login.Token
}

func (h *apiHarness) createProduct(t *testing.T, name, price string, stock int) dto.ProductResponse {
	t.Helper()
	resp := h.call(t, http.MethodPost, "/api/products", managerToken(t), dto.ProductRequest{
		Name:            name,
		SellingPrice:    decimal.RequireFromString(price),
		PurchasingPrice: decimal.RequireFromString("1"),
		CategoryID:      "phones",
		MeasureUnitsID:  "pcs",
		Height:          decimal.NewFromInt(1),
		Width:           decimal.NewFromInt(1),
		Depth:           decimal.NewFromInt(1),
		QuantityInStock: stock,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.ProductResponse
	decode(t, resp, &out)
	return out
}

// ─── Compra completa ─────────────────────────────────────────────────────────

func TestAPI_CompraCompleta(t *testing.T) {
	h := newAPIHarness(t, 10)
	product := h.createProduct(t, "Pixel", "10.50", 5)
	token := h.signupAndLogin(t, "ana@estore.dev")

	resp := h.call(t, http.MethodPost, "/api/cart/items", token, dto.CartItemRequest{ProductID: product.ID, Quantity: 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cart dto.CartResponse
	decode(t, resp, &cart)
	assert.Equal(t, 2, cart.TotalNumberOfProducts)
	assert.True(t, decimal.RequireFromString("21").Equal(cart.OrderPrice))

	// sin reserva el checkout se rechaza
	resp = h.call(t, http.MethodPost, "/api/checkout", token, dto.CheckoutRequest{PaymentMethod: "CASH", ShippingMethod: "PICKUP"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "NO_RESERVATION", errorCode(t, resp))

	resp = h.call(t, http.MethodPost, "/api/checkout/reserve", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = h.call(t, http.MethodPost, "/api/checkout", token, dto.CheckoutRequest{PaymentMethod: "CASH", ShippingMethod: "PICKUP"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order dto.OrderResponse
	decode(t, resp, &order)
	assert.Equal(t, int64(1), order.Number)
	assert.Equal(t, "CASH", order.PaymentMethod)
	assert.Equal(t, 2, order.TotalNumberOfProducts)
	assert.Equal(t, []string{"CASH"}, h.recorder.methods)

	resp = h.call(t, http.MethodGet, "/api/my-orders", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mine []dto.OrderResponse
	decode(t, resp, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, order.ID, mine[0].ID)

	resp = h.call(t, http.MethodGet, "/api/orders/"+order.ID+"/invoice", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "invoice-1.pdf")
	pdf, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	// el stock del producto bajó
	resp = h.call(t, http.MethodGet, "/api/products/"+product.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var after dto.ProductResponse
	decode(t, resp, &after)
	assert.Equal(t, 3, after.QuantityInStock)

	// el carrito queda vacío
	resp = h.call(t, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &cart)
	assert.Empty(t, cart.Lines)
}

func TestAPI_PedidoAjenoNoVisible(t *testing.T) {
	h := newAPIHarness(t, 10)
	product := h.createProduct(t, "Pixel", "10", 5)
	ana := h.signupAndLogin(t, "ana@estore.dev")
	bob := h.signupAndLogin(t, "bob@estore.dev")

	h.call(t, http.MethodPost, "/api/cart/items", ana, dto.CartItemRequest{ProductID: product.ID, Quantity: 1}).Body.Close()
	h.call(t, http.MethodPost, "/api/checkout/reserve", ana, nil).Body.Close()
	resp := h.call(t, http.MethodPost, "/api/checkout", ana, dto.CheckoutRequest{PaymentMethod: "CASH", ShippingMethod: "PICKUP"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order dto.OrderResponse
	decode(t, resp, &order)

	resp = h.call(t, http.MethodGet, "/api/orders/"+order.ID, bob, nil)
	assert.NotEqual(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = h.call(t, http.MethodGet, "/api/orders/"+order.ID, managerToken(t), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

// ─── Autorización por rol ────────────────────────────────────────────────────

func TestAPI_GuardasDeRol(t *testing.T) {
	h := newAPIHarness(t, 10)
	client := h.signupAndLogin(t, "ana@estore.dev")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"pedidos sin token", http.MethodGet, "/api/orders", "", http.StatusUnauthorized},
		{"pedidos como cliente", http.MethodGet, "/api/orders", client, http.StatusForbidden},
		{"pedidos como gerente", http.MethodGet, "/api/orders", managerToken(t), http.StatusOK},
		{"reportes como cliente", http.MethodGet, "/api/reports/top-products", client, http.StatusForbidden},
		{"usuarios como gerente", http.MethodGet, "/api/users", managerToken(t), http.StatusForbidden},
		{"roles como gerente", http.MethodGet, "/api/roles", managerToken(t), http.StatusForbidden},
		{"perfil propio", http.MethodGet, "/api/me", client, http.StatusOK},
		{"unidades de medida públicas", http.MethodGet, "/api/measure-units", "", http.StatusOK},
		{"empresa pública", http.MethodGet, "/api/company", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := h.call(t, tt.method, tt.path, tt.token, nil)
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func (h *apiHarness) login(t *testing.T, email string) dto.LoginResponse {
	t.Helper()
	resp := h.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: "secret-pass-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	decode(t, resp, &out)
	return out
}

// Los roles viajan en el JWT: un cambio de rol se aplica con el próximo token.
func TestAPI_CambioDeRolAplicaEnElSiguienteLogin(t *testing.T) {
	h := newAPIHarness(t, 10)
	h.signupAndLogin(t, "ana@estore.dev")
	first := h.login(t, "ana@estore.dev")
	admin, err := pkgjwt.Generate(testJWTSecret, "admin-1", "root@estore.dev", []string{entity.RoleAdmin}, testIssuer, testExpMin)
	require.NoError(t, err)

	resp := h.call(t, http.MethodPut, "/api/users/"+first.User.ID+"/roles/2", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = h.call(t, http.MethodGet, "/api/orders", first.Token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "el token anterior conserva sus roles")

	promoted := h.login(t, "ana@estore.dev")
	assert.ElementsMatch(t, []string{entity.RoleClient, entity.RoleManager}, promoted.User.Roles)
	resp = h.call(t, http.MethodGet, "/api/orders", promoted.Token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = h.call(t, http.MethodDelete, "/api/users/"+first.User.ID+"/roles/2", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	demoted := h.login(t, "ana@estore.dev")
	assert.Equal(t, []string{entity.RoleClient}, demoted.User.Roles)
	resp = h.call(t, http.MethodGet, "/api/orders", demoted.Token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ─── Traducción de errores ───────────────────────────────────────────────────

func TestAPI_ProductoInexistente404(t *testing.T) {
	h := newAPIHarness(t, 10)
	resp := h.call(t, http.MethodGet, "/api/products/no-existe", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
}

func TestAPI_RegistroDuplicado409(t *testing.T) {
	h := newAPIHarness(t, 10)
	h.signupAndLogin(t, "ana@estore.dev")

	resp := h.call(t, http.MethodPost, "/api/auth/signup", "", signupRequest("ana@estore.dev"))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "EMAIL_EXISTS", errorCode(t, resp))
}

func TestAPI_CuerpoInvalido400(t *testing.T) {
	h := newAPIHarness(t, 10)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{no-json"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", errorCode(t, resp))
}

func TestAPI_ListaDePreciosFilaInvalida422(t *testing.T) {
	h := newAPIHarness(t, 10)
	csvBody := strings.Join(usecase.PriceListHeader, ",") + "\n" +
		",Pixel,1,10,0,1,1,1,5,,pcs,phones\n" +
		",Nokia,barato,10,0,1,1,1,5,,pcs,phones\n"

	resp := h.call(t, http.MethodPost, "/api/pricelist", managerToken(t), csvBody)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "PRICE_LIST_ROW", errorCode(t, resp))

	// la fila válida tampoco quedó guardada
	resp = h.call(t, http.MethodGet, "/api/products", "", nil)
	var list []dto.ProductResponse
	decode(t, resp, &list)
	assert.Empty(t, list)
}

func TestAPI_ListaDePreciosImportaYExporta(t *testing.T) {
	h := newAPIHarness(t, 10)
	csvBody := strings.Join(usecase.PriceListHeader, ",") + "\n" +
		",Pixel,1,10,0,1,1,1,5,,pcs,phones\n"

	resp := h.call(t, http.MethodPost, "/api/pricelist", managerToken(t), csvBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.PriceListImportResponse
	decode(t, resp, &out)
	assert.Equal(t, 1, out.Created)

	resp = h.call(t, http.MethodGet, "/api/pricelist", managerToken(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/csv")
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(raw), "Pixel")
}

// ─── Búsqueda ────────────────────────────────────────────────────────────────

func TestAPI_BusquedaConFiltroDeAtributos(t *testing.T) {
	h := newAPIHarness(t, 10)
	black := h.createProduct(t, "Pixel 8", "10", 5)
	white := h.createProduct(t, "Pixel 7", "8", 5)
	mgr := managerToken(t)

	for id, color := range map[string]string{black.ID: "Negro", white.ID: "Blanco"} {
		resp := h.call(t, http.MethodPost, "/api/products/"+id+"/attributes", mgr, dto.AddAttributeRequest{Name: "Color"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
		resp = h.call(t, http.MethodPut, "/api/products/"+id+"/attributes", mgr,
			dto.UpdateAttributeValuesRequest{Values: map[string]string{"Color": color}})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	resp := h.call(t, http.MethodGet, "/api/products/search?name=pixel&attr.Color=Negro", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var found []dto.ProductResponse
	decode(t, resp, &found)
	require.Len(t, found, 1)
	assert.Equal(t, black.ID, found[0].ID)

	resp = h.call(t, http.MethodGet, "/api/products/search?name=pixel", "", nil)
	decode(t, resp, &found)
	assert.Len(t, found, 2)
}

// ─── Límite de intentos ──────────────────────────────────────────────────────

func TestAPI_LimiteDeLogin429(t *testing.T) {
	h := newAPIHarness(t, 2)
	login := dto.LoginRequest{Email: "nadie@estore.dev", Password: "x"}

	for i := 0; i < 2; i++ {
		resp := h.call(t, http.MethodPost, "/api/auth/login", "", login)
		assert.NotEqual(t, http.StatusTooManyRequests, resp.StatusCode)
		resp.Body.Close()
	}
	resp := h.call(t, http.MethodPost, "/api/auth/login", "", login)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "RATE_LIMITED", errorCode(t, resp))
}

// ─── Request id ──────────────────────────────────────────────────────────────

func TestAPI_RequestID(t *testing.T) {
	h := newAPIHarness(t, 10)

	resp := h.call(t, http.MethodGet, "/api/company", "", nil)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/api/company", nil)
	req.Header.Set(apphttp.HeaderRequestID, "req-42")
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "req-42", resp.Header.Get(apphttp.HeaderRequestID))
}
