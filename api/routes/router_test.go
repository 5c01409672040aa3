package routes

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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brazzaeats/brazzaeats-backend/internal/cart"
	"github.com/brazzaeats/brazzaeats-backend/internal/catalog"
	"github.com/brazzaeats/brazzaeats-backend/internal/checkout"
	"github.com/brazzaeats/brazzaeats-backend/internal/favorites"
	"github.com/brazzaeats/brazzaeats-backend/internal/notifications"
	"github.com/brazzaeats/brazzaeats-backend/internal/orders"
	"github.com/brazzaeats/brazzaeats-backend/internal/profile"
	"github.com/brazzaeats/brazzaeats-backend/internal/session"
	"github.com/brazzaeats/brazzaeats-backend/pkg/config"
	"github.com/brazzaeats/brazzaeats-backend/pkg/db"
	"github.com/brazzaeats/brazzaeats-backend/pkg/logger"
	"github.com/brazzaeats/brazzaeats-backend/pkg/metrics"
	"github.com/brazzaeats/brazzaeats-backend/pkg/migrate"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func testConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Env: "test", CORSOrigins: "http://localhost:5173"},
		Session: config.SessionConfig{Secret: "secret", Issuer: "brazzaeats", TTLMinutes: 60},
		Pricing: config.PricingConfig{
			FeePerRestaurant:      1000,
			LoyaltyAwardPerOrder:  50,
			StartingLoyaltyPoints: 120,
			DeliveryAddress:       "Brazzaville, Poto-Poto",
			Currency:              "FCFA",
		},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()
	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	client, err := db.New(ctx, config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    "file:" + name + "?mode=memory&cache=shared",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	sqlDB, err := client.SQL()
	require.NoError(t, err)
	require.NoError(t, migrate.Run(ctx, sqlDB, client.Driver(), "", "up"))

	catalogSvc, err := catalog.NewService(catalog.NewRepository(client.DB()))
	require.NoError(t, err)
	seed, err := migrate.OpenSeed("")
	require.NoError(t, err)
	defer seed.Close()
	doc, err := catalog.DecodeDocument(seed)
	require.NoError(t, err)
	_, err = catalogSvc.Import(ctx, doc)
	require.NoError(t, err)

	manager, err := session.NewManager(session.ManagerParams{
		Store:          session.NewMemoryStore(),
		TTL:            cfg.Session.TTL(),
		StartingPoints: cfg.Pricing.StartingLoyaltyPoints,
		Logger:         logg,
	})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	pricer, err := cart.NewPricer(cfg.Pricing.FeePerRestaurant)
	require.NoError(t, err)
	cartSvc, err := cart.NewService(cart.ServiceParams{
		Sessions: manager,
		Dishes:   catalogSvc,
		Pricer:   pricer,
		Metrics:  metrics.NewCartMetrics(reg),
	})
	require.NoError(t, err)
	archive := orders.NewArchive(client.DB())
	checkoutSvc, err := checkout.NewService(checkout.ServiceParams{
		Sessions:        manager,
		Pricer:          pricer,
		Archive:         archive,
		LoyaltyAward:    cfg.Pricing.LoyaltyAwardPerOrder,
		DeliveryAddress: cfg.Pricing.DeliveryAddress,
		Currency:        cfg.Pricing.Currency,
		Metrics:         metrics.NewCheckoutMetrics(reg),
		Logger:          logg,
	})
	require.NoError(t, err)
	ordersSvc, err := orders.NewService(orders.ServiceParams{Sessions: manager, Archive: archive})
	require.NoError(t, err)
	profileSvc, err := profile.NewService(manager)
	require.NoError(t, err)
	favoritesSvc, err := favorites.NewService(manager)
	require.NoError(t, err)
	notificationsSvc, err := notifications.NewService(manager)
	require.NoError(t, err)

	return NewRouter(cfg, logg, client, stubPinger{}, reg, manager,
		catalogSvc, cartSvc, checkoutSvc, ordersSvc, profileSvc, favoritesSvc, notificationsSvc)
}

type apiClient struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func (c *apiClient) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp := httptest.NewRecorder()
	c.handler.ServeHTTP(resp, req)
	return resp
}

func decodeData(t *testing.T, resp *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope), resp.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, dest))
}

func decodeErrorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope), resp.Body.String())
	return envelope.Error.Code
}

func startSession(t *testing.T, handler http.Handler) *apiClient {
	t.Helper()
	c := &apiClient{t: t, handler: handler}
	resp := c.do(http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var created struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
		Session   struct {
			ID string `json:"id"`
		} `json:"session"`
	}
	decodeData(t, resp, &created)
	require.NotEmpty(t, created.Token)
	require.NotEmpty(t, created.Session.ID)
	c.token = created.Token
	return c
}

func TestHealthEndpoints(t *testing.T) {
	handler := newTestRouter(t)
	c := &apiClient{t: t, handler: handler}

	resp := c.do(http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "test", resp.Header().Get("X-BrazzaEats-Env"))

	resp = c.do(http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
}

func TestCatalogIsPublic(t *testing.T) {
	c := &apiClient{t: t, handler: newTestRouter(t)}

	resp := c.do(http.MethodGet, "/api/v1/restaurants", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var restaurants []catalog.Restaurant
	decodeData(t, resp, &restaurants)
	assert.Len(t, restaurants, 5)

	resp = c.do(http.MethodGet, "/api/v1/restaurants?q=sushi", nil)
	decodeData(t, resp, &restaurants)
	require.Len(t, restaurants, 1)
	assert.Equal(t, "3", restaurants[0].ID)

	resp = c.do(http.MethodGet, "/api/v1/restaurants/featured", nil)
	decodeData(t, resp, &restaurants)
	assert.Len(t, restaurants, 4)

	resp = c.do(http.MethodGet, "/api/v1/restaurants/42", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = c.do(http.MethodGet, "/api/v1/dishes?category=Pizzas", nil)
	var dishes []catalog.DishListing
	decodeData(t, resp, &dishes)
	assert.Len(t, dishes, 2)
}

func TestSessionRoutesRequireToken(t *testing.T) {
	c := &apiClient{t: t, handler: newTestRouter(t)}
	resp := c.do(http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeErrorCode(t, resp))
}

func TestCartCheckoutFlow(t *testing.T) {
	handler := newTestRouter(t)
	c := startSession(t, handler)

	resp := c.do(http.MethodPost, "/api/v1/cart/items", map[string]any{
		"restaurant_id": "1", "dish_id": "101", "quantity": 2,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	resp = c.do(http.MethodPost, "/api/v1/cart/items", map[string]any{
		"restaurant_id": "2", "dish_id": "201", "quantity": 1,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var quote struct {
		Groups []cart.RestaurantGroup `json:"groups"`
		Totals cart.Totals            `json:"totals"`
	}
	decodeData(t, resp, &quote)
	assert.Len(t, quote.Groups, 2)
	assert.Equal(t, int64(11500), quote.Totals.Subtotal)
	assert.Equal(t, int64(2000), quote.Totals.DeliveryFee)
	assert.Equal(t, int64(13500), quote.Totals.Total)

	resp = c.do(http.MethodPatch, "/api/v1/cart/items/0", map[string]any{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeErrorCode(t, resp))
	resp = c.do(http.MethodGet, "/api/v1/cart", nil)
	decodeData(t, resp, &quote)
	require.Len(t, quote.Groups, 2)
	assert.Equal(t, 2, quote.Groups[0].Items[0].Item.Quantity, "a zero quantity never removes or changes the line")
	assert.Equal(t, int64(13500), quote.Totals.Total)

	resp = c.do(http.MethodPatch, "/api/v1/cart/items/5", map[string]any{"quantity": 3})
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "OUT_OF_RANGE", decodeErrorCode(t, resp))

	resp = c.do(http.MethodPost, "/api/v1/checkout", map[string]any{"payment_method": "AIRTEL_MONEY"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var result checkout.Result
	decodeData(t, resp, &result)
	assert.Equal(t, int64(13500), result.Order.Total)
	assert.Equal(t, 170, result.LoyaltyPoints)

	resp = c.do(http.MethodGet, "/api/v1/cart", nil)
	decodeData(t, resp, &quote)
	assert.Empty(t, quote.Groups)

	resp = c.do(http.MethodGet, "/api/v1/orders", nil)
	var history []orders.Order
	decodeData(t, resp, &history)
	require.Len(t, history, 1)
	assert.Equal(t, result.Order.ID, history[0].ID)

	resp = c.do(http.MethodPost, "/api/v1/orders/"+result.Order.ID+"/status", map[string]any{"status": "delivering"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = c.do(http.MethodGet, "/api/v1/orders/"+result.Order.ID+"/qrcode", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "image/png", resp.Header().Get("Content-Type"))

	resp = c.do(http.MethodGet, "/api/v1/notifications", nil)
	var inbox notifications.Listing
	decodeData(t, resp, &inbox)
	assert.Equal(t, 1, inbox.Unread)

	resp = c.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "checkouts_total")
}

func TestEmptyCheckoutIsRejected(t *testing.T) {
	c := startSession(t, newTestRouter(t))
	resp := c.do(http.MethodPost, "/api/v1/checkout", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeErrorCode(t, resp))
}

func TestProfileFlow(t *testing.T) {
	c := startSession(t, newTestRouter(t))

	resp := c.do(http.MethodPut, "/api/v1/profile/preferences", map[string]any{"preferences": []string{"Sushi"}})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = c.do(http.MethodGet, "/api/v1/profile/recommendations", nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var recs struct {
		Dishes []catalog.DishListing `json:"dishes"`
	}
	decodeData(t, resp, &recs)
	require.NotEmpty(t, recs.Dishes)
	assert.Equal(t, "3", recs.Dishes[0].RestaurantID)

	resp = c.do(http.MethodPost, "/api/v1/profile/login", map[string]any{"name": "Léa", "email": "lea@example.cg"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var account profile.Account
	decodeData(t, resp, &account)
	assert.True(t, account.LoggedIn)
	assert.Equal(t, "Léa", account.Profile.Name)

	resp = c.do(http.MethodPatch, "/api/v1/profile", map[string]any{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = c.do(http.MethodPost, "/api/v1/profile/logout", nil)
	decodeData(t, resp, &account)
	assert.False(t, account.LoggedIn)
	assert.Equal(t, profile.DefaultName, account.Profile.Name)
}

func TestFavoritesToggle(t *testing.T) {
	c := startSession(t, newTestRouter(t))

	resp := c.do(http.MethodPost, "/api/v1/favorites/101/toggle", nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var toggled favorites.ToggleResult
	decodeData(t, resp, &toggled)
	assert.True(t, toggled.Favorite)

	resp = c.do(http.MethodPost, "/api/v1/favorites/101/toggle", nil)
	decodeData(t, resp, &toggled)
	assert.False(t, toggled.Favorite)
	assert.Empty(t, toggled.Favorites)
}

func TestEndSession(t *testing.T) {
	c := startSession(t, newTestRouter(t))

	resp := c.do(http.MethodGet, "/api/v1/sessions/me", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = c.do(http.MethodDelete, "/api/v1/sessions/me", nil)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = c.do(http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
