package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/identity"
	"storefront/internal/model"
	"storefront/internal/pricing"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a migrated ledger database in a container.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and applies the migrations.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	if err := database.Migrate(connStr, zerolog.Nop()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// CatalogProducts is the fixed catalogue served by NewFakeCatalog.
var CatalogProducts = []model.Product{
	{ID: 1, Name: "Desk Lamp", Price: decimal.NewFromInt(500), ImageURL: "lamp.png", SubcategoryID: 10},
	{ID: 2, Name: "Area Rug", Price: decimal.RequireFromString("1250.50"), ImageURL: "rug.png", SubcategoryID: 11},
	{ID: 3, Name: "Bookshelf", Price: decimal.NewFromInt(3200), ImageURL: "shelf.png", SubcategoryID: 11},
}

// NewFakeCatalog serves the catalog REST API read endpoints from memory.
func NewFakeCatalog(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /categories", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]model.Category{{ID: 1, Name: "Home"}})
	})
	mux.HandleFunc("GET /subcategories", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]model.Subcategory{
			{ID: 10, Name: "Lighting", CategoryID: 1},
			{ID: 11, Name: "Furniture", CategoryID: 1},
		})
	})
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(CatalogProducts)
	})
	mux.HandleFunc("GET /products/subcategory", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("name") != "Furniture" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(CatalogProducts[1:])
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// Stack is a fully wired server over real adapters.
type Stack struct {
	Handler  http.Handler
	Sessions *cart.Sessions
	Redis    *miniredis.Miniredis
}

// NewStack wires the storefront over the given ledger, a miniredis cart slot
// and the fake catalog.
func NewStack(t *testing.T, pool *pgxpool.Pool, mr *miniredis.Miniredis, catalogURL string) *Stack {
	t.Helper()

	logger := zerolog.Nop()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	persister := cart.NewPersister(cart.NewRedisSlot(client, time.Hour), time.Second, logger)
	sessions := cart.NewSessions(persister, time.Hour, logger)
	t.Cleanup(sessions.Close)

	calculator := pricing.NewCalculator(pricing.DefaultPolicy())
	catalogClient := catalog.NewClient(catalog.Options{BaseURL: catalogURL, Timeout: 5 * time.Second}, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	cartService := service.NewCartService(sessions, catalogClient, calculator, logger)
	catalogService := service.NewCatalogService(catalogClient, logger)
	checkoutService := service.NewCheckoutService(sessions, checkout.NewSimulatedProcessor(0, logger), orderRepo, calculator,
		service.CheckoutOptions{Currency: "INR", PaymentTimeout: 5 * time.Second}, logger)
	orderService := service.NewOrderService(orderRepo, logger)
	identityService := service.NewIdentityService(nil, identity.NewRoleResolver(nil, logger), logger)

	h := router.New(router.Handlers{
		Cart:     handler.NewCartHandler(cartService, logger),
		Checkout: handler.NewCheckoutHandler(checkoutService, logger),
		Catalog:  handler.NewCatalogHandler(catalogService, logger),
		Admin:    handler.NewAdminHandler(catalogService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
		Me:       handler.NewMeHandler(logger),
	}, identityService, logger)

	return &Stack{Handler: h, Sessions: sessions, Redis: mr}
}

// NewRedis starts an in-process Redis.
func NewRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	require.NotNil(t, mr)
	return mr
}
