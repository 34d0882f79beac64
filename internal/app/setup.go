// Package app contains the application setup for the product API.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/productapi/internal/config"
	"github.com/abgdnv/productapi/internal/service"
	"github.com/abgdnv/productapi/internal/store"
	grpcImpl "github.com/abgdnv/productapi/internal/transport/grpc"
	"github.com/abgdnv/productapi/internal/transport/rest"
	"github.com/abgdnv/productapi/pkg/auth"
	pkgconfig "github.com/abgdnv/productapi/pkg/config"
	"github.com/abgdnv/productapi/pkg/messaging"
	pnats "github.com/abgdnv/productapi/pkg/nats"
	"github.com/abgdnv/productapi/pkg/server"
	"github.com/abgdnv/productapi/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
)

const serviceName = "product-api"

type Dependencies struct {
	ProductService service.ProductService
	Verifier       auth.Verifier
	PublicPaths    []string
	Logger         *slog.Logger
}

// SetupDependencies builds the service over a store seeded with the initial catalogue.
func SetupDependencies(publisher messaging.Publisher, verifier auth.Verifier, publicPaths []string, logger *slog.Logger) *Dependencies {
	productStore := store.NewInMemoryStore(store.WithSeed(store.SeedProducts()...))
	pService := service.NewService(productStore, publisher, logger)

	return &Dependencies{
		ProductService: pService,
		Verifier:       verifier,
		PublicPaths:    publicPaths,
		Logger:         logger,
	}
}

// SetupVerifier returns the credential verifier selected by cfg.Mode.
func SetupVerifier(ctx context.Context, cfg pkgconfig.AuthConfig) (auth.Verifier, error) {
	switch cfg.Mode {
	case pkgconfig.AuthModeStatic:
		return auth.NewStaticTokenVerifier(cfg.Token), nil
	case pkgconfig.AuthModeJWT:
		verifier, err := auth.NewJWTVerifier(ctx, cfg.IdP)
		if err != nil {
			return nil, fmt.Errorf("failed to create JWT verifier: %w", err)
		}
		return verifier, nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}

// SetupPublisher connects to NATS and makes sure the products stream exists when events
// are enabled. Otherwise it returns a publisher that drops everything. The returned
// close function drains the connection.
func SetupPublisher(ctx context.Context, cfg pkgconfig.EventsConfig, logger *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.Enabled {
		return messaging.NopPublisher{}, func() {}, nil
	}

	nc, err := pnats.NewClient(cfg.Nats.URL, cfg.Nats.ClientName, cfg.Nats.Timeout)
	if err != nil {
		return nil, nil, err
	}
	js, err := pnats.NewJetStreamContext(nc)
	if err != nil {
		return nil, nil, err
	}
	if _, err := pnats.EnsureStream(ctx, js, cfg.Stream, messaging.ProductsSubjects); err != nil {
		nc.Close()
		return nil, nil, err
	}

	publisher := messaging.NewBreakerPublisher(pnats.NewNatsPublisher(js), cfg.CircuitBreaker, logger)
	closeFn := func() {
		if err := nc.Drain(); err != nil {
			logger.Error("Failed to drain NATS connection", "error", err)
		}
	}
	return publisher, closeFn, nil
}

// SetupHttpHandler initializes the router, middleware and routes of the product API.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	mux.Use(web.AuthMiddleware(deps.Verifier, deps.Logger, deps.PublicPaths))
	wireRoutes(mux, deps)
	return otelhttp.NewHandler(mux, serviceName)
}

// wireRoutes sets up the HTTP routes for the product API.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	productHandler := rest.NewHandler(deps.ProductService, deps.Logger)
	productHandler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures an HTTP server for the product API.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	return server.NewHTTPServer(cfg.HTTPServer, SetupHttpHandler(deps))
}

// SetupGrpcServer initializes the gRPC server carrying the health service.
func SetupGrpcServer(deps *Dependencies, health *grpcImpl.Health, reflectionEnabled bool) *grpc.Server {
	return server.NewGRPCServer(deps.Logger, reflectionEnabled, health.Register)
}

// SetupOpsServer creates the server for pprof, metrics and liveness.
func SetupOpsServer(cfg pkgconfig.OpsConfig, gatherer prometheus.Gatherer) *http.Server {
	return &http.Server{
		Addr:    cfg.Addr,
		Handler: server.NewOpsHandler(gatherer),
	}
}
