package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/http/router/controllers"
	router_helper "github.com/lintang-b-s/navigatorx-turncost/pkg/http/router/routerhelper"
	http_server "github.com/lintang-b-s/navigatorx-turncost/pkg/http/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type RateLimitConfig struct {
	Enabled bool
	Rps     float64
	Burst   int
}

type API struct {
	log     *zap.Logger
	metrics *Metrics
}

func NewAPI(log *zap.Logger) *API {
	return &API{log: log, metrics: NewMetrics(prometheus.NewRegistry())}
}

// Handler builds the router with the middleware chain.
func (api *API) Handler(
	rateLimit RateLimitConfig,
	turnCostService controllers.TurnCostService,
	routingService controllers.RoutingService,
) http.Handler {
	router := httprouter.New()

	corsHandler := cors.New(cors.Options{ //nolint:gocritic // ignore
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, //nolint:mnd // ignore
	})

	group := router_helper.NewRouteGroup(router, "/api")

	turnCostRoutes := controllers.New(turnCostService, routingService, api.log)
	turnCostRoutes.Routes(group)
	router.Handler(http.MethodGet, "/metrics", api.metrics.Handler())

	mwChain := []alice.Constructor{corsHandler.Handler, EnforceJSONHandler, api.recoverPanic,
		RealIP, Heartbeat("healthz"), Logger(api.log), PromeHttpMiddleware(api.metrics)}
	if rateLimit.Enabled {
		mwChain = append(mwChain, Limit(rateLimit.Rps, rateLimit.Burst))
	}
	return alice.New(mwChain...).Then(router)
}

// Run serves the API until ctx is canceled, then shuts the server down.
func (api *API) Run(
	ctx context.Context,
	config http_server.Config,
	rateLimit RateLimitConfig,
	turnCostService controllers.TurnCostService,
	routingService controllers.RoutingService,
) error {
	api.log.Info("Run httprouter API")

	srv := http_server.New(ctx, api.Handler(rateLimit, turnCostService, routingService), config)
	api.log.Info(fmt.Sprintf("API run on port %d", config.Port))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		api.log.Info("HTTP server stopped", zap.Error(err))
		return err
	case <-ctx.Done():
		api.log.Info("Context canceled, shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-serverErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
