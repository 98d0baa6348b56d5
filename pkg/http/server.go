package http

import (
	"context"

	http_router "github.com/lintang-b-s/navigatorx-turncost/pkg/http/router"
	"github.com/lintang-b-s/navigatorx-turncost/pkg/http/router/controllers"
	http_server "github.com/lintang-b-s/navigatorx-turncost/pkg/http/server"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log *zap.Logger
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

// Use runs the API and blocks until ctx is canceled or the server fails.
func (s *Server) Use(
	ctx context.Context,
	turnCostService controllers.TurnCostService,
	routingService controllers.RoutingService,
) error {
	viper.SetDefault("API_PORT", 6060)
	viper.SetDefault("API_TIMEOUT", "30s")
	viper.SetDefault("RATE_LIMIT_ENABLED", false)
	viper.SetDefault("RATE_LIMIT_RPS", 100)
	viper.SetDefault("RATE_LIMIT_BURST", 200)

	config := http_server.Config{
		Port:    viper.GetInt("API_PORT"),
		Timeout: viper.GetDuration("API_TIMEOUT"),
	}
	rateLimit := http_router.RateLimitConfig{
		Enabled: viper.GetBool("RATE_LIMIT_ENABLED"),
		Rps:     viper.GetFloat64("RATE_LIMIT_RPS"),
		Burst:   viper.GetInt("RATE_LIMIT_BURST"),
	}

	api := http_router.NewAPI(s.Log)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.Run(gCtx, config, rateLimit, turnCostService, routingService)
	})

	return g.Wait()
}
