package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/hallbooking/api"
	"github.com/Domenick1991/hallbooking/config"
	"github.com/Domenick1991/hallbooking/internal/auth"
	"github.com/Domenick1991/hallbooking/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	apiPrefix       = "/api/v1"
	swaggerSpecPath = "/docs"
	swaggerSpecFile = "hallbooking.swagger.json"
	shutdownTimeout = 5 * time.Second
)

// Handlers groups the HTTP handlers mounted under /api/v1.
type Handlers struct {
	Halls        *api.HallHandler
	Availability *api.AvailabilityHandler
	Bookings     *api.BookingHandler
	Analytics    *api.AnalyticsHandler
	Amenities    *api.AmenityHandler
}

// HealthCheck reports whether a dependency the API needs is reachable.
type HealthCheck func(ctx context.Context) error

// Run serves the HTTP API and blocks until ctx is canceled or the server fails.
func Run(ctx context.Context, cfg *config.Config, logger zerolog.Logger, verifier *auth.Verifier, h Handlers, health HealthCheck) error {
	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           NewRouter(cfg, logger, verifier, h, health),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("address", cfg.HTTP.Address).Msg("http server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		logger.Info().Msg("http server stopped")
		return nil
	}
}

func NewRouter(cfg *config.Config, logger zerolog.Logger, verifier *auth.Verifier, h Handlers, health HealthCheck) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestID(), api.AccessLog(logger))

	router.GET("/healthz", func(c *gin.Context) {
		if health != nil {
			if err := health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.HTTP.SwaggerDir != "" {
		router.Static(swaggerSpecPath, cfg.HTTP.SwaggerDir)
		router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL(swaggerSpecPath+"/"+swaggerSpecFile),
		)))
	}

	public := router.Group(apiPrefix, api.RateLimit(cfg.HTTP.RateLimit, cfg.HTTP.RateBurst))
	authed := public.Group("", auth.Middleware(verifier))
	admin := authed.Group("", auth.RequireRole(domain.RoleAdmin))

	if h.Halls != nil {
		h.Halls.Register(public, admin)
	}
	if h.Availability != nil {
		h.Availability.Register(public)
	}
	if h.Bookings != nil {
		h.Bookings.Register(public, authed)
	}
	if h.Analytics != nil {
		h.Analytics.Register(admin)
	}
	if h.Amenities != nil {
		h.Amenities.Register(public, admin)
	}

	return router
}
