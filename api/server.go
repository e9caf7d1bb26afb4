// Package api exposes the pricing engine over HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/banachtech/zebra-engine/analytic"
	"github.com/banachtech/zebra-engine/option"
	"github.com/banachtech/zebra-engine/pricer"
)

//go:generate mockgen -destination mock/engine.go -package mockapi github.com/banachtech/zebra-engine/api Engine

// Engine prices requests for the handlers. *pricer.Engine implements it.
type Engine interface {
	Price(ctx context.Context, req pricer.Request) (option.Outcome, error)
	ImpliedVol(ctx context.Context, price float64, p option.Params, opts analytic.IVOptions) (analytic.IVResult, error)
}

// APIKey is a configured client key. Clients send "<Prefix>.<secret>" and
// Hash is the bcrypt hash of that whole string.
type APIKey struct {
	Name   string `mapstructure:"name"`
	Prefix string `mapstructure:"prefix" validate:"len=8"`
	Hash   string `mapstructure:"hash" validate:"required"`
}

// Config is the server section of the configuration. With no Keys the API
// is open.
type Config struct {
	Address      string        `mapstructure:"address" validate:"required"`
	Mode         string        `mapstructure:"mode" validate:"omitempty,oneof=debug release test"`
	Keys         []APIKey      `mapstructure:"keys" validate:"dive"`
	RateLimit    float64       `mapstructure:"rate_limit" validate:"gte=0"` // requests per second per key, 0 disables
	Burst        int           `mapstructure:"burst" validate:"gte=0"`
	MaxGridCells int           `mapstructure:"max_grid_cells" validate:"gte=0"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// DefaultConfig listens on :8080 without keys, rate limit or timeout.
func DefaultConfig() Config {
	return Config{Address: ":8080", Mode: gin.ReleaseMode, Burst: 1, MaxGridCells: 2000}
}

// Server serves HTTP requests for the pricing engine.
type Server struct {
	cfg      Config
	engine   Engine
	log      *slog.Logger
	keys     map[string]APIKey
	limiters *limiters
	metrics  *Metrics
	router   *gin.Engine
}

// NewServer creates a new HTTP server and sets up routing.
func NewServer(cfg Config, engine Engine, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	server := &Server{
		cfg:      cfg,
		engine:   engine,
		log:      log,
		keys:     make(map[string]APIKey, len(cfg.Keys)),
		limiters: newLimiters(cfg.RateLimit, cfg.Burst),
		metrics:  NewMetrics(),
	}
	for _, k := range cfg.Keys {
		server.keys[k.Prefix] = k
	}
	server.setupRouter()
	return server
}

func (server *Server) setupRouter() {
	if server.cfg.Mode != "" {
		gin.SetMode(server.cfg.Mode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), server.metrics.instrument, server.requestLog)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(server.metrics.Handler()))

	authRoutes := router.Group("/v1").Use(server.authentication, server.rateLimit)
	authRoutes.POST("/price", server.price)
	authRoutes.POST("/iv", server.impliedVol)
	authRoutes.POST("/sweep", server.sweep)
	authRoutes.POST("/scenario", server.scenario)
	authRoutes.POST("/portfolio", server.portfolio)
	server.router = router
}

// Handler returns the routed handler, for tests and embedding.
func (server *Server) Handler() http.Handler {
	return server.router
}

// Start runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully.
func (server *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              server.cfg.Address,
		Handler:           server.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		server.log.Info("listening", slog.String("address", server.cfg.Address), slog.Int("keys", len(server.keys)))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (server *Server) requestLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	level := slog.LevelDebug
	if c.Writer.Status() >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	server.log.Log(c.Request.Context(), level, "request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("elapsed", time.Since(start)),
	)
}

func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}
