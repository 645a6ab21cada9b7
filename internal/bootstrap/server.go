package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/restate/config"
	"github.com/Domenick1991/restate/internal/auth"
	"github.com/Domenick1991/restate/internal/realtime"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

const swaggerDocURL = "/swagger/restate.swagger.json"

type Registrar interface {
	Register(router *gin.RouterGroup)
}

type Dependencies struct {
	Verifier *auth.Verifier
	Hub      *realtime.Hub
	Handlers []Registrar
}

// Run serves the HTTP API and blocks until ctx is canceled or the server fails.
func Run(ctx context.Context, cfg *config.Config, deps Dependencies) error {
	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           NewHandler(cfg.HTTP, deps),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       time.Minute,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if deps.Hub != nil {
			deps.Hub.Close()
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// NewHandler builds the gin engine with every route and wraps it in CORS.
func NewHandler(cfg config.HTTPConfig, deps Dependencies) http.Handler {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.SwaggerDir != "" {
		router.Static("/swagger", cfg.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(swaggerDocURL))))
	}

	authMiddleware := deps.Verifier.Middleware()

	if deps.Hub != nil {
		router.GET("/ws/notifications", authMiddleware, func(c *gin.Context) {
			deps.Hub.ServeWS(c.Writer, c.Request, auth.UserID(c))
		})
	}

	v1 := router.Group("/api/v1", authMiddleware)
	for _, h := range deps.Handlers {
		h.Register(v1)
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(router)
}
