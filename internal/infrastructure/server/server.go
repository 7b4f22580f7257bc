package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/filecore/internal/api/http"
	"github.com/GriffinCanCode/filecore/internal/api/middleware"
	"github.com/GriffinCanCode/filecore/internal/api/ws"
	"github.com/GriffinCanCode/filecore/internal/domain/session"
	"github.com/GriffinCanCode/filecore/internal/infrastructure/config"
	"github.com/GriffinCanCode/filecore/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/filecore/internal/logging"
	"github.com/GriffinCanCode/filecore/internal/providers/filesystem"
	"github.com/GriffinCanCode/filecore/internal/providers/system"
	"github.com/GriffinCanCode/filecore/internal/providers/trash"
	"github.com/GriffinCanCode/filecore/internal/shared/paths"
)

// ShutdownTimeout bounds how long Shutdown waits for in-flight requests
const ShutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	http     *http.Server
	sessions *session.Manager
	opener   *system.Opener
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// Options carries collaborators that replace the platform defaults
type Options struct {
	Logger  *logging.Logger
	Trash   filesystem.Trash
	Opener  *system.Opener
	Metrics *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		var err error
		if logger, err = newLogger(cfg.Logging); err != nil {
			return nil, err
		}
	}

	logger.Info("Initializing filecore server",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("start_dir", cfg.Engine.StartDir),
		zap.Bool("case_insensitive", cfg.Engine.CaseInsensitive),
	)

	metrics := opts.Metrics
	if metrics == nil {
		metrics = monitoring.NewMetrics()
	}

	startDir := paths.Volumes
	if cfg.Engine.StartDir != "" {
		var err error
		if startDir, err = paths.Parse(cfg.Engine.StartDir); err != nil {
			return nil, fmt.Errorf("start dir: %w", err)
		}
	}

	recycle := opts.Trash
	if recycle == nil {
		xdg, err := trash.NewXDG(cfg.Engine.TrashDir, logger)
		if err != nil {
			logger.Warn("Recycle bin unavailable", zap.Error(err))
		} else {
			recycle = xdg
			logger.Info("Recycle bin ready", zap.String("root", xdg.Root()))
		}
	}

	opener := opts.Opener
	if opener == nil {
		opener = system.NewOpener(system.OpenerOptions{Logger: logger})
	}

	engine := filesystem.New(filesystem.Options{
		CasePolicy:       cfg.Engine.CasePolicy(),
		StagingThreshold: cfg.Engine.ArchiveStagingThreshold,
		WalkWorkers:      cfg.Workers.WalkWorkers,
		Trash:            recycle,
		Opener:           opener,
		Logger:           logger,
		Metrics:          metrics,
	})

	sessions := session.NewManager(engine, session.Options{
		SearchBuffer: cfg.Workers.SearchBuffer,
		WalkWorkers:  cfg.Workers.WalkWorkers,
		Logger:       logger,
		Metrics:      metrics,
	})

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlerOpts := []apihttp.Option{apihttp.WithLauncher(opener)}
	if lister, ok := recycle.(apihttp.TrashLister); ok {
		handlerOpts = append(handlerOpts, apihttp.WithTrash(lister))
	}
	handlers := apihttp.NewHandlers(sessions, startDir, logger, handlerOpts...)
	sessionRoutes := handlers.Register(router)
	ws.NewHandler(logger, metrics).Register(sessionRoutes)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router:   router,
		sessions: sessions,
		opener:   opener,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
		http: &http.Server{
			Addr:              cfg.Server.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func newLogger(cfg config.LogConfig) (*logging.Logger, error) {
	base := logging.DefaultConfig()
	if cfg.Development {
		base = logging.DevelopmentConfig()
	}
	if cfg.Level != "" {
		base.Level = cfg.Level
	}
	base.Version = apihttp.Version
	return logging.New(base)
}

// Handler exposes the router for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Logger returns the server's logger
func (s *Server) Logger() *logging.Logger {
	return s.logger
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-errCh
}

// Close cleans up resources
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	s.sessions.CloseAll()
	s.opener.Wait()

	_ = s.logger.Sync()
	return nil
}
