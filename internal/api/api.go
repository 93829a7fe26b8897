package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/katiamach/terraguard/internal/config"
	"github.com/katiamach/terraguard/internal/logger"
	"github.com/katiamach/terraguard/internal/mapview"
	"github.com/katiamach/terraguard/internal/metrics"
	"github.com/katiamach/terraguard/internal/presenter"
	"github.com/katiamach/terraguard/internal/scoring"
	"github.com/katiamach/terraguard/internal/service"
	"github.com/katiamach/terraguard/internal/session"
	"github.com/katiamach/terraguard/internal/tiles"
	"github.com/katiamach/terraguard/internal/transport/rest/handler"
)

const shutdownTimeout = 5 * time.Second

// NewScorer builds the scoring chain: HTTP client, proximity cache when
// enabled, and the normalizing service in front.
func NewScorer(cfg *config.Config, m *metrics.Metrics) *service.AnalysisService {
	var scorer service.Scorer = scoring.New(cfg.Scoring.URL, cfg.Scoring.Timeout, m)
	if cfg.Scoring.CacheTTL > 0 {
		scorer = scoring.NewCachedScorer(scorer, cfg.Scoring.CacheTTL, cfg.Scoring.CacheRadiusKm, m)
	}

	return service.New(scorer)
}

// PresenterOptions maps the configuration onto presenter options. The base
// layer points at the local tile proxy.
func PresenterOptions(cfg *config.Config, m *metrics.Metrics) presenter.Options {
	return presenter.Options{
		Layout: cfg.Map.Layout,
		TileLayer: mapview.TileLayer{
			URLTemplate: "/tiles/{z}/{x}/{y}",
			Attribution: cfg.Tiles.Attribution,
			TileSize:    cfg.Tiles.TileSize,
			ZoomOffset:  *cfg.Tiles.ZoomOffset,
		},
		FocusZoom:   cfg.Map.FocusZoom,
		RedrawDelay: cfg.Map.RedrawDelay,
		Metrics:     m,
	}
}

// NewRouter registers every route of the server.
func NewRouter(server *handler.RiskServer, m *metrics.Metrics) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", server.IndexHandler).Methods(http.MethodGet)
	r.HandleFunc("/analyze", server.SubmitHandler).Methods(http.MethodPost)
	r.HandleFunc("/back", server.BackHandler).Methods(http.MethodPost)
	r.HandleFunc("/tab/{tab}", server.TabHandler).Methods(http.MethodPost)
	r.HandleFunc("/pick", server.PickHandler).Methods(http.MethodPost)

	r.HandleFunc("/api/analyze", server.AnalyzeHandler).Methods(http.MethodPost)
	r.HandleFunc("/tiles/{z:[0-9]+}/{x:[0-9]+}/{y:[0-9]+}", server.TileHandler).Methods(http.MethodGet)
	r.HandleFunc("/health", server.HealthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	return r
}

// RunAPI runs the risk analysis server until ctx is done.
func RunAPI(ctx context.Context, cfg *config.Config) error {
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	m := metrics.New()

	analysis := NewScorer(cfg, m)
	opts := PresenterOptions(cfg, m)
	sessions := session.NewStore(func() *presenter.Presenter {
		return presenter.New(analysis, opts)
	}, cfg.Server.SessionTTL, cfg.Server.MaxSessions, m)
	defer sessions.Close()

	if cfg.Tiles.Token == "" {
		logger.Warn("TILE_TOKEN is not set, map tiles will fail to load")
	}
	tileProxy := tiles.NewProxy(cfg.Tiles.URLTemplate, cfg.Tiles.Token, cfg.Tiles.CacheTTL, m)
	defer tileProxy.Close()

	server := handler.NewRiskServer(analysis, tileProxy, sessions)
	r := NewRouter(server, m)

	accessLog := logger.Writer()
	defer accessLog.Close()

	var h http.Handler = r
	h = handlers.CORS(setupCorsOptions(cfg.Server.Origin)...)(h)
	h = handlers.LoggingHandler(accessLog, h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(logger.WithFields(logrus.Fields{"component": "recovery"})),
		handlers.PrintRecoveryStack(true),
	)(h)

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           h,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Starting risk analysis server at port %s", cfg.Server.Port))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("Shutting down")
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}
