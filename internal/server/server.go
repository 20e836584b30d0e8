// Package server exposes parsed repository snapshots over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/odvcencio/gitscope/internal/config"
	"github.com/odvcencio/gitscope/internal/logging"
	"github.com/odvcencio/gitscope/pkg/repo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// multipartSlack covers form boundaries and headers around the archive.
const multipartSlack = 1 << 20

// Server serves the snapshot API.
type Server struct {
	cfg      *config.Config
	log      *zap.SugaredLogger
	store    *Store
	metrics  *Metrics
	registry *prometheus.Registry
	router   *mux.Router
}

// New builds a server. A nil logger discards logs.
func New(cfg *config.Config, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = logging.Nop()
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := cfg.ParserOptions()
	opts.Logger = log
	s := &Server{
		cfg:      cfg,
		log:      log,
		store:    NewStore(repo.NewParser(opts)),
		metrics:  NewMetrics(reg),
		registry: reg,
		router:   mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.StrictSlash(true)
	r.Use(s.metrics.instrument)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.Path("/health").HandlerFunc(s.health).Methods(http.MethodGet)

	r.Path("/snapshots").HandlerFunc(s.createSnapshot).Methods(http.MethodPost)
	r.Path("/snapshots/{id}").HandlerFunc(s.getSnapshot).Methods(http.MethodGet)
	r.Path("/snapshots/{id}").HandlerFunc(s.replaceSnapshot).Methods(http.MethodPut)
	r.Path("/snapshots/{id}").HandlerFunc(s.deleteSnapshot).Methods(http.MethodDelete)

	snap := r.PathPrefix("/snapshots/{id}").Subrouter()
	snap.Path("/commits").HandlerFunc(s.listCommits).Methods(http.MethodGet)
	snap.Path("/branches").HandlerFunc(s.listBranches).Methods(http.MethodGet)
	snap.Path("/tags").HandlerFunc(s.listTags).Methods(http.MethodGet)
	snap.Path("/stats").HandlerFunc(s.stats).Methods(http.MethodGet)
	snap.Path("/commits/{rev}").HandlerFunc(s.getCommit).Methods(http.MethodGet)
	snap.Path("/commits/{rev}/changes").HandlerFunc(s.commitChanges).Methods(http.MethodGet)
	snap.Path("/commits/{rev}/files/{path:.*}").HandlerFunc(s.fileAtCommit).Methods(http.MethodGet)
	snap.Path("/objects/{hash}").HandlerFunc(s.getObject).Methods(http.MethodGet)
	snap.Path("/export").HandlerFunc(s.exportSnapshot).Methods(http.MethodGet)
}

// Handler returns the router wrapped with recovery, CORS and compression.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = handlers.CompressHandler(h)
	h = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(h)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{s.log}), handlers.PrintRecoveryStack(true))(h)
	return h
}

// ListenAndServe serves on the configured address until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("listening", "addr", s.cfg.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Infow("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

type recoveryLogger struct {
	log *zap.SugaredLogger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.log.Errorw("recovered from panic", "err", fmt.Sprint(v...))
}
