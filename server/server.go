// Package server exposes the hamops REST API: band plan queries,
// callsign lookups, APRS station data and propagation conditions.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kf7lze/hamops/adapters/aprs"
	"github.com/kf7lze/hamops/adapters/callsign"
	"github.com/kf7lze/hamops/adapters/propagation"
	"github.com/kf7lze/hamops/bandplan"
	"github.com/kf7lze/hamops/config"
	"github.com/kf7lze/hamops/errors"
	"github.com/kf7lze/hamops/internal/httpclient"
	"github.com/kf7lze/hamops/logger"
)

// HamopsServer serves the hamops REST API. The band plan Dataset is
// injected at construction and never replaced, so handlers read it
// without locking.
type HamopsServer struct {
	cfg    *config.Config
	logger *zap.SugaredLogger

	plan        *bandplan.Dataset
	callsign    *callsign.Client
	aprs        *aprs.Client
	propagation *propagation.Client

	mux        *http.ServeMux
	httpServer *http.Server
}

// New creates a HamopsServer with the given configuration and band plan.
func New(cfg *config.Config, plan *bandplan.Dataset) (*HamopsServer, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if plan == nil {
		return nil, errors.New("band plan dataset cannot be nil")
	}

	httpClient := httpclient.New(
		time.Duration(cfg.HTTP.TimeoutSeconds)*time.Second,
		cfg.HTTP.RequestsPerMinute,
	)

	s := &HamopsServer{
		cfg:      cfg,
		logger:   logger.Logger,
		plan:     plan,
		callsign: callsign.New(httpClient, cfg.Callsign.BaseURL),
		aprs:     aprs.New(httpClient, cfg.APRS.BaseURL, cfg.APRS.APIKey),
		propagation: propagation.New(
			httpClient,
			cfg.Propagation.HamqslURL,
			cfg.Propagation.NOAABaseURL,
			time.Duration(cfg.Propagation.CacheTTLSeconds)*time.Second,
		),
		mux: http.NewServeMux(),
	}
	s.registerRoutes()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Handler returns the fully routed handler, mainly for tests.
func (s *HamopsServer) Handler() http.Handler {
	return s.mux
}

// Start runs the HTTP server until the context is cancelled, then shuts
// down gracefully.
func (s *HamopsServer) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("hamops server listening",
			"addr", s.httpServer.Addr,
			"bandplan_loaded", s.plan.Available(),
		)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down http server")
	}
	s.logger.Infow("hamops server stopped")
	return nil
}
