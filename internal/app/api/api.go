package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dealdrop/dealdrop/internal/app/tracking"
	"github.com/dealdrop/dealdrop/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Service is the tracking surface the API exposes.
type Service interface {
	AddOrRefresh(ctx context.Context, params tracking.AddOrRefreshParams) (*models.SessionOutcome, error)
	Delete(ctx context.Context, params tracking.DeleteParams) error
	ListProducts(ctx context.Context, ownerID string) ([]models.TrackedProduct, error)
	ListHistory(ctx context.Context, productID string) ([]models.PriceHistoryEntry, error)
}

type Server struct {
	config Config
	deps   Dependencies
}

type Config struct {
	Addr string `validate:"required"`
}

func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

type Dependencies struct {
	Service Service `validate:"required"`
}

func (c *Dependencies) Validate() error {
	return validator.New().Struct(c)
}

func NewServer(config Config, deps Dependencies) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Server{
		config: config,
		deps:   deps,
	}, nil
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.Use(loggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/products", s.handleAddProduct).Methods(http.MethodPost)
	api.HandleFunc("/products", s.handleListProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", s.handleDeleteProduct).Methods(http.MethodDelete)
	api.HandleFunc("/products/{id}/history", s.handleListHistory).Methods(http.MethodGet)

	return r
}

// Start serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.config.Addr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)

	go func() {
		log.
			WithField("server.addr", s.config.Addr).
			Info("api server starting")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server.ListenAndServe: %w", err)

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server.Shutdown: %w", err)
		}

		return nil
	}
}
