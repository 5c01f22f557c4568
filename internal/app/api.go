package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/samvad-hq/samvad-customers/internal/config"
	"github.com/samvad-hq/samvad-customers/internal/logger"
	"github.com/samvad-hq/samvad-customers/internal/server"
	"github.com/samvad-hq/samvad-customers/internal/service"
	"github.com/samvad-hq/samvad-customers/internal/storage"
)

// API represents the customer API runtime. It owns the storage backend and
// the HTTP server, and handles seeding and graceful shutdown.
type API struct {
	cfg     *config.Config
	store   storage.Store
	service *service.CustomerService
	server  *http.Server
	log     logger.Logger
}

// NewAPI builds the API runtime from config.
func NewAPI(ctx context.Context, cfg *config.Config, log logger.Logger) (*API, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	storageType := storage.NormalizeType(cfg.StorageType)
	location := storageLocation(cfg, storageType)
	store, err := storage.NewStore(ctx, storageType, location, storage.Options{})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":     storageType,
		"location": redactLocation(storageType, location),
	})

	svc := service.NewCustomerService(store, log)
	if cfg.SeedOnStart {
		if err := seedRandomCustomer(ctx, svc, log); err != nil {
			store.Close()
			return nil, fmt.Errorf("seed customer: %w", err)
		}
	}

	return &API{
		cfg:     cfg,
		store:   store,
		service: svc,
		server: &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: server.NewRouter(svc, log),
		},
		log: log,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (a *API) Run(ctx context.Context) error {
	if a == nil || a.server == nil {
		return fmt.Errorf("api is not initialized")
	}
	defer a.closeStore()

	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.server.Addr, err)
	}
	return a.serve(ctx, ln)
}

func (a *API) serve(ctx context.Context, ln net.Listener) error {
	a.log.InfoObj("api listening", "api_state", map[string]any{
		"addr":         ln.Addr().String(),
		"storage_type": a.cfg.StorageType,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		a.log.InfoObj("api shutting down", "reason", ctx.Err())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// storageLocation returns the bbolt file path or the postgres connection
// string, depending on the normalized storage type.
func storageLocation(cfg *config.Config, storageType string) string {
	switch storageType {
	case storage.TypePostgres:
		return cfg.DatabaseURL
	case storage.TypeBBolt:
		return cfg.BBoltPath
	}
	return ""
}

func redactLocation(storageType, location string) string {
	if storageType != storage.TypePostgres || location == "" {
		return location
	}
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" {
		// key=value DSNs may carry a password anywhere
		return "redacted"
	}
	return u.Redacted()
}

// closeStore safely closes the storage backend, logging any errors encountered.
func (a *API) closeStore() {
	if a == nil || a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.log.ErrorObj("storage close failed", "error", err)
	}
}
