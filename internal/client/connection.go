package client

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Connection owns the backend base URL: normalization, persistence, and the
// reachability probe that unlocks the rest of the client.
type Connection struct {
	store   *URLStore
	timeout time.Duration
	logger  *zap.Logger

	baseURL   string
	connected bool
	lastError string
	api       *API
}

// NewConnection constructs a Connection backed by store.
func NewConnection(store *URLStore, timeout time.Duration, logger *zap.Logger) *Connection {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Connection{store: store, timeout: timeout, logger: logger}
}

// NormalizeBaseURL trims whitespace, strips one trailing slash and prefixes
// https:// when no scheme was given.
func NormalizeBaseURL(raw string) string {
	url := strings.TrimSpace(raw)
	url = strings.TrimSuffix(url, "/")
	if url == "" {
		return ""
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	return url
}

// SetBaseURL records and persists the URL as typed, reachable or not. The
// stored value may be dirty; AutoConnect will still try it on next start.
func (c *Connection) SetBaseURL(raw string) error {
	c.baseURL = raw
	if c.store == nil {
		return nil
	}
	return c.store.Save(raw)
}

// Connect normalizes raw, probes the backend and, on success, flips the
// connected flag and persists the normalized URL.
func (c *Connection) Connect(ctx context.Context, raw string) error {
	if err := c.SetBaseURL(raw); err != nil {
		c.logger.Warn("no se pudo guardar la URL", zap.Error(err))
	}

	normalized := NormalizeBaseURL(raw)
	api := NewAPI(normalized, c.timeout)
	if err := api.Probe(ctx); err != nil {
		c.connected = false
		c.lastError = err.Error()
		return err
	}

	c.api = api
	c.baseURL = normalized
	c.connected = true
	c.lastError = ""
	if c.store != nil {
		if err := c.store.Save(normalized); err != nil {
			c.logger.Warn("no se pudo guardar la URL", zap.Error(err))
		}
	}
	c.logger.Info("conectado al backend", zap.String("base_url", normalized))
	return nil
}

// AutoConnect retries the last persisted URL. It reports false without error
// when nothing was stored yet.
func (c *Connection) AutoConnect(ctx context.Context) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	stored, err := c.store.Load()
	if err != nil {
		return false, err
	}
	if stored == "" {
		return false, nil
	}
	if err := c.Connect(ctx, stored); err != nil {
		return false, err
	}
	return true, nil
}

// Connected reports whether the last probe succeeded.
func (c *Connection) Connected() bool {
	return c.connected
}

// BaseURL returns the current base URL.
func (c *Connection) BaseURL() string {
	return c.baseURL
}

// LastError returns the last connectivity error message, empty when none.
func (c *Connection) LastError() string {
	return c.lastError
}

// API returns the client bound on the last successful Connect, nil before.
func (c *Connection) API() *API {
	return c.api
}
