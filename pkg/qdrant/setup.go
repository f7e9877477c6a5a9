package qdrant

import (
	"context"
	"fmt"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"
)

// Logger defines the interface for logging operations within the Qdrant
// client. This interface allows for dependency injection of any
// compatible logger implementation.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// Client wraps the official Qdrant Go client.
//
// It manages connection lifecycle and configuration; the Store type
// built on top of it implements vectordb.Store.
type Client struct {
	api     *qdrant.Client
	cfg     *Config
	logger  Logger
	started bool
}

// NewQdrantClient constructs a new Client and validates connectivity
// via a health check. The Qdrant Go SDK creates lightweight gRPC
// connections, so the health check fails fast if the service is
// unreachable.
func NewQdrantClient(cfg *Config, logger Logger) (*Client, error) {
	logger.Info("connecting to qdrant", nil, map[string]interface{}{
		"endpoint": cfg.Endpoint,
		"port":     cfg.Port,
	})

	port := cfg.Port
	if port == 0 {
		port = 6334
	}

	api, err := qdrant.NewClient(&qdrant.Config{
		Host:                   cfg.Endpoint,
		Port:                   port,
		APIKey:                 cfg.ApiKey,
		UseTLS:                 cfg.UseTLS,
		SkipCompatibilityCheck: !cfg.CheckCompatibility,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize qdrant client: %w", err)
	}

	c := &Client{
		api:     api,
		cfg:     cfg,
		logger:  logger,
		started: true,
	}

	if err := c.healthCheck(); err != nil {
		return nil, fmt.Errorf("qdrant health check failed: %w", err)
	}

	logger.Info("qdrant client connected", nil, map[string]interface{}{
		"endpoint": cfg.Endpoint,
	})
	return c, nil
}

// healthCheck verifies the availability of the Qdrant service through
// the SDK. Lightweight and fast, used during startup and readiness
// probes.
func (c *Client) healthCheck() error {
	if c.api == nil {
		return fmt.Errorf("client not initialized")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	resp, err := c.api.HealthCheck(ctx)
	if err != nil {
		return err
	}

	c.logger.Debug("qdrant health check passed", nil, map[string]interface{}{
		"title":   resp.Title,
		"version": resp.Version,
	})
	return nil
}

// API returns the underlying Qdrant SDK client for low-level operations.
func (c *Client) API() *qdrant.Client {
	return c.api
}

// Close gracefully shuts down the Qdrant client.
func (c *Client) Close() error {
	if !c.started {
		return nil
	}
	c.started = false
	return c.api.Close()
}
