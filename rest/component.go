package rest

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/reststack/component"
	"github.com/kbukum/reststack/errors"
)

// Component manages a Client's lifecycle inside a component.Registry.
type Component struct {
	name string
	cfg  Config
	opts []Option

	mu     sync.RWMutex
	client *Client
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a component that builds its client from cfg on Start.
func NewComponent(name string, cfg Config, opts ...Option) *Component {
	return &Component{name: name, cfg: cfg, opts: opts}
}

// Name returns the registration name.
func (c *Component) Name() string { return c.name }

// Start builds the client. Starting a running component is a no-op.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil && !c.client.Closed() {
		return nil
	}
	client, err := NewFromConfig(c.cfg, c.opts...)
	if err != nil {
		return err
	}
	c.client = client
	return nil
}

// Stop closes the client. It is safe to call more than once.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()

	if client == nil {
		return nil
	}
	return client.Close()
}

// Health reports whether the client is open. It never issues a call.
func (c *Component) Health(ctx context.Context) component.Health {
	c.mu.RLock()
	defer c.mu.RUnlock()

	h := component.Health{Name: c.name, Status: component.StatusHealthy}
	switch {
	case c.client == nil:
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	case c.client.Closed():
		h.Status = component.StatusUnhealthy
		h.Message = "closed"
	}
	return h
}

// Describe summarizes the configured endpoint.
func (c *Component) Describe() component.Description {
	cfg := c.cfg
	cfg.ApplyDefaults()
	return component.Description{
		Name:    c.name,
		Type:    "rest-client",
		Details: fmt.Sprintf("%s timeout=%s", cfg.Endpoint, cfg.Timeout),
	}
}

// Client returns the running client.
func (c *Component) Client() (*Client, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.client == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, fmt.Sprintf("component %s is not started", c.name))
	}
	return c.client, nil
}
