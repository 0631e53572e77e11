// internal/service/listening/chain.go

package listening

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
)

type namedProvider struct {
	name     string
	provider trend.LifecycleProvider
}

// ProviderChain asks each registered provider in turn and returns the first
// series found. Provider failures are logged and skipped, so the chain only
// ever reports data or trend.ErrNoData.
type ProviderChain struct {
	providers []namedProvider
	mu        sync.RWMutex
	logger    *slog.Logger
}

// NewProviderChain creates an empty chain
func NewProviderChain(logger *slog.Logger) *ProviderChain {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProviderChain{
		logger: logger.With("component", "provider_chain"),
	}
}

// AddProvider appends a provider to the end of the chain
func (c *ProviderChain) AddProvider(name string, provider trend.LifecycleProvider) error {
	if provider == nil {
		return fmt.Errorf("provider %s is nil", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.providers {
		if p.name == name {
			return fmt.Errorf("provider already registered: %s", name)
		}
	}
	c.providers = append(c.providers, namedProvider{name: name, provider: provider})
	return nil
}

// RemoveProvider removes a provider from the chain
func (c *ProviderChain) RemoveProvider(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, p := range c.providers {
		if p.name == name {
			c.providers = append(c.providers[:i], c.providers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("provider not found: %s", name)
}

// Names returns the registered provider names in lookup order
func (c *ProviderChain) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.name
	}
	return names
}

// Fetch returns the first series any provider has for the query
func (c *ProviderChain) Fetch(ctx context.Context, q trend.Query) (trend.LifecycleSeries, error) {
	c.mu.RLock()
	providers := make([]namedProvider, len(c.providers))
	copy(providers, c.providers)
	c.mu.RUnlock()

	for _, p := range providers {
		series, err := p.provider.Fetch(ctx, q)
		switch {
		case err == nil && series.Len() > 0:
			c.logger.InfoContext(ctx, "lifecycle data found",
				"provider", p.name,
				"keyword", q.Keyword,
				"platform", q.Platform,
				"days", series.Len(),
			)
			return series, nil
		case err != nil && !errors.Is(err, trend.ErrNoData):
			c.logger.WarnContext(ctx, "lifecycle provider failed",
				"provider", p.name,
				"keyword", q.Keyword,
				"platform", q.Platform,
				"error", err,
			)
		}
	}

	return trend.LifecycleSeries{}, trend.ErrNoData
}
