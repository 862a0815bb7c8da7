package memory

import (
	"context"
	"sync"

	"github.com/eti-labs/arpgen/internal/core/domain"
	"github.com/eti-labs/arpgen/internal/core/ports/driven"
)

// Ensure IconCache implements the interface.
var _ driven.IconCache = (*IconCache)(nil)

// cacheKey is the (input_hash, renderer_version) composite key.
type cacheKey struct {
	inputHash       string
	rendererVersion string
}

// IconCache is an in-memory implementation of driven.IconCache.
type IconCache struct {
	mu        sync.RWMutex
	artifacts map[cacheKey]driven.IconArtifact
}

// NewIconCache creates a new in-memory icon cache.
func NewIconCache() *IconCache {
	return &IconCache{
		artifacts: make(map[cacheKey]driven.IconArtifact),
	}
}

// Put stores or replaces an artefact under its key.
func (c *IconCache) Put(_ context.Context, artifact driven.IconArtifact) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.artifacts[cacheKey{artifact.InputHash, artifact.RendererVersion}] = artifact
	return nil
}

// Get retrieves an artefact by its composite key.
func (c *IconCache) Get(_ context.Context, inputHash, rendererVersion string) (*driven.IconArtifact, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	artifact, ok := c.artifacts[cacheKey{inputHash, rendererVersion}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &artifact, nil
}
