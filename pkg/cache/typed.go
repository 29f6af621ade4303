package cache

import (
	"context"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/observability"
)

// Key types reported to observability hooks.
const (
	KeyTypeLayout   = "layout"
	KeyTypeArtifact = "artifact"
)

// LoadLayout reads a layout. It returns ErrCacheMiss when the key is absent
// or the stored bytes no longer decode.
func LoadLayout(ctx context.Context, c Cache, key string) (graph.Layout, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return graph.Layout{}, err
	}
	if !ok {
		observability.Cache().OnCacheMiss(ctx, KeyTypeLayout)
		return graph.Layout{}, ErrCacheMiss
	}
	l, err := graph.UnmarshalLayout(data)
	if err != nil {
		_ = c.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, KeyTypeLayout)
		return graph.Layout{}, ErrCacheMiss
	}
	observability.Cache().OnCacheHit(ctx, KeyTypeLayout)
	return l, nil
}

// StoreLayout writes a layout with LayoutTTL.
func StoreLayout(ctx context.Context, c Cache, key string, l graph.Layout) error {
	data, err := graph.MarshalLayout(l)
	if err != nil {
		return err
	}
	if err := c.Set(ctx, key, data, LayoutTTL); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, KeyTypeLayout, len(data))
	return nil
}

// LoadArtifact reads rendered output, returning ErrCacheMiss when absent.
func LoadArtifact(ctx context.Context, c Cache, key string) ([]byte, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		observability.Cache().OnCacheMiss(ctx, KeyTypeArtifact)
		return nil, ErrCacheMiss
	}
	observability.Cache().OnCacheHit(ctx, KeyTypeArtifact)
	return data, nil
}

// StoreArtifact writes rendered output with ArtifactTTL.
func StoreArtifact(ctx context.Context, c Cache, key string, data []byte) error {
	if err := c.Set(ctx, key, data, ArtifactTTL); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, KeyTypeArtifact, len(data))
	return nil
}
