// Package cache stores rendered tree artifacts keyed by input content and
// render options.
//
// Rendering a large GEDCOM file to SVG or PNG is the only expensive step
// in the pipeline, so the HTTP server (and optionally the CLI) caches
// rendered artifacts. Keys are derived from a SHA-256 hash of the source
// document plus the full set of render options, so any change to either
// produces a fresh entry.
//
// Three backends are provided:
//   - FileCache: directory-based, for CLI usage
//   - RedisCache: shared cache for multi-instance server deployments
//   - NullCache: disables caching
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable is returned when a cache backend cannot be reached.
var ErrUnavailable = errors.New("cache unavailable")

// Cache is the interface implemented by all cache backends.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// RenderKeyOpts identifies one rendering of a document. Every field takes
// part in the cache key.
type RenderKeyOpts struct {
	Person                   string `json:"person"`
	Format                   string `json:"format"`
	Siblings                 bool   `json:"siblings"`
	AncestorSiblings         bool   `json:"ancestor_siblings"`
	MaxAncestorGenerations   int    `json:"max_ancestor_generations"`
	MaxDescendantGenerations int    `json:"max_descendant_generations"`
	DynamicLimits            bool   `json:"dynamic_limits"`
}

// RenderKey builds the cache key for a rendered artifact from the content
// hash of the source document and the render options.
func RenderKey(contentHash string, opts RenderKeyOpts) string {
	return hashKey("render", contentHash, opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
