// Package cache provides caching backends for expensive engine results:
// frozen layout positions, completed run snapshots, and rendered export
// artifacts. The CLI uses the file backend, the HTTP API prefers Redis
// and falls back to memory, and the null backend disables caching
// entirely.
package cache

import (
	"context"
	"time"
)

// TTLs for each cacheable stage. Layouts and runs are pure functions of
// their inputs, so long TTLs are safe; the expiry mainly bounds disk and
// Redis growth.
const (
	// TTLLayout is the expiry for frozen layout results.
	TTLLayout = 7 * 24 * time.Hour

	// TTLRun is the expiry for completed run snapshots.
	TTLRun = 24 * time.Hour

	// TTLArtifact is the expiry for rendered export artifacts.
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry TTL.
// Implementations must treat a missing key as (nil, false, nil), not an
// error.
type Cache interface {
	// Get retrieves a value, reporting whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl stores without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys for the engine's cacheable stages. Keys embed
// content hashes of the inputs, so identical requests collide on purpose
// and anything else cannot.
type Keyer interface {
	// LayoutKey identifies a frozen layout computed for a graph hash
	// under specific layout options.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// RunKey identifies a completed run snapshot for the full input
	// triple.
	RunKey(graphHash, themeHash, seqHash string) string

	// ArtifactKey identifies a rendered export of a snapshot hash.
	ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the layout parameters that change the result for the
// same graph.
type LayoutKeyOpts struct {
	Width  float64
	Height float64
	Seed   uint64
	Ticks  int
}

// ArtifactKeyOpts are the render parameters that change an export for
// the same snapshot.
type ArtifactKeyOpts struct {
	Format string
	Engine string
}

// DefaultKeyer generates unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for frozen layout caching.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// RunKey generates a key for run snapshot caching.
func (k *DefaultKeyer) RunKey(graphHash, themeHash, seqHash string) string {
	return hashKey("run", graphHash, themeHash, seqHash)
}

// ArtifactKey generates a key for export artifact caching.
func (k *DefaultKeyer) ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", snapshotHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
