// Package flags provides feature flag support for controlled feature rollout.
// Flags are read-only after initialization and provide safe defaults for unknown flags.
package flags

import (
	"maps"

	"github.com/zjrosen/impexls/internal/log"
)

// Flag name constants for type-safe flag access.
const (
	// FlagCommentFilter controls whether comment lines are left out of the index.
	// Disabling it indexes "# a;b" like any other line with a delimiter.
	FlagCommentFilter = "comment-filter"

	// FlagConfigWatch controls whether the server may reload its config file
	// when it changes on disk.
	FlagConfigWatch = "config-watch"
)

// Defaults returns the flags that are on unless configured otherwise.
func Defaults() map[string]bool {
	return map[string]bool{
		FlagCommentFilter: true,
		FlagConfigWatch:   true,
	}
}

// Registry holds feature flag state loaded from configuration.
// Flags are read-only after initialization.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from a config map.
// If flags is nil, an empty registry is created (all flags disabled).
func New(flags map[string]bool) *Registry {
	r := &Registry{flags: make(map[string]bool, len(flags))}
	maps.Copy(r.flags, flags)
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(r.flags), "flags", r.All())
	return r
}

// NewWithDefaults creates a Registry from Defaults overlaid with flags.
func NewWithDefaults(flags map[string]bool) *Registry {
	merged := Defaults()
	maps.Copy(merged, flags)
	return New(merged)
}

// Enabled returns true if the named flag is enabled.
// Returns false for unknown flags (safe default).
// Returns false when called on nil registry (nil-safe).
func (r *Registry) Enabled(name string) bool {
	if r == nil || r.flags == nil {
		return false
	}
	value, exists := r.flags[name]
	if !exists {
		log.Debug(log.CatConfig, "Unknown flag accessed", "flag", name, "result", false)
		return false
	}
	return value
}

// All returns a copy of all flags (for debugging/logging).
// Returns an empty map if the registry is nil.
func (r *Registry) All() map[string]bool {
	if r == nil || r.flags == nil {
		return make(map[string]bool)
	}
	result := make(map[string]bool, len(r.flags))
	maps.Copy(result, r.flags)
	return result
}
