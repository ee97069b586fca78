// Package config persists mergeflow's preferences: per-repository target
// branch pins, remembered targets, extra conflict tokens, and the desktop
// notification toggle. Preferences live in a single JSON file resolved by
// the paths package; per-repository overrides live in a .mergeflow.yaml at
// the repository root (see repoconfig.go).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mergeflow/mergeflow/paths"
)

// SmartDefaultBranches are tried in order when a repository has neither a
// pinned nor a remembered target branch.
var SmartDefaultBranches = []string{"main", "master", "develop"}

// Config holds the persisted preferences. Maps are keyed by repository root
// path; lookups are filesystem-aware so symlinked or case-folded paths
// resolve to the same entry. Entries are deleted on clear so the JSON file
// stays minimal.
type Config struct {
	DefaultBranches     map[string]string `json:"default_branches,omitempty"` // per-repo manual target pins
	LastTargets         map[string]string `json:"last_targets,omitempty"`     // per-repo auto-remembered targets
	ExtraConflictTokens []string          `json:"conflict_tokens,omitempty"`  // appended to the predicate defaults
	Notifications       bool              `json:"notifications_enabled,omitempty"`

	mu       sync.RWMutex
	filePath string
}

// Load reads the config from disk, or creates a new one if it doesn't exist.
func Load() (*Config, error) {
	path, err := paths.ConfigFilePath()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DefaultBranches: make(map[string]string),
		LastTargets:     make(map[string]string),
		filePath:        path,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// Maps must be initialized (not nil) after unmarshaling, and before
	// Validate() since Validate() only reads.
	cfg.ensureInitialized()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ensureInitialized ensures all maps are initialized (not nil).
//
// Thread-safety: NOT thread-safe; only call during single-threaded
// initialization, before the Config is shared across goroutines.
func (c *Config) ensureInitialized() {
	if c.DefaultBranches == nil {
		c.DefaultBranches = make(map[string]string)
	}
	if c.LastTargets == nil {
		c.LastTargets = make(map[string]string)
	}
}

// Validate checks that the config is internally consistent.
// This is a read-only operation - call ensureInitialized() first if needed.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for repo := range c.DefaultBranches {
		if repo == "" {
			return fmt.Errorf("default branch pin with empty repo path found")
		}
	}
	for repo := range c.LastTargets {
		if repo == "" {
			return fmt.Errorf("remembered target with empty repo path found")
		}
	}

	return nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(c.filePath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(c.filePath, data, 0644)
}

// SetFilePath sets the config file path (for testing).
func (c *Config) SetFilePath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filePath = path
}

// DefaultBranch returns the manually pinned target branch for a repo, or
// empty string if none is pinned.
func (c *Config) DefaultBranch(repoPath string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.DefaultBranches == nil {
		return ""
	}
	return c.DefaultBranches[resolveKey(c.DefaultBranches, repoPath)]
}

// SetDefaultBranch pins the target branch for a repo. An empty branch
// clears the pin.
func (c *Config) SetDefaultBranch(repoPath, branch string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.DefaultBranches == nil {
		c.DefaultBranches = make(map[string]string)
	}
	resolved := resolveKey(c.DefaultBranches, repoPath)
	if branch == "" {
		delete(c.DefaultBranches, resolved)
	} else {
		c.DefaultBranches[resolved] = branch
	}
}

// ClearDefaultBranch removes the manual pin for a repo.
func (c *Config) ClearDefaultBranch(repoPath string) {
	c.SetDefaultBranch(repoPath, "")
}

// HasDefaultBranch returns true if the repo has a manually pinned target.
func (c *Config) HasDefaultBranch(repoPath string) bool {
	return c.DefaultBranch(repoPath) != ""
}

// LastTarget returns the auto-remembered target branch for a repo, or empty
// string if none has been recorded.
func (c *Config) LastTarget(repoPath string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.LastTargets == nil {
		return ""
	}
	return c.LastTargets[resolveKey(c.LastTargets, repoPath)]
}

// SetLastTarget records the target branch chosen for a repo's last merge.
// An empty branch clears the entry. Callers record this only when no manual
// pin exists, so an explicit pin always wins over history.
func (c *Config) SetLastTarget(repoPath, branch string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.LastTargets == nil {
		c.LastTargets = make(map[string]string)
	}
	resolved := resolveKey(c.LastTargets, repoPath)
	if branch == "" {
		delete(c.LastTargets, resolved)
	} else {
		c.LastTargets[resolved] = branch
	}
}

// EffectiveDefaultBranch resolves the default target branch for a repo:
// the manual pin when it names an available branch, else the remembered
// target when available, else the first smart candidate present, else
// empty. Pins pointing at deleted branches are skipped rather than
// reported.
func (c *Config) EffectiveDefaultBranch(repoPath string, available []string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.DefaultBranches != nil {
		if pin := c.DefaultBranches[resolveKey(c.DefaultBranches, repoPath)]; pin != "" && containsBranch(available, pin) {
			return pin
		}
	}
	if c.LastTargets != nil {
		if last := c.LastTargets[resolveKey(c.LastTargets, repoPath)]; last != "" && containsBranch(available, last) {
			return last
		}
	}
	for _, candidate := range SmartDefaultBranches {
		if containsBranch(available, candidate) {
			return candidate
		}
	}
	return ""
}

func containsBranch(branches []string, name string) bool {
	for _, branch := range branches {
		if branch == name {
			return true
		}
	}
	return false
}

// ConflictTokens returns a copy of the extra conflict predicate tokens.
func (c *Config) ConflictTokens() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tokens := make([]string, len(c.ExtraConflictTokens))
	copy(tokens, c.ExtraConflictTokens)
	return tokens
}

// SetConflictTokens replaces the extra conflict predicate tokens. These are
// appended to the built-in defaults, never substituted for them.
func (c *Config) SetConflictTokens(tokens []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ExtraConflictTokens = make([]string, len(tokens))
	copy(c.ExtraConflictTokens, tokens)
}

// NotificationsEnabled returns whether desktop notifications are enabled.
func (c *Config) NotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Notifications
}

// SetNotificationsEnabled sets whether desktop notifications are enabled.
func (c *Config) SetNotificationsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Notifications = enabled
}
