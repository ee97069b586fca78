package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const repoConfigFileName = ".mergeflow.yaml"

// RepoConfig holds per-repository overrides, committed alongside the code
// so a team shares one merge setup. Every field is optional.
type RepoConfig struct {
	// DefaultBranch overrides the preference-store resolution of the
	// target branch.
	DefaultBranch string `yaml:"default_branch"`
	// Remote overrides remote-name resolution.
	Remote string `yaml:"remote"`
	// ConflictTokens are appended to the conflict predicate's word list,
	// e.g. for a localized git that reports "冲突" instead of "conflict".
	ConflictTokens []string `yaml:"conflict_tokens"`
}

// LoadRepoConfig reads and parses .mergeflow.yaml from the given repo path.
// Returns nil, nil if the file does not exist.
func LoadRepoConfig(repoPath string) (*RepoConfig, error) {
	fp := filepath.Join(repoPath, repoConfigFileName)

	data, err := os.ReadFile(fp)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", repoConfigFileName, err)
	}

	var cfg RepoConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", repoConfigFileName, err)
	}

	return &cfg, nil
}
