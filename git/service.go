package git

import (
	"context"

	mexec "github.com/mergeflow/mergeflow/exec"
)

// Service provides merge orchestration with explicit dependency injection.
// Instead of a package-level runner variable, each Service instance holds
// its own command runner and conflict token list, enabling proper testing
// and avoiding global state.
type Service struct {
	runner         mexec.CommandRunner
	conflictTokens []string
}

// NewService creates a Service with the real command runner and the
// default conflict tokens.
func NewService() *Service {
	return NewServiceWithRunner(mexec.NewRealRunner())
}

// NewServiceWithRunner creates a Service with a custom command runner.
// This is primarily used for testing where a mock runner is needed.
func NewServiceWithRunner(runner mexec.CommandRunner) *Service {
	return &Service{
		runner:         runner,
		conflictTokens: DefaultConflictTokens(),
	}
}

// AddConflictTokens appends extra tokens to the conflict predicate's word
// list, e.g. localized git output configured per deployment. The defaults
// always remain in effect.
func (s *Service) AddConflictTokens(tokens ...string) {
	for _, token := range tokens {
		if token == "" {
			continue
		}
		s.conflictTokens = append(s.conflictTokens, token)
	}
}

// ConflictTokens returns the effective token list used by the conflict
// predicate.
func (s *Service) ConflictTokens() []string {
	tokens := make([]string, len(s.conflictTokens))
	copy(tokens, s.conflictTokens)
	return tokens
}

// IsMergeInProgress reports whether the repository has an ongoing merge,
// detected by the presence of MERGE_HEAD. Used as a pre-run guard so a new
// pipeline never starts over an unresolved merge.
func (s *Service) IsMergeInProgress(ctx context.Context, repoPath string) (bool, error) {
	outcome, err := s.runner.Execute(ctx, repoPath, "git", "rev-parse", "--verify", "MERGE_HEAD")
	if err != nil {
		return false, err
	}
	return outcome.Succeeded, nil
}
