package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	mexec "github.com/mergeflow/mergeflow/exec"
	"github.com/mergeflow/mergeflow/logger"
)

// MergeToTarget runs the merge pipeline for req on its own goroutine:
// check out the target branch, pull it, merge the source branch with
// --no-ff, confirm no unmerged paths remain, push, and restore the source
// branch. Progress is streamed as Updates; the terminal Update carries the
// MergeResult, after which the channel closes. The caller must drain the
// channel.
func (s *Service) MergeToTarget(ctx context.Context, req MergeRequest) <-chan Update {
	ch := make(chan Update)

	go func() {
		defer close(ch)

		log := logger.WithRun(req.RunID)
		log.Info("starting merge",
			"source", req.SourceBranch,
			"target", req.TargetBranch,
			"remote", req.RemoteName,
			"repoPath", req.RepoPath)

		result := s.runPipeline(ctx, ch, req, log)

		switch result.Outcome {
		case OutcomeSuccess:
			log.Info("merge succeeded", "source", req.SourceBranch, "target", req.TargetBranch)
		case OutcomeConflict:
			log.Warn("merge stopped on conflicts", "files", len(result.ConflictedFiles))
		case OutcomeFailed:
			log.Error("merge failed", "step", result.Step.String(), "error", result.Err)
		}

		ch <- Update{Result: &result}
	}()

	return ch
}

// Run executes the pipeline synchronously, draining progress output, and
// returns the terminal result.
func (s *Service) Run(ctx context.Context, req MergeRequest) MergeResult {
	var result MergeResult
	for update := range s.MergeToTarget(ctx, req) {
		if update.Result != nil {
			result = *update.Result
		}
	}
	return result
}

// runPipeline executes the pipeline steps in strict sequence and classifies
// the terminal outcome. All expected failure and conflict paths are values
// in the returned MergeResult; a panic escaping any step is recovered here
// and wrapped into a failed result, so callers always receive exactly one
// terminal value. Once a conflict has been flagged it wins over any
// secondary fault, including a recovered panic.
func (s *Service) runPipeline(ctx context.Context, ch chan<- Update, req MergeRequest, log *slog.Logger) (result MergeResult) {
	step := StepCheckoutTarget
	conflictDetected := false
	var conflictedFiles []string

	defer func() {
		if r := recover(); r != nil {
			log.Error("merge pipeline panicked", "step", step.String(), "panic", r)
			if conflictDetected {
				result = MergeResult{Outcome: OutcomeConflict, ConflictedFiles: conflictedFiles}
				return
			}
			result = MergeResult{
				Outcome: OutcomeFailed,
				Step:    step,
				Err:     fmt.Errorf("internal error during %s: %v", step, r),
			}
		}
	}()

	// Check out the target branch. Nothing has changed yet, so a failure
	// here needs no rollback.
	ch <- Update{Output: fmt.Sprintf("Checking out %s...\n", req.TargetBranch)}
	outcome, err := s.runner.Execute(ctx, req.RepoPath, "git", "checkout", req.TargetBranch)
	stream(ch, outcome)
	if cmdErr := commandError(outcome, err); cmdErr != nil {
		return MergeResult{
			Outcome: OutcomeFailed,
			Step:    step,
			Err:     fmt.Errorf("checkout %s failed: %w", req.TargetBranch, cmdErr),
		}
	}

	// Pull the target so the merge happens against a current base. Merging
	// into a stale local target risks a misleading result.
	step = StepPull
	ch <- Update{Output: fmt.Sprintf("Pulling %s from %s...\n", req.TargetBranch, req.RemoteName)}
	outcome, err = s.runner.Execute(ctx, req.RepoPath, "git", "pull", req.RemoteName, req.TargetBranch)
	stream(ch, outcome)
	if cmdErr := commandError(outcome, err); cmdErr != nil {
		return MergeResult{
			Outcome: OutcomeFailed,
			Step:    step,
			Err:     fmt.Errorf("pull %s %s failed: %w", req.RemoteName, req.TargetBranch, cmdErr),
		}
	}

	// Merge the source branch. --no-ff always records a merge commit so
	// branch history is preserved.
	step = StepMerge
	ch <- Update{Output: fmt.Sprintf("Merging %s into %s...\n", req.SourceBranch, req.TargetBranch)}
	outcome, err = s.runner.Execute(ctx, req.RepoPath, "git", "merge", "--no-ff", req.SourceBranch)
	stream(ch, outcome)
	if err != nil {
		return MergeResult{
			Outcome: OutcomeFailed,
			Step:    step,
			Err:     fmt.Errorf("merge %s failed: %w", req.SourceBranch, err),
		}
	}
	if !outcome.Succeeded {
		if !IsConflictOutput(outcome.Combined(), s.conflictTokens) {
			return MergeResult{
				Outcome: OutcomeFailed,
				Step:    step,
				Err:     fmt.Errorf("merge %s failed: %s", req.SourceBranch, trimmedOutput(outcome)),
			}
		}
		conflictDetected = true
		log.Warn("merge output matched conflict predicate", "source", req.SourceBranch)
	}

	// Confirm with a status scan whether the merge reported success or a
	// conflict: some tooling exits zero with unmerged paths still in the
	// tree, and those must never be pushed or reported clean. A scan fault
	// leaves the classification as already computed.
	files, scanErr := s.scanUnmerged(ctx, req.RepoPath)
	if scanErr != nil {
		log.Warn("status scan failed after merge", "error", scanErr)
	} else if len(files) > 0 {
		conflictDetected = true
		conflictedFiles = files
	}

	if conflictDetected {
		// One plain status so any repository-state cache notices the
		// in-progress merge. The working tree stays on the target branch
		// with the conflicted merge in place for manual resolution.
		if _, refreshErr := s.runner.Execute(ctx, req.RepoPath, "git", "status"); refreshErr != nil {
			log.Warn("status refresh failed", "error", refreshErr)
		}
		ch <- Update{Output: fmt.Sprintf("Merge conflicts detected; resolve them on %s.\n", req.TargetBranch)}
		return MergeResult{Outcome: OutcomeConflict, ConflictedFiles: conflictedFiles}
	}

	// Push the merged target. On failure the repository stays on the
	// target branch: the merge completed locally, so a push-only retry
	// must remain possible.
	step = StepPush
	ch <- Update{Output: fmt.Sprintf("Pushing %s to %s...\n", req.TargetBranch, req.RemoteName)}
	outcome, err = s.runner.Execute(ctx, req.RepoPath, "git", "push", req.RemoteName, req.TargetBranch)
	stream(ch, outcome)
	if cmdErr := commandError(outcome, err); cmdErr != nil {
		return MergeResult{
			Outcome: OutcomeFailed,
			Step:    step,
			Err:     fmt.Errorf("push %s %s failed: %w", req.RemoteName, req.TargetBranch, cmdErr),
		}
	}

	// Restore the branch that was checked out before the run. The merge
	// and push already landed, so failure here is a warning, not a
	// different outcome.
	step = StepRestoreSource
	ch <- Update{Output: fmt.Sprintf("Switching back to %s...\n", req.SourceBranch)}
	outcome, err = s.runner.Execute(ctx, req.RepoPath, "git", "checkout", req.SourceBranch)
	stream(ch, outcome)
	if cmdErr := commandError(outcome, err); cmdErr != nil {
		log.Warn("could not restore source branch", "branch", req.SourceBranch, "error", cmdErr)
		ch <- Update{Output: fmt.Sprintf("Warning: could not switch back to %s.\n", req.SourceBranch)}
	}

	return MergeResult{Outcome: OutcomeSuccess}
}

// scanUnmerged runs a porcelain status query and returns the paths of
// entries still carrying unmerged state codes.
func (s *Service) scanUnmerged(ctx context.Context, repoPath string) ([]string, error) {
	outcome, err := s.runner.Execute(ctx, repoPath, "git", "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	if !outcome.Succeeded {
		return nil, fmt.Errorf("status --porcelain failed: %s", trimmedOutput(outcome))
	}
	return unmergedPaths(parseStatusEntries(outcome.Stdout)), nil
}

// commandError folds a completed invocation into a single error: the
// runner fault when one occurred, the command output for a non-zero exit,
// nil on success.
func commandError(outcome mexec.Outcome, err error) error {
	if err != nil {
		return err
	}
	if !outcome.Succeeded {
		return errors.New(trimmedOutput(outcome))
	}
	return nil
}

func trimmedOutput(outcome mexec.Outcome) string {
	out := strings.TrimSpace(outcome.Combined())
	if out == "" {
		return "no output"
	}
	return out
}

func stream(ch chan<- Update, outcome mexec.Outcome) {
	if out := outcome.Combined(); out != "" {
		ch <- Update{Output: out}
	}
}
