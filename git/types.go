package git

import (
	"github.com/google/uuid"
)

// Outcome classifies the terminal state of a merge run.
type Outcome int

const (
	// OutcomeSuccess means the merge completed and was pushed.
	OutcomeSuccess Outcome = iota
	// OutcomeConflict means the merge stopped with unresolved conflicts,
	// left in place on the target branch for manual resolution.
	OutcomeConflict
	// OutcomeFailed means a pipeline step failed for a reason other than
	// a content conflict.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeConflict:
		return "conflict"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Step identifies a pipeline step, used to tag failures in results and logs.
type Step int

const (
	StepCheckoutTarget Step = iota
	StepPull
	StepMerge
	StepPush
	StepRestoreSource
)

func (s Step) String() string {
	switch s {
	case StepCheckoutTarget:
		return "checkout target"
	case StepPull:
		return "pull"
	case StepMerge:
		return "merge"
	case StepPush:
		return "push"
	case StepRestoreSource:
		return "restore source"
	default:
		return "unknown"
	}
}

// MergeRequest describes one orchestration run. Immutable once constructed.
type MergeRequest struct {
	RunID        string
	RepoPath     string
	SourceBranch string
	TargetBranch string
	RemoteName   string
}

// NewMergeRequest builds a request with a fresh run ID and the remote name
// resolved from the repository's configured remotes.
func NewMergeRequest(repoPath, sourceBranch, targetBranch string, remotes []string) MergeRequest {
	return MergeRequest{
		RunID:        uuid.New().String(),
		RepoPath:     repoPath,
		SourceBranch: sourceBranch,
		TargetBranch: targetBranch,
		RemoteName:   ResolveRemoteName(remotes),
	}
}

// ResolveRemoteName selects the remote to pull from and push to: "origin"
// when configured, else the first remote, else the literal "origin".
func ResolveRemoteName(remotes []string) string {
	for _, remote := range remotes {
		if remote == "origin" {
			return "origin"
		}
	}
	if len(remotes) > 0 {
		return remotes[0]
	}
	return "origin"
}

// MergeResult is the terminal value of one orchestration run. Exactly one
// is produced per run.
type MergeResult struct {
	Outcome Outcome
	// Step and Err are set when Outcome is OutcomeFailed, tagging which
	// pipeline step failed and why.
	Step Step
	Err  error
	// ConflictedFiles lists paths with unresolved conflicts when Outcome
	// is OutcomeConflict and the status scan could identify them.
	ConflictedFiles []string
}

// Update is one streamed progress message from a merge run. Result is
// non-nil exactly once, on the terminal update, after which the channel
// closes.
type Update struct {
	Output string
	Result *MergeResult
}
