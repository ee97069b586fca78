// Package notify maps merge results to user-facing notifications and
// renders them to the terminal or as desktop alerts.
package notify

import (
	"fmt"
	"strings"

	"github.com/mergeflow/mergeflow/git"
)

// Severity classifies a notification for rendering.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Notification is a user-facing summary of one merge run.
type Notification struct {
	Title    string
	Body     string
	Severity Severity
}

// ForResult maps the terminal result of a merge run to its notification.
// Pure function; exactly one notification per run.
func ForResult(req git.MergeRequest, res git.MergeResult) Notification {
	switch res.Outcome {
	case git.OutcomeSuccess:
		return Notification{
			Title: "Merge successful",
			Body: fmt.Sprintf("Merged %s into %s and pushed to %s.",
				req.SourceBranch, req.TargetBranch, req.RemoteName),
			Severity: SeverityInfo,
		}
	case git.OutcomeConflict:
		body := fmt.Sprintf("Merging %s into %s hit conflicts. The repository is on %s for manual resolution.",
			req.SourceBranch, req.TargetBranch, req.TargetBranch)
		if len(res.ConflictedFiles) > 0 {
			body += "\n\nConflicted files:\n  " + strings.Join(res.ConflictedFiles, "\n  ")
		}
		return Notification{
			Title:    "Merge conflict",
			Body:     body,
			Severity: SeverityWarning,
		}
	default:
		body := fmt.Sprintf("Merging %s into %s failed at %s.",
			req.SourceBranch, req.TargetBranch, res.Step)
		if res.Err != nil {
			body += " " + res.Err.Error()
		}
		return Notification{
			Title:    "Merge failed",
			Body:     body,
			Severity: SeverityError,
		}
	}
}
