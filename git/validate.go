package git

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxBranchNameLength is the maximum length for user-provided branch names.
const MaxBranchNameLength = 100

// validBranchNameRegex matches valid git branch name characters.
// Git branch names cannot contain: space, ~, ^, :, ?, *, [, \, or control
// characters. They also cannot start with - or end with .lock.
var validBranchNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9/_.-]*$`)

// ValidateBranchName checks if a branch name is valid for git.
// Empty is allowed; callers resolve a default before use.
func ValidateBranchName(branch string) error {
	if branch == "" {
		return nil
	}

	if len(branch) > MaxBranchNameLength {
		return fmt.Errorf("branch name too long (max %d characters)", MaxBranchNameLength)
	}

	if strings.HasPrefix(branch, "-") {
		return fmt.Errorf("branch name cannot start with '-'")
	}

	if strings.HasSuffix(branch, ".lock") {
		return fmt.Errorf("branch name cannot end with '.lock'")
	}

	if strings.Contains(branch, "..") {
		return fmt.Errorf("branch name cannot contain '..'")
	}

	if !validBranchNameRegex.MatchString(branch) {
		return fmt.Errorf("branch name contains invalid characters (use letters, numbers, /, _, ., -)")
	}

	return nil
}
