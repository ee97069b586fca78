package git

import (
	"strings"
)

// DefaultConflictTokens returns the built-in word list for the conflict
// predicate. Deployments extend it through configuration when their git
// emits localized output.
func DefaultConflictTokens() []string {
	return []string{
		"conflict",
		"merge conflict",
		"unmerged",
		"automatic merge failed",
	}
}

// IsConflictOutput reports whether failed merge output describes a content
// conflict rather than a hard error. Matching is a case-insensitive
// substring test against each token. Free-text matching is fragile across
// git versions and locales, which is why the word list is configurable and
// the porcelain status scan confirms the classification.
func IsConflictOutput(output string, tokens []string) bool {
	lowered := strings.ToLower(output)
	for _, token := range tokens {
		if token == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(token)) {
			return true
		}
	}
	return false
}

// StatusEntry is one parsed line of git status --porcelain output: the
// index state byte, the worktree state byte, and the path.
type StatusEntry struct {
	Index    byte
	Worktree byte
	Path     string
}

// IsUnmerged reports whether the entry marks an unresolved conflict. The
// porcelain codes for unmerged paths pair U, A, and D in both columns
// (UU, AA, DD, AU, UA, DU, UD).
func (e StatusEntry) IsUnmerged() bool {
	return isUnmergedByte(e.Index) && isUnmergedByte(e.Worktree)
}

func isUnmergedByte(c byte) bool {
	return c == 'U' || c == 'A' || c == 'D'
}

// parseStatusEntries parses short-form status output. Leading whitespace is
// significant in porcelain format (" M" differs from "M "), so lines are
// split without trimming their state columns.
func parseStatusEntries(output string) []StatusEntry {
	var entries []StatusEntry
	for _, line := range strings.Split(strings.TrimRight(output, "\n\r\t "), "\n") {
		if len(line) > 3 {
			entries = append(entries, StatusEntry{
				Index:    line[0],
				Worktree: line[1],
				Path:     strings.TrimSpace(line[3:]),
			})
		}
	}
	return entries
}

// unmergedPaths collects the paths of entries still carrying unmerged
// state codes.
func unmergedPaths(entries []StatusEntry) []string {
	var paths []string
	for _, entry := range entries {
		if entry.IsUnmerged() {
			paths = append(paths, entry.Path)
		}
	}
	return paths
}
