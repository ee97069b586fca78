package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mergeflow/mergeflow/git"
	"github.com/mergeflow/mergeflow/logger"
)

// Exit codes. Scripts can tell "resolve conflicts and rerun" apart from a
// hard failure.
const (
	exitSuccess  = 0
	exitFailure  = 1
	exitConflict = 2
)

var (
	repoFlag  string
	debugFlag bool

	exitCode = exitSuccess
)

var rootCmd = &cobra.Command{
	Use:   "mergeflow",
	Short: "Merge the current branch into a target branch and push",
	Long: `mergeflow automates landing a working branch: check out the target,
pull it, merge with --no-ff, push, and switch back. Conflicts stop the
pipeline on the target branch for manual resolution.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetDebug(debugFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&repoFlag, "repo", "", "path to the repository (default: discovered from the working directory)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
}

// resolveRepoRoot returns the repository root for this invocation: the
// --repo flag when given, else discovered by walking up from the working
// directory.
func resolveRepoRoot() (string, error) {
	start := repoFlag
	if start == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		start = cwd
	}
	return git.FindRepoRoot(start)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if exitCode == exitSuccess {
			exitCode = exitFailure
		}
	}
	logger.Close()
	os.Exit(exitCode)
}
