package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mergeflow/mergeflow/config"
	"github.com/mergeflow/mergeflow/git"
)

var branchesCmd = &cobra.Command{
	Use:   "branches",
	Short: "List local branches, marking the current branch and the default target",
	Args:  cobra.NoArgs,
	RunE:  runBranches,
}

func init() {
	rootCmd.AddCommand(branchesCmd)
}

func runBranches(cmd *cobra.Command, args []string) error {
	root, err := resolveRepoRoot()
	if err != nil {
		return err
	}

	rctx, err := git.LoadContext(root)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	effective := cfg.EffectiveDefaultBranch(root, rctx.LocalBranches)

	for _, branch := range rctx.LocalBranches {
		marker := "  "
		if branch == rctx.CurrentBranch {
			marker = "* "
		}
		suffix := ""
		if branch == effective {
			suffix = " (default)"
		}
		fmt.Printf("%s%s%s\n", marker, branch, suffix)
	}
	return nil
}
