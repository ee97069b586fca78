package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mergeflow/mergeflow/config"
	"github.com/mergeflow/mergeflow/git"
)

var defaultCmd = &cobra.Command{
	Use:   "default",
	Short: "Show the default target branch for this repository",
	Args:  cobra.NoArgs,
	RunE:  runDefaultShow,
}

var defaultSetCmd = &cobra.Command{
	Use:   "set <branch>",
	Short: "Pin the default target branch for this repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runDefaultSet,
}

var defaultClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the pinned default target branch",
	Args:  cobra.NoArgs,
	RunE:  runDefaultClear,
}

func init() {
	defaultCmd.AddCommand(defaultSetCmd)
	defaultCmd.AddCommand(defaultClearCmd)
	rootCmd.AddCommand(defaultCmd)
}

func runDefaultShow(cmd *cobra.Command, args []string) error {
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

	if pin := cfg.DefaultBranch(root); pin != "" {
		fmt.Printf("Pinned default: %s\n", pin)
	} else {
		fmt.Println("Pinned default: (none)")
	}
	if last := cfg.LastTarget(root); last != "" {
		fmt.Printf("Last target:    %s\n", last)
	} else {
		fmt.Println("Last target:    (none)")
	}
	if effective := cfg.EffectiveDefaultBranch(root, rctx.LocalBranches); effective != "" {
		fmt.Printf("Effective:      %s\n", effective)
	} else {
		fmt.Println("Effective:      (none; name a target explicitly)")
	}
	return nil
}

func runDefaultSet(cmd *cobra.Command, args []string) error {
	branch := args[0]
	if err := git.ValidateBranchName(branch); err != nil {
		return fmt.Errorf("invalid branch %q: %w", branch, err)
	}

	root, err := resolveRepoRoot()
	if err != nil {
		return err
	}

	rctx, err := git.LoadContext(root)
	if err != nil {
		return err
	}
	if !rctx.HasLocalBranch(branch) {
		return fmt.Errorf("branch %q does not exist in %s", branch, root)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.SetDefaultBranch(root, branch)
	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Printf("Default target branch set to %s.\n", branch)
	return nil
}

func runDefaultClear(cmd *cobra.Command, args []string) error {
	root, err := resolveRepoRoot()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pinned := cfg.DefaultBranch(root)
	if pinned == "" {
		fmt.Println("No default target branch is pinned.")
		return nil
	}

	cfg.ClearDefaultBranch(root)
	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Printf("Cleared default target branch (was %s).\n", pinned)
	return nil
}
