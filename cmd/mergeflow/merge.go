package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mergeflow/mergeflow/cli"
	"github.com/mergeflow/mergeflow/config"
	"github.com/mergeflow/mergeflow/git"
	"github.com/mergeflow/mergeflow/logger"
	"github.com/mergeflow/mergeflow/notify"
)

var (
	remoteFlag  string
	notifyFlag  bool
	noColorFlag bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge [target]",
	Short: "Merge the current branch into the target branch and push",
	Long: `Merge the current branch into the target branch: check out the target,
pull it, merge with --no-ff, push, and switch back to the current branch.

Without an argument the target is resolved from .mergeflow.yaml, the pinned
default, the last merged target, or the first of main/master/develop that
exists locally.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVar(&remoteFlag, "remote", "", "remote to pull from and push to (default: resolved from the repository)")
	mergeCmd.Flags().BoolVar(&notifyFlag, "notify", false, "send a desktop notification with the result")
	mergeCmd.Flags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	if err := cli.ValidateRequired(cli.DefaultPrerequisites()); err != nil {
		return err
	}

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

	repoCfg, err := config.LoadRepoConfig(root)
	if err != nil {
		return err
	}

	var arg string
	if len(args) == 1 {
		arg = args[0]
	}
	target := resolveTarget(arg, repoCfg, cfg, root, rctx.LocalBranches)
	if target == "" {
		return fmt.Errorf("no target branch could be resolved; run: mergeflow merge <target>")
	}

	if err := git.ValidateBranchName(target); err != nil {
		return fmt.Errorf("invalid target branch %q: %w", target, err)
	}
	if !rctx.HasLocalBranch(target) {
		return fmt.Errorf("branch %q does not exist in %s", target, root)
	}
	if target == rctx.CurrentBranch {
		return fmt.Errorf("already on %q; check out the branch you want merged first", target)
	}

	svc := git.NewService()
	svc.AddConflictTokens(cfg.ConflictTokens()...)
	if repoCfg != nil {
		svc.AddConflictTokens(repoCfg.ConflictTokens...)
	}

	ctx := cmd.Context()
	inProgress, err := svc.IsMergeInProgress(ctx, root)
	if err != nil {
		return err
	}
	if inProgress {
		return fmt.Errorf("a merge is already in progress in %s; resolve or abort it first", root)
	}

	req := git.NewMergeRequest(root, rctx.CurrentBranch, target, rctx.Remotes)
	req.RemoteName = resolveRemote(req.RemoteName, repoCfg, remoteFlag)

	var result git.MergeResult
	for update := range svc.MergeToTarget(ctx, req) {
		if update.Output != "" {
			fmt.Print(update.Output)
		}
		if update.Result != nil {
			result = *update.Result
		}
	}

	n := notify.ForResult(req, result)
	fmt.Println()
	fmt.Println(notify.NewRenderer(noColorFlag).Render(n))

	if notifyFlag || cfg.NotificationsEnabled() {
		if err := notify.Desktop(n); err != nil {
			logger.Get().Warn("desktop notification failed", "error", err)
		}
	}

	// Remember the chosen target unless a manual pin exists for the repo.
	if !cfg.HasDefaultBranch(root) {
		cfg.SetLastTarget(root, target)
		if err := cfg.Save(); err != nil {
			logger.Get().Warn("could not save config", "error", err)
		}
	}

	switch result.Outcome {
	case git.OutcomeConflict:
		exitCode = exitConflict
	case git.OutcomeFailed:
		exitCode = exitFailure
	}
	return nil
}

// resolveTarget applies the target resolution order: explicit argument,
// repo-level override, then the preference store (pin, last target, smart
// defaults). Empty means nothing resolved.
func resolveTarget(arg string, repoCfg *config.RepoConfig, cfg *config.Config, root string, branches []string) string {
	if arg != "" {
		return arg
	}
	if repoCfg != nil && repoCfg.DefaultBranch != "" {
		return repoCfg.DefaultBranch
	}
	return cfg.EffectiveDefaultBranch(root, branches)
}

// resolveRemote applies the remote override order: flag, repo-level
// override, then the name resolved from the repository's remotes.
func resolveRemote(detected string, repoCfg *config.RepoConfig, flag string) string {
	if flag != "" {
		return flag
	}
	if repoCfg != nil && repoCfg.Remote != "" {
		return repoCfg.Remote
	}
	return detected
}
