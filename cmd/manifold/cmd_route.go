package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/manifold/internal/git"
	"github.com/fbkclanna/manifold/internal/ui"
	"github.com/fbkclanna/manifold/internal/workspace"
)

// routeToClones maps workspace-relative file paths onto the clones that own
// them and applies op per clone. Paths touching a clone that has not been
// created yet fail the run.
func routeToClones(ctx *workspace.Context, baseDir string, paths []string, op func(dir string, r workspace.Routed) error) error {
	active, err := ctx.Active("", "")
	if err != nil {
		return err
	}
	routed, err := ctx.Route(active, baseDir, paths)
	if err != nil {
		return err
	}
	for _, r := range routed {
		dir := ctx.CloneDir(r.Project)
		if !git.IsCloned(dir) {
			return &workspace.CloneMissingError{Path: r.Project.Path}
		}
		if err := op(dir, r); err != nil {
			return fmt.Errorf("project %s: %w", r.Project.Path, err)
		}
	}
	return nil
}

func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout [paths...]",
		Short: "Restore files, or land every clone back on its manifest revision",
		Long: `With paths, restore those files from HEAD in their owning clones.
Without paths, check out the manifest revision in every active clone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := workspace.Load(startDir(cmd))
			if err != nil {
				return err
			}
			if len(args) > 0 {
				return routeToClones(ctx, startDir(cmd), args, func(dir string, r workspace.Routed) error {
					return git.CheckoutPaths(dir, r.Paths)
				})
			}

			active, err := ctx.Active("", "")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range active.Projects {
				dir := ctx.CloneDir(p)
				if !git.IsCloned(dir) {
					ui.Warning(out, "skipping %s: not cloned yet (run 'manifold update')", p.Path)
					continue
				}
				if p.Revision == "" {
					continue
				}
				var cerr error
				if git.IsCommit(p.Revision) {
					cerr = git.CheckoutDetached(dir, p.Revision)
				} else {
					cerr = git.Checkout(dir, p.Revision)
				}
				if cerr != nil {
					return fmt.Errorf("project %s: %w", p.Path, cerr)
				}
				_, _ = fmt.Fprintf(out, "%s @ %s\n", p.Path, p.Revision)
			}
			return nil
		},
	}
}

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <paths...>",
		Short: "Stage files in their owning clones",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := workspace.Load(startDir(cmd))
			if err != nil {
				return err
			}
			return routeToClones(ctx, startDir(cmd), args, func(dir string, r workspace.Routed) error {
				return git.Add(dir, r.Paths...)
			})
		},
	}
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <paths...>",
		Short: "Unstage files in their owning clones",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := workspace.Load(startDir(cmd))
			if err != nil {
				return err
			}
			return routeToClones(ctx, startDir(cmd), args, func(dir string, r workspace.Routed) error {
				return git.Reset(dir, r.Paths)
			})
		},
	}
}

func newCommitCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "commit [paths...]",
		Short: "Commit across clones with a single message",
		Long: `With paths, commit exactly those files in their owning clones.
Without paths, commit the staged changes of every active clone that has any.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := workspace.Load(startDir(cmd))
			if err != nil {
				return err
			}
			if message == "" {
				if !isInteractive() {
					return fmt.Errorf("no commit message given (use -m)")
				}
				if message, err = promptCommitMessage(); err != nil {
					return err
				}
			}

			if len(args) > 0 {
				return routeToClones(ctx, startDir(cmd), args, func(dir string, r workspace.Routed) error {
					return git.Commit(dir, message, r.Paths...)
				})
			}

			active, err := ctx.Active("", "")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			committed := 0
			for _, p := range active.Projects {
				dir := ctx.CloneDir(p)
				if !git.IsCloned(dir) {
					continue
				}
				staged, err := git.HasStaged(dir)
				if err != nil {
					return fmt.Errorf("project %s: %w", p.Path, err)
				}
				if !staged {
					continue
				}
				if err := git.Commit(dir, message); err != nil {
					return fmt.Errorf("project %s: %w", p.Path, err)
				}
				_, _ = fmt.Fprintf(out, "Committed %s\n", p.Path)
				committed++
			}
			if committed == 0 {
				ui.Warning(out, "nothing staged, no commits created")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	return cmd
}
