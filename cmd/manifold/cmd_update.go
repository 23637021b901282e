package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/manifold/internal/ui"
	"github.com/fbkclanna/manifold/internal/workspace"
)

func newUpdateCmd() *cobra.Command {
	var (
		projects     []string
		manifestPath string
		groups       string
		skipMain     bool
		rebase       bool
		prune        bool
		force        bool
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Create missing clones and land every project on its manifest revision",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := workspace.Load(startDir(cmd))
			if err != nil {
				return err
			}
			opts := workspace.UpdateOptions{
				Projects: projects,
				Manifest: manifestPath,
				Groups:   groups,
				SkipMain: skipMain,
				Rebase:   rebase,
				Prune:    prune,
				Force:    force,
			}
			if prune && !force {
				if isInteractive() {
					opts.ConfirmPrune = func(path string) bool {
						return confirm(fmt.Sprintf("Remove obsolete clone %q?", path))
					}
				} else {
					opts.ConfirmPrune = func(path string) bool {
						ui.Warning(cmd.OutOrStdout(), "skipping obsolete clone %s (use --force to remove)", path)
						return false
					}
				}
			}
			return workspace.Update(ctx, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringArrayVarP(&projects, "project", "P", nil, "limit to the project at this path (repeatable)")
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "manifest file relative to the main project (default from workspace state)")
	cmd.Flags().StringVarP(&groups, "groups", "G", "", "group filter expression, e.g. +test,-doc")
	cmd.Flags().BoolVarP(&skipMain, "skip-main", "S", false, "do not update the main project")
	cmd.Flags().BoolVar(&rebase, "rebase", false, "rebase local work instead of merging")
	cmd.Flags().BoolVar(&prune, "prune", false, "remove clones no longer present in the manifest")
	cmd.Flags().BoolVar(&force, "force", false, "discard local changes when they block the update")
	return cmd
}
