package main

import (
	"fmt"

	"github.com/fbkclanna/manifold/internal/workspace"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a workspace in the current git clone",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
	cmd.Flags().String("manifest", "", "Manifest path relative to the workspace root (default "+workspace.DefaultManifest+")")
	cmd.Flags().String("groups", "", "Group selection to persist as the workspace default")
	return cmd
}

func runInit(cmd *cobra.Command, _ []string) error {
	manifestPath, _ := cmd.Flags().GetString("manifest")
	groups, _ := cmd.Flags().GetString("groups")

	ctx, err := workspace.Init(startDir(cmd), manifestPath, groups)
	if err != nil {
		return err
	}

	active, err := ctx.Active("", "")
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Workspace initialized at %s (%d active projects)\n", ctx.Root, len(active.Projects))
	return nil
}

func newDeinitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deinit",
		Short: "Remove workspace state (clones stay on disk)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := workspace.Find(startDir(cmd))
			if err != nil {
				return err
			}
			if err := workspace.Deinit(root); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Workspace state removed from %s\n", root)
			return nil
		},
	}
}

func newCloneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clone <url> [dir]",
		Short: "Clone a main repository and initialize a workspace inside it",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runClone,
	}
	cmd.Flags().String("manifest", "", "Manifest path relative to the workspace root (default "+workspace.DefaultManifest+")")
	cmd.Flags().String("groups", "", "Group selection to persist as the workspace default")
	return cmd
}

func runClone(cmd *cobra.Command, args []string) error {
	manifestPath, _ := cmd.Flags().GetString("manifest")
	groups, _ := cmd.Flags().GetString("groups")

	dir := ""
	if len(args) == 2 {
		dir = args[1]
	}

	ctx, err := workspace.Clone(args[0], dir, manifestPath, groups)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Workspace cloned to %s\n", ctx.Root)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Run 'manifold update' to materialize the project clones.")
	return nil
}
