package main

import (
	"github.com/fbkclanna/manifold/internal/git"
	"github.com/fbkclanna/manifold/internal/logging"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "manifold",
		Short:         "Manage a workspace of many git clones from one manifest",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("chdir", "C", ".", "Directory to locate the workspace from")
	cmd.PersistentFlags().Bool("verbose", false, "Trace git invocations")

	cmd.PersistentPreRun = func(c *cobra.Command, _ []string) {
		verbose, _ := c.Flags().GetBool("verbose")
		git.SetLogger(logging.New(verbose))
	}

	cmd.AddCommand(
		newInitCmd(),
		newDeinitCmd(),
		newCloneCmd(),
		newUpdateCmd(),
		newStatusCmd(),
		newCheckoutCmd(),
		newAddCmd(),
		newResetCmd(),
		newCommitCmd(),
		newForeachCmd(),
		newGitCmd(),
		newManifestCmd(),
	)
	for _, sub := range []string{"fetch", "pull", "push", "rebase", "diff"} {
		cmd.AddCommand(newGitSubCmd(sub))
	}

	return cmd
}

// startDir returns the directory workspace discovery starts from.
func startDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("chdir")
	return dir
}
