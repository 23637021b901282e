package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/manifold/internal/manifest"
	"github.com/fbkclanna/manifold/internal/workspace"
)

// fanoutFlags are shared by every command that runs something across clones.
type fanoutFlags struct {
	projects     []string
	manifestPath string
	groups       string
}

func (f *fanoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.projects, "project", "P", nil, "limit to the project at this path (repeatable)")
	cmd.Flags().StringVar(&f.manifestPath, "manifest", "", "manifest file relative to the main project (default from workspace state)")
	cmd.Flags().StringVarP(&f.groups, "groups", "G", "", "group filter expression, e.g. +test,-doc")
}

// loadActive loads the workspace and returns the active, possibly narrowed,
// project set.
func (f *fanoutFlags) loadActive(cmd *cobra.Command) (*workspace.Context, []manifest.Project, error) {
	ctx, err := workspace.Load(startDir(cmd))
	if err != nil {
		return nil, nil, err
	}
	active, err := ctx.Active(f.manifestPath, f.groups)
	if err != nil {
		return nil, nil, err
	}
	active, err = workspace.Narrow(active, f.projects)
	if err != nil {
		return nil, nil, err
	}
	return ctx, active.Projects, nil
}

func newForeachCmd() *cobra.Command {
	var flags fanoutFlags
	cmd := &cobra.Command{
		Use:   "foreach [flags] -- <command> [args...]",
		Short: "Run an arbitrary command in every active clone",
		Long: `Run an arbitrary command in every active clone, one after the other.
Each run is announced with a banner naming the clone. A failing command does
not stop the walk; failures are collected and reported at the end.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			argv := args
			if at := cmd.ArgsLenAtDash(); at >= 0 {
				argv = args[at:]
			}
			if len(argv) == 0 {
				return fmt.Errorf("no command given")
			}
			ctx, projects, err := flags.loadActive(cmd)
			if err != nil {
				return err
			}
			_, err = ctx.Fanout(projects, argv, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

func newGitCmd() *cobra.Command {
	var flags fanoutFlags
	cmd := &cobra.Command{
		Use:   "git [flags] -- <args...>",
		Short: "Run a git command in every active clone",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			argv := args
			if at := cmd.ArgsLenAtDash(); at >= 0 {
				argv = args[at:]
			}
			if len(argv) == 0 {
				return fmt.Errorf("no git arguments given")
			}
			ctx, projects, err := flags.loadActive(cmd)
			if err != nil {
				return err
			}
			_, err = ctx.Fanout(projects, append([]string{"git"}, argv...), cmd.OutOrStdout(), cmd.ErrOrStderr())
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

// newGitSubCmd builds a shorthand for a frequent git subcommand, so that
// "manifold fetch" means "manifold git -- fetch".
func newGitSubCmd(sub string) *cobra.Command {
	var flags fanoutFlags
	cmd := &cobra.Command{
		Use:   sub + " [flags] [-- <git args...>]",
		Short: "Run 'git " + sub + "' in every active clone",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, projects, err := flags.loadActive(cmd)
			if err != nil {
				return err
			}
			argv := append([]string{"git", sub}, args...)
			_, err = ctx.Fanout(projects, argv, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return err
		},
	}
	flags.register(cmd)
	return cmd
}
