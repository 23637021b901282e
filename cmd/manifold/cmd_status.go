package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/manifold/internal/git"
	"github.com/fbkclanna/manifold/internal/ui"
	"github.com/fbkclanna/manifold/internal/workspace"
)

type projectStatus struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Branch   string `json:"branch,omitempty"`
	Head     string `json:"head,omitempty"`
	Revision string `json:"revision,omitempty"`
	Dirty    bool   `json:"dirty"`
	Ahead    int    `json:"ahead"`
	Behind   int    `json:"behind"`
	Missing  bool   `json:"missing"`
}

func newStatusCmd() *cobra.Command {
	var (
		projects     []string
		manifestPath string
		groups       string
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show branch, head and dirtiness of every active clone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := workspace.Load(startDir(cmd))
			if err != nil {
				return err
			}
			active, err := ctx.Active(manifestPath, groups)
			if err != nil {
				return err
			}
			active, err = workspace.Narrow(active, projects)
			if err != nil {
				return err
			}

			var statuses []projectStatus
			for _, p := range active.Projects {
				st := projectStatus{Path: p.Path, Name: p.Name, Revision: p.Revision}
				dir := ctx.CloneDir(p)
				if !git.IsCloned(dir) {
					st.Missing = true
					statuses = append(statuses, st)
					continue
				}
				if st.Branch, err = git.CurrentBranch(dir); err != nil {
					return fmt.Errorf("project %s: %w", p.Path, err)
				}
				if st.Head, err = git.HeadCommit(dir); err != nil {
					return fmt.Errorf("project %s: %w", p.Path, err)
				}
				if st.Dirty, err = git.IsDirty(dir); err != nil {
					return fmt.Errorf("project %s: %w", p.Path, err)
				}
				if st.Ahead, st.Behind, err = git.AheadBehind(dir); err != nil {
					return fmt.Errorf("project %s: %w", p.Path, err)
				}
				statuses = append(statuses, st)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(statuses)
			}

			table := ui.NewTable(out, "PATH", "BRANCH", "HEAD", "DIRTY", "AHEAD/BEHIND")
			for _, st := range statuses {
				if st.Missing {
					table.Row(st.Path, "-", "(not cloned)", "-", "-")
					continue
				}
				branch := st.Branch
				if branch == "" {
					branch = "(detached)"
				}
				dirty := "no"
				if st.Dirty {
					dirty = "yes"
				}
				table.Row(st.Path, branch, st.Head, dirty, fmt.Sprintf("%d/%d", st.Ahead, st.Behind))
			}
			return table.Flush()
		},
	}

	cmd.Flags().StringArrayVarP(&projects, "project", "P", nil, "limit to the project at this path (repeatable)")
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "manifest file relative to the main project (default from workspace state)")
	cmd.Flags().StringVarP(&groups, "groups", "G", "", "group filter expression, e.g. +test,-doc")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit machine-readable JSON")
	return cmd
}
