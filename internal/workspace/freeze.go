package workspace

import (
	"fmt"

	"github.com/fbkclanna/manifold/internal/git"
	"github.com/fbkclanna/manifold/internal/manifest"
)

// Freeze returns a copy of the resolved manifest with every symbolic
// revision replaced by the commit currently checked out in its clone.
// Revisions that are already full commit ids stay untouched, which makes
// freezing idempotent. Freezing is a read: it requires the clones to exist
// (CloneMissingError otherwise) and never mutates them.
func (c *Context) Freeze(resolved *manifest.Resolved) (*manifest.Resolved, error) {
	out := &manifest.Resolved{Projects: make([]manifest.Project, 0, len(resolved.Projects))}
	for _, p := range resolved.Projects {
		if len(p.Revision) == 40 && git.IsCommit(p.Revision) {
			out.Projects = append(out.Projects, p)
			continue
		}
		dir := c.CloneDir(p)
		if !git.IsCloned(dir) {
			return nil, &CloneMissingError{Path: p.Path}
		}
		commit, err := git.HeadCommitFull(dir)
		if err != nil {
			return nil, fmt.Errorf("reading HEAD of %s: %w", p.Path, err)
		}
		p.Revision = commit
		out.Projects = append(out.Projects, p)
	}
	return out, nil
}
