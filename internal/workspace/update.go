package workspace

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fbkclanna/manifold/internal/git"
	"github.com/fbkclanna/manifold/internal/manifest"
	"github.com/fbkclanna/manifold/internal/state"
	"github.com/fbkclanna/manifold/internal/ui"
)

// UpdateOptions control one update run.
type UpdateOptions struct {
	Projects []string // narrow to these project paths
	Manifest string   // manifest override
	Groups   string   // group expression override
	SkipMain bool
	Rebase   bool
	Prune    bool
	Force    bool

	// ConfirmPrune is consulted before removing each pruned clone; nil
	// means proceed.
	ConfirmPrune func(path string) bool
}

// Update brings clones in line with the resolved manifest: absent clones are
// created, present clean clones are fetched and moved to their manifest
// revision, dirty clones fail the run unless forced. Projects are processed
// in resolved order and the run stops at the first unforced conflict,
// leaving already-updated clones updated.
func Update(ctx *Context, opts UpdateOptions, out io.Writer) error {
	resolved, err := ctx.Resolve(opts.Manifest)
	if err != nil {
		return err
	}
	expr, err := ctx.Expression(opts.Manifest, opts.Groups)
	if err != nil {
		return err
	}

	active := manifest.Filter(resolved, expr)
	active, err = Narrow(active, opts.Projects)
	if err != nil {
		return err
	}

	var targets []manifest.Project
	for _, p := range active.Projects {
		if opts.SkipMain && p.IsMain {
			continue
		}
		targets = append(targets, p)
	}

	progress := ui.NewProgress(out, len(targets))
	for _, p := range targets {
		if err := updateProject(ctx, p, opts, progress); err != nil {
			return err
		}
	}

	if opts.Prune {
		// Prune against the full resolved set: projects deselected by
		// groups are still declared and keep their clones.
		return prune(ctx, resolved, opts, out)
	}
	return nil
}

func updateProject(ctx *Context, p manifest.Project, opts UpdateOptions, progress *ui.Progress) error {
	dir := ctx.CloneDir(p)

	if !git.IsCloned(dir) {
		progress.Log("Cloning %s ...", p.Path)
		if err := git.Clone(p.URL, dir); err != nil {
			return fmt.Errorf("project %s: %w", p.Path, err)
		}
		if err := landOnRevision(dir, p, opts.Rebase, false); err != nil {
			return fmt.Errorf("project %s: %w", p.Path, err)
		}
		progress.Done(fmt.Sprintf("%s cloned @ %s", p.Path, revisionLabel(p)))
		return nil
	}

	clean, err := isClean(dir)
	if err != nil {
		return fmt.Errorf("project %s: %w", p.Path, err)
	}
	if !clean {
		if !opts.Force {
			return &CloneNotCleanError{Path: p.Path}
		}
		progress.Log("Resetting %s (forced) ...", p.Path)
		if err := git.ResetHard(dir, "HEAD"); err != nil {
			return fmt.Errorf("project %s: %w", p.Path, err)
		}
	}

	progress.Log("Fetching %s ...", p.Path)
	if err := git.Fetch(dir); err != nil {
		return fmt.Errorf("project %s: fetch: %w", p.Path, err)
	}
	if err := landOnRevision(dir, p, opts.Rebase, true); err != nil {
		return fmt.Errorf("project %s: %w", p.Path, err)
	}
	progress.Done(fmt.Sprintf("%s updated @ %s", p.Path, revisionLabel(p)))
	return nil
}

// isClean reports whether a clone has neither uncommitted changes nor
// unpushed local commits.
func isClean(dir string) (bool, error) {
	dirty, err := git.IsDirty(dir)
	if err != nil {
		return false, err
	}
	if dirty {
		return false, nil
	}
	ahead, _, err := git.AheadBehind(dir)
	if err != nil {
		return false, err
	}
	return ahead == 0, nil
}

// landOnRevision moves a clone to its manifest revision. Fixed revisions
// (commits, tags) end up as a detached checkout; branches end up as a local
// tracking branch integrated with its upstream. advance is false right
// after a fresh clone, where the checkout already matches the remote.
func landOnRevision(dir string, p manifest.Project, rebase, advance bool) error {
	rev := p.Revision

	if rev == "" {
		// Remote default branch. A fresh clone is already there; an
		// existing detached clone needs to get back onto it.
		branch, err := git.CurrentBranch(dir)
		if err != nil {
			return err
		}
		if branch == "" {
			def, err := git.DefaultBranch(p.URL)
			if err != nil {
				return err
			}
			if err := git.Checkout(dir, def); err != nil {
				return err
			}
		}
		if advance {
			return integrate(dir, rebase)
		}
		return nil
	}

	if git.IsCommit(rev) {
		return git.CheckoutDetached(dir, rev)
	}

	remoteBranch, err := git.RemoteBranchExists(dir, rev)
	if err != nil {
		return err
	}
	if !remoteBranch {
		// Not a branch on origin: a tag or other fixed ref.
		return git.CheckoutDetached(dir, rev)
	}

	local, err := git.BranchExists(dir, rev)
	if err != nil {
		return err
	}
	if local {
		if err := git.Checkout(dir, rev); err != nil {
			return err
		}
	} else {
		if err := git.CreateTrackingBranch(dir, rev); err != nil {
			return err
		}
	}
	if advance {
		return integrate(dir, rebase)
	}
	return nil
}

func integrate(dir string, rebase bool) error {
	if rebase {
		return git.Rebase(dir, "@{upstream}")
	}
	return git.Pull(dir)
}

func revisionLabel(p manifest.Project) string {
	if p.Revision == "" {
		return "(default branch)"
	}
	return p.Revision
}

// prune removes clone directories under the root that no resolved project
// claims. Dirty clones are skipped with a warning unless forced.
func prune(ctx *Context, resolved *manifest.Resolved, opts UpdateOptions, out io.Writer) error {
	keep := map[string]bool{}
	for _, p := range resolved.Projects {
		keep[p.Path] = true
	}

	var unmanaged []string
	err := filepath.WalkDir(ctx.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(ctx.Root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if d.Name() == state.Dir || d.Name() == ".git" {
			return filepath.SkipDir
		}
		if !git.IsCloned(path) {
			return nil
		}
		if keep[rel] {
			// A managed clone may contain further managed clones.
			return nil
		}
		unmanaged = append(unmanaged, rel)
		return filepath.SkipDir
	})
	if err != nil {
		return fmt.Errorf("scanning for unmanaged clones: %w", err)
	}

	for _, rel := range unmanaged {
		dir := filepath.Join(ctx.Root, rel)
		clean, err := isClean(dir)
		if err != nil {
			return fmt.Errorf("pruning %s: %w", rel, err)
		}
		if !clean && !opts.Force {
			ui.Warning(out, "skipping prune of %s: clone has local changes (use --force)", rel)
			continue
		}
		if opts.ConfirmPrune != nil && !opts.ConfirmPrune(rel) {
			ui.Warning(out, "skipping prune of %s", rel)
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("pruning %s: %w", rel, err)
		}
		_, _ = fmt.Fprintf(out, "Pruned %s\n", rel)
	}
	return nil
}
