package workspace

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fbkclanna/manifold/internal/manifest"
)

// Routed groups the sub-paths of one project, in resolved project order.
type Routed struct {
	Project manifest.Project
	Paths   []string // project-relative
}

// Route maps filesystem paths to the projects owning them. Relative paths
// are taken relative to baseDir, the directory the user invoked from. Each
// path is assigned to the project whose directory is its longest ancestor;
// paths outside every project fail with PathNotInProjectError. The returned
// groups follow resolved order, so routed git operations run in the same
// order as every other fan-out.
func (c *Context) Route(resolved *manifest.Resolved, baseDir string, paths []string) ([]Routed, error) {
	byPath := map[string]*Routed{}
	var order []string

	for _, raw := range paths {
		p := raw
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving path %s: %w", raw, err)
		}
		rel, err := filepath.Rel(c.Root, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, &PathNotInProjectError{Path: raw}
		}

		owner, sub, ok := ownerOf(resolved, rel)
		if !ok {
			return nil, &PathNotInProjectError{Path: raw}
		}

		group, seen := byPath[owner.Path]
		if !seen {
			group = &Routed{Project: owner}
			byPath[owner.Path] = group
			order = append(order, owner.Path)
		}
		group.Paths = append(group.Paths, sub)
	}

	// Emit groups in resolved order, not first-seen order.
	var out []Routed
	for _, p := range resolved.Projects {
		if g, ok := byPath[p.Path]; ok {
			out = append(out, *g)
		}
	}
	if len(out) != len(order) {
		return nil, fmt.Errorf("internal: routed %d groups, emitted %d", len(order), len(out))
	}
	return out, nil
}

// ownerOf finds the project whose path is the longest ancestor prefix of
// rel, and the remainder of rel below it.
func ownerOf(resolved *manifest.Resolved, rel string) (manifest.Project, string, bool) {
	var best manifest.Project
	bestSub := ""
	bestLen := -1

	for _, p := range resolved.Projects {
		sub, ok := descends(p.Path, rel)
		if !ok {
			continue
		}
		plen := len(p.Path)
		if p.Path == "." {
			plen = 0
		}
		if plen > bestLen {
			best, bestSub, bestLen = p, sub, plen
		}
	}
	if bestLen < 0 {
		return manifest.Project{}, "", false
	}
	return best, bestSub, true
}

// descends reports whether rel lies within the project directory dir, and
// returns rel relative to it. dir "." contains every workspace path.
func descends(dir, rel string) (string, bool) {
	if dir == "." {
		return rel, true
	}
	if rel == dir {
		return ".", true
	}
	prefix := dir + string(filepath.Separator)
	if strings.HasPrefix(rel, prefix) {
		return rel[len(prefix):], true
	}
	return "", false
}
