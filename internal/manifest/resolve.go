package manifest

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Resolve flattens the manifest at entryPath and all transitive imports into
// one ordered, conflict-checked project list. root is the workspace root
// directory, used to locate project-scoped imports; it may be empty when no
// workspace exists, in which case project-scoped imports fail.
//
// Traversal is depth-first pre-order: each document first registers its
// remotes, then appends its projects in file order, then resolves its imports
// in file order before the next sibling. This makes the output deterministic:
// the same manifest tree always yields the same list.
func Resolve(entryPath, root string) (*Resolved, error) {
	r := &resolver{
		root:    root,
		remotes: map[string]string{},
		byPath:  map[string]Project{},
		onStack: map[string]bool{},
	}
	if err := r.walk(entryPath); err != nil {
		return nil, err
	}
	return &Resolved{Projects: r.out}, nil
}

type resolver struct {
	root    string
	remotes map[string]string
	out     []Project
	byPath  map[string]Project
	stack   []string
	onStack map[string]bool
}

func (r *resolver) walk(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving manifest path %s: %w", path, err)
	}
	if r.onStack[abs] {
		return &CycleError{Stack: append(append([]string{}, r.stack...), abs)}
	}

	doc, err := Load(abs)
	if err != nil {
		return err
	}

	r.stack = append(r.stack, abs)
	r.onStack[abs] = true
	defer func() {
		r.stack = r.stack[:len(r.stack)-1]
		delete(r.onStack, abs)
	}()

	for _, rem := range doc.Remotes {
		if base, ok := r.remotes[rem.Name]; ok {
			if base != rem.URLBase {
				return fmt.Errorf("%s: remote %q redefined with different url-base (%s vs %s)",
					abs, rem.Name, base, rem.URLBase)
			}
			continue
		}
		r.remotes[rem.Name] = rem.URLBase
	}

	for _, p := range doc.Projects {
		resolved, err := r.resolveURL(p, abs)
		if err != nil {
			return err
		}
		if err := r.append(resolved, abs); err != nil {
			return err
		}
	}

	for _, imp := range doc.Imports {
		target, err := r.importPath(imp, abs)
		if err != nil {
			return err
		}
		if err := r.walk(target); err != nil {
			return err
		}
	}

	return nil
}

// resolveURL replaces a remote reference with a concrete URL.
func (r *resolver) resolveURL(p Project, manifestPath string) (Project, error) {
	if p.URL != "" {
		return p, nil
	}
	if p.Remote == "" {
		return p, &UnknownRemoteError{Project: p.Name, Manifest: manifestPath}
	}
	base, ok := r.remotes[p.Remote]
	if !ok {
		return p, &UnknownRemoteError{Remote: p.Remote, Project: p.Name, Manifest: manifestPath}
	}
	p.URL = strings.TrimSuffix(base, "/") + "/" + p.Name
	p.Remote = ""
	return p, nil
}

// append adds a project to the output unless an identical definition is
// already present. A differing definition for the same path is a conflict.
func (r *resolver) append(p Project, manifestPath string) error {
	p.Path = filepath.Clean(p.Path)
	if prev, ok := r.byPath[p.Path]; ok {
		if prev.Equal(p) {
			return nil
		}
		return &ConflictError{Path: p.Path, First: prev, Second: p, Manifest: manifestPath}
	}
	r.byPath[p.Path] = p
	r.out = append(r.out, p)
	return nil
}

// importPath locates the file an import refers to. A plain import is
// relative to the importing document; a project-scoped import names a file
// inside an already-declared project's directory under the workspace root.
func (r *resolver) importPath(imp Import, manifestPath string) (string, error) {
	if imp.Project == "" {
		return filepath.Join(filepath.Dir(manifestPath), imp.Path), nil
	}
	for _, p := range r.out {
		if p.Name == imp.Project {
			if r.root == "" {
				return "", fmt.Errorf("%s: import from project %q requires a workspace", manifestPath, imp.Project)
			}
			return filepath.Join(r.root, p.Path, imp.Path), nil
		}
	}
	return "", fmt.Errorf("%s: import references undeclared project %q", manifestPath, imp.Project)
}
