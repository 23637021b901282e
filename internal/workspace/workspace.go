package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fbkclanna/manifold/internal/git"
	"github.com/fbkclanna/manifold/internal/manifest"
	"github.com/fbkclanna/manifold/internal/state"
)

// DefaultManifest is the manifest file name used when none is given.
const DefaultManifest = "manifest.yaml"

// Context holds the resolved root and persisted state of one workspace.
// Every operation takes its workspace through a Context; nothing reads
// ambient process state.
type Context struct {
	Root  string
	State *state.File
}

// Find walks up from startDir to the nearest directory holding workspace
// state and returns it as the root.
func Find(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", startDir, err)
	}
	for {
		if state.Exists(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &UninitializedError{Dir: startDir}
		}
		dir = parent
	}
}

// Load finds and loads the workspace containing startDir.
func Load(startDir string) (*Context, error) {
	root, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	st, err := state.Load(root)
	if err != nil {
		return nil, err
	}
	return &Context{Root: root, State: st}, nil
}

// Init initializes a workspace in dir. The directory must already be a git
// clone (it becomes the main project) and must not already carry workspace
// state. The manifest must resolve before any state is written, so a failed
// init leaves nothing behind.
func Init(dir, manifestPath, groups string) (*Context, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}
	if !git.IsCloned(root) {
		return nil, &NoGitError{Dir: root}
	}
	if state.Exists(root) {
		return nil, &AlreadyInitializedError{Root: root}
	}

	if manifestPath == "" {
		manifestPath = DefaultManifest
	}
	if _, err := manifest.ParseExpression(groups); err != nil {
		return nil, err
	}

	ctx := &Context{
		Root: root,
		State: &state.File{
			Version:     1,
			MainProject: filepath.Base(root),
			Manifest:    manifestPath,
			Groups:      groups,
		},
	}

	// Prove the manifest tree resolves before persisting anything.
	if _, err := ctx.Resolve(""); err != nil {
		return nil, err
	}

	if err := state.Save(root, ctx.State); err != nil {
		return nil, err
	}
	return ctx, nil
}

// Deinit removes the workspace state. The clones stay on disk.
func Deinit(dir string) error {
	root, err := Find(dir)
	if err != nil {
		return err
	}
	return state.Remove(root)
}

// ManifestPath returns the absolute path of the manifest in use, honoring a
// per-invocation override.
func (c *Context) ManifestPath(override string) string {
	p := override
	if p == "" {
		p = c.State.Manifest
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(c.Root, p)
	}
	return p
}

// CloneDir returns the absolute clone directory for a project.
func (c *Context) CloneDir(p manifest.Project) string {
	return filepath.Join(c.Root, p.Path)
}

// MainProject synthesizes the project entry for the workspace root itself.
// Its revision is the currently checked-out branch and its URL the origin
// remote, both read from the root clone.
func (c *Context) MainProject() manifest.Project {
	p := manifest.Project{
		Name:   c.State.MainProject,
		Path:   ".",
		IsMain: true,
	}
	if url, err := git.RemoteURL(c.Root); err == nil {
		p.URL = url
	}
	if branch, err := git.CurrentBranch(c.Root); err == nil {
		p.Revision = branch
	}
	return p
}

// Resolve flattens the manifest tree with the main project prepended.
func (c *Context) Resolve(manifestOverride string) (*manifest.Resolved, error) {
	entry := c.ManifestPath(manifestOverride)
	resolved, err := manifest.Resolve(entry, c.Root)
	if err != nil {
		return nil, err
	}
	projects := make([]manifest.Project, 0, len(resolved.Projects)+1)
	projects = append(projects, c.MainProject())
	projects = append(projects, resolved.Projects...)
	return &manifest.Resolved{Projects: projects}, nil
}

// Expression returns the group selection in effect: the per-invocation
// override, else the selection persisted at init, else the entry manifest's
// default-groups, else empty.
func (c *Context) Expression(manifestOverride, groupsOverride string) (manifest.Expression, error) {
	if groupsOverride != "" {
		return manifest.ParseExpression(groupsOverride)
	}
	if c.State.Groups != "" {
		return manifest.ParseExpression(c.State.Groups)
	}
	doc, err := manifest.Load(c.ManifestPath(manifestOverride))
	if err != nil {
		return manifest.Expression{}, err
	}
	return manifest.ParseExpression(doc.DefaultGroups)
}

// Active resolves the manifest and applies group filtering.
func (c *Context) Active(manifestOverride, groupsOverride string) (*manifest.Resolved, error) {
	resolved, err := c.Resolve(manifestOverride)
	if err != nil {
		return nil, err
	}
	expr, err := c.Expression(manifestOverride, groupsOverride)
	if err != nil {
		return nil, err
	}
	return manifest.Filter(resolved, expr), nil
}

// Narrow restricts a resolved list to the projects with the given paths,
// preserving order. An unknown path is an error.
func Narrow(r *manifest.Resolved, paths []string) (*manifest.Resolved, error) {
	if len(paths) == 0 {
		return r, nil
	}
	want := map[string]bool{}
	for _, p := range paths {
		cleaned := filepath.Clean(p)
		if _, ok := r.ByPath(cleaned); !ok {
			return nil, &ProjectNotFoundError{Path: p}
		}
		want[cleaned] = true
	}
	out := &manifest.Resolved{}
	for _, p := range r.Projects {
		if want[p.Path] {
			out.Projects = append(out.Projects, p)
		}
	}
	return out, nil
}

// Clone runs git clone and initializes a workspace inside the result.
func Clone(url, dir, manifestPath, groups string) (*Context, error) {
	if dir == "" {
		dir = cloneDirFromURL(url)
	}
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("destination %s already exists", dir)
	}
	if err := git.Clone(url, dir); err != nil {
		return nil, err
	}
	return Init(dir, manifestPath, groups)
}

// cloneDirFromURL mirrors git's derivation of a clone directory name.
func cloneDirFromURL(url string) string {
	base := filepath.Base(url)
	if len(base) > 4 && base[len(base)-4:] == ".git" {
		base = base[:len(base)-4]
	}
	return base
}
