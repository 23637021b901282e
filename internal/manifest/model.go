package manifest

// Document represents one parsed manifest file.
type Document struct {
	Version       int       `yaml:"version"`
	DefaultGroups string    `yaml:"default-groups,omitempty"`
	Remotes       []Remote  `yaml:"remotes,omitempty"`
	Imports       []Import  `yaml:"imports,omitempty"`
	Projects      []Project `yaml:"projects"`

	// Path is the filesystem location the document was loaded from.
	// It identifies the document for cycle detection and is not serialized.
	Path string `yaml:"-"`
}

// Remote names a base URL that project URLs can be derived from.
type Remote struct {
	Name    string `yaml:"name"`
	URLBase string `yaml:"url-base"`
}

// Project declares one git repository and its intended place in the workspace.
type Project struct {
	Name     string   `yaml:"name"`
	Path     string   `yaml:"path"`
	Remote   string   `yaml:"remote,omitempty"`
	URL      string   `yaml:"url,omitempty"`
	Revision string   `yaml:"revision,omitempty"`
	Groups   []string `yaml:"groups,omitempty"`
	IsMain   bool     `yaml:"-"`
}

// Import references another manifest document to merge in.
// Either Path alone (relative to the importing document) or Project plus
// Path (a manifest file inside that project's directory).
type Import struct {
	Project string `yaml:"project,omitempty"`
	Path    string `yaml:"path"`
}

// Resolved is the flattened, deduplicated, ordered output of resolution.
// Projects appear in depth-first declaration order with the main project,
// when present, first. Paths are pairwise distinct and every URL is concrete.
type Resolved struct {
	Projects []Project
}

// Document converts a resolved manifest back into document shape, with
// imports flattened away. The main project is omitted: it represents the
// workspace root itself, not a manifest entry.
func (r *Resolved) Document() *Document {
	doc := &Document{Version: 1}
	for _, p := range r.Projects {
		if p.IsMain {
			continue
		}
		p.Remote = ""
		doc.Projects = append(doc.Projects, p)
	}
	return doc
}

// ByPath returns the project with the given workspace-relative path.
func (r *Resolved) ByPath(path string) (Project, bool) {
	for _, p := range r.Projects {
		if p.Path == path {
			return p, true
		}
	}
	return Project{}, false
}

// HasGroup reports whether the project carries the given group label.
func (p *Project) HasGroup(group string) bool {
	for _, g := range p.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// Equal reports whether two project definitions are identical in every
// declared field. Identical re-definitions across imports are idempotent.
func (p Project) Equal(o Project) bool {
	if p.Name != o.Name || p.Path != o.Path || p.URL != o.URL || p.Revision != o.Revision {
		return false
	}
	if len(p.Groups) != len(o.Groups) {
		return false
	}
	for i := range p.Groups {
		if p.Groups[i] != o.Groups[i] {
			return false
		}
	}
	return true
}
