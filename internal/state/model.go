package state

// File represents the persisted workspace state under <root>/.manifold/.
// Its presence is the sole signal that a workspace is initialized.
type File struct {
	Version     int    `yaml:"version"`
	MainProject string `yaml:"main-project"`
	Manifest    string `yaml:"manifest"`
	Groups      string `yaml:"groups,omitempty"`

	// Root is derived from the state file location, not serialized.
	Root string `yaml:"-"`
}
