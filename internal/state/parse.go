package state

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Dir is the directory under the workspace root holding tool state.
const Dir = ".manifold"

// FileName is the state file name inside Dir.
const FileName = "state.yaml"

// Path returns the state file path for a workspace root.
func Path(root string) string {
	return filepath.Join(root, Dir, FileName)
}

// Exists reports whether a workspace state file is present under root.
func Exists(root string) bool {
	_, err := os.Stat(Path(root))
	return err == nil
}

// Load reads the state file for the workspace rooted at root.
func Load(root string) (*File, error) {
	data, err := os.ReadFile(Path(root))
	if err != nil {
		return nil, fmt.Errorf("reading workspace state: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing workspace state: %w", err)
	}
	if f.Version != 1 {
		return nil, fmt.Errorf("unsupported workspace state version: %d (expected 1)", f.Version)
	}
	f.Root = root
	return &f, nil
}

// Save writes the state file, creating the state directory if needed.
func Save(root string, f *File) error {
	if err := os.MkdirAll(filepath.Join(root, Dir), 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling workspace state: %w", err)
	}
	if err := os.WriteFile(Path(root), data, 0644); err != nil {
		return fmt.Errorf("writing workspace state: %w", err)
	}
	return nil
}

// Remove deletes the state directory. Used by deinit; the clones stay.
func Remove(root string) error {
	if err := os.RemoveAll(filepath.Join(root, Dir)); err != nil {
		return fmt.Errorf("removing workspace state: %w", err)
	}
	return nil
}
