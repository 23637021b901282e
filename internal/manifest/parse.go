package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Validate checks a manifest document for errors.
func Validate(doc *Document) error { return validate(doc) }

// Save validates and writes a manifest document to disk.
func Save(path string, doc *Document) error {
	if err := validate(doc); err != nil {
		return err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// Load reads and validates a manifest file. A missing file is reported as
// NotFoundError so callers can suggest remediation.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// Parse parses and validates manifest content.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing manifest YAML: %w", err)
	}
	if err := validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func validate(doc *Document) error {
	if doc.Version != 1 {
		return fmt.Errorf("unsupported manifest version: %d (expected 1)", doc.Version)
	}

	for i, r := range doc.Remotes {
		if r.Name == "" {
			return fmt.Errorf("manifest: remotes[%d].name is required", i)
		}
		if r.URLBase == "" {
			return fmt.Errorf("manifest: remotes[%d] (%s).url-base is required", i, r.Name)
		}
	}

	for i, p := range doc.Projects {
		if err := validateProject(i, p); err != nil {
			return err
		}
	}

	for i, imp := range doc.Imports {
		if imp.Path == "" {
			return fmt.Errorf("manifest: imports[%d].path is required", i)
		}
		if err := validatePath(imp.Path, fmt.Sprintf("imports[%d].path", i)); err != nil {
			return err
		}
	}

	return nil
}

func validateProject(i int, p Project) error {
	if p.Name == "" {
		return fmt.Errorf("manifest: projects[%d].name is required", i)
	}
	if p.Path == "" {
		return fmt.Errorf("manifest: projects[%d] (%s).path is required", i, p.Name)
	}
	if err := validatePath(p.Path, p.Name); err != nil {
		return err
	}
	if p.URL != "" && p.Remote != "" {
		return fmt.Errorf("manifest: projects[%d] (%s): url and remote are mutually exclusive", i, p.Name)
	}
	return nil
}

// validatePath ensures a path is relative and does not escape the workspace.
func validatePath(p, label string) error {
	if filepath.IsAbs(p) {
		return fmt.Errorf("manifest: %s: absolute path is not allowed: %s", label, p)
	}
	cleaned := filepath.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("manifest: %s: path must not escape workspace (contains ..): %s", label, p)
	}
	return nil
}
