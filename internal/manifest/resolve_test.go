package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// writeManifest writes a manifest file into dir and returns its path.
func writeManifest(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolve_singleDocument(t *testing.T) {
	dir := t.TempDir()
	entry := writeManifest(t, dir, "manifest.yaml", `
version: 1
remotes:
  - name: origin
    url-base: https://example.com/org
projects:
  - name: backend
    path: services/backend
    remote: origin
  - name: tools
    path: tools
    url: https://example.com/tools.git
    revision: v1.0
`)
	r, err := Resolve(entry, dir)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(r.Projects) != 2 {
		t.Fatalf("got %d projects, want 2", len(r.Projects))
	}
	if r.Projects[0].URL != "https://example.com/org/backend" {
		t.Errorf("derived url = %q", r.Projects[0].URL)
	}
	if r.Projects[1].Revision != "v1.0" {
		t.Errorf("revision = %q", r.Projects[1].Revision)
	}
}

func TestResolve_importOrder(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "a.yaml", `
version: 1
projects:
  - name: a1
    path: a1
    url: u/a1
imports:
  - path: b.yaml
`)
	writeManifest(t, dir, "b.yaml", `
version: 1
projects:
  - name: b1
    path: b1
    url: u/b1
`)
	entry := writeManifest(t, dir, "manifest.yaml", `
version: 1
projects:
  - name: top1
    path: top1
    url: u/top1
imports:
  - path: a.yaml
`)
	r, err := Resolve(entry, dir)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	var names []string
	for _, p := range r.Projects {
		names = append(names, p.Name)
	}
	want := []string{"top1", "a1", "b1"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("order = %v, want %v", names, want)
	}
}

func TestResolve_deterministic(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "child.yaml", `
version: 1
projects:
  - name: c
    path: c
    url: u/c
`)
	entry := writeManifest(t, dir, "manifest.yaml", `
version: 1
projects:
  - name: a
    path: a
    url: u/a
imports:
  - path: child.yaml
`)
	first, err := Resolve(entry, dir)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Resolve(entry, dir)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two resolutions of the same tree differ")
	}
}

func TestResolve_cycle(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "a.yaml", `
version: 1
projects: []
imports:
  - path: b.yaml
`)
	writeManifest(t, dir, "b.yaml", `
version: 1
projects: []
imports:
  - path: a.yaml
`)
	_, err := Resolve(filepath.Join(dir, "a.yaml"), dir)
	var cyc *CycleError
	if !errors.As(err, &cyc) {
		t.Fatalf("error = %v, want CycleError", err)
	}
	if len(cyc.Stack) != 3 {
		t.Errorf("cycle stack = %v, want a->b->a", cyc.Stack)
	}
}

func TestResolve_idempotentRedefinition(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "child.yaml", `
version: 1
projects:
  - name: shared
    path: shared
    url: u/shared
`)
	entry := writeManifest(t, dir, "manifest.yaml", `
version: 1
projects:
  - name: shared
    path: shared
    url: u/shared
imports:
  - path: child.yaml
`)
	r, err := Resolve(entry, dir)
	if err != nil {
		t.Fatalf("identical re-definition should merge: %v", err)
	}
	if len(r.Projects) != 1 {
		t.Errorf("got %d projects, want 1", len(r.Projects))
	}
}

func TestResolve_conflict(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "child.yaml", `
version: 1
projects:
  - name: shared
    path: shared
    url: u/other
`)
	entry := writeManifest(t, dir, "manifest.yaml", `
version: 1
projects:
  - name: shared
    path: shared
    url: u/shared
imports:
  - path: child.yaml
`)
	_, err := Resolve(entry, dir)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("error = %v, want ConflictError", err)
	}
	if conflict.Path != "shared" {
		t.Errorf("conflict path = %q", conflict.Path)
	}
}

func TestResolve_uniquePaths(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "child.yaml", `
version: 1
projects:
  - name: c
    path: c
    url: u/c
`)
	entry := writeManifest(t, dir, "manifest.yaml", `
version: 1
projects:
  - name: a
    path: a
    url: u/a
imports:
  - path: child.yaml
  - path: child.yaml
`)
	r, err := Resolve(entry, dir)
	if err != nil {
		t.Fatal(err)
	}
	seen := map[string]bool{}
	for _, p := range r.Projects {
		if seen[p.Path] {
			t.Errorf("duplicate path %q in resolved output", p.Path)
		}
		seen[p.Path] = true
	}
}

func TestResolve_unknownRemote(t *testing.T) {
	dir := t.TempDir()
	entry := writeManifest(t, dir, "manifest.yaml", `
version: 1
projects:
  - name: a
    path: a
    remote: nowhere
`)
	_, err := Resolve(entry, dir)
	var unknown *UnknownRemoteError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want UnknownRemoteError", err)
	}
	if unknown.Remote != "nowhere" {
		t.Errorf("remote = %q", unknown.Remote)
	}
}

func TestResolve_remoteVisibleToImports(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "child.yaml", `
version: 1
projects:
  - name: c
    path: c
    remote: origin
`)
	entry := writeManifest(t, dir, "manifest.yaml", `
version: 1
remotes:
  - name: origin
    url-base: https://example.com/org/
projects: []
imports:
  - path: child.yaml
`)
	r, err := Resolve(entry, dir)
	if err != nil {
		t.Fatal(err)
	}
	if r.Projects[0].URL != "https://example.com/org/c" {
		t.Errorf("url = %q", r.Projects[0].URL)
	}
}

func TestResolve_missingEntry(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "manifest.yaml"), "")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
}
