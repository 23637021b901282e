package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fbkclanna/manifold/internal/git"
	"github.com/fbkclanna/manifold/internal/manifest"
	"github.com/fbkclanna/manifold/internal/testutil"
	"github.com/fbkclanna/manifold/internal/workspace"
)

// newImportChainWorkspace builds a workspace whose manifest imports a second
// manifest, which in turn imports a third. Each level declares one project.
func newImportChainWorkspace(t *testing.T) (string, []string) {
	t.Helper()
	dir := t.TempDir()

	mainBare := testutil.CreateBareRepo(t)
	root := filepath.Join(dir, "ws")
	testutil.Run(t, dir, "git", "clone", mainBare, root)

	var bares []string
	for i := 0; i < 3; i++ {
		bares = append(bares, testutil.CreateBareRepo(t))
	}

	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0644); err != nil { //nolint:gosec // test file
			t.Fatal(err)
		}
	}
	write("deepest.yaml", fmt.Sprintf(`version: 1
projects:
  - name: infra
    path: spots/infra
    url: %s
    revision: main
`, bares[2]))
	write("middle.yaml", fmt.Sprintf(`version: 1
projects:
  - name: frontend
    path: spots/frontend
    url: %s
    revision: main
imports:
  - path: deepest.yaml
`, bares[1]))
	write(workspace.DefaultManifest, fmt.Sprintf(`version: 1
projects:
  - name: backend
    path: spots/backend
    url: %s
    revision: main
imports:
  - path: middle.yaml
`, bares[0]))

	testutil.Run(t, root, "git", "add", ".")
	testutil.Run(t, root, "git", "-c", "user.email=test@example.com", "-c", "user.name=Test", "commit", "-m", "add manifests")
	testutil.Run(t, root, "git", "push", "origin", "main")

	if _, err := runCLI(t, root, "init"); err != nil {
		t.Fatalf("init: %v", err)
	}
	return root, bares
}

func TestManifestResolve_flattensImportChain(t *testing.T) {
	root, _ := newImportChainWorkspace(t)

	out, err := runCLI(t, root, "manifest", "resolve")
	if err != nil {
		t.Fatal(err)
	}
	doc, err := manifest.Parse([]byte(out))
	if err != nil {
		t.Fatalf("resolve output is not a valid manifest: %v\n%s", err, out)
	}
	if len(doc.Imports) != 0 {
		t.Errorf("resolved manifest still has imports: %v", doc.Imports)
	}

	// Importing document's own projects come before imported ones, depth
	// by depth.
	var paths []string
	for _, p := range doc.Projects {
		paths = append(paths, p.Path)
	}
	want := []string{"spots/backend", "spots/frontend", "spots/infra"}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Errorf("project order = %v, want %v", paths, want)
	}
}

func TestManifestResolve_writesToFile(t *testing.T) {
	root, _ := newWorkspace(t, 1)
	outFile := filepath.Join(t.TempDir(), "resolved.yaml")

	if _, err := runCLI(t, root, "manifest", "resolve", "-o", outFile); err != nil {
		t.Fatal(err)
	}
	doc, err := manifest.Load(outFile)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Projects) != 1 || doc.Projects[0].Path != "spots/backend" {
		t.Errorf("written manifest = %+v", doc.Projects)
	}
}

func TestManifestFreeze_pinsCommits(t *testing.T) {
	root, _ := newWorkspace(t, 1)
	if _, err := runCLI(t, root, "update"); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, root, "manifest", "freeze")
	if err != nil {
		t.Fatal(err)
	}
	doc, err := manifest.Parse([]byte(out))
	if err != nil {
		t.Fatalf("freeze output is not a valid manifest: %v\n%s", err, out)
	}
	for _, p := range doc.Projects {
		if len(p.Revision) != 40 || !git.IsCommit(p.Revision) {
			t.Errorf("project %s revision = %q, want full commit id", p.Path, p.Revision)
		}
	}
}

func TestManifestFreeze_requiresClones(t *testing.T) {
	root, _ := newWorkspace(t, 1)
	// Without an update there is no clone to read HEAD from.
	if _, err := runCLI(t, root, "manifest", "freeze"); err == nil {
		t.Fatal("expected an error for missing clones")
	}
}

func TestManifestValidate(t *testing.T) {
	root, _ := newWorkspace(t, 1)
	out, err := runCLI(t, root, "manifest", "validate")
	if err != nil {
		t.Fatal(err)
	}
	wantContains(t, out, "OK")
}

func TestManifestValidate_badImport(t *testing.T) {
	root, _ := newWorkspace(t, 0)
	if err := os.WriteFile(filepath.Join(root, workspace.DefaultManifest), []byte("version: 1\nimports:\n  - path: missing.yaml\n"), 0644); err != nil { //nolint:gosec // test file
		t.Fatal(err)
	}
	if _, err := runCLI(t, root, "manifest", "validate"); err == nil {
		t.Fatal("expected an error for a dangling import")
	}
}

func TestManifestPath(t *testing.T) {
	root, _ := newWorkspace(t, 0)
	out, err := runCLI(t, root, "manifest", "path")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, workspace.DefaultManifest)
	if strings.TrimSpace(out) != want {
		t.Errorf("path = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestManifestPaths_respectsGroups(t *testing.T) {
	root, _ := newWorkspace(t, 0)
	extra := testutil.CreateBareRepo(t)
	writeWorkspaceManifest(t, root, fmt.Sprintf(`version: 1
projects:
  - name: docs
    path: spots/docs
    url: %s
    groups: [doc]
`, extra))

	out, err := runCLI(t, root, "manifest", "paths")
	if err != nil {
		t.Fatal(err)
	}
	wantContains(t, out, "spots/docs")

	out, err = runCLI(t, root, "manifest", "paths", "--groups=-doc")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "spots/docs") {
		t.Errorf("excluded group still listed:\n%s", out)
	}
	// The main project is always listed.
	wantContains(t, out, ".")
}
