package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/fbkclanna/manifold/internal/manifest"
	"github.com/fbkclanna/manifold/internal/testutil"
	"github.com/fbkclanna/manifold/internal/workspace"
)

func TestInit_reportsActiveProjects(t *testing.T) {
	dir := t.TempDir()
	mainBare := testutil.CreateBareRepo(t)
	root := filepath.Join(dir, "ws")
	testutil.Run(t, dir, "git", "clone", mainBare, root)
	writeWorkspaceManifest(t, root, "version: 1\nprojects: []\n")

	out, err := runCLI(t, root, "init")
	if err != nil {
		t.Fatal(err)
	}
	// Only the main project is active.
	wantContains(t, out, "1 active project")
}

func TestInit_missingManifestNamesDefaultPath(t *testing.T) {
	dir := t.TempDir()
	testutil.Run(t, dir, "git", "init", "-b", "main", ".")

	_, err := runCLI(t, dir, "init")
	var nf *manifest.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want manifest.NotFoundError", err)
	}
	if filepath.Base(nf.Path) != workspace.DefaultManifest {
		t.Errorf("error names %q, want default manifest path", nf.Path)
	}
}

func TestInit_outsideGitClone(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "init")
	var noGit *workspace.NoGitError
	if !errors.As(err, &noGit) {
		t.Fatalf("error = %v, want NoGitError", err)
	}
}

func TestDeinit_removesState(t *testing.T) {
	root, _ := newWorkspace(t, 0)
	if _, err := runCLI(t, root, "deinit"); err != nil {
		t.Fatal(err)
	}
	_, err := runCLI(t, root, "status")
	var uninit *workspace.UninitializedError
	if !errors.As(err, &uninit) {
		t.Fatalf("error = %v, want UninitializedError", err)
	}
}
