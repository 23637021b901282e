package state

import (
	"testing"
)

func TestSaveAndLoad(t *testing.T) {
	root := t.TempDir()

	f := &File{
		Version:     1,
		MainProject: "backend",
		Manifest:    "manifest.yaml",
		Groups:      "core,-experimental",
	}
	if err := Save(root, f); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !Exists(root) {
		t.Fatal("state should exist after save")
	}

	loaded, err := Load(root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.MainProject != "backend" {
		t.Errorf("main-project = %q", loaded.MainProject)
	}
	if loaded.Groups != "core,-experimental" {
		t.Errorf("groups = %q", loaded.Groups)
	}
	if loaded.Root != root {
		t.Errorf("root = %q, want %q", loaded.Root, root)
	}
}

func TestLoad_missing(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("expected error for missing state file")
	}
}

func TestRemove(t *testing.T) {
	root := t.TempDir()
	if err := Save(root, &File{Version: 1}); err != nil {
		t.Fatal(err)
	}
	if err := Remove(root); err != nil {
		t.Fatal(err)
	}
	if Exists(root) {
		t.Error("state should be gone after remove")
	}
}
