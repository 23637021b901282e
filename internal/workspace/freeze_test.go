package workspace

import (
	"errors"
	"io"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/fbkclanna/manifold/internal/git"
)

func TestFreeze_pinsRevisions(t *testing.T) {
	f := newFixture(t, 2)
	if err := Update(f.ctx, UpdateOptions{SkipMain: true}, io.Discard); err != nil {
		t.Fatal(err)
	}
	resolved, err := f.ctx.Resolve("")
	if err != nil {
		t.Fatal(err)
	}

	frozen, err := f.ctx.Freeze(resolved)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range frozen.Projects {
		if len(p.Revision) != 40 || !git.IsCommit(p.Revision) {
			t.Errorf("project %s revision = %q, want full commit id", p.Path, p.Revision)
		}
	}

	// The clone must match what freeze recorded.
	sha, err := git.HeadCommitFull(filepath.Join(f.root, "spots", "backend"))
	if err != nil {
		t.Fatal(err)
	}
	p, _ := frozen.ByPath("spots/backend")
	if p.Revision != sha {
		t.Errorf("frozen revision = %q, clone HEAD = %q", p.Revision, sha)
	}
}

func TestFreeze_missingClone(t *testing.T) {
	f := newFixture(t, 1)
	resolved, err := f.ctx.Resolve("")
	if err != nil {
		t.Fatal(err)
	}

	_, err = f.ctx.Freeze(resolved)
	var missing *CloneMissingError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want CloneMissingError", err)
	}
	if missing.Path != "spots/backend" {
		t.Errorf("path = %q", missing.Path)
	}
}

func TestFreeze_idempotent(t *testing.T) {
	f := newFixture(t, 1)
	if err := Update(f.ctx, UpdateOptions{SkipMain: true}, io.Discard); err != nil {
		t.Fatal(err)
	}
	resolved, err := f.ctx.Resolve("")
	if err != nil {
		t.Fatal(err)
	}

	once, err := f.ctx.Freeze(resolved)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := f.ctx.Freeze(once)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Error("freezing a frozen manifest must be a no-op")
	}
}

func TestFreeze_doesNotTouchClones(t *testing.T) {
	f := newFixture(t, 1)
	if err := Update(f.ctx, UpdateOptions{SkipMain: true}, io.Discard); err != nil {
		t.Fatal(err)
	}
	clone := filepath.Join(f.root, "spots", "backend")
	before, err := git.HeadCommitFull(clone)
	if err != nil {
		t.Fatal(err)
	}

	resolved, err := f.ctx.Resolve("")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.ctx.Freeze(resolved); err != nil {
		t.Fatal(err)
	}

	after, err := git.HeadCommitFull(clone)
	if err != nil {
		t.Fatal(err)
	}
	if before != after {
		t.Error("freeze must not move clone HEADs")
	}
	dirty, err := git.IsDirty(clone)
	if err != nil {
		t.Fatal(err)
	}
	if dirty {
		t.Error("freeze must not dirty clones")
	}
}
