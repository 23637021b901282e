package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fbkclanna/manifold/internal/testutil"
	"github.com/fbkclanna/manifold/internal/workspace"
)

// runCLI executes the root command with -C dir and returns the combined
// output. The -C flag is inserted before any "--" so it is parsed as a flag
// rather than handed to a fan-out command.
func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	full := make([]string, 0, len(args)+2)
	inserted := false
	for _, a := range args {
		if a == "--" && !inserted {
			full = append(full, "-C", dir)
			inserted = true
		}
		full = append(full, a)
	}
	if !inserted {
		full = append(full, "-C", dir)
	}

	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(full)
	err := cmd.Execute()
	return buf.String(), err
}

// newWorkspace sets up an initialized workspace whose root is a real clone
// of a bare repo, with a committed manifest declaring n side projects at
// spots/<name>. Clones are not materialized; run "update" for that.
func newWorkspace(t *testing.T, n int) (string, []string) {
	t.Helper()
	dir := t.TempDir()

	mainBare := testutil.CreateBareRepo(t)
	root := filepath.Join(dir, "ws")
	testutil.Run(t, dir, "git", "clone", mainBare, root)

	doc := "version: 1\nprojects:\n"
	var bares []string
	for i := 0; i < n; i++ {
		bare := testutil.CreateBareRepo(t)
		bares = append(bares, bare)
		doc += fmt.Sprintf(`  - name: %s
    path: spots/%s
    url: %s
    revision: main
`, wsProjName(i), wsProjName(i), bare)
	}
	writeWorkspaceManifest(t, root, doc)

	if _, err := runCLI(t, root, "init"); err != nil {
		t.Fatalf("init: %v", err)
	}
	return root, bares
}

func writeWorkspaceManifest(t *testing.T, root, doc string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(root, workspace.DefaultManifest), []byte(doc), 0644); err != nil { //nolint:gosec // test file
		t.Fatal(err)
	}
	testutil.Run(t, root, "git", "add", workspace.DefaultManifest)
	testutil.Run(t, root, "git", "-c", "user.email=test@example.com", "-c", "user.name=Test", "commit", "-m", "add manifest")
	testutil.Run(t, root, "git", "push", "origin", "main")
}

func wsProjName(i int) string {
	names := []string{"backend", "frontend", "infra", "analytics"}
	if i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("repo%d", i)
}

func wantContains(t *testing.T, out, sub string) {
	t.Helper()
	if !strings.Contains(out, sub) {
		t.Errorf("output does not contain %q:\n%s", sub, out)
	}
}
