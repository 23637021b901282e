package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// CreateBareRepo creates a bare git repository with an initial commit in a
// temp directory. Returns the path to the bare repo.
func CreateBareRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	bare := filepath.Join(dir, "repo.git")

	// Create a working repo first, then clone it bare.
	work := filepath.Join(dir, "work")
	Run(t, dir, "git", "init", "-b", "main", work)
	Run(t, work, "git", "config", "user.email", "test@example.com")
	Run(t, work, "git", "config", "user.name", "Test")

	readme := filepath.Join(work, "README.md")
	if err := os.WriteFile(readme, []byte("# test\n"), 0644); err != nil { //nolint:gosec // test file
		t.Fatal(err)
	}
	Run(t, work, "git", "add", ".")
	Run(t, work, "git", "commit", "-m", "initial commit")

	Run(t, dir, "git", "clone", "--bare", work, bare)
	return bare
}

// CreateBareRepoWithBranch creates a bare repo with a given extra branch.
func CreateBareRepoWithBranch(t *testing.T, branch string) string {
	t.Helper()
	dir := t.TempDir()
	bare := filepath.Join(dir, "repo.git")

	work := filepath.Join(dir, "work")
	Run(t, dir, "git", "init", "-b", "main", work)
	Run(t, work, "git", "config", "user.email", "test@example.com")
	Run(t, work, "git", "config", "user.name", "Test")

	readme := filepath.Join(work, "README.md")
	if err := os.WriteFile(readme, []byte("# test\n"), 0644); err != nil { //nolint:gosec // test file
		t.Fatal(err)
	}
	Run(t, work, "git", "add", ".")
	Run(t, work, "git", "commit", "-m", "initial commit")
	Run(t, work, "git", "checkout", "-b", branch)

	f := filepath.Join(work, "feature.txt")
	if err := os.WriteFile(f, []byte("feature\n"), 0644); err != nil { //nolint:gosec // test file
		t.Fatal(err)
	}
	Run(t, work, "git", "add", ".")
	Run(t, work, "git", "commit", "-m", "feature commit")

	// Switch back to main so the bare repo's HEAD points to main.
	Run(t, work, "git", "checkout", "main")

	Run(t, dir, "git", "clone", "--bare", work, bare)
	return bare
}

// CommitFile adds a commit touching the named file to a working clone.
func CommitFile(t *testing.T, workDir, name, content, message string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(workDir, name), []byte(content), 0644); err != nil { //nolint:gosec // test file
		t.Fatal(err)
	}
	Run(t, workDir, "git", "add", name)
	Run(t, workDir, "git", "-c", "user.email=test@example.com", "-c", "user.name=Test", "commit", "-m", message)
}

// Run executes a command in dir and fails the test on error.
func Run(t *testing.T, dir string, name string, args ...string) {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("command %s %v failed: %v", name, args, err)
	}
}
