package git

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

var logger = zap.NewNop()

// SetLogger installs a logger for git invocation tracing. The default is a
// nop logger.
func SetLogger(l *zap.Logger) {
	logger = l
}

// Clone clones a repository to dest.
func Clone(url, dest string) error {
	if err := run(".", "clone", url, dest); err != nil {
		return fmt.Errorf("cloning %s: %w", url, err)
	}
	return nil
}

// Fetch runs git fetch in the given repo directory.
func Fetch(repoDir string) error {
	return run(repoDir, "fetch", "--prune")
}

// Pull runs git pull in the given repo directory.
func Pull(repoDir string) error {
	return run(repoDir, "pull")
}

// Rebase rebases the current branch onto the given upstream ref.
func Rebase(repoDir, upstream string) error {
	return run(repoDir, "rebase", upstream)
}

// Checkout checks out the given ref.
func Checkout(repoDir, ref string) error {
	return run(repoDir, "checkout", ref)
}

// CheckoutDetached checks out the given ref as a detached HEAD.
func CheckoutDetached(repoDir, ref string) error {
	return run(repoDir, "checkout", "--detach", ref)
}

// CheckoutPaths restores the given paths from HEAD.
func CheckoutPaths(repoDir string, paths []string) error {
	args := append([]string{"checkout", "--"}, paths...)
	return run(repoDir, args...)
}

// CurrentBranch returns the current branch name, or empty string if detached.
func CurrentBranch(repoDir string) (string, error) {
	out, err := output(repoDir, "symbolic-ref", "--short", "HEAD")
	if err != nil {
		// Detached HEAD: symbolic-ref fails.
		return "", nil
	}
	return strings.TrimSpace(out), nil
}

// HeadCommit returns the short SHA of HEAD.
func HeadCommit(repoDir string) (string, error) {
	out, err := output(repoDir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// HeadCommitFull returns the full SHA of HEAD.
func HeadCommitFull(repoDir string) (string, error) {
	out, err := output(repoDir, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// IsDirty returns true if the working tree has uncommitted changes.
func IsDirty(repoDir string) (bool, error) {
	out, err := output(repoDir, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// AheadBehind returns how many commits the current branch is ahead of and
// behind its upstream. A branch with no upstream (or a detached HEAD)
// reports 0/0.
func AheadBehind(repoDir string) (ahead, behind int, err error) {
	out, err := outputQuiet(repoDir, "rev-list", "--left-right", "--count", "@{upstream}...HEAD")
	if err != nil {
		if isExitError(err) {
			return 0, 0, nil
		}
		return 0, 0, err
	}
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected rev-list output: %q", out)
	}
	behind, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, err
	}
	ahead, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, err
	}
	return ahead, behind, nil
}

// BranchExists checks if a local branch exists.
func BranchExists(repoDir, branch string) (bool, error) {
	err := runQuiet(repoDir, "show-ref", "--verify", "--quiet", "refs/heads/"+branch)
	if err != nil {
		if isExitError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RemoteBranchExists checks if a remote branch exists (after fetch).
func RemoteBranchExists(repoDir, branch string) (bool, error) {
	err := runQuiet(repoDir, "show-ref", "--verify", "--quiet", "refs/remotes/origin/"+branch)
	if err != nil {
		if isExitError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateTrackingBranch creates a local tracking branch for origin/<branch>.
func CreateTrackingBranch(repoDir, branch string) error {
	return run(repoDir, "checkout", "-b", branch, "--track", "origin/"+branch)
}

// ResetHard resets the working tree to the given ref.
func ResetHard(repoDir, ref string) error {
	return run(repoDir, "reset", "--hard", ref)
}

// Reset unstages the given paths.
func Reset(repoDir string, paths []string) error {
	args := append([]string{"reset", "--"}, paths...)
	return runQuiet(repoDir, args...)
}

// HasStaged reports whether the index differs from HEAD.
func HasStaged(repoDir string) (bool, error) {
	err := runQuiet(repoDir, "diff", "--cached", "--quiet")
	if err != nil {
		if isExitError(err) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// RemoteURL returns the fetch URL of origin.
func RemoteURL(repoDir string) (string, error) {
	out, err := outputQuiet(repoDir, "remote", "get-url", "origin")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// DefaultBranch detects the default branch of a remote repository using
// git ls-remote --symref. Returns an error if the branch cannot be detected.
func DefaultBranch(url string) (string, error) {
	out, err := output(".", "ls-remote", "--symref", url, "HEAD")
	if err != nil {
		return "", fmt.Errorf("ls-remote %s: %w", url, err)
	}
	// Expected output line: "ref: refs/heads/main\tHEAD"
	for _, line := range strings.Split(out, "\n") {
		parts := strings.Fields(line)
		if len(parts) >= 2 && parts[0] == "ref:" && strings.HasPrefix(parts[1], "refs/heads/") {
			return strings.TrimPrefix(parts[1], "refs/heads/"), nil
		}
	}
	return "", fmt.Errorf("default branch not found for %s", url)
}

// IsCommit reports whether a revision looks like a commit SHA rather than a
// branch or tag name.
func IsCommit(rev string) bool {
	if len(rev) < 7 || len(rev) > 40 {
		return false
	}
	for _, r := range rev {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}

// IsCloned returns true if the directory is a git repository.
func IsCloned(repoDir string) bool {
	info, err := os.Stat(filepath.Join(repoDir, ".git"))
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsGitInstalled returns true if git is available on the system PATH.
func IsGitInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Init runs git init in the given directory.
func Init(dir string) error {
	return runQuiet(dir, "init")
}

// Add stages the given paths in the repository.
func Add(dir string, paths ...string) error {
	args := append([]string{"add", "--"}, paths...)
	return runQuiet(dir, args...)
}

// Commit creates a commit with the given message, limited to the given
// paths when any are supplied. If user.name or user.email is not configured
// globally, it sets repo-local fallback values.
func Commit(dir, message string, paths ...string) error {
	if err := ensureCommitIdentity(dir); err != nil {
		return fmt.Errorf("setting commit identity: %w", err)
	}
	args := []string{"commit", "-m", message}
	if len(paths) > 0 {
		args = append(args, "--")
		args = append(args, paths...)
	}
	return runQuiet(dir, args...)
}

// ensureCommitIdentity sets repo-local user.name/user.email if they are not configured.
func ensureCommitIdentity(dir string) error {
	if _, err := outputQuiet(dir, "config", "user.name"); err != nil {
		if err2 := runQuiet(dir, "config", "user.name", "manifold"); err2 != nil {
			return err2
		}
	}
	if _, err := outputQuiet(dir, "config", "user.email"); err != nil {
		if err2 := runQuiet(dir, "config", "user.email", "manifold@localhost"); err2 != nil {
			return err2
		}
	}
	return nil
}

// run executes a git command in the given directory, relaying output.
func run(dir string, args ...string) error {
	start := time.Now()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	trace(dir, args, start, err)
	return err
}

// output executes a git command and returns its stdout.
func output(dir string, args ...string) (string, error) {
	start := time.Now()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	trace(dir, args, start, err)
	if err != nil {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return stdout.String(), nil
}

// runQuiet executes a git command without printing stdout.
// Stderr is captured and included in the error message on failure.
func runQuiet(dir string, args ...string) error {
	start := time.Now()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	trace(dir, args, start, err)
	if err != nil {
		return fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, stderr.String())
	}
	return nil
}

// outputQuiet executes a git command and returns its stdout without printing
// to the console.
func outputQuiet(dir string, args ...string) (string, error) {
	start := time.Now()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	trace(dir, args, start, err)
	if err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, stderr.String())
	}
	return stdout.String(), nil
}

func trace(dir string, args []string, start time.Time, err error) {
	logger.Debug("git",
		zap.Strings("args", args),
		zap.String("dir", dir),
		zap.Duration("took", time.Since(start)),
		zap.Error(err),
	)
}

func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
