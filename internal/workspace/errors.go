package workspace

import "fmt"

// NoGitError reports that an operation expected a git clone where there is
// none.
type NoGitError struct {
	Dir string
}

func (e *NoGitError) Error() string {
	return fmt.Sprintf("%s is not a git clone", e.Dir)
}

// UninitializedError reports that no workspace state was found at or above
// the starting directory.
type UninitializedError struct {
	Dir string
}

func (e *UninitializedError) Error() string {
	return fmt.Sprintf("no workspace found at or above %s", e.Dir)
}

// AlreadyInitializedError reports an init attempt on an existing workspace.
type AlreadyInitializedError struct {
	Root string
}

func (e *AlreadyInitializedError) Error() string {
	return fmt.Sprintf("workspace already initialized at %s", e.Root)
}

// ProjectNotFoundError reports a requested project path that is not in the
// resolved set.
type ProjectNotFoundError struct {
	Path string
}

func (e *ProjectNotFoundError) Error() string {
	return fmt.Sprintf("project not found in resolved manifest: %s", e.Path)
}

// PathNotInProjectError reports a filesystem path owned by no project.
type PathNotInProjectError struct {
	Path string
}

func (e *PathNotInProjectError) Error() string {
	return fmt.Sprintf("path is not inside any project: %s", e.Path)
}

// CloneMissingError reports a project whose clone has not been materialized.
type CloneMissingError struct {
	Path string
}

func (e *CloneMissingError) Error() string {
	return fmt.Sprintf("project %s has no clone", e.Path)
}

// CloneNotCleanError reports a clone with uncommitted changes or unpushed
// commits blocking an update.
type CloneNotCleanError struct {
	Path string
}

func (e *CloneNotCleanError) Error() string {
	return fmt.Sprintf("clone %s has local changes", e.Path)
}
