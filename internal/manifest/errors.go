package manifest

import (
	"fmt"
	"strings"
)

// NotFoundError reports a manifest file that does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("manifest not found: %s", e.Path)
}

// CycleError reports an import chain that revisits a manifest already being
// resolved. Stack holds the chain of manifest paths, entry first, with the
// revisited document repeated last.
type CycleError struct {
	Stack []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("manifest import cycle: %s", strings.Join(e.Stack, " -> "))
}

// ConflictError reports two differing project definitions claiming the same
// workspace path.
type ConflictError struct {
	Path     string
	First    Project
	Second   Project
	Manifest string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting definitions for project path %q: %q (%s) vs %q (%s) in %s",
		e.Path, e.First.Name, e.First.URL, e.Second.Name, e.Second.URL, e.Manifest)
}

// UnknownRemoteError reports a project referencing a remote that no visited
// document declares.
type UnknownRemoteError struct {
	Remote   string
	Project  string
	Manifest string
}

func (e *UnknownRemoteError) Error() string {
	return fmt.Sprintf("project %q references unknown remote %q in %s", e.Project, e.Remote, e.Manifest)
}
