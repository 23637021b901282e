package main

import (
	"errors"
	"fmt"

	"github.com/fbkclanna/manifold/internal/manifest"
	"github.com/fbkclanna/manifold/internal/workspace"
)

// renderError formats a core error for the terminal, with a remediation
// hint where one exists. The core raises presentation-free errors; turning
// them into actionable messages happens only here.
func renderError(err error) string {
	msg := "Error: " + err.Error()
	if hint := hintFor(err); hint != "" {
		msg += "\n  hint: " + hint
	}
	return msg
}

func hintFor(err error) string {
	var (
		uninit     *workspace.UninitializedError
		noGit      *workspace.NoGitError
		already    *workspace.AlreadyInitializedError
		notFound   *manifest.NotFoundError
		cycle      *manifest.CycleError
		conflict   *manifest.ConflictError
		badRemote  *manifest.UnknownRemoteError
		noProject  *workspace.ProjectNotFoundError
		noOwner    *workspace.PathNotInProjectError
		missing    *workspace.CloneMissingError
		notClean   *workspace.CloneNotCleanError
		fanoutFail *workspace.FanoutError
	)
	switch {
	case errors.As(err, &uninit):
		return "run 'manifold init' inside your main clone, or 'manifold clone <url>'"
	case errors.As(err, &noGit):
		return "init must run inside an existing git clone (the main project)"
	case errors.As(err, &already):
		return "run 'manifold deinit' first to re-initialize"
	case errors.As(err, &notFound):
		return fmt.Sprintf("create %s or point --manifest at an existing manifest", notFound.Path)
	case errors.As(err, &cycle):
		return "remove one of the imports forming the cycle"
	case errors.As(err, &conflict):
		return "make the two definitions identical, or give one a different path"
	case errors.As(err, &badRemote):
		return "declare the remote in a manifest, or give the project an explicit url"
	case errors.As(err, &noProject):
		return "run 'manifold manifest paths' to list known project paths"
	case errors.As(err, &noOwner):
		return "paths must lie inside the workspace; run 'manifold manifest paths' to see project directories"
	case errors.As(err, &missing):
		return "run 'manifold update' to materialize missing clones"
	case errors.As(err, &notClean):
		return "commit and push (or discard) local changes, or re-run with --force"
	case errors.As(err, &fanoutFail):
		// Per-project failures were already reported inline.
		return ""
	}
	return ""
}
