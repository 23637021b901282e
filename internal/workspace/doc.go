// Package workspace orchestrates the clones of a manifest-driven workspace.
// A Context ties the persisted workspace state to the resolved manifest and
// carries every operation: initializing a workspace, updating clones to
// manifest revisions, routing paths to their owning project, fanning
// commands out across the project set, and freezing revisions.
package workspace
