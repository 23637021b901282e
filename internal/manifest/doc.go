// Package manifest models workspace manifest documents and their resolution.
// A manifest declares remotes, projects, and imports of further manifests;
// Resolve flattens a manifest tree into one deterministic, conflict-checked
// project list, and Filter applies group-based selection to it.
package manifest
