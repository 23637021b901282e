// Package git provides a wrapper around Git CLI commands used by manifold.
// It handles clone, fetch, checkout, branch operations, and dirty-state
// detection without depending on other internal packages. Every invocation
// is a blocking subprocess call; no timeouts are imposed.
package git
