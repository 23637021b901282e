// Package state handles the persisted workspace state file. The state
// records which manifest and group selection a workspace was initialized
// with; it is written once by init, read by every later command, and
// removed only by deinit.
package state
