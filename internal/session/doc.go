// Package session holds the state of one prefill editing session: the loaded
// blueprint and its load status, the currently selected node, and the
// mapping store. A State is created by the application and passed to
// whatever needs it; there is no package-level state.
package session
