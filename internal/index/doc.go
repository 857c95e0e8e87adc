// Package index holds the in-memory indexes over the board's labels and
// cards. Both are rebuilt from store state at the start of every run and
// never shared between runs; they enforce the identity invariants
// (unique label id/name, unique card id and source URL) that the remote
// store does not.
package index
