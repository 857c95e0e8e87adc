// Package sync implements the reconciliation engine: it merges freshly
// scraped snapshots into the board's persisted, user-editable cards without
// destroying user edits and without duplicating entries.
//
// A run loads the board into in-memory indexes, then reconciles one card at
// a time: fields, labels, checklists, cover. Every comparison is against
// present remote state, so an interrupted run is recovered by simply
// running again; there is no transaction log to replay.
package sync
