// Package board provides the minimal REST client for the kanban board
// service the synchronizer writes to.
//
// The board is treated as a plain CRUD resource store: labels, cards,
// checklists, checklist items and card attachments. Responses are strongly
// typed; write failures surface the remote status verbatim through APIError
// with no interpretation beyond success or failure. Options allow tests to
// supply custom HTTP clients without modifying production code.
package board
