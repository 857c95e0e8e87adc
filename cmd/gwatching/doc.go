// Command gwatching mirrors scraped show, movie, and book metadata onto a
// kanban board.
//
// The sync command reconciles tracked cards against their remote sources,
// setup prepares the board's label palette, cards lists the tracked
// entries, and cron keeps scheduled syncs running in the foreground.
package main
