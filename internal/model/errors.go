package model

import "errors"

var (
	// ErrDuplicatedEntry marks two entities claiming the same identity key:
	// a label id or name, a card id, or a card source URL. Never resolved
	// automatically; the caller decides what to drop.
	ErrDuplicatedEntry = errors.New("duplicated entry")

	// ErrUnknownVersion marks a card description without a recognizable
	// version marker. Such cards are routed to the pending set.
	ErrUnknownVersion = errors.New("unknown description version")

	// ErrItemParse marks a stored checklist item that does not match the
	// encoding its version declares. Fatal for that card's load.
	ErrItemParse = errors.New("unparsable checklist item")

	// ErrNoScraper marks a URL or pending card no scraping adapter claims.
	ErrNoScraper = errors.New("no scraper available")
)
