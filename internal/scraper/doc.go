// Package scraper holds the adapters that turn a supported source URL into
// a scraped snapshot for the reconciliation engine.
//
// Each adapter claims URLs through SupportsURL and produces model
// ScrappedData with the canonical title first. Adapters self-throttle to a
// fixed request rate before calling out and retry only fetches, never
// writes; the Guesser picks the adapter for a URL or digs URLs out of a
// pending card's text.
package scraper
