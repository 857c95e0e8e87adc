// Package model defines the domain types shared across the board
// synchronizer: cards, labels, checklists and the scraped snapshots
// produced by the scraping adapters.
package model
