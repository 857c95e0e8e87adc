package scraper_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gwatching/internal/model"
	"gwatching/internal/scraper"
)

// prefixScraper claims every URL starting with its prefix.
type prefixScraper struct {
	prefix string
}

func (s *prefixScraper) SupportsURL(url string) bool {
	return strings.HasPrefix(url, s.prefix)
}

func (s *prefixScraper) Get(ctx context.Context, url string) (*model.ScrappedData, error) {
	return &model.ScrappedData{URL: url}, nil
}

func TestGuesserForURL(t *testing.T) {
	books := &prefixScraper{prefix: "https://books.example/"}
	shows := &prefixScraper{prefix: "https://shows.example/"}
	guesser := scraper.NewGuesser(books, shows)

	got, err := guesser.ForURL("https://shows.example/title/42")
	if err != nil {
		t.Fatalf("ForURL failed: %v", err)
	}
	if got != scraper.Scraper(shows) {
		t.Fatalf("ForURL picked the wrong scraper")
	}

	if _, err := guesser.ForURL("https://unknown.example/1"); !errors.Is(err, model.ErrNoScraper) {
		t.Fatalf("expected ErrNoScraper, got %v", err)
	}
}

func TestGuesserForPendingFindsURLInText(t *testing.T) {
	books := &prefixScraper{prefix: "https://books.example/"}
	guesser := scraper.NewGuesser(books)

	card := &model.PendingCard{
		ID:          "p1",
		Name:        "some book",
		Description: "see https://books.example/work/7 (recommended)",
	}
	url, got, err := guesser.ForPending(card)
	if err != nil {
		t.Fatalf("ForPending failed: %v", err)
	}
	if url != "https://books.example/work/7" {
		t.Fatalf("unexpected url %q", url)
	}
	if got != scraper.Scraper(books) {
		t.Fatalf("ForPending picked the wrong scraper")
	}
}

func TestGuesserForPendingPrefersEarlierScraper(t *testing.T) {
	first := &prefixScraper{prefix: "https://first.example/"}
	second := &prefixScraper{prefix: "https://second.example/"}
	guesser := scraper.NewGuesser(first, second)

	card := &model.PendingCard{
		ID:   "p2",
		Name: "https://second.example/a https://first.example/b",
	}
	url, got, err := guesser.ForPending(card)
	if err != nil {
		t.Fatalf("ForPending failed: %v", err)
	}
	if got != scraper.Scraper(first) || url != "https://first.example/b" {
		t.Fatalf("expected first scraper to win, got %q", url)
	}
}

func TestGuesserForPendingNoMatch(t *testing.T) {
	guesser := scraper.NewGuesser(&prefixScraper{prefix: "https://books.example/"})

	card := &model.PendingCard{ID: "p3", Name: "no links here"}
	if _, _, err := guesser.ForPending(card); !errors.Is(err, model.ErrNoScraper) {
		t.Fatalf("expected ErrNoScraper, got %v", err)
	}
}
