package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"

	"golang.org/x/time/rate"

	"gwatching/internal/model"
)

// Scraper fetches a remote resource and maps it to a scraped snapshot.
type Scraper interface {
	// SupportsURL reports whether this adapter can handle the URL.
	SupportsURL(url string) bool
	// Get fetches the resource behind a supported URL.
	Get(ctx context.Context, url string) (*model.ScrappedData, error)
}

// userAgent mimics a desktop browser; several sources refuse generic
// library agents.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/119.0"

// maxFetchTries bounds retries of a single idempotent fetch.
const maxFetchTries = 3

// StatusError is a non-2xx response to a fetch.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Code)
}

// retryable reports whether the failed fetch may be attempted again.
func retryable(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusInternalServerError
}

// fetcher is the throttled HTTP plumbing shared by adapters. Every request
// waits on the limiter first, carries the browser user agent and retries
// transient server errors up to maxFetchTries times.
type fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

func newFetcher(client *http.Client, requestsPerMinute float64) *fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &fetcher{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(requestsPerMinute/60.0), 1),
	}
}

// do runs the built request, rebuilding it for every retry so request
// bodies are never replayed from a drained reader.
func (f *fetcher) do(ctx context.Context, build func(context.Context) (*http.Request, error)) ([]byte, error) {
	var lastErr error
	for try := 0; try < maxFetchTries; try++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		req, err := build(ctx)
		if err != nil {
			return nil, err
		}
		body, err := f.once(req)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable(err) {
			break
		}
	}
	return nil, lastErr
}

func (f *fetcher) once(req *http.Request) ([]byte, error) {
	req.Header.Set("User-Agent", userAgent)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode, URL: req.URL.String()}
	}
	return io.ReadAll(resp.Body)
}

func (f *fetcher) get(ctx context.Context, url string) ([]byte, error) {
	return f.do(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	})
}

// reURL finds candidate source URLs inside free-form card text.
var reURL = regexp.MustCompile(`https?://[^\s<>()\[\]"']+`)

// Guesser routes URLs to the adapter that claims them.
type Guesser struct {
	scrapers []Scraper
}

func NewGuesser(scrapers ...Scraper) *Guesser {
	return &Guesser{scrapers: scrapers}
}

// ForURL returns the first adapter supporting the URL.
func (g *Guesser) ForURL(url string) (Scraper, error) {
	for _, s := range g.scrapers {
		if s.SupportsURL(url) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("no scraper for %q: %w", url, model.ErrNoScraper)
}

// ForPending scans a pending card's name and description for a URL some
// adapter supports, returning the URL together with the adapter. Adapters
// are consulted in registration order so earlier ones win ties.
func (g *Guesser) ForPending(card *model.PendingCard) (string, Scraper, error) {
	urls := append(
		reURL.FindAllString(card.Name, -1),
		reURL.FindAllString(card.Description, -1)...,
	)
	for _, s := range g.scrapers {
		for _, url := range urls {
			if s.SupportsURL(url) {
				return url, s, nil
			}
		}
	}
	return "", nil, fmt.Errorf("no scraper for card %q: %w", card.ID, model.ErrNoScraper)
}
