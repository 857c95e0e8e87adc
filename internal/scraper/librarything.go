package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"gwatching/internal/model"
)

const libraryThingRequestsPerMinute = 30

var (
	reLibraryThingURL = regexp.MustCompile(`^https?://(?:www\.)?librarything\.com/`)
	reTagCloudCall    = regexp.MustCompile(`ajax_work_makeworkCloud\((\d+), (\d+)\)`)
	reFontSize        = regexp.MustCompile(`\d(?:\.\d)?`)
)

// libraryThingIgnoredTags are reader bookkeeping tags with no descriptive
// value.
var libraryThingIgnoredTags = map[string]struct{}{
	"own": {}, "read": {}, "1001": {}, "1001 books": {},
	"ebook": {}, "to-read": {}, "unread": {},
}

// LibraryThing scrapes librarything.com work pages. Books carry no parts,
// only the title, author, summary, tag cloud and cover.
type LibraryThing struct {
	baseURL    string
	rate       float64
	httpClient *http.Client
	fetch      *fetcher
}

// LibraryThingOption adjusts the LibraryThing adapter.
type LibraryThingOption func(*LibraryThing)

// WithLibraryThingBaseURL redirects the tag cloud endpoint, mainly for
// tests.
func WithLibraryThingBaseURL(baseURL string) LibraryThingOption {
	return func(l *LibraryThing) { l.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithLibraryThingHTTPClient replaces the HTTP client.
func WithLibraryThingHTTPClient(client *http.Client) LibraryThingOption {
	return func(l *LibraryThing) { l.httpClient = client }
}

// WithLibraryThingRequestsPerMinute overrides the self-imposed request
// rate.
func WithLibraryThingRequestsPerMinute(perMinute float64) LibraryThingOption {
	return func(l *LibraryThing) { l.rate = perMinute }
}

func NewLibraryThing(opts ...LibraryThingOption) *LibraryThing {
	l := &LibraryThing{
		baseURL: "https://www.librarything.com",
		rate:    libraryThingRequestsPerMinute,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.fetch = newFetcher(l.httpClient, l.rate)
	return l
}

var _ Scraper = (*LibraryThing)(nil)

func (l *LibraryThing) SupportsURL(url string) bool {
	return reLibraryThingURL.MatchString(url)
}

func (l *LibraryThing) Get(ctx context.Context, url string) (*model.ScrappedData, error) {
	page, err := l.fetch.get(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("librarything parse %s: %w", url, err)
	}
	return l.scrapped(ctx, doc)
}

func (l *LibraryThing) scrapped(ctx context.Context, doc *goquery.Document) (*model.ScrappedData, error) {
	canonical, ok := doc.Find(`head link[rel="canonical"]`).Attr("href")
	if !ok {
		return nil, fmt.Errorf("librarything page has no canonical url")
	}

	title := strings.TrimSpace(doc.Find("div.content h1").First().Text())
	author := strings.TrimSpace(doc.Find("div.content h2 a").First().Text())
	if title == "" {
		return nil, fmt.Errorf("librarything page %s has no title", canonical)
	}

	description := strings.TrimSpace(doc.Find("tr.wslsummary div.showmore").First().Text())

	tags, err := l.tags(ctx, doc)
	if err != nil {
		return nil, err
	}

	var cover []byte
	if coverURL := l.coverURL(doc); coverURL != "" {
		data, err := l.fetch.get(ctx, coverURL)
		if err != nil {
			return nil, fmt.Errorf("librarything cover: %w", err)
		}
		cover = data
	}

	labels := model.DataLabelSet{}
	labels.Add(model.LabelBook)
	labels.Add(model.LabelCompleted)

	return &model.ScrappedData{
		Titles:      []string{fmt.Sprintf("%q, %s", title, author)},
		URL:         canonical,
		Tags:        tags,
		Labels:      labels,
		Cover:       cover,
		Description: description,
	}, nil
}

// tags reads the tag cloud. Work pages load the cloud through an ajax call
// whose arguments sit in an inline script; pages that inline the cloud are
// read directly.
func (l *LibraryThing) tags(ctx context.Context, doc *goquery.Document) ([]string, error) {
	var call []string
	doc.Find("body script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		call = reTagCloudCall.FindStringSubmatch(s.Text())
		return call == nil
	})
	if call == nil {
		return selectTags(doc.Selection), nil
	}

	cloudURL := fmt.Sprintf("%s/ajax_work_makeworkCloud.php?work=%s&check=%s", l.baseURL, call[1], call[2])
	body, err := l.fetch.do(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodPost, cloudURL, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("librarything tag cloud: %w", err)
	}
	cloud, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("librarything tag cloud parse: %w", err)
	}
	return selectTags(cloud.Selection), nil
}

// selectTags keeps cloud tags rendered at a weight of 1.0 or above and
// drops the bookkeeping ones.
func selectTags(root *goquery.Selection) []string {
	var tags []string
	root.Find("div.tags.tagcloud_tags span.tag").Each(func(_ int, s *goquery.Selection) {
		style, _ := s.Attr("style")
		size := reFontSize.FindString(style)
		if size == "" {
			return
		}
		weight, err := strconv.ParseFloat(size, 64)
		if err != nil || weight < 1 {
			return
		}
		name := strings.ToLower(strings.TrimSpace(s.Find("a").First().Text()))
		if name == "" {
			return
		}
		if _, ignored := libraryThingIgnoredTags[name]; ignored {
			return
		}
		tags = append(tags, name)
	})
	return tags
}

// coverURL picks the last srcset candidate, usually the largest one.
func (l *LibraryThing) coverURL(doc *goquery.Document) string {
	srcset, ok := doc.Find("div#maincover img").First().Attr("srcset")
	if !ok {
		return ""
	}
	candidates := strings.Split(srcset, ", ")
	last := strings.TrimSpace(candidates[len(candidates)-1])
	if i := strings.IndexByte(last, ' '); i >= 0 {
		last = last[:i]
	}
	return last
}
