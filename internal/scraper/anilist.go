package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	neturl "net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"gwatching/internal/model"
)

// DefaultAniListEndpoint is the public AniList GraphQL endpoint.
const DefaultAniListEndpoint = "https://graphql.anilist.co/"

// aniListRequestsPerMinute matches the documented AniList rate limit with
// headroom to spare.
const aniListRequestsPerMinute = 15

const aniListMediaQuery = `query ($id: Int) {
    Media (id: $id) {
        title {
            romaji
            english
            native
        }
        status
        episodes
        type
        genres
        tags {
            name
        }
        coverImage {
            extraLarge
        }
        chapters
        volumes
        siteUrl
        description
    }
}`

const aniListSearchQuery = `query ($title: String, $type: MediaType, $format: [MediaFormat]) {
    Page (perPage: 10) {
        media (search: $title, type: $type, format_in: $format) {
            id
            title {
                romaji
                english
                native
            }
        }
    }
}`

var (
	reAniListID    = regexp.MustCompile(`^https?://anilist\.co/[a-z]+/([0-9]+)`)
	aniListFormats = map[string][]string{
		"ANIME": {"TV", "TV_SHORT", "MOVIE", "SPECIAL", "OVA", "ONA"},
		"MANGA": {"MANGA", "ONE_SHOT"},
	}
)

// AniList resolves anilist.co and anime-planet.com URLs through the AniList
// GraphQL API. Anime-planet URLs carry no AniList id, so those are resolved
// by searching for the title encoded in the URL slug.
type AniList struct {
	endpoint   string
	rate       float64
	httpClient *http.Client
	fetch      *fetcher
}

// AniListOption adjusts the AniList adapter.
type AniListOption func(*AniList)

// WithAniListEndpoint points the adapter at a different GraphQL endpoint.
func WithAniListEndpoint(endpoint string) AniListOption {
	return func(a *AniList) { a.endpoint = endpoint }
}

// WithAniListHTTPClient replaces the HTTP client.
func WithAniListHTTPClient(client *http.Client) AniListOption {
	return func(a *AniList) { a.httpClient = client }
}

// WithAniListRequestsPerMinute overrides the self-imposed request rate.
func WithAniListRequestsPerMinute(perMinute float64) AniListOption {
	return func(a *AniList) { a.rate = perMinute }
}

func NewAniList(opts ...AniListOption) *AniList {
	a := &AniList{
		endpoint: DefaultAniListEndpoint,
		rate:     aniListRequestsPerMinute,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.fetch = newFetcher(a.httpClient, a.rate)
	return a
}

var _ Scraper = (*AniList)(nil)

func (a *AniList) SupportsURL(url string) bool {
	return reAniListID.MatchString(url) || strings.Contains(url, "anime-planet")
}

func (a *AniList) Get(ctx context.Context, url string) (*model.ScrappedData, error) {
	id, err := a.resolveID(ctx, url)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data struct {
			Media aniListMedia `json:"Media"`
		} `json:"data"`
	}
	variables := map[string]any{"id": id}
	if err := a.query(ctx, aniListMediaQuery, variables, &resp); err != nil {
		return nil, fmt.Errorf("anilist media %d: %w", id, err)
	}

	return a.scrapped(ctx, resp.Data.Media)
}

func (a *AniList) scrapped(ctx context.Context, media aniListMedia) (*model.ScrappedData, error) {
	labels := model.DataLabelSet{}
	if media.Type == "MANGA" {
		labels.Add(model.LabelBook)
	} else {
		labels.Add(model.LabelAnime)
	}
	if media.Status == "FINISHED" {
		labels.Add(model.LabelCompleted)
	}

	tags := make([]string, 0, len(media.Genres)+len(media.Tags))
	for _, genre := range media.Genres {
		tags = append(tags, strings.ToLower(genre))
	}
	for _, tag := range media.Tags {
		tags = append(tags, strings.ToLower(tag.Name))
	}

	var parts []model.NamedList
	switch {
	case media.Chapters != nil:
		parts = []model.NamedList{sequentialList("Chapters", *media.Chapters)}
	case media.Episodes != nil:
		parts = []model.NamedList{sequentialList("Episodes", *media.Episodes)}
	case media.Volumes != nil:
		parts = []model.NamedList{sequentialList("Volumes", *media.Volumes)}
	}

	var cover []byte
	if media.CoverImage.ExtraLarge != "" {
		data, err := a.fetch.get(ctx, media.CoverImage.ExtraLarge)
		if err != nil {
			return nil, fmt.Errorf("anilist cover: %w", err)
		}
		cover = data
	}

	return &model.ScrappedData{
		Titles:      media.Title.ordered(),
		URL:         media.SiteURL,
		Tags:        tags,
		Labels:      labels,
		Parts:       parts,
		Cover:       cover,
		Description: htmlToText(media.Description),
	}, nil
}

// resolveID extracts the AniList id from an anilist.co URL or searches for
// the title behind an anime-planet URL.
func (a *AniList) resolveID(ctx context.Context, url string) (int, error) {
	if strings.Contains(url, "anime-planet") {
		return a.searchID(ctx, url)
	}
	m := reAniListID.FindStringSubmatch(url)
	if m == nil {
		return 0, fmt.Errorf("no anilist id in %q", url)
	}
	return strconv.Atoi(m[1])
}

func (a *AniList) searchID(ctx context.Context, url string) (int, error) {
	slug := url[strings.LastIndex(url, "/")+1:]
	if unescaped, err := neturl.PathUnescape(slug); err == nil {
		slug = unescaped
	}
	title := strings.ReplaceAll(slug, "-", " ")

	mediaType := "ANIME"
	if strings.Contains(url, "/manga/") {
		mediaType = "MANGA"
	}

	var resp struct {
		Data struct {
			Page struct {
				Media []struct {
					ID    int          `json:"id"`
					Title aniListTitle `json:"title"`
				} `json:"media"`
			} `json:"Page"`
		} `json:"data"`
	}
	variables := map[string]any{
		"title":  title,
		"type":   mediaType,
		"format": aniListFormats[mediaType],
	}
	if err := a.query(ctx, aniListSearchQuery, variables, &resp); err != nil {
		return 0, fmt.Errorf("anilist search %q: %w", title, err)
	}

	compact := strings.ReplaceAll(title, " ", "")
	for _, candidate := range resp.Data.Page.Media {
		for _, name := range candidate.Title.ordered() {
			normalized := normalizeSearchTitle(name)
			if normalized == "" {
				continue
			}
			stripped := strings.ReplaceAll(normalized, " ", "")
			if normalized == title || normalized == compact ||
				stripped == title || stripped == compact {
				return candidate.ID, nil
			}
		}
	}
	return 0, fmt.Errorf("no anilist id found for %q", url)
}

func (a *AniList) query(ctx context.Context, query string, variables map[string]any, out any) error {
	payload, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return err
	}
	body, err := a.fetch.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type aniListTitle struct {
	Romaji  string `json:"romaji"`
	English string `json:"english"`
	Native  string `json:"native"`
}

// ordered returns the non-empty titles with the english one first.
func (t aniListTitle) ordered() []string {
	var names []string
	for _, name := range []string{t.English, t.Romaji, t.Native} {
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

type aniListMedia struct {
	Title    aniListTitle `json:"title"`
	Status   string       `json:"status"`
	Episodes *int         `json:"episodes"`
	Type     string       `json:"type"`
	Genres   []string     `json:"genres"`
	Tags     []struct {
		Name string `json:"name"`
	} `json:"tags"`
	CoverImage struct {
		ExtraLarge string `json:"extraLarge"`
	} `json:"coverImage"`
	Chapters    *int   `json:"chapters"`
	Volumes     *int   `json:"volumes"`
	SiteURL     string `json:"siteUrl"`
	Description string `json:"description"`
}

func sequentialList(name string, count int) model.NamedList {
	items := make([]model.ListItem, count)
	for i := range items {
		items[i].Number = i + 1
	}
	return model.NamedList{Name: name, Items: items}
}

var (
	reTitleSeparator  = regexp.MustCompile(`[:-]+`)
	reTitleNonLatin   = regexp.MustCompile(`[^a-z0-9 ]+`)
	reTitleWhitespace = regexp.MustCompile(`\s+`)

	// titleFolder strips diacritics so accented latin titles still match
	// their plain-ascii URL slugs.
	titleFolder = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// normalizeSearchTitle reduces a title to the lowercase ascii form used for
// slug matching.
func normalizeSearchTitle(title string) string {
	title = strings.ToLower(title)
	if folded, _, err := transform.String(titleFolder, title); err == nil {
		title = folded
	}
	title = reTitleSeparator.ReplaceAllString(title, " ")
	title = reTitleNonLatin.ReplaceAllString(title, "")
	return strings.TrimSpace(reTitleWhitespace.ReplaceAllString(title, " "))
}
