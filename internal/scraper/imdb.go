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
	"time"

	"github.com/PuerkitoBio/goquery"

	"gwatching/internal/model"
)

const (
	// DefaultIMDBBaseURL is the public IMDb site.
	DefaultIMDBBaseURL = "https://www.imdb.com"
	// DefaultIMDBGraphQLURL serves the paginated episode listings.
	DefaultIMDBGraphQLURL = "https://caching.graphql.imdb.com/"

	imdbRequestsPerMinute = 30
	imdbEpisodesPageSize  = 100

	// imdbEpisodesQueryHash identifies the persisted episode pagination
	// query on the IMDb GraphQL cache.
	imdbEpisodesQueryHash = "e5b755e1254e3bc3a36b34aff729b1d107a63263dec628a8f59935c9e778c70e"
)

var (
	reIMDBURL     = regexp.MustCompile(`^https?://www\.imdb\.com/`)
	reIMDBTitleID = regexp.MustCompile(`^.*/title/(tt[0-9]+).*$`)
)

// IMDB scrapes www.imdb.com title pages. Shows additionally pull their full
// episode listing, one checklist per season.
type IMDB struct {
	baseURL    string
	graphqlURL string
	rate       float64
	httpClient *http.Client
	fetch      *fetcher
	now        func() time.Time
}

// IMDBOption adjusts the IMDb adapter.
type IMDBOption func(*IMDB)

// WithIMDBBaseURL rewrites episode page URLs onto another host, mainly for
// tests.
func WithIMDBBaseURL(baseURL string) IMDBOption {
	return func(i *IMDB) { i.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithIMDBGraphQLURL redirects the episode pagination endpoint.
func WithIMDBGraphQLURL(url string) IMDBOption {
	return func(i *IMDB) { i.graphqlURL = url }
}

// WithIMDBHTTPClient replaces the HTTP client.
func WithIMDBHTTPClient(client *http.Client) IMDBOption {
	return func(i *IMDB) { i.httpClient = client }
}

// WithIMDBRequestsPerMinute overrides the self-imposed request rate.
func WithIMDBRequestsPerMinute(perMinute float64) IMDBOption {
	return func(i *IMDB) { i.rate = perMinute }
}

func NewIMDB(opts ...IMDBOption) *IMDB {
	i := &IMDB{
		baseURL:    DefaultIMDBBaseURL,
		graphqlURL: DefaultIMDBGraphQLURL,
		rate:       imdbRequestsPerMinute,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.fetch = newFetcher(i.httpClient, i.rate)
	return i
}

var _ Scraper = (*IMDB)(nil)

func (i *IMDB) SupportsURL(url string) bool {
	return reIMDBURL.MatchString(url)
}

func (i *IMDB) Get(ctx context.Context, url string) (*model.ScrappedData, error) {
	doc, err := i.page(ctx, url)
	if err != nil {
		return nil, err
	}
	return i.scrapped(ctx, doc)
}

// page fetches and parses an IMDb page with an english language preference.
func (i *IMDB) page(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := i.fetch.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept-Language", "en-US,en;q=0.5")
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("imdb parse %s: %w", url, err)
	}
	return doc, nil
}

// imdbLinkedData is the schema.org payload on a title page.
type imdbLinkedData struct {
	Type          string   `json:"@type"`
	URL           string   `json:"url"`
	Name          string   `json:"name"`
	AlternateName string   `json:"alternateName"`
	Genre         []string `json:"genre"`
}

func (i *IMDB) scrapped(ctx context.Context, doc *goquery.Document) (*model.ScrappedData, error) {
	var data imdbLinkedData
	if err := decodeScript(doc, `script[type="application/ld+json"]`, &data); err != nil {
		return nil, fmt.Errorf("imdb linked data: %w", err)
	}

	var next struct {
		Props struct {
			PageProps struct {
				AboveTheFoldData struct {
					ReleaseYear struct {
						Typename string `json:"__typename"`
						EndYear  *int   `json:"endYear"`
					} `json:"releaseYear"`
				} `json:"aboveTheFoldData"`
			} `json:"pageProps"`
		} `json:"props"`
	}
	if err := decodeScript(doc, `script#__NEXT_DATA__`, &next); err != nil {
		return nil, fmt.Errorf("imdb page data: %w", err)
	}
	releaseYear := next.Props.PageProps.AboveTheFoldData.ReleaseYear
	if releaseYear.Typename != "YearRange" {
		return nil, fmt.Errorf("unsupported release year payload %q", releaseYear.Typename)
	}

	titles := make([]string, 0, 2)
	if data.AlternateName != "" {
		titles = append(titles, data.AlternateName)
	}
	if data.Name != "" && data.Name != data.AlternateName {
		titles = append(titles, data.Name)
	}

	labels := model.DataLabelSet{}
	var parts []model.NamedList
	var ended bool

	if data.Type == "Movie" {
		labels.Add(model.LabelMovie)
		ended = true
	} else {
		m := reIMDBTitleID.FindStringSubmatch(data.URL)
		if m == nil {
			return nil, fmt.Errorf("no title id in %q", data.URL)
		}
		seasons, err := i.episodes(ctx, m[1])
		if err != nil {
			return nil, err
		}
		parts = seasons
		if releaseYear.EndYear != nil {
			ended = *releaseYear.EndYear == lastEpisodeYear(seasons) &&
				i.now().Year() > *releaseYear.EndYear
		}
	}
	if ended {
		labels.Add(model.LabelCompleted)
	}

	tags := make([]string, 0, len(data.Genre))
	for _, genre := range data.Genre {
		tags = append(tags, strings.ToLower(genre))
	}
	if hasTag(tags, "animation") {
		labels.Add(model.LabelCartoon)
	} else if data.Type == "TVSeries" {
		labels.Add(model.LabelSeries)
	}

	var cover []byte
	if coverURL := i.coverURL(doc); coverURL != "" {
		data, err := i.fetch.get(ctx, coverURL)
		if err != nil {
			return nil, fmt.Errorf("imdb cover: %w", err)
		}
		cover = data
	}

	var plot []string
	doc.Find(`span[data-testid="plot-xl"]`).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			plot = append(plot, text)
		}
	})

	return &model.ScrappedData{
		Titles:      titles,
		URL:         data.URL,
		Tags:        tags,
		Labels:      labels,
		Parts:       parts,
		Cover:       cover,
		Description: strings.Join(plot, "\n"),
	}, nil
}

// coverURL picks the first og:image that is not an IMDb logo.
func (i *IMDB) coverURL(doc *goquery.Document) string {
	var url string
	doc.Find(`meta[property="og:image"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		content, _ := s.Attr("content")
		if content == "" || strings.Contains(content, "imdb/images/logos") {
			return true
		}
		url = content
		return false
	})
	return url
}

// imdbEpisode is one flattened row of the episode listing.
type imdbEpisode struct {
	season  string
	episode string
	name    string
	date    *model.Date
}

// episodes walks the full episode listing of a show and groups it into one
// named list per season, in listing order.
func (i *IMDB) episodes(ctx context.Context, titleID string) ([]model.NamedList, error) {
	var order []string
	bySeason := map[string][]model.ListItem{}

	add := func(ep imdbEpisode) {
		name := ep.name
		if name == fmt.Sprintf("Episode #%s.%s", ep.season, ep.episode) {
			name = ""
		}
		number := 0
		if ep.episode != "Unknown" {
			if n, err := strconv.Atoi(ep.episode); err == nil {
				number = n
			}
		}
		if _, seen := bySeason[ep.season]; !seen {
			order = append(order, ep.season)
		}
		bySeason[ep.season] = append(bySeason[ep.season], model.ListItem{
			Number: number,
			Name:   name,
			Date:   ep.date,
		})
	}

	cursor, err := i.firstEpisodesPage(ctx, titleID, add)
	if err != nil {
		return nil, err
	}
	for cursor != "" {
		cursor, err = i.nextEpisodesPage(ctx, titleID, cursor, add)
		if err != nil {
			return nil, err
		}
	}

	seasons := make([]model.NamedList, 0, len(order))
	for _, season := range order {
		seasons = append(seasons, model.NamedList{
			Name:  "Season " + season,
			Items: bySeason[season],
		})
	}
	return seasons, nil
}

type imdbReleaseDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

func (d *imdbReleaseDate) date() *model.Date {
	if d == nil {
		return nil
	}
	return &model.Date{Year: d.Year, Month: d.Month, Day: d.Day}
}

// firstEpisodesPage reads the season one listing embedded in the episodes
// page and returns the cursor for the remainder.
func (i *IMDB) firstEpisodesPage(ctx context.Context, titleID string, add func(imdbEpisode)) (string, error) {
	doc, err := i.page(ctx, fmt.Sprintf("%s/title/%s/episodes/?season=1", i.baseURL, titleID))
	if err != nil {
		return "", err
	}

	var next struct {
		Props struct {
			PageProps struct {
				ContentData struct {
					Section struct {
						Episodes struct {
							Items []struct {
								TitleText   string           `json:"titleText"`
								Episode     string           `json:"episode"`
								ReleaseDate *imdbReleaseDate `json:"releaseDate"`
							} `json:"items"`
							EndCursor string `json:"endCursor"`
						} `json:"episodes"`
					} `json:"section"`
				} `json:"contentData"`
			} `json:"pageProps"`
		} `json:"props"`
	}
	if err := decodeScript(doc, `script#__NEXT_DATA__`, &next); err != nil {
		return "", fmt.Errorf("imdb episodes page for %s: %w", titleID, err)
	}

	episodes := next.Props.PageProps.ContentData.Section.Episodes
	for _, item := range episodes.Items {
		add(imdbEpisode{
			season:  "1",
			episode: item.Episode,
			name:    item.TitleText,
			date:    item.ReleaseDate.date(),
		})
	}
	return episodes.EndCursor, nil
}

// nextEpisodesPage pulls one page of the persisted pagination query and
// returns the next cursor, or "" when the listing is exhausted.
func (i *IMDB) nextEpisodesPage(ctx context.Context, titleID, cursor string, add func(imdbEpisode)) (string, error) {
	variables, err := json.Marshal(map[string]any{
		"after":             cursor,
		"const":             titleID,
		"first":             imdbEpisodesPageSize,
		"locale":            "en-US",
		"originalTitleText": false,
		"returnUrl":         "https://www.imdb.com/close_me",
		"sort":              map[string]string{"by": "EPISODE_THEN_RELEASE", "order": "ASC"},
	})
	if err != nil {
		return "", err
	}
	extensions, err := json.Marshal(map[string]any{
		"persistedQuery": map[string]any{
			"sha256Hash": imdbEpisodesQueryHash,
			"version":    1,
		},
	})
	if err != nil {
		return "", err
	}

	params := neturl.Values{}
	params.Set("operationName", "TitleEpisodesSubPagePagination")
	params.Set("variables", string(variables))
	params.Set("extensions", string(extensions))

	body, err := i.fetch.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.graphqlURL+"?"+params.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/graphql+json, application/json")
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return "", fmt.Errorf("imdb episodes for %s: %w", titleID, err)
	}

	var resp struct {
		Data struct {
			Title struct {
				Episodes struct {
					Episodes struct {
						Edges []struct {
							Node struct {
								TitleText struct {
									Text string `json:"text"`
								} `json:"titleText"`
								ReleaseDate *imdbReleaseDate `json:"releaseDate"`
								Series      struct {
									DisplayableEpisodeNumber struct {
										DisplayableSeason struct {
											DisplayableProperty imdbPlainText `json:"displayableProperty"`
										} `json:"displayableSeason"`
										EpisodeNumber struct {
											DisplayableProperty imdbPlainText `json:"displayableProperty"`
										} `json:"episodeNumber"`
									} `json:"displayableEpisodeNumber"`
								} `json:"series"`
							} `json:"node"`
						} `json:"edges"`
						PageInfo struct {
							HasNextPage bool   `json:"hasNextPage"`
							EndCursor   string `json:"endCursor"`
						} `json:"pageInfo"`
					} `json:"episodes"`
				} `json:"episodes"`
			} `json:"title"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("imdb episodes decode: %w", err)
	}

	page := resp.Data.Title.Episodes.Episodes
	for _, edge := range page.Edges {
		node := edge.Node
		numbering := node.Series.DisplayableEpisodeNumber
		add(imdbEpisode{
			season:  numbering.DisplayableSeason.DisplayableProperty.Value.PlainText,
			episode: numbering.EpisodeNumber.DisplayableProperty.Value.PlainText,
			name:    node.TitleText.Text,
			date:    node.ReleaseDate.date(),
		})
	}
	if !page.PageInfo.HasNextPage {
		return "", nil
	}
	return page.PageInfo.EndCursor, nil
}

type imdbPlainText struct {
	Value struct {
		PlainText string `json:"plainText"`
	} `json:"value"`
}

// decodeScript unmarshals the text of the first element matching the
// selector, typically an embedded JSON script tag.
func decodeScript(doc *goquery.Document, selector string, out any) error {
	node := doc.Find(selector).First()
	if node.Length() == 0 {
		return fmt.Errorf("no %s element", selector)
	}
	if err := json.Unmarshal([]byte(node.Text()), out); err != nil {
		return fmt.Errorf("decode %s: %w", selector, err)
	}
	return nil
}

func lastEpisodeYear(seasons []model.NamedList) int {
	maxYear := 0
	for _, season := range seasons {
		for _, episode := range season.Items {
			if episode.Date != nil && episode.Date.Year > maxYear {
				maxYear = episode.Date.Year
			}
		}
	}
	return maxYear
}

func hasTag(tags []string, name string) bool {
	for _, tag := range tags {
		if tag == name {
			return true
		}
	}
	return false
}
