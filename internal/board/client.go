package board

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError carries a client- or server-range response from the board
// service. The synchronizer surfaces it verbatim and never retries writes.
type APIError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d api error for %s: %s", e.StatusCode, e.URL, e.Body)
}

// Client talks to one board of the board service.
type Client struct {
	baseURL    string
	key        string
	token      string
	boardID    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a board client bound to a single board.
func New(baseURL, key, token, boardID string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("board base url required")
	}
	if strings.TrimSpace(key) == "" || strings.TrimSpace(token) == "" {
		return nil, errors.New("board api key and token required")
	}
	if strings.TrimSpace(boardID) == "" {
		return nil, errors.New("board id required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		key:        key,
		token:      token,
		boardID:    boardID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// BoardID returns the id of the board the client is bound to.
func (c *Client) BoardID() string {
	return c.boardID
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body io.Reader, contentType string, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse board url: %w", err)
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("key", c.key)
	params.Set("token", c.token)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{
			StatusCode: resp.StatusCode,
			URL:        endpoint.Path,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode board response: %w", err)
	}
	return nil
}

// Labels lists every label of the board.
func (c *Client) Labels(ctx context.Context) ([]Label, error) {
	params := url.Values{}
	params.Set("limit", "1000")
	var labels []Label
	if err := c.do(ctx, http.MethodGet, "/boards/"+c.boardID+"/labels", params, nil, "", &labels); err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	return labels, nil
}

// CreateLabel creates a label on the board. Color may be empty.
func (c *Client) CreateLabel(ctx context.Context, name, color string) (Label, error) {
	params := url.Values{}
	params.Set("name", name)
	params.Set("color", color)
	var label Label
	if err := c.do(ctx, http.MethodPost, "/boards/"+c.boardID+"/labels", params, nil, "", &label); err != nil {
		return Label{}, fmt.Errorf("create label %q: %w", name, err)
	}
	return label, nil
}

// DeleteLabel removes a label from the board.
func (c *Client) DeleteLabel(ctx context.Context, labelID string) error {
	if err := c.do(ctx, http.MethodDelete, "/labels/"+labelID, nil, nil, "", nil); err != nil {
		return fmt.Errorf("delete label %s: %w", labelID, err)
	}
	return nil
}

// Cards lists every card of the board, archived ones included.
func (c *Client) Cards(ctx context.Context) ([]Card, error) {
	var cards []Card
	if err := c.do(ctx, http.MethodGet, "/boards/"+c.boardID+"/cards/all", nil, nil, "", &cards); err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return cards, nil
}

// UpdateCard applies a partial update to a card.
func (c *Client) UpdateCard(ctx context.Context, cardID string, fields CardFields) error {
	if fields.IsZero() {
		return nil
	}
	params := url.Values{}
	if fields.Name != nil {
		params.Set("name", *fields.Name)
	}
	if fields.Desc != nil {
		params.Set("desc", *fields.Desc)
	}
	if fields.HasLabelIDs || len(fields.LabelIDs) > 0 {
		params.Set("idLabels", strings.Join(fields.LabelIDs, ","))
	}
	if err := c.do(ctx, http.MethodPut, "/cards/"+cardID, params, nil, "", nil); err != nil {
		return fmt.Errorf("update card %s: %w", cardID, err)
	}
	return nil
}

// DeleteCard removes a card entirely.
func (c *Client) DeleteCard(ctx context.Context, cardID string) error {
	if err := c.do(ctx, http.MethodDelete, "/cards/"+cardID, nil, nil, "", nil); err != nil {
		return fmt.Errorf("delete card %s: %w", cardID, err)
	}
	return nil
}

// AddCardLabel attaches an existing label to a card.
func (c *Client) AddCardLabel(ctx context.Context, cardID, labelID string) error {
	params := url.Values{}
	params.Set("value", labelID)
	if err := c.do(ctx, http.MethodPost, "/cards/"+cardID+"/idLabels", params, nil, "", nil); err != nil {
		return fmt.Errorf("add label %s to card %s: %w", labelID, cardID, err)
	}
	return nil
}

// RemoveCardLabel detaches a label from a card.
func (c *Client) RemoveCardLabel(ctx context.Context, cardID, labelID string) error {
	if err := c.do(ctx, http.MethodDelete, "/cards/"+cardID+"/idLabels/"+labelID, nil, nil, "", nil); err != nil {
		return fmt.Errorf("remove label %s from card %s: %w", labelID, cardID, err)
	}
	return nil
}

// Checklists lists every checklist of the board with its items.
func (c *Client) Checklists(ctx context.Context) ([]Checklist, error) {
	var checklists []Checklist
	if err := c.do(ctx, http.MethodGet, "/boards/"+c.boardID+"/checklists", nil, nil, "", &checklists); err != nil {
		return nil, fmt.Errorf("list checklists: %w", err)
	}
	return checklists, nil
}

// CreateChecklist appends a new checklist to a card.
func (c *Client) CreateChecklist(ctx context.Context, cardID, name string) (Checklist, error) {
	params := url.Values{}
	params.Set("name", name)
	params.Set("pos", "bottom")
	var checklist Checklist
	if err := c.do(ctx, http.MethodPost, "/cards/"+cardID+"/checklists", params, nil, "", &checklist); err != nil {
		return Checklist{}, fmt.Errorf("create checklist %q on card %s: %w", name, cardID, err)
	}
	return checklist, nil
}

// RenameChecklist changes a checklist's name in place.
func (c *Client) RenameChecklist(ctx context.Context, checklistID, name string) error {
	params := url.Values{}
	params.Set("name", name)
	if err := c.do(ctx, http.MethodPut, "/checklists/"+checklistID, params, nil, "", nil); err != nil {
		return fmt.Errorf("rename checklist %s: %w", checklistID, err)
	}
	return nil
}

// DeleteChecklist removes a checklist and all its items.
func (c *Client) DeleteChecklist(ctx context.Context, checklistID string) error {
	if err := c.do(ctx, http.MethodDelete, "/checklists/"+checklistID, nil, nil, "", nil); err != nil {
		return fmt.Errorf("delete checklist %s: %w", checklistID, err)
	}
	return nil
}

// CreateCheckItem appends an item to a checklist.
func (c *Client) CreateCheckItem(ctx context.Context, checklistID, name string) (CheckItem, error) {
	params := url.Values{}
	params.Set("name", name)
	params.Set("pos", "bottom")
	var item CheckItem
	if err := c.do(ctx, http.MethodPost, "/checklists/"+checklistID+"/checkItems", params, nil, "", &item); err != nil {
		return CheckItem{}, fmt.Errorf("create item on checklist %s: %w", checklistID, err)
	}
	return item, nil
}

// UpdateCheckItem rewrites an item's text. The card id is required by the
// store's resource model, not the checklist id.
func (c *Client) UpdateCheckItem(ctx context.Context, cardID, itemID, name string) error {
	params := url.Values{}
	params.Set("name", name)
	if err := c.do(ctx, http.MethodPut, "/cards/"+cardID+"/checkItem/"+itemID, params, nil, "", nil); err != nil {
		return fmt.Errorf("update item %s on card %s: %w", itemID, cardID, err)
	}
	return nil
}

// DeleteCheckItem removes an item from a checklist.
func (c *Client) DeleteCheckItem(ctx context.Context, checklistID, itemID string) error {
	if err := c.do(ctx, http.MethodDelete, "/checklists/"+checklistID+"/checkItems/"+itemID, nil, nil, "", nil); err != nil {
		return fmt.Errorf("delete item %s from checklist %s: %w", itemID, checklistID, err)
	}
	return nil
}

// CreateAttachment uploads a file to a card, optionally making it the cover.
func (c *Client) CreateAttachment(ctx context.Context, cardID, name, mimeType string, data []byte, setCover bool) (Attachment, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", name)
	if err != nil {
		return Attachment{}, fmt.Errorf("build attachment form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return Attachment{}, fmt.Errorf("build attachment form: %w", err)
	}
	if err := form.Close(); err != nil {
		return Attachment{}, fmt.Errorf("build attachment form: %w", err)
	}

	params := url.Values{}
	params.Set("name", name)
	params.Set("mimeType", mimeType)
	if setCover {
		params.Set("setCover", "true")
	}

	var attachment Attachment
	if err := c.do(ctx, http.MethodPost, "/cards/"+cardID+"/attachments", params, &buf, form.FormDataContentType(), &attachment); err != nil {
		return Attachment{}, fmt.Errorf("create attachment on card %s: %w", cardID, err)
	}
	return attachment, nil
}

// DeleteAttachment removes an attachment from a card.
func (c *Client) DeleteAttachment(ctx context.Context, cardID, attachmentID string) error {
	if err := c.do(ctx, http.MethodDelete, "/cards/"+cardID+"/attachments/"+attachmentID, nil, nil, "", nil); err != nil {
		return fmt.Errorf("delete attachment %s from card %s: %w", attachmentID, cardID, err)
	}
	return nil
}
