package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"support-assistant/internal/contextutil"
	"support-assistant/internal/knowledge"
	"support-assistant/internal/session"
)

const (
	knowledgeEndpoint = "api/im-customer-service-knowledge-bases"
	feedbackEndpoint  = "api/ai-support-session-feedbacks"
	sessionEndpoint   = "api/ai-support-sessions"

	pageSize = 100
)

// Entry is one raw CMS entry as the API returns it, before parsing into a
// knowledge.Item. The raw form is persisted as-is so a parser change can be
// replayed without refetching.
type Entry struct {
	ID         int        `json:"id"`
	Attributes Attributes `json:"attributes"`
}

// Attributes carries the CMS fields of an entry.
type Attributes struct {
	FAQ            string    `json:"FAQ"`
	Keywords       string    `json:"Keywords"`
	Response       string    `json:"Response"`
	ResponsePicApp *PicField `json:"Response_Pic_App,omitempty"`
	ResponsePicPC  *PicField `json:"Response_Pic_Pc,omitempty"`
	UpdatedAt      string    `json:"updatedAt,omitempty"`
}

// PicField is the CMS media relation wrapper.
type PicField struct {
	Data *PicData `json:"data"`
}

// PicData is one media object.
type PicData struct {
	Attributes PicAttributes `json:"attributes"`
}

// PicAttributes holds the original URL and the resized variants.
type PicAttributes struct {
	URL     string               `json:"url"`
	Formats map[string]PicFormat `json:"formats"`
}

// PicFormat is one resized variant of an image.
type PicFormat struct {
	URL string `json:"url"`
}

// Document wraps a list of entries the way the CMS list endpoint does; the
// raw knowledge file on disk uses the same shape.
type Document struct {
	Data []Entry `json:"data"`
}

type listResponse struct {
	Data []Entry `json:"data"`
	Meta struct {
		Pagination struct {
			Page      int `json:"page"`
			PageCount int `json:"pageCount"`
			Total     int `json:"total"`
		} `json:"pagination"`
	} `json:"meta"`
}

// Client talks to a Strapi instance. The knowledge base lives on the main
// CMS; feedback and session archives go to a second, local instance, so two
// clients with different base URLs are created at startup.
type Client struct {
	BaseURL string
	Token   string
	client  *http.Client
}

// NewClient creates a Strapi client for the given base URL and API token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchAll retrieves every knowledge entry, walking pagination until the
// reported page count is exhausted.
func (c *Client) FetchAll(ctx context.Context) ([]Entry, error) {
	params := url.Values{}
	params.Set("populate", "*")
	return c.fetchPages(ctx, params)
}

// FetchUpdatedSince retrieves knowledge entries updated strictly after the
// given time.
func (c *Client) FetchUpdatedSince(ctx context.Context, since time.Time) ([]Entry, error) {
	params := url.Values{}
	params.Set("populate", "*")
	params.Set("filters[updatedAt][$gt]", since.UTC().Format(time.RFC3339))
	return c.fetchPages(ctx, params)
}

func (c *Client) fetchPages(ctx context.Context, params url.Values) ([]Entry, error) {
	logger := contextutil.LoggerFromContext(ctx)

	var all []Entry
	page := 1
	totalPages := 1

	for page <= totalPages {
		params.Set("pagination[page]", strconv.Itoa(page))
		params.Set("pagination[pageSize]", strconv.Itoa(pageSize))

		var resp listResponse
		if err := c.get(ctx, knowledgeEndpoint, params, &resp); err != nil {
			return nil, fmt.Errorf("failed to fetch page %d: %w", page, err)
		}

		all = append(all, resp.Data...)
		if resp.Meta.Pagination.PageCount > 0 {
			totalPages = resp.Meta.Pagination.PageCount
		}
		logger.DebugContext(ctx, "fetched knowledge page",
			"page", page, "total_pages", totalPages, "entries", len(resp.Data))
		page++
	}
	return all, nil
}

// SubmitFeedback posts one feedback record. The session history is stored as
// a JSON string inside the record.
func (c *Client) SubmitFeedback(ctx context.Context, feedbackID, goodOrBad, sessionID, historyJSON string) error {
	payload := map[string]any{
		"data": map[string]any{
			"feedback_id":     feedbackID,
			"good_or_bad":     goodOrBad,
			"session_history": historyJSON,
			"session_id":      sessionID,
		},
	}
	if err := c.post(ctx, feedbackEndpoint, payload, nil); err != nil {
		return fmt.Errorf("failed to submit feedback: %w", err)
	}
	return nil
}

// ArchiveSession persists the full conversation history for a session,
// updating the existing record when one exists and creating it otherwise.
func (c *Client) ArchiveSession(ctx context.Context, sessionID string, history []session.Message) error {
	var existing struct {
		Data []struct {
			ID         int `json:"id"`
			Attributes struct {
				SessionID string `json:"session_id"`
			} `json:"attributes"`
		} `json:"data"`
	}
	params := url.Values{}
	params.Set("filters[session_id][$eq]", sessionID)
	if err := c.get(ctx, sessionEndpoint, params, &existing); err != nil {
		return fmt.Errorf("failed to look up session record: %w", err)
	}

	payload := map[string]any{
		"data": map[string]any{
			"session_id": sessionID,
			"history":    history,
		},
	}

	for _, record := range existing.Data {
		if record.Attributes.SessionID == sessionID {
			endpoint := fmt.Sprintf("%s/%d", sessionEndpoint, record.ID)
			if err := c.put(ctx, endpoint, payload, nil); err != nil {
				return fmt.Errorf("failed to update session record: %w", err)
			}
			return nil
		}
	}

	if err := c.post(ctx, sessionEndpoint, payload, nil); err != nil {
		return fmt.Errorf("failed to create session record: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	u := fmt.Sprintf("%s/%s", c.BaseURL, endpoint)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, endpoint string, payload, out any) error {
	return c.send(ctx, http.MethodPost, endpoint, payload, out)
}

func (c *Client) put(ctx context.Context, endpoint string, payload, out any) error {
	return c.send(ctx, http.MethodPut, endpoint, payload, out)
}

func (c *Client) send(ctx context.Context, method, endpoint string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	u := fmt.Sprintf("%s/%s", c.BaseURL, endpoint)
	req, err := http.NewRequestWithContext(ctx, method, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.Token))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Item converts a raw entry into its canonical knowledge form. Image
// relations collapse to a single URL each, preferring the largest variant.
func (e Entry) Item() knowledge.Item {
	return knowledge.Item{
		ID:          strconv.Itoa(e.ID),
		FAQ:         e.Attributes.FAQ,
		Keywords:    e.Attributes.Keywords,
		Response:    e.Attributes.Response,
		AppImageURL: e.Attributes.ResponsePicApp.bestURL(),
		PCImageURL:  e.Attributes.ResponsePicPC.bestURL(),
	}
}

// ParseEntries converts raw entries into knowledge items, preserving order.
func ParseEntries(entries []Entry) []knowledge.Item {
	items := make([]knowledge.Item, 0, len(entries))
	for _, entry := range entries {
		items = append(items, entry.Item())
	}
	return items
}

// bestURL picks the largest available image variant, falling back to the
// original upload when no resized formats exist.
func (p *PicField) bestURL() string {
	if p == nil || p.Data == nil {
		return ""
	}
	formats := p.Data.Attributes.Formats
	for _, size := range []string{"large", "medium", "small", "thumbnail"} {
		if format, ok := formats[size]; ok && format.URL != "" {
			return format.URL
		}
	}
	return p.Data.Attributes.URL
}
