package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

	// maxPageSize is the upper bound the API accepts for maxResults.
	maxPageSize = 50
)

// Client is a Source backed by the YouTube Data API v3.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL points the client at another endpoint (tests, proxies).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger attaches a logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient returns a client for the given API key. A missing key is a hard
// precondition failure surfaced before any request is made.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// SearchVideos runs search.list ordered by view count, then hydrates the hits
// through videos.list.
func (c *Client) SearchVideos(ctx context.Context, query string, maxResults int) ([]VideoItem, error) {
	params := url.Values{
		"part":       {"snippet"},
		"q":          {query},
		"type":       {"video"},
		"order":      {"viewCount"},
		"maxResults": {strconv.Itoa(pageSize(maxResults))},
	}
	return c.searchThenHydrate(ctx, params)
}

// ChannelVideos runs search.list for a channel ordered by date, then hydrates
// the hits through videos.list.
func (c *Client) ChannelVideos(ctx context.Context, channelID string, maxResults int) ([]VideoItem, error) {
	params := url.Values{
		"part":       {"snippet"},
		"channelId":  {channelID},
		"type":       {"video"},
		"order":      {"date"},
		"maxResults": {strconv.Itoa(pageSize(maxResults))},
	}
	return c.searchThenHydrate(ctx, params)
}

// Channel fetches snippet and statistics for one channel.
func (c *Client) Channel(ctx context.Context, channelID string) (*ChannelItem, error) {
	var resp listResponse[ChannelItem]
	params := url.Values{
		"part": {"snippet,statistics"},
		"id":   {channelID},
	}
	if err := c.get(ctx, "channels", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, ErrChannelNotFound
	}
	item := resp.Items[0]
	return &item, nil
}

// SearchChannels runs search.list restricted to channels.
func (c *Client) SearchChannels(ctx context.Context, query string, maxResults int) ([]SearchItem, error) {
	var resp listResponse[SearchItem]
	params := url.Values{
		"part":       {"snippet"},
		"q":          {query},
		"type":       {"channel"},
		"maxResults": {strconv.Itoa(pageSize(maxResults))},
	}
	if err := c.get(ctx, "search", params, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) searchThenHydrate(ctx context.Context, params url.Values) ([]VideoItem, error) {
	var search listResponse[SearchItem]
	if err := c.get(ctx, "search", params, &search); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(search.Items))
	for _, it := range search.Items {
		if it.ID.VideoID != "" {
			ids = append(ids, it.ID.VideoID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var videos listResponse[VideoItem]
	err := c.get(ctx, "videos", url.Values{
		"part": {"snippet,statistics,contentDetails"},
		"id":   {strings.Join(ids, ",")},
	}, &videos)
	if err != nil {
		return nil, err
	}
	return videos.Items, nil
}

// get performs one API call and decodes the body into out. Non-2xx responses
// are converted into a categorized *Error.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	u := c.baseURL + "/" + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &Error{Kind: KindOther, Err: err}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindOther, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return &Error{Kind: KindOther, Status: resp.StatusCode, Err: err}
	}

	c.log.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("duration_ms", time.Since(start)).
		Msg("youtube api call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Kind: KindOther, Status: resp.StatusCode, Err: fmt.Errorf("decode %s response: %w", endpoint, err)}
	}
	return nil
}

func decodeError(status int, body []byte) error {
	var apiErr apiErrorBody
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return &Error{Kind: classify(status, ""), Status: status, Message: http.StatusText(status)}
	}
	reason := ""
	if len(apiErr.Error.Errors) > 0 {
		reason = apiErr.Error.Errors[0].Reason
	}
	msg := apiErr.Error.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &Error{Kind: classify(status, reason), Status: status, Reason: reason, Message: msg}
}

func pageSize(n int) int {
	if n <= 0 || n > maxPageSize {
		return maxPageSize
	}
	return n
}

// IsNotFound reports whether err means the requested channel does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrChannelNotFound)
}
