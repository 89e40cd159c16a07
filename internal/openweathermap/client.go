package openweathermap

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
)

const userAgent = "openweathermap-forecast/1.0"

// ErrFetch covers every failed provider call: non-2xx status and transport faults alike.
var ErrFetch = errors.New("fetching error from openweathermap")

// Response is a successful provider reply.
type Response struct {
	Mode        Mode
	StatusCode  int
	ContentType string
	Body        []byte
}

// Client performs forecast requests against the configured endpoint.
type Client struct {
	cfg  Config
	http *resty.Client
}

// NewClient builds a client with the configured timeout. Retries stay disabled.
func NewClient(cfg Config) *Client {
	http := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", userAgent).
		SetRetryCount(0)
	return &Client{cfg: cfg, http: http}
}

// Fetch sends one GET with params plus the output mode as query string.
func (c *Client) Fetch(ctx context.Context, params url.Values, mode Mode) (*Response, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, string(mode))
	}

	query := make(url.Values, len(params)+1)
	for k, v := range params {
		query[k] = append([]string(nil), v...)
	}
	query.Set("mode", string(mode))

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(query).
		Get(c.cfg.ForecastURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetch, ctxErr)
		}
		// transport errors embed the request URL, which carries the key
		return nil, fmt.Errorf("%w: %s", ErrFetch, c.redact(err.Error()))
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrFetch, resp.Status())
	}

	return &Response{
		Mode:        mode,
		StatusCode:  resp.StatusCode(),
		ContentType: resp.Header().Get("Content-Type"),
		Body:        resp.Body(),
	}, nil
}

func (c *Client) redact(s string) string {
	if c.cfg.Key == "" {
		return s
	}
	return strings.ReplaceAll(s, c.cfg.Key, redactKey(c.cfg.Key))
}
