package analysis

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultPath    = "/api/analyze"

	maxErrorBody = 512
)

// ClientOpts configures a Client. Zero values select the defaults; a zero
// Timeout means no timeout.
type ClientOpts struct {
	BaseURL string
	Path    string
	Timeout time.Duration
}

// Client posts images to the outfit analysis service.
type Client struct {
	httpClient *resty.Client
	baseURL    string
	path       string
}

// NewClient builds a client for the analysis service.
func NewClient(opts ClientOpts) *Client {
	c := Client{baseURL: DefaultBaseURL, path: DefaultPath}
	if opts.BaseURL != "" {
		c.baseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	if opts.Path != "" {
		c.path = "/" + strings.TrimLeft(opts.Path, "/")
	}
	c.httpClient = resty.New().
		SetBaseURL(c.baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(opts.Timeout)

	return &c
}

// Endpoint returns the absolute URL images are posted to.
func (c *Client) Endpoint() string {
	return c.baseURL + c.path
}

// Analyze sends one multipart request with the image in the "file" part.
func (c *Client) Analyze(ctx context.Context, up Upload) (Result, error) {
	res, err := c.httpClient.R().
		SetContext(ctx).
		SetMultipartField("file", up.FileName, up.ContentType, bytes.NewReader(up.Data)).
		Post(c.path)
	if err != nil {
		return Result{}, fmt.Errorf("analysis request: %w", err)
	}
	if !res.IsSuccess() {
		return Result{}, &StatusError{Code: res.StatusCode(), Body: truncateBody(res.String(), maxErrorBody)}
	}
	return Decode(res.Body())
}

// truncateBody cuts body to at most limit bytes without splitting a rune.
func truncateBody(body string, limit int) string {
	if len(body) <= limit {
		return body
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut]
}
