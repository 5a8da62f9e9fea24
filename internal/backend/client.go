// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package backend is the HTTP client for the external content REST API.
// Requests are never retried automatically; every retry is a user action.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/olegiv/finpanel/internal/wire"
)

// Client configuration defaults
const (
	DefaultTimeout = 30 * time.Second
	UserAgent      = "finpanel/1.0"
)

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration

	// RateLimit caps outgoing requests per second (0 = unlimited).
	RateLimit float64

	Logger *slog.Logger
}

// Client talks JSON and multipart to the backend.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// New creates a backend client.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	c := &Client{logger: opts.Logger}
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	c.http = resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", UserAgent)

	c.http.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if c.limiter == nil {
			return nil
		}
		return c.limiter.Wait(r.Context())
	})
	c.http.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		c.logger.Debug("backend request",
			"method", resp.Request.Method,
			"url", resp.Request.URL,
			"status", resp.StatusCode(),
			"duration", resp.Time(),
		)
		return nil
	})

	return c
}

// GetJSON issues a GET and decodes the JSON body into result.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, result any) error {
	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	return c.execute(req, http.MethodGet, path, result)
}

// SendJSON issues a request with a JSON body. result may be nil.
func (c *Client) SendJSON(ctx context.Context, method, path string, body, result any) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	return c.execute(req, method, path, result)
}

// SendMultipart issues a multipart request. path may be an absolute URL.
func (c *Client) SendMultipart(ctx context.Context, method, path string, payload wire.MultipartPayload, result any) error {
	req := c.http.R().SetContext(ctx).SetMultipartFormData(payload.Fields)
	for _, f := range payload.Files {
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		req.SetMultipartField(f.Field, f.Filename, contentType, bytes.NewReader(f.Data))
	}
	return c.execute(req, method, path, result)
}

// Ping checks that the backend answers at all. Any HTTP response counts.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.http.R().SetContext(ctx).Execute(http.MethodGet, "/")
	if err != nil {
		return &TransportError{Method: http.MethodGet, Path: "/", Err: err}
	}
	return nil
}

func (c *Client) execute(req *resty.Request, method, path string, result any) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Warn("backend unreachable", "method", method, "path", path, "error", err)
		return &TransportError{Method: method, Path: path, Err: err}
	}

	if resp.IsError() {
		se := &ServerError{
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode(),
			Message: extractMessage(resp.Body()),
		}
		c.logger.Warn("backend error", "method", method, "path", path, "status", se.Status, "message", se.Message)
		return se
	}

	if result == nil || len(bytes.TrimSpace(resp.Body())) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), result); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// GetList fetches path and decodes it with decodeList. An empty body
// yields an empty list.
func GetList[R any](ctx context.Context, c *Client, path string, query url.Values) ([]R, error) {
	var raw json.RawMessage
	if err := c.GetJSON(ctx, path, query, &raw); err != nil {
		return nil, err
	}
	records, err := decodeList[R](raw)
	if errors.Is(err, errEmptyList) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return records, nil
}

// errEmptyList is returned by decodeList for bodies that hold no records.
var errEmptyList = errors.New("empty list")

// decodeList accepts a JSON array, a paginated {"results": [...]} object,
// or a single object (singleton resources) and returns the records.
func decodeList[R any](body json.RawMessage) ([]R, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || string(body) == "null" {
		return nil, errEmptyList
	}

	switch body[0] {
	case '[':
		var list []R
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, err
		}
		return list, nil
	case '{':
		var page struct {
			Results *[]R `json:"results"`
		}
		if err := json.Unmarshal(body, &page); err == nil && page.Results != nil {
			return *page.Results, nil
		}
		var one R
		if err := json.Unmarshal(body, &one); err != nil {
			return nil, err
		}
		return []R{one}, nil
	default:
		return nil, fmt.Errorf("unexpected list body starting with %q", body[0])
	}
}
