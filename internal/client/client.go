// Package client is a typed HTTP client for the public Tapri listing API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tapri-app/tapri-api/internal/apperr"
	"github.com/tapri-app/tapri-api/internal/listing"
	"github.com/tapri-app/tapri-api/internal/models"
	"github.com/tapri-app/tapri-api/internal/query"
	"github.com/tapri-app/tapri-api/pkg/dto"
)

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sends the access token as a bearer credential.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New returns a client for the API mounted at baseURL, for example
// "http://localhost:8080/api/v1".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) FetchProjects(ctx context.Context, f query.Filters, page, pageSize int) (*listing.Page[models.Project], error) {
	var out listing.Page[models.Project]
	if err := c.get(ctx, "/projects", listParams(f, page, pageSize), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FetchTalent(ctx context.Context, f query.Filters, page, pageSize int) (*listing.Page[dto.PublicProfile], error) {
	var out listing.Page[dto.PublicProfile]
	if err := c.get(ctx, "/talent", listParams(f, page, pageSize), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Projects adapts the client to listing.Fetcher so a listing.Feed can drive it.
func (c *Client) Projects() listing.Fetcher[models.Project] {
	return fetcherFunc[models.Project](c.FetchProjects)
}

func (c *Client) Talent() listing.Fetcher[dto.PublicProfile] {
	return fetcherFunc[dto.PublicProfile](c.FetchTalent)
}

type fetcherFunc[T any] func(ctx context.Context, f query.Filters, page, pageSize int) (*listing.Page[T], error)

func (fn fetcherFunc[T]) FetchPage(ctx context.Context, f query.Filters, page, pageSize int) (*listing.Page[T], error) {
	return fn(ctx, f, page, pageSize)
}

func listParams(f query.Filters, page, pageSize int) url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			v.Set(key, value)
		}
	}
	set("search", f.Search)
	set("category", f.Category)
	set("stage", f.Stage)
	set("location", f.Location)
	set("skill", f.Skill)
	set("availability", f.Availability)
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		v.Set("page_size", strconv.Itoa(pageSize))
	}
	return v
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return apperr.StoreUnavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Internal("malformed response", err)
	}
	return nil
}

// decodeError rebuilds the typed error the server reported.
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload dto.ErrorResponse
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == "" {
		payload.Error = strings.TrimSpace(string(body))
		if payload.Error == "" {
			payload.Error = http.StatusText(resp.StatusCode)
		}
	}

	kind := apperr.Kind(payload.Kind)
	if kind == "" {
		kind = kindForStatus(resp.StatusCode)
	}
	return &apperr.Error{Kind: kind, Message: payload.Error, Field: payload.Field}
}

func kindForStatus(status int) apperr.Kind {
	switch status {
	case http.StatusNotFound:
		return apperr.KindNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperr.KindValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperr.KindPermission
	case http.StatusConflict:
		return apperr.KindDuplicate
	case http.StatusServiceUnavailable:
		return apperr.KindStoreUnavailable
	}
	return apperr.KindInternal
}
