// Package listing implements paged discovery over projects and talent: a
// server phase that applies the structured filters and a client phase that
// narrows the fetched page by the free-text search term.
package listing

import (
	"context"
	"strings"

	"github.com/tapri-app/tapri-api/internal/query"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 50
)

// Source runs the server phase. It must honor every structured filter in f
// and may ignore f.Search.
type Source[T any] interface {
	Fetch(ctx context.Context, f query.Filters, limit, offset int) ([]T, error)
}

type SourceFunc[T any] func(ctx context.Context, f query.Filters, limit, offset int) ([]T, error)

func (fn SourceFunc[T]) Fetch(ctx context.Context, f query.Filters, limit, offset int) ([]T, error) {
	return fn(ctx, f, limit, offset)
}

// Matcher reports whether item matches the lowercased search term.
type Matcher[T any] func(item T, term string) bool

// MatchAnyField builds a Matcher that is true when any extracted field
// contains the term, ignoring case.
func MatchAnyField[T any](fields func(T) []string) Matcher[T] {
	return func(item T, term string) bool {
		for _, f := range fields(item) {
			if strings.Contains(strings.ToLower(f), term) {
				return true
			}
		}
		return false
	}
}

type Page[T any] struct {
	Items    []T  `json:"items"`
	HasMore  bool `json:"has_more"`
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	Demo     bool `json:"demo"`
}

type Pipeline[T any] struct {
	source      Source[T]
	match       Matcher[T]
	defaultSize int
	maxSize     int
	demo        bool
}

type Option func(*options)

type options struct {
	defaultSize int
	maxSize     int
	demo        bool
}

func WithPageSizes(defaultSize, maxSize int) Option {
	return func(o *options) {
		if defaultSize > 0 {
			o.defaultSize = defaultSize
		}
		if maxSize > 0 {
			o.maxSize = maxSize
		}
	}
}

// WithDemo marks every page produced by the pipeline as demonstration data.
func WithDemo(demo bool) Option {
	return func(o *options) { o.demo = demo }
}

func NewPipeline[T any](source Source[T], match Matcher[T], opts ...Option) *Pipeline[T] {
	o := options{defaultSize: DefaultPageSize, maxSize: MaxPageSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.defaultSize > o.maxSize {
		o.defaultSize = o.maxSize
	}
	return &Pipeline[T]{
		source:      source,
		match:       match,
		defaultSize: o.defaultSize,
		maxSize:     o.maxSize,
		demo:        o.demo,
	}
}

func (p *Pipeline[T]) Demo() bool {
	return p.demo
}

// FetchPage returns the 1-based page of results. HasMore reflects the server
// phase: it is true when rows exist beyond this page before the search term
// is applied.
func (p *Pipeline[T]) FetchPage(ctx context.Context, f query.Filters, page, pageSize int) (*Page[T], error) {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	pageSize = query.ValidateLimit(pageSize, p.defaultSize, p.maxSize)
	offset := (page - 1) * pageSize

	rows, err := p.source.Fetch(ctx, f, pageSize+1, offset)
	if err != nil {
		return nil, err
	}

	hasMore := len(rows) > pageSize
	if hasMore {
		rows = rows[:pageSize]
	}

	return &Page[T]{
		Items:    p.refine(rows, f.Search),
		HasMore:  hasMore,
		Page:     page,
		PageSize: pageSize,
		Demo:     p.demo,
	}, nil
}

func (p *Pipeline[T]) refine(rows []T, search string) []T {
	items := make([]T, 0, len(rows))
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" || p.match == nil {
		return append(items, rows...)
	}
	for _, row := range rows {
		if p.match(row, term) {
			items = append(items, row)
		}
	}
	return items
}
