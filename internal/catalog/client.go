package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Fetcher defines the catalog reads the controllers depend on.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	FetchPage(ctx context.Context, page int) (Page, error)
	FetchByName(ctx context.Context, term string) ([]Entry, error)
	FetchByID(ctx context.Context, id int) (Entry, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the character catalog HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	tracer    trace.Tracer
}

const (
	DefaultBaseURL        = "https://rickandmortyapi.com/api"
	DefaultRequestTimeout = 10 * time.Second
	defaultUserAgent      = "dossier/0.1"
	tracerName            = "github.com/five82/dossier/internal/catalog"
)

// NewClient builds a Client for baseURL. Every request is bounded by timeout;
// zero uses DefaultRequestTimeout.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
		tracer:    otel.Tracer(tracerName),
	}, nil
}

// FetchPage retrieves one page of the character listing. Pages start at 1.
func (c *Client) FetchPage(ctx context.Context, page int) (Page, error) {
	const op = "fetch-page"
	if c == nil {
		return Page{}, fmt.Errorf("client is nil")
	}
	if page < 1 {
		page = 1
	}
	values := url.Values{}
	values.Set("page", strconv.Itoa(page))

	var payload listResponse
	if err := c.get(ctx, op, c.endpoint("character", values), &payload); err != nil {
		return Page{}, err
	}
	return Page{
		Number:  page,
		Entries: payload.Results,
		HasMore: payload.Info.Next != nil && strings.TrimSpace(*payload.Info.Next) != "",
		Count:   payload.Info.Count,
		Pages:   payload.Info.Pages,
	}, nil
}

// FetchByName retrieves every character whose name matches term. The API
// answers 404 when nothing matches; that is reported as an empty result.
// A blank term matches nothing and performs no request.
func (c *Client) FetchByName(ctx context.Context, term string) ([]Entry, error) {
	const op = "fetch-by-name"
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return []Entry{}, nil
	}
	values := url.Values{}
	values.Set("name", term)

	var payload listResponse
	err := c.get(ctx, op, c.endpoint("character/", values), &payload)
	if err != nil {
		if isNotFound(err) {
			return []Entry{}, nil
		}
		return nil, err
	}
	if payload.Results == nil {
		return []Entry{}, nil
	}
	return payload.Results, nil
}

// FetchByID retrieves a single character.
func (c *Client) FetchByID(ctx context.Context, id int) (Entry, error) {
	const op = "fetch-by-id"
	if c == nil {
		return Entry{}, fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return Entry{}, notFoundError(op)
	}
	var entry Entry
	if err := c.get(ctx, op, c.endpoint("character/"+strconv.Itoa(id), nil), &entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// FetchByIDs retrieves several characters in one request using the
// comma-separated id form. Unknown ids are omitted by the API.
func (c *Client) FetchByIDs(ctx context.Context, ids []int) ([]Entry, error) {
	const op = "fetch-by-ids"
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	seen := make(map[int]bool, len(ids))
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		parts = append(parts, strconv.Itoa(id))
	}
	switch len(parts) {
	case 0:
		return []Entry{}, nil
	case 1:
		// A single id answers with an object, not an array.
		id, _ := strconv.Atoi(parts[0])
		entry, err := c.FetchByID(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return []Entry{}, nil
			}
			return nil, err
		}
		return []Entry{entry}, nil
	}

	var entries []Entry
	if err := c.get(ctx, op, c.endpoint("character/"+strings.Join(parts, ","), nil), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) endpoint(path string, query url.Values) *url.URL {
	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return &u
}

func (c *Client) get(ctx context.Context, op string, reqURL *url.URL, dest any) error {
	ctx, span := c.tracer.Start(ctx, "catalog."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("url.full", reqURL.String())),
	)
	defer span.End()

	err := c.do(ctx, op, reqURL, dest, span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Client) do(ctx context.Context, op string, reqURL *url.URL, dest any, span trace.Span) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return networkError(op, 0, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return networkError(op, 0, fmt.Errorf("execute request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode == http.StatusNotFound {
		return notFoundError(op)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return networkError(op, resp.StatusCode, nil)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return decodeError(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
