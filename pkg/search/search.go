// Package search lists Better Stack resources page by page for resource
// pickers, filtering each page by a case-insensitive name match.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/cache"
)

// PerPage is the page size of every search request.
const PerPage = 50

// commentPreviewLength is the number of comment characters shown as a name.
const commentPreviewLength = 50

// Kind selects the resource family to search.
type Kind string

const (
	KindMonitors            Kind = "monitors"
	KindMonitorGroups       Kind = "monitorGroups"
	KindHeartbeats          Kind = "heartbeats"
	KindHeartbeatGroups     Kind = "heartbeatGroups"
	KindPolicies            Kind = "policies"
	KindOnCalls             Kind = "onCalls"
	KindTeams               Kind = "teams"
	KindUsers               Kind = "users"
	KindStatusPages         Kind = "statusPages"
	KindStatusPageResources Kind = "statusPageResources"
	KindIncidents           Kind = "incidents"
	KindComments            Kind = "comments"
)

// Kinds returns every searchable kind.
func Kinds() []Kind {
	return []Kind{
		KindMonitors, KindMonitorGroups, KindHeartbeats, KindHeartbeatGroups,
		KindPolicies, KindOnCalls, KindTeams, KindUsers,
		KindStatusPages, KindStatusPageResources, KindIncidents, KindComments,
	}
}

// NeedsParent reports whether the kind lists children of another resource.
func (k Kind) NeedsParent() bool {
	return k == KindStatusPageResources || k == KindComments
}

// Request is one search call.
type Request struct {
	Kind   Kind
	Filter string

	// PaginationToken is the page number returned by the previous call.
	PaginationToken string

	// ParentID is the status page of KindStatusPageResources or the
	// incident of KindComments.
	ParentID string
}

// Result is one selectable resource.
type Result struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	URL   string `json:"url,omitempty"`
}

// Page is one page of results. PaginationToken is empty on the last page.
type Page struct {
	Results         []Result `json:"results"`
	PaginationToken string   `json:"paginationToken,omitempty"`
}

// Cache stores raw pages between searches.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

type cachedPage struct {
	Records []map[string]any `json:"records"`
	HasNext bool             `json:"has_next"`
}

type Searcher struct {
	client    *betterstack.Client
	cache     Cache
	namespace string
	logger    *slog.Logger
}

type Option func(*Searcher)

// WithCache caches raw pages. namespace separates accounts sharing a cache
// and is hashed into the keys.
func WithCache(c Cache, namespace string) Option {
	return func(s *Searcher) {
		s.cache = c
		s.namespace = cache.HashKey(namespace)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewSearcher(client *betterstack.Client, opts ...Option) *Searcher {
	s := &Searcher{client: client, logger: slog.Default()}

	for _, opt := range opts {
		opt(s)
	}

	s.logger = s.logger.With("module", "search")

	return s
}

// Search fetches one page of the kind and keeps the records matching the filter.
func (s *Searcher) Search(ctx context.Context, req Request) (*Page, error) {
	if !slices.Contains(Kinds(), req.Kind) {
		return nil, &betterstack.UnsupportedOperationError{Resource: "search", Operation: string(req.Kind)}
	}

	if req.Kind.NeedsParent() && req.ParentID == "" {
		return &Page{Results: []Result{}}, nil
	}

	page := 1

	if req.PaginationToken != "" {
		n, err := strconv.Atoi(req.PaginationToken)
		if err != nil || n < 1 {
			return nil, &betterstack.MalformedInputError{Field: "paginationToken", Value: req.PaginationToken, Err: err}
		}

		page = n
	}

	raw, err := s.fetch(ctx, req, page)
	if err != nil {
		return nil, err
	}

	result := &Page{Results: make([]Result, 0, len(raw.Records))}
	filter := strings.ToLower(req.Filter)

	for _, record := range raw.Records {
		if r, ok := describe(req.Kind, record, filter); ok {
			result.Results = append(result.Results, r)
		}
	}

	if raw.HasNext && req.Kind != KindComments {
		result.PaginationToken = strconv.Itoa(page + 1)
	}

	return result, nil
}

func (s *Searcher) fetch(ctx context.Context, req Request, page int) (*cachedPage, error) {
	key := fmt.Sprintf("%s:%s:%s:%d", s.namespace, req.Kind, req.ParentID, page)

	if s.cache != nil {
		var cached cachedPage

		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.WarnContext(ctx, "Search cache read failed", "error", err)
		} else if found {
			return &cached, nil
		}
	}

	envelope, err := s.client.Execute(ctx, request(req, page))
	if err != nil {
		return nil, err
	}

	raw := &cachedPage{
		Records: betterstack.Normalize(envelope),
		HasNext: envelope.NextPageURL() != "",
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, raw); err != nil {
			s.logger.WarnContext(ctx, "Search cache write failed", "error", err)
		}
	}

	return raw, nil
}

func request(req Request, page int) betterstack.Request {
	query := betterstack.PaginationQuery(PerPage, page)

	switch req.Kind {
	case KindMonitors:
		return betterstack.Monitors.List(query)
	case KindMonitorGroups:
		return betterstack.MonitorGroups.List(query)
	case KindHeartbeats:
		return betterstack.Heartbeats.List(query)
	case KindHeartbeatGroups:
		return betterstack.HeartbeatGroups.List(query)
	case KindPolicies:
		return betterstack.Policies.List(query)
	case KindOnCalls:
		return betterstack.OnCalls.List(query)
	case KindTeams:
		return betterstack.Teams.List(query)
	case KindUsers:
		return betterstack.Users.List(query)
	case KindStatusPages:
		return betterstack.StatusPages.List(query)
	case KindStatusPageResources:
		return betterstack.StatusPages.ListResources(req.ParentID, query)
	case KindIncidents:
		return betterstack.Incidents.List(query)
	default:
		return betterstack.IncidentComments.List(req.ParentID)
	}
}

// describe builds the result for a record, or reports false when the record
// does not match filter.
func describe(kind Kind, record map[string]any, filter string) (Result, bool) {
	id := str(record, "id")
	matches := func(fields ...string) bool {
		if filter == "" {
			return true
		}

		for _, field := range fields {
			if strings.Contains(strings.ToLower(field), filter) {
				return true
			}
		}

		return false
	}

	switch kind {
	case KindMonitors:
		url := str(record, "url")
		name := first(str(record, "pronounceable_name"), url)

		return Result{Name: name + " (" + url + ")", Value: id, URL: url}, matches(name, url)
	case KindOnCalls:
		name := first(str(record, "name"), "Schedule #"+id)

		return Result{Name: name, Value: id}, matches(name)
	case KindTeams:
		name := first(str(record, "name"), "Team #"+id)

		return Result{Name: name, Value: id}, matches(name)
	case KindUsers:
		email := str(record, "email")
		name := first(str(record, "name"), email, "User #"+id)

		display := name
		if email != "" {
			display = name + " (" + email + ")"
		}

		return Result{Name: display, Value: id}, matches(name, email)
	case KindStatusPages:
		subdomain := str(record, "subdomain")
		name := first(str(record, "company_name"), subdomain, "Status Page #"+id)

		return Result{Name: name + " (" + subdomain + ")", Value: id}, matches(name)
	case KindStatusPageResources:
		resourceType := str(record, "resource_type")
		name := first(str(record, "public_name"), resourceType+" #"+str(record, "resource_id"))

		return Result{Name: name + " (" + resourceType + ")", Value: id}, matches(name)
	case KindIncidents:
		name := first(str(record, "name"), "Incident #"+id)

		return Result{Name: name + " (" + str(record, "status") + ")", Value: id}, matches(name)
	case KindComments:
		content := str(record, "content")

		preview := content
		if runes := []rune(content); len(runes) > commentPreviewLength {
			preview = string(runes[:commentPreviewLength]) + "..."
		}

		return Result{Name: first(preview, "Comment #"+id), Value: id}, matches(content)
	default:
		name := str(record, "name")

		return Result{Name: name, Value: id}, matches(name)
	}
}

func str(record map[string]any, key string) string {
	switch v := record[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
