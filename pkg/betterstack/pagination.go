package betterstack

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// ExtractEndpointFromURL returns the path of fullURL with the /api/<version>
// prefix removed. The query string is not part of the result.
func ExtractEndpointFromURL(fullURL string, version APIVersion) (string, error) {
	parsed, err := url.Parse(fullURL)
	if err != nil {
		return "", &MalformedInputError{Field: "next", Value: fullURL, Err: err}
	}

	return strings.Replace(parsed.Path, "/api/"+string(version), "", 1), nil
}

// FetchAll follows next links until the backend stops returning one and
// returns every resource in backend order. Any page failure discards what was
// already fetched.
func (c *Client) FetchAll(ctx context.Context, req Request) ([]Resource, error) {
	var items []Resource

	current := req

	for page := 1; ; page++ {
		envelope, err := c.Execute(ctx, current)
		if err != nil {
			return nil, err
		}

		items = append(items, envelope.Data...)

		next := envelope.NextPageURL()
		if next == "" {
			break
		}

		if c.maxPages > 0 && page >= c.maxPages {
			return nil, fmt.Errorf("%w: stopped after %d pages of %s", ErrPageLimitExceeded, page, req.Endpoint)
		}

		current, err = c.nextPageRequest(req, next)
		if err != nil {
			return nil, err
		}

		c.logger.DebugContext(ctx, "Following next page", "endpoint", current.Endpoint, "page", page+1)
	}

	if items == nil {
		items = []Resource{}
	}

	return items, nil
}

// nextPageRequest derives the request for a next link. The endpoint is the
// link path relative to the configured base URL; the link query overrides the
// original query.
func (c *Client) nextPageRequest(original Request, next string) (Request, error) {
	parsed, err := url.Parse(next)
	if err != nil {
		return Request{}, &MalformedInputError{Field: "next", Value: next, Err: err}
	}

	endpoint := parsed.Path
	basePath := ""

	if base, err := url.Parse(c.BaseURL(original.Version())); err == nil {
		basePath = strings.TrimRight(base.Path, "/")
	}

	if basePath != "" && strings.HasPrefix(endpoint, basePath) {
		endpoint = strings.TrimPrefix(endpoint, basePath)
	} else {
		endpoint = strings.Replace(endpoint, "/api/"+string(original.Version()), "", 1)
	}

	linkQuery := Query{}

	for key, values := range parsed.Query() {
		if len(values) == 1 {
			linkQuery[key] = values[0]
		} else {
			linkQuery[key] = values
		}
	}

	nextReq := original.WithEndpoint(endpoint)
	nextReq.Query = original.Query.Merge(linkQuery)

	return nextReq, nil
}
