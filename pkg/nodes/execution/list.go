package execution

import (
	"context"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
)

// DefaultLimit is the record limit used when returnAll is off and no limit is set.
const DefaultLimit = 50

// ListOptions selects between fetching every page and one limited page.
type ListOptions struct {
	ReturnAll bool
	Limit     int
}

// ListOptionsFrom reads the returnAll and limit parameters.
func ListOptionsFrom(p Params) (ListOptions, error) {
	returnAll, err := p.Bool("returnAll", false)
	if err != nil {
		return ListOptions{}, err
	}

	limit, err := p.Int("limit", DefaultLimit)
	if err != nil {
		return ListOptions{}, err
	}

	return ListOptions{ReturnAll: returnAll, Limit: limit}, nil
}

// List runs a collection request. With ReturnAll every page is fetched;
// otherwise one page of min(limit, 250) records is requested and truncated
// to limit. A non-positive limit leaves the page size to the backend.
func List(ctx context.Context, client *betterstack.Client, opts ListOptions, build func(betterstack.Query) betterstack.Request, query betterstack.Query) ([]map[string]any, error) {
	if query == nil {
		query = betterstack.Query{}
	}

	if opts.ReturnAll {
		resources, err := client.FetchAll(ctx, build(query))
		if err != nil {
			return nil, err
		}

		return betterstack.FlattenAll(resources), nil
	}

	paged := query
	if opts.Limit > 0 {
		paged = query.Merge(betterstack.Query{"per_page": min(opts.Limit, betterstack.MaxPerPage)})
	}

	envelope, err := client.Execute(ctx, build(paged))
	if err != nil {
		return nil, err
	}

	return betterstack.Limit(betterstack.Normalize(envelope), opts.Limit), nil
}

// Records executes a request and flattens its primary data.
func Records(ctx context.Context, client *betterstack.Client, req betterstack.Request) ([]map[string]any, error) {
	envelope, err := client.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	return betterstack.Normalize(envelope), nil
}

// Delete executes a delete request and returns result as the only record.
func Delete(ctx context.Context, client *betterstack.Client, req betterstack.Request, result map[string]any) ([]map[string]any, error) {
	if err := client.ExecuteDiscardingBody(ctx, req); err != nil {
		return nil, err
	}

	return []map[string]any{result}, nil
}

// DeleteResult is the record emitted for a deleted resource.
func DeleteResult(id string) map[string]any {
	return map[string]any{"success": true, "id": id}
}

// Transition executes a state transition. The backend resource is returned
// when present, otherwise a synthetic {success, id, action} record.
func Transition(ctx context.Context, client *betterstack.Client, req betterstack.Request, id, action string) ([]map[string]any, error) {
	records, err := Records(ctx, client, req)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return []map[string]any{{"success": true, "id": id, "action": action}}, nil
	}

	return records, nil
}
