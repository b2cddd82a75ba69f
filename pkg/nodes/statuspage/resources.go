package statuspage

import (
	"context"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/nodes/execution"
)

func resourceIDs(p execution.Params) (string, string, error) {
	statusPageID, err := p.Locator("statusPageId")
	if err != nil {
		return "", "", err
	}

	resourceID, err := p.Locator("resourceId")
	if err != nil {
		return "", "", err
	}

	return statusPageID, resourceID, nil
}

func getManyResources(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	statusPageID, err := p.Locator("statusPageId")
	if err != nil {
		return nil, err
	}

	opts, err := execution.ListOptionsFrom(p)
	if err != nil {
		return nil, err
	}

	return execution.List(ctx, client, opts, func(query betterstack.Query) betterstack.Request {
		return betterstack.StatusPages.ListResources(statusPageID, query)
	}, nil)
}

func getResource(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	statusPageID, resourceID, err := resourceIDs(p)
	if err != nil {
		return nil, err
	}

	return execution.Records(ctx, client, betterstack.StatusPages.GetResource(statusPageID, resourceID))
}

func createResource(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	statusPageID, err := p.Locator("statusPageId")
	if err != nil {
		return nil, err
	}

	resourceType, err := p.String("resourceType")
	if err != nil {
		return nil, err
	}

	// the monitor or heartbeat shown by the new resource
	resourceID, err := p.Locator("resourceIdForCreate")
	if err != nil {
		return nil, err
	}

	fields, err := fieldsBody(p, "resourceFields")
	if err != nil {
		return nil, err
	}

	body := execution.MergeBody(map[string]any{
		"resource_type": resourceType,
		"resource_id":   resourceID,
	}, fields)

	return execution.Records(ctx, client, betterstack.StatusPages.CreateResource(statusPageID, body))
}

func updateResource(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	statusPageID, resourceID, err := resourceIDs(p)
	if err != nil {
		return nil, err
	}

	body, err := fieldsBody(p, "resourceFields")
	if err != nil {
		return nil, err
	}

	return execution.Records(ctx, client, betterstack.StatusPages.UpdateResource(statusPageID, resourceID, body))
}

func deleteResource(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	statusPageID, resourceID, err := resourceIDs(p)
	if err != nil {
		return nil, err
	}

	result := map[string]any{"success": true, "statusPageId": statusPageID, "resourceId": resourceID}

	return execution.Delete(ctx, client, betterstack.StatusPages.DeleteResource(statusPageID, resourceID), result)
}
