package incident

import (
	"context"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/nodes/execution"
)

func commentIDs(p execution.Params) (string, string, error) {
	incidentID, err := p.Locator("incidentId")
	if err != nil {
		return "", "", err
	}

	commentID, err := p.Locator("commentId")
	if err != nil {
		return "", "", err
	}

	return incidentID, commentID, nil
}

func getComments(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	incidentID, err := p.Locator("incidentId")
	if err != nil {
		return nil, err
	}

	return execution.Records(ctx, client, betterstack.IncidentComments.List(incidentID))
}

func getComment(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	incidentID, commentID, err := commentIDs(p)
	if err != nil {
		return nil, err
	}

	return execution.Records(ctx, client, betterstack.IncidentComments.Get(incidentID, commentID))
}

func createComment(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	incidentID, err := p.Locator("incidentId")
	if err != nil {
		return nil, err
	}

	content, err := p.String("content")
	if err != nil {
		return nil, err
	}

	req := betterstack.IncidentComments.Create(incidentID, map[string]any{"content": content})

	return execution.Records(ctx, client, req)
}

func updateComment(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	incidentID, commentID, err := commentIDs(p)
	if err != nil {
		return nil, err
	}

	content, err := p.String("content")
	if err != nil {
		return nil, err
	}

	req := betterstack.IncidentComments.Update(incidentID, commentID, map[string]any{"content": content})

	return execution.Records(ctx, client, req)
}

func deleteComment(ctx context.Context, client *betterstack.Client, p execution.Params) ([]map[string]any, error) {
	incidentID, commentID, err := commentIDs(p)
	if err != nil {
		return nil, err
	}

	result := map[string]any{"success": true, "incidentId": incidentID, "commentId": commentID}

	return execution.Delete(ctx, client, betterstack.IncidentComments.Delete(incidentID, commentID), result)
}
