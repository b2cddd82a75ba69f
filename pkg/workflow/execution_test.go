package workflow

import (
	"testing"

	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecution_Parameter(t *testing.T) {
	node := &models.WorkflowNode{
		ID:     "n1",
		Type:   models.NodeTypeMonitor,
		Config: map[string]any{"operation": "getMany", "limit": 10},
	}
	items := []models.Item{
		{JSON: map[string]any{}},
		{JSON: map[string]any{}, Parameters: map[string]any{"operation": "get", "monitorId": "5"}},
	}

	execution := NewExecution(node, items)

	value, ok := execution.Parameter("operation", 0)
	require.True(t, ok)
	assert.Equal(t, "getMany", value)

	value, ok = execution.Parameter("operation", 1)
	require.True(t, ok)
	assert.Equal(t, "get", value)

	value, ok = execution.Parameter("limit", 1)
	require.True(t, ok)
	assert.Equal(t, 10, value)

	_, ok = execution.Parameter("monitorId", 0)
	assert.False(t, ok)

	_, ok = execution.Parameter("operation", 5)
	assert.True(t, ok)
}

func TestExecution_DefaultsToOneEmptyItem(t *testing.T) {
	execution := NewExecution(&models.WorkflowNode{ID: "n1"}, nil)

	require.Len(t, execution.InputItems(), 1)
	assert.Empty(t, execution.InputItems()[0].JSON)
}

func TestExecution_Credentials(t *testing.T) {
	execution := NewExecution(&models.WorkflowNode{ID: "n1"}, nil, WithAPIToken("secret"))

	credentials, err := execution.Credentials(models.CredentialBetterStackAPI)
	require.NoError(t, err)
	assert.Equal(t, "secret", credentials[models.CredentialAPIToken])

	_, err = execution.Credentials("other")
	require.Error(t, err)

	var notFound *ErrCredentialsNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestExecution_ContinueOnFail(t *testing.T) {
	node := &models.WorkflowNode{ID: "n1", ContinueOnFail: true}

	assert.True(t, NewExecution(node, nil).ContinueOnFail())
	assert.False(t, NewExecution(node, nil, WithContinueOnFail(false)).ContinueOnFail())
}
