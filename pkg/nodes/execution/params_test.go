package execution

import (
	"encoding/json"
	"testing"

	"github.com/dukex/operion-betterstack/pkg/betterstack"
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/dukex/operion-betterstack/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newParams(config map[string]any) Params {
	node := testutil.CreateTestNode(testutil.WithConfig(config))

	return NewParams(testutil.NewExecution(node), 0)
}

func TestParams_String(t *testing.T) {
	p := newParams(map[string]any{"name": "api", "count": float64(3), "flag": true, "bad": []any{1}})

	value, err := p.String("name")
	require.NoError(t, err)
	assert.Equal(t, "api", value)

	value, err = p.String("count")
	require.NoError(t, err)
	assert.Equal(t, "3", value)

	value, err = p.String("flag")
	require.NoError(t, err)
	assert.Equal(t, "true", value)

	_, err = p.String("missing")
	require.ErrorIs(t, err, ErrMissingParameter)

	_, err = p.String("bad")
	assert.True(t, betterstack.IsMalformedInput(err))

	assert.Equal(t, "fallback", p.StringOr("missing", "fallback"))
	assert.Equal(t, "api", p.StringOr("name", "fallback"))
}

func TestParams_Int(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    int
		wantErr bool
	}{
		{"float", float64(25), 25, false},
		{"int", 7, 7, false},
		{"string", " 42 ", 42, false},
		{"json number", json.Number("12"), 12, false},
		{"fraction", 2.5, 0, true},
		{"text", "ten", 0, true},
		{"bool", true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newParams(map[string]any{"limit": tt.value}).Int("limit", 50)
			if tt.wantErr {
				assert.True(t, betterstack.IsMalformedInput(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	got, err := newParams(map[string]any{}).Int("limit", 50)
	require.NoError(t, err)
	assert.Equal(t, 50, got)

	_, err = newParams(map[string]any{}).RequiredInt("period")
	assert.ErrorIs(t, err, ErrMissingParameter)
}

func TestParams_Bool(t *testing.T) {
	p := newParams(map[string]any{"a": true, "b": "false", "c": "maybe"})

	got, err := p.Bool("a", false)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = p.Bool("b", true)
	require.NoError(t, err)
	assert.False(t, got)

	got, err = p.Bool("missing", true)
	require.NoError(t, err)
	assert.True(t, got)

	_, err = p.Bool("c", false)
	assert.True(t, betterstack.IsMalformedInput(err))
}

func TestParams_Object(t *testing.T) {
	p := newParams(map[string]any{
		"map":    map[string]any{"a": 1},
		"json":   `{"b": 2}`,
		"blank":  "  ",
		"broken": "{",
		"number": 3,
	})

	obj, err := p.Object("map")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1}, obj)

	obj, err = p.Object("json")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"b": float64(2)}, obj)

	obj, err = p.Object("blank")
	require.NoError(t, err)
	assert.Empty(t, obj)

	obj, err = p.Object("missing")
	require.NoError(t, err)
	assert.NotNil(t, obj)

	_, err = p.Object("broken")
	assert.True(t, betterstack.IsMalformedInput(err))

	_, err = p.Object("number")
	assert.True(t, betterstack.IsMalformedInput(err))
}

func TestParams_ItemOverridesConfig(t *testing.T) {
	node := testutil.CreateTestNode(testutil.WithConfig(map[string]any{"monitorId": "1"}))
	host := testutil.NewExecution(node,
		models.Item{JSON: map[string]any{}},
		models.Item{JSON: map[string]any{}, Parameters: map[string]any{"monitorId": map[string]any{"mode": "list", "value": "2"}}},
	)

	first, err := NewParams(host, 0).Locator("monitorId")
	require.NoError(t, err)
	assert.Equal(t, "1", first)

	second, err := NewParams(host, 1).Locator("monitorId")
	require.NoError(t, err)
	assert.Equal(t, "2", second)
	assert.Equal(t, 1, NewParams(host, 1).Index())
}

func TestParams_LocatorEmpty(t *testing.T) {
	_, err := newParams(map[string]any{"monitorId": map[string]any{"mode": "list", "value": ""}}).Locator("monitorId")
	assert.ErrorIs(t, err, ErrMissingParameter)
}
