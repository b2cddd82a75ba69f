package betterstack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanQueryParams(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
		want   Query
	}{
		{
			name:   "keeps defined values",
			params: map[string]any{"name": "test", "limit": 10, "active": true},
			want:   Query{"name": "test", "limit": 10, "active": true},
		},
		{
			name:   "drops nil",
			params: map[string]any{"name": "test", "description": nil},
			want:   Query{"name": "test"},
		},
		{
			name:   "drops empty strings",
			params: map[string]any{"name": "test", "description": ""},
			want:   Query{"name": "test"},
		},
		{
			name:   "keeps false and zero",
			params: map[string]any{"active": false, "limit": 0},
			want:   Query{"active": false, "limit": 0},
		},
		{
			name:   "empty input",
			params: map[string]any{},
			want:   Query{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanQueryParams(tt.params))
		})
	}
}

func TestPaginationQuery(t *testing.T) {
	assert.Equal(t, Query{"per_page": 100, "page": 3}, PaginationQuery(100, 3))
	assert.Equal(t, Query{"per_page": 250, "page": 1}, PaginationQuery(500, 1))
	assert.Equal(t, Query{"per_page": 250, "page": 1}, PaginationQuery(250, 1))
	assert.Equal(t, Query{"per_page": 1, "page": 1000}, PaginationQuery(1, 1000))
	assert.Equal(t, Query{"per_page": DefaultPerPage, "page": 1}, PaginationQuery(0, 0))
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"checkFrequency":      "check_frequency",
		"requestTimeout":      "request_timeout",
		"url":                 "url",
		"already_snake":       "already_snake",
		"confirmationPeriodX": "confirmation_period_x",
		"":                    "",
	}

	for input, want := range tests {
		assert.Equal(t, want, ToSnakeCase(input), input)
	}
}

func TestConvertKeysToSnakeCase(t *testing.T) {
	got := ConvertKeysToSnakeCase(map[string]any{
		"checkFrequency":    30,
		"pronounceableName": "API",
		"paused":            false,
	})

	assert.Equal(t, map[string]any{
		"check_frequency":    30,
		"pronounceable_name": "API",
		"paused":             false,
	}, got)
}
