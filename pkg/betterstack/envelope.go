package betterstack

import (
	"bytes"
	"encoding/json"
)

// ResourceID accepts both string and numeric identifiers and always renders
// them as a string.
type ResourceID string

func (id *ResourceID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""

		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ResourceID(s)

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return &MalformedInputError{Field: "id", Value: string(data), Err: err}
	}

	*id = ResourceID(n.String())

	return nil
}

func (id ResourceID) String() string {
	return string(id)
}

// Resource is one JSON:API resource object.
type Resource struct {
	ID            ResourceID     `json:"id"`
	Type          string         `json:"type"`
	Attributes    map[string]any `json:"attributes,omitempty"`
	Relationships map[string]any `json:"relationships,omitempty"`
}

// Links carries the JSON:API pagination links.
type Links struct {
	First string `json:"first,omitempty"`
	Last  string `json:"last,omitempty"`
	Prev  string `json:"prev,omitempty"`
	Next  string `json:"next,omitempty"`
	Self  string `json:"self,omitempty"`
}

// Pagination is the legacy pagination block some endpoints still return.
type Pagination struct {
	First string `json:"first,omitempty"`
	Last  string `json:"last,omitempty"`
	Prev  string `json:"prev,omitempty"`
	Next  string `json:"next,omitempty"`
}

// APIError is one entry of the JSON:API errors array.
type APIError struct {
	Status string `json:"status,omitempty"`
	Title  string `json:"title,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Data holds the primary data of an envelope. A single object is treated as
// a one-element list.
type Data []Resource

func (d *Data) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)

	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		*d = nil

		return nil
	case raw[0] == '[':
		var list []Resource
		if err := json.Unmarshal(raw, &list); err != nil {
			return err
		}

		*d = list

		return nil
	default:
		var single Resource
		if err := json.Unmarshal(raw, &single); err != nil {
			return err
		}

		*d = Data{single}

		return nil
	}
}

// Envelope is a decoded JSON:API response body.
type Envelope struct {
	Data       Data           `json:"data"`
	Included   []Resource     `json:"included,omitempty"`
	Links      *Links         `json:"links,omitempty"`
	Pagination *Pagination    `json:"pagination,omitempty"`
	Meta       map[string]any `json:"meta,omitempty"`
	Errors     []APIError     `json:"errors,omitempty"`
}

// NextPageURL returns links.next, falling back to pagination.next.
func (e *Envelope) NextPageURL() string {
	if e == nil {
		return ""
	}

	if e.Links != nil && e.Links.Next != "" {
		return e.Links.Next
	}

	if e.Pagination != nil && e.Pagination.Next != "" {
		return e.Pagination.Next
	}

	return ""
}

// HasNextPage reports whether the envelope references another page.
func (e *Envelope) HasNextPage() bool {
	return e.NextPageURL() != ""
}

// ErrorMessage extracts errors[0].detail, then errors[0].title.
func (e *Envelope) ErrorMessage() string {
	if e == nil || len(e.Errors) == 0 {
		return ""
	}

	if e.Errors[0].Detail != "" {
		return e.Errors[0].Detail
	}

	return e.Errors[0].Title
}

// decodeEnvelope parses a response body. Bodies that are themselves a JSON
// string are decoded twice.
func decodeEnvelope(body []byte) (*Envelope, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return &Envelope{}, nil
	}

	if body[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(body, &unquoted); err != nil {
			return nil, &MalformedInputError{Field: "body", Value: truncate(string(body), 200), Err: err}
		}

		body = bytes.TrimSpace([]byte(unquoted))
		if len(body) == 0 {
			return &Envelope{}, nil
		}
	}

	var envelope Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &MalformedInputError{Field: "body", Value: truncate(string(body), 200), Err: err}
	}

	return &envelope, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n] + "..."
}
