// Package betterstack translates Better Stack Uptime operations into JSON:API
// calls and flattens the responses into plain records.
package betterstack

import (
	"net/http"
	"net/url"
	"reflect"
)

// APIVersion selects the backend base URL a request is sent to.
type APIVersion string

const (
	APIv2 APIVersion = "v2"
	APIv3 APIVersion = "v3"
)

// Default base URLs per API version.
const (
	DefaultBaseURLv2 = "https://uptime.betterstack.com/api/v2"
	DefaultBaseURLv3 = "https://uptime.betterstack.com/api/v3"
)

// Query holds request query parameters. A nil value means "undefined" and is
// never serialized. Slice and array values of any element type are sent as
// repeated keys.
type Query map[string]any

// Request describes one backend call. Building a Request never performs I/O.
type Request struct {
	Method     string
	Endpoint   string
	APIVersion APIVersion
	Body       map[string]any
	Query      Query
}

// Version returns the request API version, defaulting to v2.
func (r Request) Version() APIVersion {
	if r.APIVersion == "" {
		return APIv2
	}

	return r.APIVersion
}

// WithEndpoint returns a copy of the request pointing at another endpoint.
func (r Request) WithEndpoint(endpoint string) Request {
	r.Endpoint = endpoint

	return r
}

// Encode serializes the query, dropping nil values and expanding slices into
// repeated keys.
func (q Query) Encode() string {
	return q.Values().Encode()
}

// Values converts the query into url.Values.
func (q Query) Values() url.Values {
	values := url.Values{}

	for key, value := range q {
		switch v := value.(type) {
		case nil:
			continue
		case []string:
			for _, item := range v {
				values.Add(key, item)
			}
		default:
			addValue(values, key, v)
		}
	}

	return values
}

// addValue sets a scalar, or adds one entry per non-nil element of any slice
// or array.
func addValue(values url.Values, key string, value any) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		values.Set(key, formatScalar(value))

		return
	}

	for i := range rv.Len() {
		item := rv.Index(i).Interface()
		if item == nil {
			continue
		}

		values.Add(key, formatScalar(item))
	}
}

// Merge returns a new query where the keys of other override the keys of q.
func (q Query) Merge(other Query) Query {
	merged := make(Query, len(q)+len(other))

	for k, v := range q {
		merged[k] = v
	}

	for k, v := range other {
		merged[k] = v
	}

	return merged
}

func newRequest(method string, version APIVersion, endpoint string) Request {
	return Request{Method: method, Endpoint: endpoint, APIVersion: version}
}

func get(version APIVersion, endpoint string, query Query) Request {
	r := newRequest(http.MethodGet, version, endpoint)
	r.Query = query

	return r
}

func post(version APIVersion, endpoint string, body map[string]any) Request {
	r := newRequest(http.MethodPost, version, endpoint)
	r.Body = body

	return r
}

func patch(version APIVersion, endpoint string, body map[string]any) Request {
	r := newRequest(http.MethodPatch, version, endpoint)
	r.Body = body

	return r
}

func del(version APIVersion, endpoint string) Request {
	return newRequest(http.MethodDelete, version, endpoint)
}
