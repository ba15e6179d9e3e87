package ports

import (
	"context"
	"encoding/json"
	"net/http"
)

// Request describes one call against the backend. Path is appended to the
// base URL as-is.
type Request struct {
	Method string
	Path   string
	Body   any
	Header http.Header
}

// Response is a successful (2xx) reply. Body is always JSON: non-JSON
// replies are wrapped as {"message": "<text>"}.
type Response struct {
	Status int
	Header http.Header
	Body   json.RawMessage
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 || v == nil {
		return nil
	}
	return json.Unmarshal(r.Body, v)
}

// Requester is the request gateway as seen by the facade.
type Requester interface {
	Send(ctx context.Context, req Request) (*Response, error)
	// Do sends in as the body and decodes the reply into out.
	Do(ctx context.Context, method, path string, in, out any) error
}
