package lambda

import "encoding/json"

// Request represents a generic invocation for serverless functions. Raw holds
// the event exactly as delivered; the other fields are filled in when the
// event is an API Gateway proxy request.
type Request struct {
	ID          string            `json:"id"`
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Headers     map[string]string `json:"headers"`
	QueryParams map[string]string `json:"query_params"`
	PathParams  map[string]string `json:"path_params"`
	Body        []byte            `json:"body"`
	Raw         json.RawMessage   `json:"raw,omitempty"`
}

// Response represents a generic HTTP response for serverless functions. Its
// JSON form is the {statusCode, headers, body} shape Lambda proxies expect.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body"`
}
