package lambda

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
)

// NewRequest wraps a raw invocation event. The event is never required to
// have any particular shape; API Gateway proxy fields are copied over when
// present.
func NewRequest(ctx context.Context, raw json.RawMessage) *Request {
	req := &Request{
		ID:  RequestID(ctx),
		Raw: raw,
	}

	var event events.APIGatewayProxyRequest
	if len(raw) > 0 && json.Unmarshal(raw, &event) == nil && event.HTTPMethod != "" {
		fromAPIGateway(req, event)
	}

	return req
}

// FromAPIGateway converts an API Gateway proxy event into a Request
func FromAPIGateway(ctx context.Context, event events.APIGatewayProxyRequest) *Request {
	req := &Request{ID: RequestID(ctx)}
	fromAPIGateway(req, event)
	if raw, err := json.Marshal(event); err == nil {
		req.Raw = raw
	}
	return req
}

func fromAPIGateway(req *Request, event events.APIGatewayProxyRequest) {
	req.Method = event.HTTPMethod
	req.Path = event.Path
	req.Headers = event.Headers
	req.QueryParams = event.QueryStringParameters
	req.PathParams = event.PathParameters
	req.Body = []byte(event.Body)
}

// ToAPIGateway converts a Response into an API Gateway proxy response
func (r *Response) ToAPIGateway() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: r.StatusCode,
		Headers:    r.Headers,
		Body:       r.Body,
	}
}

// RequestID returns the Lambda request id carried by ctx, or a new uuid when
// running outside Lambda.
func RequestID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return uuid.New().String()
}
