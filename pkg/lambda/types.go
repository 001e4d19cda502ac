package lambda

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
)

// Request represents a generic HTTP request for serverless functions.
// Resource is the route template, e.g. /requests/{id}/history.
type Request struct {
	Resource    string            `json:"resource"`
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Headers     map[string]string `json:"headers"`
	QueryParams map[string]string `json:"query_params"`
	Body        []byte            `json:"body"`
	PathParams  map[string]string `json:"path_params"`
	RequestID   string            `json:"request_id"`
}

// Response represents a generic HTTP response for serverless functions
type Response struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       []byte            `json:"body"`
}

// HandlerFunc is a framework-agnostic handler interface
type HandlerFunc func(ctx context.Context, req *Request) (*Response, error)

// FromAPIGateway converts an API Gateway proxy event into a Request.
// The request id falls back to a random UUID when the event carries none.
// Base64 encoded bodies are decoded; one that fails to decode is passed on
// as is and rejected by the handler.
func FromAPIGateway(event events.APIGatewayProxyRequest) *Request {
	requestID := event.RequestContext.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	body := []byte(event.Body)
	if event.IsBase64Encoded {
		if decoded, err := base64.StdEncoding.DecodeString(event.Body); err == nil {
			body = decoded
		}
	}

	return &Request{
		Resource:    event.Resource,
		Method:      event.HTTPMethod,
		Path:        event.Path,
		Headers:     event.Headers,
		QueryParams: event.QueryStringParameters,
		Body:        body,
		PathParams:  event.PathParameters,
		RequestID:   requestID,
	}
}

// ToAPIGateway converts the response into an API Gateway proxy response
func (r *Response) ToAPIGateway() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: r.StatusCode,
		Headers:    r.Headers,
		Body:       string(r.Body),
	}
}

// PathParam returns a path parameter or the empty string
func (r *Request) PathParam(name string) string {
	if r.PathParams == nil {
		return ""
	}
	return r.PathParams[name]
}

// QueryParam returns a query parameter and whether it was present
func (r *Request) QueryParam(name string) (string, bool) {
	if r.QueryParams == nil {
		return "", false
	}
	v, ok := r.QueryParams[name]
	return v, ok
}

// InternalError is returned when the function cannot build its dependencies
func InternalError() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusInternalServerError,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       `{"message":"Internal server error"}`,
	}
}
