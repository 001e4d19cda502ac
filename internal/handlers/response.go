package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"bonus-requests-api/internal/repositories"
	"bonus-requests-api/pkg/lambda"
)

// ErrorResponse is the body of every failed response
type ErrorResponse struct {
	Message string `json:"message"`
}

func jsonHeaders() map[string]string {
	return map[string]string{"Content-Type": "application/json"}
}

// jsonResponse encodes v as the response body
func jsonResponse(status int, v interface{}) (*lambda.Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	return &lambda.Response{StatusCode: status, Headers: jsonHeaders(), Body: body}, nil
}

func ok(v interface{}) (*lambda.Response, error) {
	return jsonResponse(http.StatusOK, v)
}

func created(v interface{}) (*lambda.Response, error) {
	return jsonResponse(http.StatusCreated, v)
}

func noContent() (*lambda.Response, error) {
	return &lambda.Response{StatusCode: http.StatusNoContent, Headers: jsonHeaders()}, nil
}

// BadRequest is returned for any failed operation
func BadRequest() *lambda.Response {
	return &lambda.Response{
		StatusCode: http.StatusBadRequest,
		Headers:    jsonHeaders(),
		Body:       []byte(`{"message":"Bad Request"}`),
	}
}

// NotFound is returned for routes no handler is registered for
func NotFound() *lambda.Response {
	return &lambda.Response{
		StatusCode: http.StatusNotFound,
		Headers:    jsonHeaders(),
		Body:       []byte(`{"message":"Not found"}`),
	}
}

// pathID parses the {id} path parameter
func pathID(req *lambda.Request, entity string) (int64, error) {
	return repositories.ParseID(entity, req.PathParam("id"))
}

// decodeBody decodes a JSON create body into dst. Unknown fields and an
// empty body are rejected.
func decodeBody(req *lambda.Request, entity string, dst interface{}) error {
	body := bytes.TrimSpace(req.Body)
	if len(body) == 0 {
		return repositories.InvalidInputError("decode", entity, "", errors.New("request body is required"))
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return repositories.InvalidInputError("decode", entity, "", fmt.Errorf("invalid request body: %w", err))
	}
	if dec.More() {
		return repositories.InvalidInputError("decode", entity, "", errors.New("request body must hold a single JSON object"))
	}

	return nil
}
