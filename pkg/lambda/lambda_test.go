package lambda

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResource struct {
	closed int
}

func (f *fakeResource) Close() error {
	f.closed++
	return nil
}

func TestConnectionManager_RetriesFailedBuild(t *testing.T) {
	attempts := 0
	cm := NewConnectionManager(func(ctx context.Context) (*fakeResource, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("database unavailable")
		}
		return &fakeResource{}, nil
	})

	failed, err := cm.Get(context.Background())
	require.Error(t, err)
	assert.Nil(t, failed)

	first, err := cm.Get(context.Background())
	require.NoError(t, err)

	second, err := cm.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 2, attempts)
}

func TestConnectionManager_Cleanup(t *testing.T) {
	builds := 0
	cm := NewConnectionManager(func(ctx context.Context) (*fakeResource, error) {
		builds++
		return &fakeResource{}, nil
	})

	require.NoError(t, cm.Cleanup())

	first, err := cm.Get(context.Background())
	require.NoError(t, err)
	require.NoError(t, cm.Cleanup())
	assert.Equal(t, 1, first.closed)
	require.NoError(t, cm.Cleanup())
	assert.Equal(t, 1, first.closed)

	second, err := cm.Get(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, 2, builds)
}

func TestFromAPIGateway(t *testing.T) {
	event := events.APIGatewayProxyRequest{
		Resource:              "/requests/{id}/history",
		Path:                  "/requests/7/history",
		HTTPMethod:            http.MethodPost,
		PathParameters:        map[string]string{"id": "7"},
		QueryStringParameters: map[string]string{"status": "created"},
		Body:                  `{"editor":"U001"}`,
	}
	event.RequestContext.RequestID = "gw-123"

	req := FromAPIGateway(event)
	assert.Equal(t, "/requests/{id}/history", req.Resource)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "7", req.PathParam("id"))
	assert.Equal(t, "gw-123", req.RequestID)
	assert.Equal(t, []byte(`{"editor":"U001"}`), req.Body)

	status, found := req.QueryParam("status")
	assert.True(t, found)
	assert.Equal(t, "created", status)
	_, found = req.QueryParam("role")
	assert.False(t, found)

	event.RequestContext.RequestID = ""
	assert.NotEmpty(t, FromAPIGateway(event).RequestID)
}

func TestFromAPIGateway_Base64Body(t *testing.T) {
	event := events.APIGatewayProxyRequest{
		Resource:        "/bonuses",
		HTTPMethod:      http.MethodPost,
		Body:            base64.StdEncoding.EncodeToString([]byte(`{"type":"referral"}`)),
		IsBase64Encoded: true,
	}
	assert.Equal(t, []byte(`{"type":"referral"}`), FromAPIGateway(event).Body)

	event.Body = "not base64!"
	assert.Equal(t, []byte("not base64!"), FromAPIGateway(event).Body)

	event.IsBase64Encoded = false
	event.Body = "eyJ0eXBlIjoicmVmZXJyYWwifQ=="
	assert.Equal(t, []byte("eyJ0eXBlIjoicmVmZXJyYWwifQ=="), FromAPIGateway(event).Body)
}

func TestRequestAccessors_NilMaps(t *testing.T) {
	req := &Request{}
	assert.Equal(t, "", req.PathParam("id"))
	_, found := req.QueryParam("slack_id")
	assert.False(t, found)
}

func TestResponseToAPIGateway(t *testing.T) {
	resp := &Response{
		StatusCode: http.StatusCreated,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       []byte(`{"id":1}`),
	}

	out := resp.ToAPIGateway()
	assert.Equal(t, http.StatusCreated, out.StatusCode)
	assert.Equal(t, `{"id":1}`, out.Body)
	assert.Equal(t, "application/json", out.Headers["Content-Type"])

	internal := InternalError()
	assert.Equal(t, http.StatusInternalServerError, internal.StatusCode)
}
