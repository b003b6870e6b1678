package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"makeup-backend/internal/bootstrap"
	"makeup-backend/internal/shared/config"
	"makeup-backend/internal/shared/server/respond"
)

func TestInvokeReportsBootstrapFailure(t *testing.T) {
	h := &httpHandler{app: &bootstrap.Lazy{Load: func() config.Config {
		return config.Config{Env: "production"}
	}}}

	resp, err := h.Invoke(context.Background(), events.APIGatewayV2HTTPRequest{RawPath: "/api/v1/health"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body respond.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Equal(t, "bootstrap_failed", body.Error.Code)
}

type fakeProxy struct{ calls int }

func (f *fakeProxy) ProxyWithContext(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	f.calls++
	if req.RawPath == "" {
		return events.APIGatewayV2HTTPResponse{}, errors.New("no path")
	}
	return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusOK}, nil
}

func TestInvokeUsesAdapterOnceBuilt(t *testing.T) {
	fp := &fakeProxy{}
	h := &httpHandler{app: &bootstrap.Lazy{Load: func() config.Config {
		return config.Config{Env: "dev", AnalyzerProvider: "mock", LocalStoreDir: t.TempDir()}
	}}}
	h.once.Do(func() { h.adapter = fp })

	for range 2 {
		resp, err := h.Invoke(context.Background(), events.APIGatewayV2HTTPRequest{RawPath: "/api/v1/health"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	assert.Equal(t, 2, fp.calls)
}
