package main

// API Gateway (HTTP API, payload v2) entrypoint. Build with:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -tags lambda.norpc -o bootstrap ./cmd/lambda-http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"makeup-backend/internal/bootstrap"
	"makeup-backend/internal/shared/server/respond"
)

type proxy interface {
	ProxyWithContext(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)
}

type httpHandler struct {
	app *bootstrap.Lazy

	once    sync.Once
	adapter proxy
}

func (h *httpHandler) Invoke(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	app, err := h.app.Get()
	if err != nil {
		return unavailable(), nil
	}
	h.once.Do(func() { h.adapter = ginadapter.NewV2(app.Router) })
	return h.adapter.ProxyWithContext(ctx, req)
}

// unavailable mirrors the API error envelope so clients parse it the same
// way as any other failure.
func unavailable() events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(respond.ErrorResponse{Error: respond.ErrorBody{
		Code:    "bootstrap_failed",
		Message: "service unavailable",
	}})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusServiceUnavailable,
		Headers:    map[string]string{"Content-Type": "application/json", "Retry-After": "5"},
		Body:       string(body),
	}
}

func main() {
	h := &httpHandler{app: &bootstrap.Lazy{}}
	lambda.Start(h.Invoke)
}
