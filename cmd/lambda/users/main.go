package main

import (
	"context"
	"encoding/json"

	"users-function/internal/config"
	"users-function/pkg/lambda"
	"users-function/pkg/server"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
)

var container *server.Container

func init() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	container, err = server.NewContainer(cfg)
	if err != nil {
		panic("Failed to initialize container: " + err.Error())
	}
}

// handler accepts any event shape. Failures are reported in the response,
// never as an invocation error.
func handler(ctx context.Context, event json.RawMessage) (events.APIGatewayProxyResponse, error) {
	req := lambda.NewRequest(ctx, event)
	resp := container.UserHandler.Handle(ctx, req)
	return resp.ToAPIGateway(), nil
}

func main() {
	awslambda.Start(handler)
}
