package server

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"

	"bonus-requests-api/internal/config"
	"bonus-requests-api/pkg/lambda"
)

// APIGatewayHandler is the signature passed to the Lambda runtime
type APIGatewayHandler func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// NewLambdaHandler returns an API Gateway handler serving the given route
// families. The container is built on the first invocation and reused while
// the function stays warm; if the build fails the invocation gets a 500 and
// the next one tries again.
func NewLambdaHandler(load func() (*config.Config, error), families ...string) APIGatewayHandler {
	cm := lambda.NewConnectionManager(func(ctx context.Context) (*Container, error) {
		cfg, err := load()
		if err != nil {
			return nil, err
		}
		return NewContainer(ctx, cfg, families...)
	})

	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		container, err := cm.Get(ctx)
		if err != nil {
			logrus.WithError(err).WithField("families", families).Error("Failed to initialize container")
			return lambda.InternalError(), nil
		}
		return container.Router.HandleAPIGateway(ctx, event)
	}
}
