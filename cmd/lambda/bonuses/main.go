package main

import (
	"bonus-requests-api/internal/config"
	"bonus-requests-api/internal/handlers"
	"bonus-requests-api/pkg/server"

	awslambda "github.com/aws/aws-lambda-go/lambda"
)

func main() {
	awslambda.Start(server.NewLambdaHandler(config.Load, handlers.FamilyBonuses))
}
