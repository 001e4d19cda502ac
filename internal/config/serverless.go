package config

import (
	"os"
)

// ServerlessConfig holds serverless-specific configuration
type ServerlessConfig struct {
	IsLambda     bool
	FunctionName string
	Region       string
	Stage        string
}

// DetectServerless inspects the Lambda runtime environment variables
func DetectServerless() *ServerlessConfig {
	return &ServerlessConfig{
		IsLambda:     isRunningInLambda(),
		FunctionName: os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
		Region:       os.Getenv("AWS_REGION"),
		Stage:        GetEnv("STAGE", "dev"),
	}
}

// isRunningInLambda detects if the application is running in AWS Lambda
func isRunningInLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// DeploymentMode returns "serverless" inside Lambda and "server" otherwise
func (c *Config) DeploymentMode() string {
	if c.Serverless != nil && c.Serverless.IsLambda {
		return "serverless"
	}
	return "server"
}

// AdaptConfigForServerless modifies configuration for serverless deployment.
// Logs become JSON for CloudWatch, pools shrink to what one invocation needs
// and schema migrations are left to the migrate tool unless forced.
func AdaptConfigForServerless(config *Config) *Config {
	if config.Serverless == nil || !config.Serverless.IsLambda {
		return config
	}

	config.Log.Format = "json"

	if config.Database.MaxOpenConns > 2 {
		config.Database.MaxOpenConns = 2
	}
	if config.Database.MaxIdleConns > config.Database.MaxOpenConns {
		config.Database.MaxIdleConns = config.Database.MaxOpenConns
	}

	if !config.Database.AutoMigrateSet {
		config.Database.AutoMigrate = false
	}

	return config
}
