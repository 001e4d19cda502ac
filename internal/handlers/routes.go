package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"bonus-requests-api/internal/middleware"
	"bonus-requests-api/pkg/lambda"
)

// RouterConfig holds configuration for setting up the local server routes
type RouterConfig struct {
	Router  *Router
	Health  func(ctx context.Context) error
	Version string
}

// MiddlewareConfig holds the settings of the local server middleware chain
type MiddlewareConfig struct {
	Logger         *logrus.Logger
	RateLimitRPS   float64
	RateLimitBurst int
	MaxBodyBytes   int64
}

// SetupRoutes mounts every registered route on the gin engine. Handlers run
// through the same Router as the Lambda functions.
func SetupRoutes(engine *gin.Engine, config *RouterConfig) {
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.GET("/health", func(c *gin.Context) {
		version := config.Version
		if version == "" {
			version = "1.0.0"
		}

		if config.Health != nil {
			if err := config.Health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"service": "bonus-requests-api",
					"version": version,
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   "bonus-requests-api",
			"version":   version,
			"timestamp": time.Now().UTC(),
		})
	})

	for _, route := range config.Router.Routes() {
		engine.Handle(route.Method, ginPath(route.Resource), GinHandler(config.Router, route.Resource))
	}

	engine.NoRoute(func(c *gin.Context) {
		writeResponse(c, NotFound())
	})
}

// SetupMiddleware configures global middleware
func SetupMiddleware(engine *gin.Engine, config *MiddlewareConfig) {
	logger := config.Logger
	if logger == nil {
		logger = logrus.New()
	}

	maxBody := config.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(logger))
	engine.Use(middleware.CORS())
	engine.Use(middleware.SecurityHeaders())
	engine.Use(middleware.RequestSizeLimit(maxBody))
	engine.Use(middleware.ContentTypeValidation())
	engine.Use(middleware.RateLimiter(logger, config.RateLimitRPS, config.RateLimitBurst))
	engine.Use(middleware.StructuredLogger(logger))
	engine.Use(middleware.PerformanceMonitor(logger, time.Second))
	engine.Use(middleware.AuditLogger(logger))
}

// GinHandler adapts a gin request into a lambda.Request for resource and
// writes the router's response back
func GinHandler(router *Router, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil {
			var err error
			body, err = io.ReadAll(c.Request.Body)
			if err != nil {
				writeResponse(c, BadRequest())
				return
			}
		}

		requestID := c.GetString(middleware.RequestIDKey)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		req := &lambda.Request{
			Resource:    resource,
			Method:      c.Request.Method,
			Path:        c.Request.URL.Path,
			Headers:     singleValues(c.Request.Header),
			QueryParams: singleValues(c.Request.URL.Query()),
			Body:        body,
			PathParams:  make(map[string]string, len(c.Params)),
			RequestID:   requestID,
		}
		for _, p := range c.Params {
			req.PathParams[p.Key] = p.Value
		}

		writeResponse(c, router.Handle(c.Request.Context(), req))
	}
}

func writeResponse(c *gin.Context, resp *lambda.Response) {
	for k, v := range resp.Headers {
		c.Header(k, v)
	}
	if len(resp.Body) == 0 {
		c.Status(resp.StatusCode)
		return
	}

	contentType := resp.Headers["Content-Type"]
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(resp.StatusCode, contentType, resp.Body)
}

// ginPath turns /requests/{id}/history into /requests/:id/history
func ginPath(resource string) string {
	segments := strings.Split(resource, "/")
	for i, s := range segments {
		if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
			segments[i] = ":" + strings.TrimSuffix(strings.TrimPrefix(s, "{"), "}")
		}
	}
	return strings.Join(segments, "/")
}

// singleValues keeps the last value of each key, as API Gateway does for
// its single-value maps
func singleValues(values map[string][]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[len(v)-1]
		} else {
			out[k] = ""
		}
	}
	return out
}
