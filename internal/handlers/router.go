package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"

	"bonus-requests-api/internal/repositories"
	"bonus-requests-api/internal/services"
	"bonus-requests-api/pkg/lambda"
)

// Route families, one per deployed function
const (
	FamilyBonuses  = "bonuses"
	FamilyWorkers  = "workers"
	FamilyRequests = "requests"
)

// AllFamilies lists every route family
func AllFamilies() []string {
	return []string{FamilyBonuses, FamilyWorkers, FamilyRequests}
}

// Route binds a resource template and method to a handler
type Route struct {
	Resource string
	Method   string
	Handler  lambda.HandlerFunc
}

type routeKey struct {
	resource string
	method   string
}

// Router dispatches requests on (resource, method)
type Router struct {
	index  map[routeKey]int
	routes []Route
	logger *logrus.Logger
}

// NewRouter creates an empty router
func NewRouter(logger *logrus.Logger) *Router {
	if logger == nil {
		logger = logrus.New()
	}
	return &Router{
		index:  make(map[routeKey]int),
		logger: logger,
	}
}

// Register adds a route. Registering the same route twice replaces the handler.
func (r *Router) Register(resource, method string, handler lambda.HandlerFunc) {
	key := routeKey{resource: resource, method: strings.ToUpper(method)}
	if i, exists := r.index[key]; exists {
		r.routes[i].Handler = handler
		return
	}
	r.index[key] = len(r.routes)
	r.routes = append(r.routes, Route{Resource: resource, Method: key.method, Handler: handler})
}

// Routes returns the registered routes in registration order
func (r *Router) Routes() []Route {
	routes := make([]Route, len(r.routes))
	copy(routes, r.routes)
	return routes
}

// Handle dispatches req and always produces a response. Unknown routes get
// 404 and any handler error 400.
func (r *Router) Handle(ctx context.Context, req *lambda.Request) (resp *lambda.Response) {
	start := time.Now()
	fields := logrus.Fields{
		"resource":   req.Resource,
		"method":     req.Method,
		"request_id": req.RequestID,
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.WithFields(fields).WithField("panic", rec).Error("Handler panicked")
			resp = &lambda.Response{
				StatusCode: http.StatusInternalServerError,
				Headers:    jsonHeaders(),
				Body:       []byte(`{"message":"Internal server error"}`),
			}
		}
		fields["status"] = resp.StatusCode
		fields["latency"] = time.Since(start).String()
		r.logger.WithFields(fields).Info("Request handled")
	}()

	i, found := r.index[routeKey{resource: req.Resource, method: strings.ToUpper(req.Method)}]
	if !found {
		return NotFound()
	}

	result, err := r.routes[i].Handler(ctx, req)
	if err != nil {
		fields["kind"] = repositories.Kind(err)
		r.logger.WithFields(fields).WithError(err).Warn("Request failed")
		return BadRequest()
	}
	if result == nil {
		return &lambda.Response{StatusCode: http.StatusNoContent, Headers: jsonHeaders()}
	}

	return result
}

// HandleAPIGateway is the Lambda entrypoint for API Gateway proxy events
func (r *Router) HandleAPIGateway(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return r.Handle(ctx, lambda.FromAPIGateway(event)).ToAPIGateway(), nil
}

// RegisterBonusRoutes registers the /bonuses routes
func RegisterBonusRoutes(r *Router, h *BonusHandler) {
	r.Register("/bonuses", http.MethodGet, h.HandleList)
	r.Register("/bonuses", http.MethodPost, h.HandleCreate)
	r.Register("/bonuses/{id}", http.MethodGet, h.HandleGet)
	r.Register("/bonuses/{id}", http.MethodPatch, h.HandleUpdate)
	r.Register("/bonuses/{id}", http.MethodDelete, h.HandleDelete)
}

// RegisterWorkerRoutes registers the /workers routes
func RegisterWorkerRoutes(r *Router, h *WorkerHandler) {
	r.Register("/workers", http.MethodGet, h.HandleList)
	r.Register("/workers", http.MethodPost, h.HandleCreate)
	r.Register("/workers/{id}", http.MethodGet, h.HandleGet)
	r.Register("/workers/{id}", http.MethodPatch, h.HandleUpdate)
	r.Register("/workers/{id}", http.MethodDelete, h.HandleDelete)
}

// RegisterRequestRoutes registers the /requests routes including history
func RegisterRequestRoutes(r *Router, h *RequestHandler) {
	r.Register("/requests", http.MethodGet, h.HandleList)
	r.Register("/requests", http.MethodPost, h.HandleCreate)
	r.Register("/requests/{id}", http.MethodGet, h.HandleGet)
	r.Register("/requests/{id}", http.MethodPatch, h.HandleUpdate)
	r.Register("/requests/{id}", http.MethodDelete, h.HandleDelete)
	r.Register("/requests/{id}/history", http.MethodGet, h.HandleListHistory)
	r.Register("/requests/{id}/history", http.MethodPost, h.HandleAddHistory)
}

// NewServiceRouter builds a router over the services for the given route
// families, or all of them when none are named
func NewServiceRouter(svc *services.ServiceContainer, logger *logrus.Logger, families ...string) (*Router, error) {
	if svc == nil {
		return nil, fmt.Errorf("service container cannot be nil")
	}
	if len(families) == 0 {
		families = AllFamilies()
	}

	router := NewRouter(logger)
	for _, family := range families {
		switch family {
		case FamilyBonuses:
			RegisterBonusRoutes(router, NewBonusHandler(svc.BonusService))
		case FamilyWorkers:
			RegisterWorkerRoutes(router, NewWorkerHandler(svc.WorkerService))
		case FamilyRequests:
			RegisterRequestRoutes(router, NewRequestHandler(svc.RequestService))
		default:
			return nil, fmt.Errorf("unknown route family %q", family)
		}
	}

	return router, nil
}
