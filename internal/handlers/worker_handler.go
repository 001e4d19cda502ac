package handlers

import (
	"context"

	"bonus-requests-api/internal/services"
	"bonus-requests-api/pkg/lambda"
)

// WorkerHandler handles worker requests
type WorkerHandler struct {
	workerService services.WorkerService
}

// NewWorkerHandler creates a new worker handler
func NewWorkerHandler(workerService services.WorkerService) *WorkerHandler {
	return &WorkerHandler{
		workerService: workerService,
	}
}

// HandleList lists workers. A slack_id query parameter returns the single
// matching worker instead of a list; role filters the list by role name.
//
// @Summary List workers
// @Tags workers
// @Produce json
// @Param slack_id query string false "Return the worker with this Slack id"
// @Param role query string false "Filter by role name"
// @Success 200 {array} models.WorkerWithRoles
// @Failure 400 {object} ErrorResponse
// @Router /workers [get]
func (h *WorkerHandler) HandleList(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	if slackID, found := req.QueryParam("slack_id"); found {
		worker, err := h.workerService.GetWorkerBySlackID(ctx, slackID)
		if err != nil {
			return nil, err
		}
		return ok(worker)
	}

	role, _ := req.QueryParam("role")
	workers, err := h.workerService.ListWorkers(ctx, role)
	if err != nil {
		return nil, err
	}
	return ok(workers)
}

// @Summary Create a worker
// @Description Roles default to worker when omitted
// @Tags workers
// @Accept json
// @Produce json
// @Param worker body services.CreateWorkerRequest true "Worker"
// @Success 201 {object} models.WorkerWithRoles
// @Failure 400 {object} ErrorResponse
// @Router /workers [post]
func (h *WorkerHandler) HandleCreate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var body services.CreateWorkerRequest
	if err := decodeBody(req, "worker", &body); err != nil {
		return nil, err
	}

	worker, err := h.workerService.CreateWorker(ctx, &body)
	if err != nil {
		return nil, err
	}
	return created(worker)
}

// @Summary Get a worker
// @Tags workers
// @Produce json
// @Param id path int true "Worker ID"
// @Success 200 {object} models.WorkerWithRoles
// @Failure 400 {object} ErrorResponse
// @Router /workers/{id} [get]
func (h *WorkerHandler) HandleGet(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	id, err := pathID(req, "worker")
	if err != nil {
		return nil, err
	}

	worker, err := h.workerService.GetWorker(ctx, id)
	if err != nil {
		return nil, err
	}
	return ok(worker)
}

// @Summary Update a worker
// @Description A roles array replaces the worker's role set
// @Tags workers
// @Accept json
// @Produce json
// @Param id path int true "Worker ID"
// @Success 200 {object} models.WorkerWithRoles
// @Failure 400 {object} ErrorResponse
// @Router /workers/{id} [patch]
func (h *WorkerHandler) HandleUpdate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	id, err := pathID(req, "worker")
	if err != nil {
		return nil, err
	}

	worker, err := h.workerService.UpdateWorker(ctx, id, req.Body)
	if err != nil {
		return nil, err
	}
	return ok(worker)
}

// @Summary Delete a worker
// @Tags workers
// @Param id path int true "Worker ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Router /workers/{id} [delete]
func (h *WorkerHandler) HandleDelete(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	id, err := pathID(req, "worker")
	if err != nil {
		return nil, err
	}

	if err := h.workerService.DeleteWorker(ctx, id); err != nil {
		return nil, err
	}
	return noContent()
}
