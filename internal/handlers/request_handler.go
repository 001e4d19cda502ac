package handlers

import (
	"context"

	"bonus-requests-api/internal/services"
	"bonus-requests-api/pkg/lambda"
)

// RequestHandler handles bonus request and request history requests
type RequestHandler struct {
	requestService services.RequestService
}

// NewRequestHandler creates a new bonus request handler
func NewRequestHandler(requestService services.RequestService) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
	}
}

// @Summary List bonus requests
// @Description Deleted requests are hidden unless status=deleted is asked for
// @Tags requests
// @Produce json
// @Param id query int false "Filter by request id"
// @Param status query string false "Filter by status"
// @Param creator_id query int false "Filter by creator worker id"
// @Param reviewer_id query int false "Filter by reviewer worker id"
// @Param payment_date query string false "Exact payment date (YYYY-MM-DD)"
// @Param payment_date_gt query string false "Payment date strictly after"
// @Param payment_date_lt query string false "Payment date on or before"
// @Success 200 {array} models.RequestDetails
// @Failure 400 {object} ErrorResponse
// @Router /requests [get]
func (h *RequestHandler) HandleList(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	requests, err := h.requestService.ListRequests(ctx, req.QueryParams)
	if err != nil {
		return nil, err
	}
	return ok(requests)
}

// @Summary Create a bonus request
// @Description The status of a new request is always created
// @Tags requests
// @Accept json
// @Produce json
// @Param request body services.CreateRequestRequest true "Bonus request"
// @Success 201 {object} models.Request
// @Failure 400 {object} ErrorResponse
// @Router /requests [post]
func (h *RequestHandler) HandleCreate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var body services.CreateRequestRequest
	if err := decodeBody(req, "request", &body); err != nil {
		return nil, err
	}

	request, err := h.requestService.CreateRequest(ctx, &body)
	if err != nil {
		return nil, err
	}
	return created(request)
}

// @Summary Get a bonus request
// @Tags requests
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} models.RequestDetails
// @Failure 400 {object} ErrorResponse
// @Router /requests/{id} [get]
func (h *RequestHandler) HandleGet(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	id, err := pathID(req, "request")
	if err != nil {
		return nil, err
	}

	request, err := h.requestService.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	return ok(request)
}

// @Summary Update a bonus request
// @Tags requests
// @Accept json
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} models.Request
// @Failure 400 {object} ErrorResponse
// @Router /requests/{id} [patch]
func (h *RequestHandler) HandleUpdate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	id, err := pathID(req, "request")
	if err != nil {
		return nil, err
	}

	request, err := h.requestService.UpdateRequest(ctx, id, req.Body)
	if err != nil {
		return nil, err
	}
	return ok(request)
}

// @Summary Delete a bonus request
// @Description Marks the request as deleted
// @Tags requests
// @Param id path int true "Request ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Router /requests/{id} [delete]
func (h *RequestHandler) HandleDelete(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	id, err := pathID(req, "request")
	if err != nil {
		return nil, err
	}

	if err := h.requestService.DeleteRequest(ctx, id); err != nil {
		return nil, err
	}
	return noContent()
}

// @Summary List the history of a bonus request
// @Tags requests
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {array} models.RequestHistory
// @Failure 400 {object} ErrorResponse
// @Router /requests/{id}/history [get]
func (h *RequestHandler) HandleListHistory(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	id, err := pathID(req, "request_history")
	if err != nil {
		return nil, err
	}

	entries, err := h.requestService.ListHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	return ok(entries)
}

// @Summary Add a history entry to a bonus request
// @Tags requests
// @Accept json
// @Produce json
// @Param id path int true "Request ID"
// @Param entry body services.CreateHistoryRequest true "History entry"
// @Success 201 {object} models.RequestHistory
// @Failure 400 {object} ErrorResponse
// @Router /requests/{id}/history [post]
func (h *RequestHandler) HandleAddHistory(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	id, err := pathID(req, "request_history")
	if err != nil {
		return nil, err
	}

	var body services.CreateHistoryRequest
	if err := decodeBody(req, "request_history", &body); err != nil {
		return nil, err
	}

	entry, err := h.requestService.AddHistory(ctx, id, &body)
	if err != nil {
		return nil, err
	}
	return created(entry)
}
