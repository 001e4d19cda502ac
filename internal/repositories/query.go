package repositories

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"bonus-requests-api/internal/models"
)

// Query parameter names accepted by request listing
const (
	FilterID            = "id"
	FilterStatus        = "status"
	FilterCreatorID     = "creator_id"
	FilterReviewerID    = "reviewer_id"
	FilterPaymentDate   = "payment_date"
	FilterPaymentDateGT = "payment_date_gt"
	FilterPaymentDateLT = "payment_date_lt"
)

// WorkerFilters narrows a worker listing. Nil or empty fields are ignored.
type WorkerFilters struct {
	ID       *int64
	SlackID  string
	RoleName string
}

// RequestFilters narrows a request listing. All set fields are AND-composed.
type RequestFilters struct {
	ID         *int64
	Status     *models.RequestStatus
	CreatorID  *int64
	ReviewerID *int64

	// PaymentDate matches exactly
	PaymentDate *models.Date
	// PaymentDateGT matches payment_date > value
	PaymentDateGT *models.Date
	// PaymentDateLT matches payment_date <= value
	PaymentDateLT *models.Date
}

// ParseRequestFilters converts query string parameters into RequestFilters.
// Unknown keys, non-numeric ids and malformed dates are rejected with
// ErrInvalidInput. Empty range bounds are treated as absent.
func ParseRequestFilters(params map[string]string) (RequestFilters, error) {
	var f RequestFilters

	// deterministic order so the first reported error is stable
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := params[key]
		var err error

		switch key {
		case FilterID:
			f.ID, err = parseIDFilter(key, value)
		case FilterCreatorID:
			f.CreatorID, err = parseIDFilter(key, value)
		case FilterReviewerID:
			f.ReviewerID, err = parseIDFilter(key, value)
		case FilterStatus:
			status := models.RequestStatus(value)
			f.Status = &status
		case FilterPaymentDate:
			f.PaymentDate, err = parseDateFilter(key, value, false)
		case FilterPaymentDateGT:
			f.PaymentDateGT, err = parseDateFilter(key, value, true)
		case FilterPaymentDateLT:
			f.PaymentDateLT, err = parseDateFilter(key, value, true)
		default:
			err = fmt.Errorf("unknown filter %q", key)
		}

		if err != nil {
			return RequestFilters{}, InvalidInputError("list", "request", "", err)
		}
	}

	return f, nil
}

// ParseID parses a path or query id
func ParseID(entity, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, InvalidInputError("parse", entity, raw, fmt.Errorf("invalid id %q", raw))
	}
	return id, nil
}

func parseIDFilter(key, raw string) (*int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	return &id, nil
}

func parseDateFilter(key, raw string, emptyIsAbsent bool) (*models.Date, error) {
	if emptyIsAbsent && strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &d, nil
}
