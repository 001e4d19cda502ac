package models

import (
	"fmt"
	"time"
)

const (
	maxHistoryChangesLength = 300
	maxHistoryEditorLength  = 50
)

// RequestStatus represents the lifecycle state of a bonus request
type RequestStatus string

const (
	RequestStatusCreated  RequestStatus = "created"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusDenied   RequestStatus = "denied"
	RequestStatusDeleted  RequestStatus = "deleted"
)

// DefaultPaymentAmount is stored when a request is created without an amount
const DefaultPaymentAmount int64 = 1

// DefaultHistoryChanges is stored when a history entry has no change text
const DefaultHistoryChanges = "created"

// IsValid checks if the request status is valid
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusCreated, RequestStatusApproved, RequestStatusDenied, RequestStatusDeleted:
		return true
	default:
		return false
	}
}

// Request represents a bonus request raised by a creator for a reviewer
type Request struct {
	ID            int64         `json:"id" db:"id"`
	Status        RequestStatus `json:"status" db:"status"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     *time.Time    `json:"updated_at" db:"updated_at"`
	PaymentDate   *Date         `json:"payment_date" db:"payment_date"`
	PaymentAmount int64         `json:"payment_amount" db:"payment_amount"`
	Description   *string       `json:"description" db:"description"`
	Creator       *int64        `json:"creator" db:"creator"`
	Reviewer      *int64        `json:"reviewer" db:"reviewer"`
	BonusType     *int64        `json:"bonus_type" db:"bonus_type"`
}

// RequestDetails is a request joined with its bonus type and both workers
type RequestDetails struct {
	Request
	BonusName       string `json:"bonus_name" db:"bonus_name"`
	CreatorName     string `json:"creator_name" db:"creator_name"`
	CreatorSlackID  string `json:"creator_slack_id" db:"creator_slack_id"`
	ReviewerName    string `json:"reviewer_name" db:"reviewer_name"`
	ReviewerSlackID string `json:"reviewer_slack_id" db:"reviewer_slack_id"`
}

// NewRequest creates a request in the created state
func NewRequest(creator, reviewer, bonusType int64) *Request {
	return &Request{
		Status:        RequestStatusCreated,
		PaymentAmount: DefaultPaymentAmount,
		Creator:       int64Ptr(creator),
		Reviewer:      int64Ptr(reviewer),
		BonusType:     int64Ptr(bonusType),
		CreatedAt:     time.Now().UTC(),
	}
}

// ApplyDefaults fills status, amount and creation time when unset
func (r *Request) ApplyDefaults() {
	if r.Status == "" {
		r.Status = RequestStatusCreated
	}
	if r.PaymentAmount == 0 {
		r.PaymentAmount = DefaultPaymentAmount
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
}

// Validate validates the request data
func (r *Request) Validate() error {
	if !r.Status.IsValid() {
		return &ValidationError{Field: "status", Message: "invalid request status", Value: r.Status}
	}
	if r.Creator == nil {
		return &ValidationError{Field: "creator", Message: "is required"}
	}
	if r.Reviewer == nil {
		return &ValidationError{Field: "reviewer", Message: "is required"}
	}
	if r.BonusType == nil {
		return &ValidationError{Field: "bonus_type", Message: "is required"}
	}
	return nil
}

// IsDeleted reports whether the request has been soft deleted
func (r *Request) IsDeleted() bool {
	return r.Status == RequestStatusDeleted
}

// RequestPatch holds the updatable fields of a request
type RequestPatch struct {
	Status        Field[RequestStatus]
	PaymentDate   Field[*Date]
	PaymentAmount Field[int64]
	Description   Field[*string]
	Creator       Field[int64]
	Reviewer      Field[int64]
	BonusType     Field[int64]
}

// DecodeRequestPatch decodes a JSON patch document into a RequestPatch.
// The id and timestamps are not updatable.
func DecodeRequestPatch(body []byte) (RequestPatch, error) {
	var p RequestPatch
	err := decodePatch(body, map[string]patchSetter{
		"status":         setRequired(&p.Status),
		"payment_date":   setField(&p.PaymentDate),
		"payment_amount": setRequired(&p.PaymentAmount),
		"description":    setField(&p.Description),
		"creator":        setRequired(&p.Creator),
		"reviewer":       setRequired(&p.Reviewer),
		"bonus_type":     setRequired(&p.BonusType),
	})
	if err != nil {
		return p, err
	}
	if p.Status.Set && !p.Status.Value.IsValid() {
		return p, &ValidationError{Field: "status", Message: "invalid request status", Value: p.Status.Value}
	}
	return p, nil
}

// IsEmpty reports whether the patch changes nothing
func (p RequestPatch) IsEmpty() bool {
	return !p.Status.Set && !p.PaymentDate.Set && !p.PaymentAmount.Set &&
		!p.Description.Set && !p.Creator.Set && !p.Reviewer.Set && !p.BonusType.Set
}

// Apply copies the set fields onto r
func (p RequestPatch) Apply(r *Request) {
	if p.Status.Set {
		r.Status = p.Status.Value
	}
	if p.PaymentDate.Set {
		r.PaymentDate = p.PaymentDate.Value
	}
	if p.PaymentAmount.Set {
		r.PaymentAmount = p.PaymentAmount.Value
	}
	if p.Description.Set {
		r.Description = p.Description.Value
	}
	if p.Creator.Set {
		r.Creator = int64Ptr(p.Creator.Value)
	}
	if p.Reviewer.Set {
		r.Reviewer = int64Ptr(p.Reviewer.Value)
	}
	if p.BonusType.Set {
		r.BonusType = int64Ptr(p.BonusType.Value)
	}
}

// RequestHistory records a change made to a request
type RequestHistory struct {
	ID        int64     `json:"id" db:"id"`
	Changes   string    `json:"changes" db:"changes"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	Editor    string    `json:"editor" db:"editor"`
	RequestID int64     `json:"request_id" db:"request_id"`
}

// NewRequestHistory creates a history entry for a request
func NewRequestHistory(requestID int64, editor, changes string) *RequestHistory {
	h := &RequestHistory{RequestID: requestID, Editor: editor, Changes: changes}
	h.ApplyDefaults()
	return h
}

// ApplyDefaults fills change text and timestamp when unset
func (h *RequestHistory) ApplyDefaults() {
	if h.Changes == "" {
		h.Changes = DefaultHistoryChanges
	}
	if h.Timestamp.IsZero() {
		h.Timestamp = time.Now().UTC()
	}
}

// Validate validates the history entry
func (h *RequestHistory) Validate() error {
	if h.RequestID <= 0 {
		return &ValidationError{Field: "request_id", Message: fmt.Sprintf("invalid request id %d", h.RequestID)}
	}
	if err := checkRequired("editor", h.Editor); err != nil {
		return err
	}
	if err := checkLength("editor", h.Editor, maxHistoryEditorLength); err != nil {
		return err
	}
	return checkLength("changes", h.Changes, maxHistoryChangesLength)
}
