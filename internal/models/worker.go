package models

import (
	"fmt"
)

const (
	maxWorkerNameLength     = 50
	maxWorkerPositionLength = 100
	maxSlackIDLength        = 11
)

// DefaultRoleID is the role given to a worker created without explicit roles
const DefaultRoleID int64 = 1

// Worker represents an employee who can create or review bonus requests
type Worker struct {
	ID       int64   `json:"id" db:"id"`
	FullName string  `json:"full_name" db:"full_name"`
	Position *string `json:"position" db:"position"`
	SlackID  string  `json:"slack_id" db:"slack_id"`
}

// Role represents a named permission group
type Role struct {
	ID       int64  `json:"id" db:"id"`
	RoleName string `json:"role_name" db:"role_name"`
}

// WorkerRoleRelation links a worker to a role
type WorkerRoleRelation struct {
	ID       int64 `json:"id" db:"id"`
	WorkerID int64 `json:"worker_id" db:"worker_id"`
	RoleID   int64 `json:"role_id" db:"role_id"`
}

// WorkerWithRoles is a worker together with the names of its roles
type WorkerWithRoles struct {
	Worker
	Roles []string `json:"roles"`
}

// NewWorker creates a new worker
func NewWorker(fullName, slackID string) *Worker {
	return &Worker{FullName: fullName, SlackID: slackID}
}

// Validate validates the worker data
func (w *Worker) Validate() error {
	if err := checkRequired("full_name", w.FullName); err != nil {
		return err
	}
	if err := checkLength("full_name", w.FullName, maxWorkerNameLength); err != nil {
		return err
	}
	if err := checkRequired("slack_id", w.SlackID); err != nil {
		return err
	}
	if err := checkLength("slack_id", w.SlackID, maxSlackIDLength); err != nil {
		return err
	}
	if w.Position != nil {
		if err := checkLength("position", *w.Position, maxWorkerPositionLength); err != nil {
			return err
		}
	}
	return nil
}

// NormalizeRoleIDs returns the role ids a new worker should receive.
// Nil or empty input yields the default role; duplicates are dropped
// keeping first occurrence.
func NormalizeRoleIDs(roleIDs []int64) ([]int64, error) {
	if len(roleIDs) == 0 {
		return []int64{DefaultRoleID}, nil
	}

	seen := make(map[int64]bool, len(roleIDs))
	out := make([]int64, 0, len(roleIDs))
	for _, id := range roleIDs {
		if id <= 0 {
			return nil, &ValidationError{Field: "roles", Message: fmt.Sprintf("invalid role id %d", id), Value: id}
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}

// WorkerPatch holds the updatable fields of a worker
type WorkerPatch struct {
	FullName Field[string]
	Position Field[*string]
	SlackID  Field[string]
	Roles    Field[[]int64]
}

// DecodeWorkerPatch decodes a JSON patch document. Allowed keys are
// "full_name", "position", "slack_id" and "roles".
func DecodeWorkerPatch(body []byte) (WorkerPatch, error) {
	var p WorkerPatch
	err := decodePatch(body, map[string]patchSetter{
		"full_name": setRequired(&p.FullName),
		"position":  setField(&p.Position),
		"slack_id":  setRequired(&p.SlackID),
		"roles":     setRequired(&p.Roles),
	})
	if err != nil {
		return p, err
	}
	if p.Roles.Set && len(p.Roles.Value) == 0 {
		return p, &ValidationError{Field: "roles", Message: "a worker must keep at least one role"}
	}
	return p, nil
}

// IsEmpty reports whether the patch changes nothing
func (p WorkerPatch) IsEmpty() bool {
	return !p.FullName.Set && !p.Position.Set && !p.SlackID.Set && !p.Roles.Set
}

// HasColumnChanges reports whether the patch touches the workers row itself
func (p WorkerPatch) HasColumnChanges() bool {
	return p.FullName.Set || p.Position.Set || p.SlackID.Set
}

// Apply copies the set scalar fields onto w and validates the result.
// Roles are reconciled separately by the repository.
func (p WorkerPatch) Apply(w *Worker) error {
	if p.FullName.Set {
		w.FullName = p.FullName.Value
	}
	if p.Position.Set {
		w.Position = p.Position.Value
	}
	if p.SlackID.Set {
		w.SlackID = p.SlackID.Value
	}
	return w.Validate()
}

// RoleDiff computes which role ids must be removed and which added to turn
// current into desired. Ids present in both are left out of both results.
func RoleDiff(current, desired []int64) (remove, add []int64) {
	want := make(map[int64]bool, len(desired))
	for _, id := range desired {
		want[id] = true
	}
	have := make(map[int64]bool, len(current))
	for _, id := range current {
		have[id] = true
		if !want[id] {
			remove = append(remove, id)
		}
	}
	for _, id := range desired {
		if !have[id] {
			add = append(add, id)
			have[id] = true
		}
	}
	return remove, add
}
