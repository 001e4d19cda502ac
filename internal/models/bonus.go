package models

import (
	"strings"
)

const (
	maxBonusTypeLength        = 20
	maxBonusDescriptionLength = 100
)

// BonusType represents a kind of bonus a worker can request
type BonusType struct {
	ID          int64   `json:"id" db:"id"`
	Type        string  `json:"type" db:"type"`
	Description *string `json:"description" db:"description"`
}

// NewBonusType creates a new bonus type. An empty description is stored as NULL.
func NewBonusType(bonusType, description string) *BonusType {
	b := &BonusType{Type: bonusType}
	b.SetDescription(description)
	return b
}

// Validate validates the bonus type data
func (b *BonusType) Validate() error {
	if err := checkRequired("type", b.Type); err != nil {
		return err
	}
	if err := checkLength("type", b.Type, maxBonusTypeLength); err != nil {
		return err
	}
	if b.Description != nil {
		if err := checkLength("description", *b.Description, maxBonusDescriptionLength); err != nil {
			return err
		}
	}
	return nil
}

// SetDescription sets the description or clears it when blank
func (b *BonusType) SetDescription(description string) {
	if strings.TrimSpace(description) == "" {
		b.Description = nil
	} else {
		b.Description = &description
	}
}

// BonusPatch holds the updatable fields of a bonus type
type BonusPatch struct {
	Type        Field[string]
	Description Field[*string]
}

// DecodeBonusPatch decodes a JSON patch document. Only "type" and
// "description" may be present.
func DecodeBonusPatch(body []byte) (BonusPatch, error) {
	var p BonusPatch
	err := decodePatch(body, map[string]patchSetter{
		"type":        setRequired(&p.Type),
		"description": setField(&p.Description),
	})
	return p, err
}

// IsEmpty reports whether the patch changes nothing
func (p BonusPatch) IsEmpty() bool {
	return !p.Type.Set && !p.Description.Set
}

// Apply copies the set fields onto b and validates the result
func (p BonusPatch) Apply(b *BonusType) error {
	if p.Type.Set {
		b.Type = p.Type.Value
	}
	if p.Description.Set {
		b.Description = p.Description.Value
	}
	return b.Validate()
}
