package sqlstore

import (
	"context"
	"testing"

	"bonus-requests-api/internal/models"
	"bonus-requests-api/internal/repositories"
)

func TestBonusRepository_CreateAndGet(t *testing.T) {
	m, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := m.Bonuses()

	for i, name := range []string{"Referral", "Overtime", "Mentoring"} {
		bonus := models.NewBonusType(name, "")
		bonus.Description = nil
		if err := repo.Create(ctx, bonus); err != nil {
			t.Fatalf("Create(%q) failed: %v", name, err)
		}
		if bonus.ID != int64(i+1) {
			t.Errorf("Expected sequential id %d, got %d", i+1, bonus.ID)
		}
	}

	retrieved, err := repo.GetByID(ctx, 2)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if retrieved.Type != "Overtime" {
		t.Errorf("Expected Overtime, got %q", retrieved.Type)
	}
	if retrieved.Description != nil {
		t.Errorf("Expected nil description, got %q", *retrieved.Description)
	}

	all, err := repo.List(ctx, nil)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 bonuses, got %d", len(all))
	}
	for i, b := range all {
		if b.ID != int64(i+1) {
			t.Errorf("Expected bonuses ordered by id, got %d at position %d", b.ID, i)
		}
	}
}

func TestBonusRepository_GetByIDNotFound(t *testing.T) {
	m, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := m.Bonuses().GetByID(context.Background(), 42)
	if !repositories.IsNotFound(err) {
		t.Errorf("Expected not found error, got %v", err)
	}

	_, err = m.Bonuses().GetByID(context.Background(), 0)
	if !repositories.IsInvalidInput(err) {
		t.Errorf("Expected invalid input for id 0, got %v", err)
	}
}

func TestBonusRepository_DuplicateType(t *testing.T) {
	m, cleanup := setupTestDB(t)
	defer cleanup()

	createTestBonus(t, m, "Referral")

	err := m.Bonuses().Create(context.Background(), models.NewBonusType("Referral", "again"))
	if !repositories.IsDuplicate(err) {
		t.Errorf("Expected duplicate error, got %v", err)
	}
	if !repositories.IsConstraint(err) {
		t.Errorf("Duplicate should also be a constraint violation, got %v", err)
	}
}

func TestBonusRepository_Update(t *testing.T) {
	m, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	bonus := createTestBonus(t, m, "Referral")

	patch, err := models.DecodeBonusPatch([]byte(`{"description": null}`))
	if err != nil {
		t.Fatalf("DecodeBonusPatch() failed: %v", err)
	}

	updated, err := m.Bonuses().Update(ctx, bonus.ID, patch)
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if updated.Type != "Referral" || updated.Description != nil {
		t.Errorf("Unexpected bonus after update: %+v", updated)
	}

	patch, err = models.DecodeBonusPatch([]byte(`{"type": "Referral XL", "description": "bigger"}`))
	if err != nil {
		t.Fatalf("DecodeBonusPatch() failed: %v", err)
	}
	if _, err := m.Bonuses().Update(ctx, bonus.ID, patch); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	retrieved, err := m.Bonuses().GetByID(ctx, bonus.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if retrieved.Type != "Referral XL" || retrieved.Description == nil || *retrieved.Description != "bigger" {
		t.Errorf("Update not persisted: %+v", retrieved)
	}

	if _, err := m.Bonuses().Update(ctx, 99, patch); !repositories.IsNotFound(err) {
		t.Errorf("Expected not found updating missing bonus, got %v", err)
	}
}

func TestBonusRepository_Delete(t *testing.T) {
	m, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	bonus := createTestBonus(t, m, "Referral")

	deleted, err := m.Bonuses().Delete(ctx, bonus.ID)
	if err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted row, got %d", deleted)
	}

	if _, err := m.Bonuses().GetByID(ctx, bonus.ID); !repositories.IsNotFound(err) {
		t.Errorf("Expected not found after delete, got %v", err)
	}
	if _, err := m.Bonuses().Delete(ctx, bonus.ID); !repositories.IsNotFound(err) {
		t.Errorf("Expected not found deleting twice, got %v", err)
	}
}
