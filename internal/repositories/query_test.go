package repositories

import (
	"testing"

	"bonus-requests-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequestFilters(t *testing.T) {
	f, err := ParseRequestFilters(map[string]string{
		"id":              "4",
		"status":          "approved",
		"creator_id":      "1",
		"reviewer_id":     "2",
		"payment_date":    "2022-09-14",
		"payment_date_gt": "2022-09-01",
		"payment_date_lt": "2022-09-30",
	})
	require.NoError(t, err)

	require.NotNil(t, f.ID)
	assert.Equal(t, int64(4), *f.ID)
	require.NotNil(t, f.Status)
	assert.Equal(t, models.RequestStatusApproved, *f.Status)
	assert.Equal(t, int64(1), *f.CreatorID)
	assert.Equal(t, int64(2), *f.ReviewerID)
	assert.Equal(t, "2022-09-14", f.PaymentDate.String())
	assert.Equal(t, "2022-09-01", f.PaymentDateGT.String())
	assert.Equal(t, "2022-09-30", f.PaymentDateLT.String())
}

func TestParseRequestFilters_Empty(t *testing.T) {
	f, err := ParseRequestFilters(nil)
	require.NoError(t, err)
	assert.Equal(t, RequestFilters{}, f)

	f, err = ParseRequestFilters(map[string]string{"payment_date_gt": "", "payment_date_lt": " "})
	require.NoError(t, err)
	assert.Nil(t, f.PaymentDateGT)
	assert.Nil(t, f.PaymentDateLT)
}

func TestParseRequestFilters_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
	}{
		{"unknown key", map[string]string{"amount": "3"}},
		{"non numeric id", map[string]string{"id": "abc"}},
		{"non numeric creator", map[string]string{"creator_id": "1.5"}},
		{"bad date", map[string]string{"payment_date": "14/09/2022"}},
		{"empty exact date", map[string]string{"payment_date": ""}},
		{"bad range date", map[string]string{"payment_date_gt": "2022-13-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequestFilters(tt.params)
			assert.True(t, IsInvalidInput(err), "expected invalid input, got %v", err)
		})
	}
}

func TestParseID(t *testing.T) {
	id, err := ParseID("worker", " 12 ")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	for _, raw := range []string{"", "0", "-3", "x1"} {
		_, err := ParseID("worker", raw)
		assert.True(t, IsInvalidInput(err), "ParseID(%q) should be invalid input, got %v", raw, err)
	}
}
