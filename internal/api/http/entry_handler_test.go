package http

import (
	"net/http/httptest"
	"testing"
	"time"

	"parish-ledger-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryFilterFromQuery(t *testing.T) {
	t.Run("ParsesAllFields", func(t *testing.T) {
		r := httptest.NewRequest("GET",
			"/api/v1/entries?kind=income&status=pending&parish_id=10&fund_id=2&fiscal_year=2024&fiscal_period=4&page=2&page_size=50&date_from=2024-04-01", nil)

		filter, err := entryFilterFromQuery(r)
		require.NoError(t, err)
		assert.Equal(t, domain.EntryKindIncome, filter.Kind)
		assert.Equal(t, domain.EntryStatusPending, filter.Status)
		assert.Equal(t, int32(10), filter.ParishID)
		assert.Equal(t, int32(2), filter.FundID)
		assert.Equal(t, 2024, filter.FiscalYear)
		assert.Equal(t, 4, filter.FiscalPeriod)
		assert.Equal(t, int32(2), filter.Page)
		assert.Equal(t, int32(50), filter.PageSize)
		require.NotNil(t, filter.DateFrom)
		assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), *filter.DateFrom)
	})

	t.Run("MalformedNumericIsRejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/v1/entries?parish_id=abc", nil)

		_, err := entryFilterFromQuery(r)
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "parish_id", ve.Field)
	})

	t.Run("MalformedDateIsRejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/v1/entries?date_to=04-01-2024", nil)

		_, err := entryFilterFromQuery(r)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("OmittedFieldsDefaultToZero", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/v1/entries", nil)

		filter, err := entryFilterFromQuery(r)
		require.NoError(t, err)
		assert.Zero(t, filter.ParishID)
		assert.Zero(t, filter.Page)
		assert.Nil(t, filter.DateFrom)
	})
}
