package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/retail/backoffice/internal/domain/shared"
)

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(map[string]string{"id": "1"})

	assert.Equal(t, StatusSuccess, resp.Status)
	assert.NotNil(t, resp.Data)
	assert.Empty(t, resp.Message)
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("Order not found")

	assert.Equal(t, StatusError, resp.Status)
	assert.Nil(t, resp.Data)
	assert.Equal(t, "Order not found", resp.Message)
}

func TestNewPaginatedResponse(t *testing.T) {
	tests := []struct {
		name         string
		total        int64
		page         int
		perPage      int
		wantLastPage int
		wantPage     int
		wantPerPage  int
	}{
		{"exact pages", 100, 1, 20, 5, 1, 20},
		{"partial last page", 101, 2, 20, 6, 2, 20},
		{"empty result", 0, 1, 20, 1, 1, 20},
		{"zero page normalized", 10, 0, 20, 1, 1, 20},
		{"zero per_page normalized", 10, 1, 0, 1, 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewPaginatedResponse([]string{}, tt.total, tt.page, tt.perPage)

			assert.Equal(t, StatusSuccess, resp.Status)
			paginated, ok := resp.Data.(PaginatedData)
			assert.True(t, ok)
			assert.Equal(t, tt.total, paginated.Total)
			assert.Equal(t, tt.wantPage, paginated.CurrentPage)
			assert.Equal(t, tt.wantPerPage, paginated.PerPage)
			assert.Equal(t, tt.wantLastPage, paginated.LastPage)
		})
	}
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{shared.CodeValidation, http.StatusUnprocessableEntity},
		{shared.CodeNotFound, http.StatusNotFound},
		{shared.CodeInvalidTransition, http.StatusConflict},
		{shared.CodeConcurrencyConflict, http.StatusConflict},
		{shared.CodeAlreadyExists, http.StatusConflict},
		{shared.CodeUnauthorized, http.StatusForbidden},
		{shared.CodeUnexpected, http.StatusInternalServerError},
		{"SOMETHING_NOBODY_MAPPED", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}
