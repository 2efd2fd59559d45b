package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase asc", "asc", "ASC"},
		{"uppercase asc", "ASC", "ASC"},
		{"asc with spaces", "  asc  ", "ASC"},
		{"desc", "desc", "DESC"},
		{"empty defaults to desc", "", "DESC"},
		{"garbage defaults to desc", "sideways", "DESC"},
		{"injection attempt defaults to desc", "ASC; DROP TABLE orders", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	allowed := map[string]bool{
		"created_at": true,
		"status":     true,
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"allowed field", "status", "status"},
		{"empty falls back", "", "created_at"},
		{"whitespace falls back", "   ", "created_at"},
		{"unknown field falls back", "password", "created_at"},
		{"injection attempt falls back", "status; DELETE FROM orders", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, allowed, "created_at"))
		})
	}
}

func TestSortFieldWhitelists(t *testing.T) {
	assert.True(t, PurchaseOrderSortFields["order_number"])
	assert.True(t, InventoryReceiptSortFields["receipt_number"])
	assert.True(t, InventoryCheckSortFields["check_number"])
	assert.True(t, OrderSortFields["order_code"])

	for _, fields := range []map[string]bool{
		PurchaseOrderSortFields,
		InventoryReceiptSortFields,
		InventoryCheckSortFields,
		OrderSortFields,
	} {
		assert.True(t, fields["created_at"])
		assert.False(t, fields["version"])
	}
}
