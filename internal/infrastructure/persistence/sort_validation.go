package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"order_number":  true,
	"supplier_id":   true,
	"supplier_name": true,
	"status":        true,
	"total_amount":  true,
	"ordered_at":    true,
	"received_at":   true,
}

// InventoryReceiptSortFields contains allowed sort fields for inventory receipts
var InventoryReceiptSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"receipt_number": true,
	"supplier_id":    true,
	"supplier_name":  true,
	"status":         true,
	"posted_at":      true,
}

// InventoryCheckSortFields contains allowed sort fields for inventory checks
var InventoryCheckSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"check_number": true,
	"name":         true,
	"status":       true,
	"completed_at": true,
}

// OrderSortFields contains allowed sort fields for fulfillment orders
var OrderSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"order_code":     true,
	"customer_name":  true,
	"status":         true,
	"payment_status": true,
	"total_amount":   true,
	"shipped_at":     true,
	"delivered_at":   true,
}
