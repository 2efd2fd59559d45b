package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail/backoffice/internal/domain/procurement"
)

// ==================== Purchase Order DTOs ====================

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID   uuid.UUID                        `json:"supplier_id" binding:"required"`
	SupplierName string                           `json:"supplier_name" binding:"required,min=1,max=200"`
	Details      []CreatePurchaseOrderDetailInput `json:"details"`
	Note         string                           `json:"note"`
}

// CreatePurchaseOrderDetailInput represents a detail line in the create request
type CreatePurchaseOrderDetailInput struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"required,min=1,max=200"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// AddPurchaseOrderDetailRequest represents a request to add a detail line
type AddPurchaseOrderDetailRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"required,min=1,max=200"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// UpdatePurchaseOrderDetailRequest represents a request to update a detail line
type UpdatePurchaseOrderDetailRequest struct {
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// ReceivePurchaseOrderRequest represents a request to mark an order received
type ReceivePurchaseOrderRequest struct {
	ReceiptID *uuid.UUID `json:"receipt_id"`
}

// CancelRequest represents a request to cancel an order or receipt
type CancelRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// PurchaseOrderListFilter represents filter options for the order list.
// FromDate and ToDate bound the creation timestamp.
type PurchaseOrderListFilter struct {
	Search     string     `form:"search"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	Status     *string    `form:"status"`
	FromDate   *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate     *time.Time `form:"to_date" time_format:"2006-01-02"`
	Page       int        `form:"page"`
	PageSize   int        `form:"per_page"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PurchaseOrderDetailResponse represents a detail line in API responses
type PurchaseOrderDetailResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID           uuid.UUID                     `json:"id"`
	OrderNumber  string                        `json:"order_number"`
	SupplierID   uuid.UUID                     `json:"supplier_id"`
	SupplierName string                        `json:"supplier_name"`
	Details      []PurchaseOrderDetailResponse `json:"details"`
	TotalAmount  decimal.Decimal               `json:"total_amount"`
	Status       string                        `json:"status"`
	Note         string                        `json:"note,omitempty"`
	OrderedAt    *time.Time                    `json:"ordered_at,omitempty"`
	ReceivedAt   *time.Time                    `json:"received_at,omitempty"`
	ReceiptID    *uuid.UUID                    `json:"receipt_id,omitempty"`
	CancelledAt  *time.Time                    `json:"cancelled_at,omitempty"`
	CancelReason string                        `json:"cancel_reason,omitempty"`
	CreatedBy    *uuid.UUID                    `json:"created_by,omitempty"`
	CreatedAt    time.Time                     `json:"created_at"`
	UpdatedAt    time.Time                     `json:"updated_at"`
}

// ToPurchaseOrderResponse converts a domain order to its response shape
func ToPurchaseOrderResponse(order *procurement.PurchaseOrder) PurchaseOrderResponse {
	details := make([]PurchaseOrderDetailResponse, len(order.Details))
	for i, d := range order.Details {
		details[i] = PurchaseOrderDetailResponse{
			ProductID:   d.ProductID,
			ProductName: d.ProductName,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitPrice,
			Subtotal:    d.Subtotal,
		}
	}

	return PurchaseOrderResponse{
		ID:           order.ID,
		OrderNumber:  order.OrderNumber,
		SupplierID:   order.SupplierID,
		SupplierName: order.SupplierName,
		Details:      details,
		TotalAmount:  order.TotalAmount,
		Status:       order.Status.String(),
		Note:         order.Note,
		OrderedAt:    order.OrderedAt,
		ReceivedAt:   order.ReceivedAt,
		ReceiptID:    order.ReceiptID,
		CancelledAt:  order.CancelledAt,
		CancelReason: order.CancelReason,
		CreatedBy:    order.CreatedBy,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
}

// ToPurchaseOrderResponses converts a slice of domain orders
func ToPurchaseOrderResponses(orders []procurement.PurchaseOrder) []PurchaseOrderResponse {
	responses := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToPurchaseOrderResponse(&orders[i])
	}
	return responses
}

// ==================== Inventory Receipt DTOs ====================

// CreateInventoryReceiptRequest represents a request to create a receipt
type CreateInventoryReceiptRequest struct {
	PurchaseOrderID uuid.UUID                         `json:"purchase_order_id" binding:"required"`
	SupplierID      uuid.UUID                         `json:"supplier_id" binding:"required"`
	SupplierName    string                            `json:"supplier_name" binding:"required,min=1,max=200"`
	Lines           []CreateInventoryReceiptLineInput `json:"lines"`
	Note            string                            `json:"note"`
}

// CreateInventoryReceiptLineInput represents a line in the create request
type CreateInventoryReceiptLineInput struct {
	VariantID   uuid.UUID       `json:"variant_id" binding:"required"`
	VariantName string          `json:"variant_name" binding:"required,min=1,max=200"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost    decimal.Decimal `json:"unit_cost" binding:"required"`
	BatchNumber string          `json:"batch_number"`
	ExpiryDate  *time.Time      `json:"expiry_date"`
}

// AddInventoryReceiptLineRequest represents a request to add a line
type AddInventoryReceiptLineRequest struct {
	VariantID   uuid.UUID       `json:"variant_id" binding:"required"`
	VariantName string          `json:"variant_name" binding:"required,min=1,max=200"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost    decimal.Decimal `json:"unit_cost" binding:"required"`
	BatchNumber string          `json:"batch_number"`
	ExpiryDate  *time.Time      `json:"expiry_date"`
}

// UpdateInventoryReceiptLineRequest represents a request to update a line
type UpdateInventoryReceiptLineRequest struct {
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost    decimal.Decimal `json:"unit_cost" binding:"required"`
	BatchNumber string          `json:"batch_number"`
	ExpiryDate  *time.Time      `json:"expiry_date"`
}

// InventoryReceiptListFilter represents filter options for the receipt list.
// FromDate and ToDate bound the creation timestamp.
type InventoryReceiptListFilter struct {
	Search          string     `form:"search"`
	PurchaseOrderID *uuid.UUID `form:"purchase_order_id"`
	SupplierID      *uuid.UUID `form:"supplier_id"`
	Status          *string    `form:"status"`
	ExpiringWithin  *int       `form:"expiring_within"`
	FromDate        *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate          *time.Time `form:"to_date" time_format:"2006-01-02"`
	Page            int        `form:"page"`
	PageSize        int        `form:"per_page"`
	OrderBy         string     `form:"order_by"`
	OrderDir        string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// InventoryReceiptLineResponse represents a receipt line in API responses.
// Expiry figures are computed against the server clock at read time.
type InventoryReceiptLineResponse struct {
	VariantID       uuid.UUID       `json:"variant_id"`
	VariantName     string          `json:"variant_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	BatchNumber     string          `json:"batch_number,omitempty"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty"`
	IsExpired       bool            `json:"is_expired"`
	DaysUntilExpiry *int            `json:"days_until_expiry,omitempty"`
}

// InventoryReceiptResponse represents a receipt in API responses
type InventoryReceiptResponse struct {
	ID              uuid.UUID                      `json:"id"`
	ReceiptNumber   string                         `json:"receipt_number"`
	PurchaseOrderID uuid.UUID                      `json:"purchase_order_id"`
	SupplierID      uuid.UUID                      `json:"supplier_id"`
	SupplierName    string                         `json:"supplier_name"`
	Lines           []InventoryReceiptLineResponse `json:"lines"`
	TotalAmount     decimal.Decimal                `json:"total_amount"`
	TotalQuantity   decimal.Decimal                `json:"total_quantity"`
	Status          string                         `json:"status"`
	Note            string                         `json:"note,omitempty"`
	PostedAt        *time.Time                     `json:"posted_at,omitempty"`
	CancelledAt     *time.Time                     `json:"cancelled_at,omitempty"`
	CancelReason    string                         `json:"cancel_reason,omitempty"`
	CreatedBy       *uuid.UUID                     `json:"created_by,omitempty"`
	CreatedAt       time.Time                      `json:"created_at"`
	UpdatedAt       time.Time                      `json:"updated_at"`
}

// ToInventoryReceiptLineResponse converts a domain line, deriving expiry info
func ToInventoryReceiptLineResponse(line *procurement.InventoryReceiptLine, now time.Time) InventoryReceiptLineResponse {
	return InventoryReceiptLineResponse{
		VariantID:       line.VariantID,
		VariantName:     line.VariantName,
		Quantity:        line.Quantity,
		UnitCost:        line.UnitCost,
		Subtotal:        line.Subtotal(),
		BatchNumber:     line.BatchNumber,
		ExpiryDate:      line.ExpiryDate,
		IsExpired:       line.IsExpired(now),
		DaysUntilExpiry: line.DaysUntilExpiry(now),
	}
}

// ToInventoryReceiptResponse converts a domain receipt to its response shape
func ToInventoryReceiptResponse(receipt *procurement.InventoryReceipt, now time.Time) InventoryReceiptResponse {
	lines := make([]InventoryReceiptLineResponse, len(receipt.Lines))
	for i := range receipt.Lines {
		lines[i] = ToInventoryReceiptLineResponse(&receipt.Lines[i], now)
	}

	return InventoryReceiptResponse{
		ID:              receipt.ID,
		ReceiptNumber:   receipt.ReceiptNumber,
		PurchaseOrderID: receipt.PurchaseOrderID,
		SupplierID:      receipt.SupplierID,
		SupplierName:    receipt.SupplierName,
		Lines:           lines,
		TotalAmount:     receipt.TotalAmount(),
		TotalQuantity:   receipt.TotalQuantity(),
		Status:          receipt.Status.String(),
		Note:            receipt.Note,
		PostedAt:        receipt.PostedAt,
		CancelledAt:     receipt.CancelledAt,
		CancelReason:    receipt.CancelReason,
		CreatedBy:       receipt.CreatedBy,
		CreatedAt:       receipt.CreatedAt,
		UpdatedAt:       receipt.UpdatedAt,
	}
}

// ToInventoryReceiptResponses converts a slice of domain receipts
func ToInventoryReceiptResponses(receipts []procurement.InventoryReceipt, now time.Time) []InventoryReceiptResponse {
	responses := make([]InventoryReceiptResponse, len(receipts))
	for i := range receipts {
		responses[i] = ToInventoryReceiptResponse(&receipts[i], now)
	}
	return responses
}

// ExpiringLineReport is one expiring batch in the expiry report
type ExpiringLineReport struct {
	ReceiptID       uuid.UUID       `json:"receipt_id"`
	ReceiptNumber   string          `json:"receipt_number"`
	SupplierName    string          `json:"supplier_name"`
	VariantID       uuid.UUID       `json:"variant_id"`
	VariantName     string          `json:"variant_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	BatchNumber     string          `json:"batch_number,omitempty"`
	ExpiryDate      time.Time       `json:"expiry_date"`
	IsExpired       bool            `json:"is_expired"`
	DaysUntilExpiry int             `json:"days_until_expiry"`
}
