package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail/backoffice/internal/domain/procurement"
)

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate root.
type PurchaseOrderModel struct {
	ActorAggregateModel
	OrderNumber  string                          `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierID   uuid.UUID                       `gorm:"type:uuid;not null;index"`
	SupplierName string                          `gorm:"type:varchar(200);not null"`
	Details      []PurchaseOrderDetailModel      `gorm:"foreignKey:PurchaseOrderID;references:ID"`
	TotalAmount  decimal.Decimal                 `gorm:"type:decimal(18,4);not null;default:0"`
	Status       procurement.PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	Note         string                          `gorm:"type:text"`
	OrderedAt    *time.Time                      `gorm:"index"`
	ReceivedAt   *time.Time
	ReceiptID    *uuid.UUID `gorm:"type:uuid"`
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder.
func (m *PurchaseOrderModel) ToDomain() *procurement.PurchaseOrder {
	order := &procurement.PurchaseOrder{
		OrderNumber:  m.OrderNumber,
		SupplierID:   m.SupplierID,
		SupplierName: m.SupplierName,
		TotalAmount:  m.TotalAmount,
		Status:       m.Status,
		Note:         m.Note,
		OrderedAt:    m.OrderedAt,
		ReceivedAt:   m.ReceivedAt,
		ReceiptID:    m.ReceiptID,
		CancelledAt:  m.CancelledAt,
		CancelReason: m.CancelReason,
		Details:      make([]procurement.PurchaseOrderDetail, len(m.Details)),
	}
	m.PopulateActorAggregateRoot(&order.ActorAggregateRoot)
	for i, detail := range m.Details {
		order.Details[i] = *detail.ToDomain()
	}
	return order
}

// FromDomain populates the persistence model from a domain PurchaseOrder.
func (m *PurchaseOrderModel) FromDomain(o *procurement.PurchaseOrder) {
	m.FromDomainActorAggregateRoot(o.ActorAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.SupplierID = o.SupplierID
	m.SupplierName = o.SupplierName
	m.TotalAmount = o.TotalAmount
	m.Status = o.Status
	m.Note = o.Note
	m.OrderedAt = o.OrderedAt
	m.ReceivedAt = o.ReceivedAt
	m.ReceiptID = o.ReceiptID
	m.CancelledAt = o.CancelledAt
	m.CancelReason = o.CancelReason
	m.Details = make([]PurchaseOrderDetailModel, len(o.Details))
	for i := range o.Details {
		m.Details[i] = *PurchaseOrderDetailModelFromDomain(&o.Details[i])
	}
}

// PurchaseOrderModelFromDomain creates a new persistence model from a domain PurchaseOrder.
func PurchaseOrderModelFromDomain(o *procurement.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{}
	m.FromDomain(o)
	return m
}

// PurchaseOrderDetailModel is the persistence model for the PurchaseOrderDetail entity.
type PurchaseOrderDetailModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_po_detail_product,priority:1"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_po_detail_product,priority:2"`
	ProductName     string          `gorm:"type:varchar(200);not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderDetailModel) TableName() string {
	return "purchase_order_details"
}

// ToDomain converts the persistence model to a domain PurchaseOrderDetail.
func (m *PurchaseOrderDetailModel) ToDomain() *procurement.PurchaseOrderDetail {
	return &procurement.PurchaseOrderDetail{
		ID:              m.ID,
		PurchaseOrderID: m.PurchaseOrderID,
		ProductID:       m.ProductID,
		ProductName:     m.ProductName,
		Quantity:        m.Quantity,
		UnitPrice:       m.UnitPrice,
		Subtotal:        m.Subtotal,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// PurchaseOrderDetailModelFromDomain creates a persistence model from a domain detail.
func PurchaseOrderDetailModelFromDomain(d *procurement.PurchaseOrderDetail) *PurchaseOrderDetailModel {
	return &PurchaseOrderDetailModel{
		ID:              d.ID,
		PurchaseOrderID: d.PurchaseOrderID,
		ProductID:       d.ProductID,
		ProductName:     d.ProductName,
		Quantity:        d.Quantity,
		UnitPrice:       d.UnitPrice,
		Subtotal:        d.Subtotal,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// InventoryReceiptModel is the persistence model for the InventoryReceipt aggregate root.
type InventoryReceiptModel struct {
	ActorAggregateModel
	ReceiptNumber   string                             `gorm:"type:varchar(50);not null;uniqueIndex"`
	PurchaseOrderID uuid.UUID                          `gorm:"type:uuid;not null;index"`
	SupplierID      uuid.UUID                          `gorm:"type:uuid;not null;index"`
	SupplierName    string                             `gorm:"type:varchar(200);not null"`
	Lines           []InventoryReceiptLineModel        `gorm:"foreignKey:ReceiptID;references:ID"`
	Status          procurement.InventoryReceiptStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	Note            string                             `gorm:"type:text"`
	PostedAt        *time.Time                         `gorm:"index"`
	CancelledAt     *time.Time
	CancelReason    string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (InventoryReceiptModel) TableName() string {
	return "inventory_receipts"
}

// ToDomain converts the persistence model to a domain InventoryReceipt.
func (m *InventoryReceiptModel) ToDomain() *procurement.InventoryReceipt {
	receipt := &procurement.InventoryReceipt{
		ReceiptNumber:   m.ReceiptNumber,
		PurchaseOrderID: m.PurchaseOrderID,
		SupplierID:      m.SupplierID,
		SupplierName:    m.SupplierName,
		Status:          m.Status,
		Note:            m.Note,
		PostedAt:        m.PostedAt,
		CancelledAt:     m.CancelledAt,
		CancelReason:    m.CancelReason,
		Lines:           make([]procurement.InventoryReceiptLine, len(m.Lines)),
	}
	m.PopulateActorAggregateRoot(&receipt.ActorAggregateRoot)
	for i, line := range m.Lines {
		receipt.Lines[i] = *line.ToDomain()
	}
	return receipt
}

// FromDomain populates the persistence model from a domain InventoryReceipt.
func (m *InventoryReceiptModel) FromDomain(r *procurement.InventoryReceipt) {
	m.FromDomainActorAggregateRoot(r.ActorAggregateRoot)
	m.ReceiptNumber = r.ReceiptNumber
	m.PurchaseOrderID = r.PurchaseOrderID
	m.SupplierID = r.SupplierID
	m.SupplierName = r.SupplierName
	m.Status = r.Status
	m.Note = r.Note
	m.PostedAt = r.PostedAt
	m.CancelledAt = r.CancelledAt
	m.CancelReason = r.CancelReason
	m.Lines = make([]InventoryReceiptLineModel, len(r.Lines))
	for i := range r.Lines {
		m.Lines[i] = *InventoryReceiptLineModelFromDomain(&r.Lines[i])
	}
}

// InventoryReceiptModelFromDomain creates a new persistence model from a domain InventoryReceipt.
func InventoryReceiptModelFromDomain(r *procurement.InventoryReceipt) *InventoryReceiptModel {
	m := &InventoryReceiptModel{}
	m.FromDomain(r)
	return m
}

// InventoryReceiptLineModel is the persistence model for the InventoryReceiptLine entity.
type InventoryReceiptLineModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	ReceiptID   uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_receipt_line_variant,priority:1"`
	VariantID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_receipt_line_variant,priority:2"`
	VariantName string          `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BatchNumber string          `gorm:"type:varchar(100)"`
	ExpiryDate  *time.Time      `gorm:"index"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InventoryReceiptLineModel) TableName() string {
	return "inventory_receipt_lines"
}

// ToDomain converts the persistence model to a domain InventoryReceiptLine.
func (m *InventoryReceiptLineModel) ToDomain() *procurement.InventoryReceiptLine {
	return &procurement.InventoryReceiptLine{
		ID:          m.ID,
		ReceiptID:   m.ReceiptID,
		VariantID:   m.VariantID,
		VariantName: m.VariantName,
		Quantity:    m.Quantity,
		UnitCost:    m.UnitCost,
		BatchNumber: m.BatchNumber,
		ExpiryDate:  m.ExpiryDate,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// InventoryReceiptLineModelFromDomain creates a persistence model from a domain line.
func InventoryReceiptLineModelFromDomain(l *procurement.InventoryReceiptLine) *InventoryReceiptLineModel {
	return &InventoryReceiptLineModel{
		ID:          l.ID,
		ReceiptID:   l.ReceiptID,
		VariantID:   l.VariantID,
		VariantName: l.VariantName,
		Quantity:    l.Quantity,
		UnitCost:    l.UnitCost,
		BatchNumber: l.BatchNumber,
		ExpiryDate:  l.ExpiryDate,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
