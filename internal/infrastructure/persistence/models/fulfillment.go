package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail/backoffice/internal/domain/fulfillment"
)

// OrderModel is the persistence model for the fulfillment Order aggregate root.
type OrderModel struct {
	ActorAggregateModel
	OrderCode     string                    `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerName  string                    `gorm:"type:varchar(200);not null"`
	CustomerPhone string                    `gorm:"type:varchar(50)"`
	Address       string                    `gorm:"type:varchar(500)"`
	Items         []OrderItemModel          `gorm:"foreignKey:OrderID;references:ID"`
	TotalAmount   decimal.Decimal           `gorm:"type:decimal(18,4);not null;default:0"`
	Status        fulfillment.OrderStatus   `gorm:"type:varchar(20);not null;default:'new';index"`
	PaymentStatus fulfillment.PaymentStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentMethod fulfillment.PaymentMethod `gorm:"type:varchar(20);not null"`
	Note          string                    `gorm:"type:text"`
	ConfirmedAt   *time.Time
	PackedAt      *time.Time
	ShippedAt     *time.Time
	DeliveredAt   *time.Time
	CancelledAt   *time.Time
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() *fulfillment.Order {
	order := &fulfillment.Order{
		OrderCode:     m.OrderCode,
		CustomerName:  m.CustomerName,
		CustomerPhone: m.CustomerPhone,
		Address:       m.Address,
		TotalAmount:   m.TotalAmount,
		Status:        m.Status,
		PaymentStatus: m.PaymentStatus,
		PaymentMethod: m.PaymentMethod,
		Note:          m.Note,
		ConfirmedAt:   m.ConfirmedAt,
		PackedAt:      m.PackedAt,
		ShippedAt:     m.ShippedAt,
		DeliveredAt:   m.DeliveredAt,
		CancelledAt:   m.CancelledAt,
		Items:         make([]fulfillment.OrderItem, len(m.Items)),
	}
	m.PopulateActorAggregateRoot(&order.ActorAggregateRoot)
	for i, item := range m.Items {
		order.Items[i] = *item.ToDomain()
	}
	return order
}

// FromDomain populates the persistence model from a domain Order.
func (m *OrderModel) FromDomain(o *fulfillment.Order) {
	m.FromDomainActorAggregateRoot(o.ActorAggregateRoot)
	m.OrderCode = o.OrderCode
	m.CustomerName = o.CustomerName
	m.CustomerPhone = o.CustomerPhone
	m.Address = o.Address
	m.TotalAmount = o.TotalAmount
	m.Status = o.Status
	m.PaymentStatus = o.PaymentStatus
	m.PaymentMethod = o.PaymentMethod
	m.Note = o.Note
	m.ConfirmedAt = o.ConfirmedAt
	m.PackedAt = o.PackedAt
	m.ShippedAt = o.ShippedAt
	m.DeliveredAt = o.DeliveredAt
	m.CancelledAt = o.CancelledAt
	m.Items = make([]OrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i] = *OrderItemModelFromDomain(&o.Items[i])
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *fulfillment.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for the OrderItem entity.
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem.
func (m *OrderItemModel) ToDomain() *fulfillment.OrderItem {
	return &fulfillment.OrderItem{
		ID:          m.ID,
		OrderID:     m.OrderID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Subtotal:    m.Subtotal,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// OrderItemModelFromDomain creates a persistence model from a domain item.
func OrderItemModelFromDomain(i *fulfillment.OrderItem) *OrderItemModel {
	return &OrderItemModel{
		ID:          i.ID,
		OrderID:     i.OrderID,
		ProductID:   i.ProductID,
		ProductName: i.ProductName,
		Quantity:    i.Quantity,
		UnitPrice:   i.UnitPrice,
		Subtotal:    i.Subtotal,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

// OrderHistoryModel is the persistence model for order status transitions.
type OrderHistoryModel struct {
	ID         uuid.UUID               `gorm:"type:uuid;primary_key"`
	OrderID    uuid.UUID               `gorm:"type:uuid;not null;index"`
	FromStatus fulfillment.OrderStatus `gorm:"type:varchar(20);not null"`
	ToStatus   fulfillment.OrderStatus `gorm:"type:varchar(20);not null"`
	Actor      uuid.UUID               `gorm:"type:uuid;not null"`
	Note       string                  `gorm:"type:varchar(500)"`
	CreatedAt  time.Time               `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (OrderHistoryModel) TableName() string {
	return "order_histories"
}

// ToDomain converts the persistence model to a domain OrderHistory.
func (m *OrderHistoryModel) ToDomain() *fulfillment.OrderHistory {
	return &fulfillment.OrderHistory{
		ID:         m.ID,
		OrderID:    m.OrderID,
		FromStatus: m.FromStatus,
		ToStatus:   m.ToStatus,
		Actor:      m.Actor,
		Note:       m.Note,
		CreatedAt:  m.CreatedAt,
	}
}

// OrderHistoryModelFromDomain creates a persistence model from a domain history entry.
func OrderHistoryModelFromDomain(h *fulfillment.OrderHistory) *OrderHistoryModel {
	return &OrderHistoryModel{
		ID:         h.ID,
		OrderID:    h.OrderID,
		FromStatus: h.FromStatus,
		ToStatus:   h.ToStatus,
		Actor:      h.Actor,
		Note:       h.Note,
		CreatedAt:  h.CreatedAt,
	}
}
