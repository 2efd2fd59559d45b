package fulfillment

import (
	"time"

	"github.com/google/uuid"
)

// OrderHistory is an append-only record of an accepted status transition.
// Rows are written in the same database transaction as the status change
// itself, so the log never disagrees with the order.
type OrderHistory struct {
	ID         uuid.UUID   `gorm:"type:uuid;primary_key"`
	OrderID    uuid.UUID   `gorm:"type:uuid;not null;index"`
	FromStatus OrderStatus `gorm:"type:varchar(20);not null"`
	ToStatus   OrderStatus `gorm:"type:varchar(20);not null"`
	Actor      uuid.UUID   `gorm:"type:uuid;not null"`
	Note       string      `gorm:"type:varchar(500)"`
	CreatedAt  time.Time   `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (OrderHistory) TableName() string {
	return "order_histories"
}

// NewOrderHistory creates a history entry for a transition
func NewOrderHistory(orderID uuid.UUID, from, to OrderStatus, actor uuid.UUID, note string) *OrderHistory {
	return &OrderHistory{
		ID:         uuid.New(),
		OrderID:    orderID,
		FromStatus: from,
		ToStatus:   to,
		Actor:      actor,
		Note:       note,
		CreatedAt:  time.Now(),
	}
}
