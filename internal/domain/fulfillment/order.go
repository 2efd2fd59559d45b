package fulfillment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail/backoffice/internal/domain/ledger"
	"github.com/retail/backoffice/internal/domain/shared"
)

// OrderStatus represents the fulfillment status of an order
type OrderStatus string

const (
	OrderStatusNew            OrderStatus = "new"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusPacked         OrderStatus = "packed"
	OrderStatusShipping       OrderStatus = "shipping"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusShippingFailed OrderStatus = "shipping_failed"
)

// AllOrderStatuses lists every valid order status
var AllOrderStatuses = []OrderStatus{
	OrderStatusNew, OrderStatusProcessing, OrderStatusConfirmed,
	OrderStatusPreparing, OrderStatusPacked, OrderStatusShipping,
	OrderStatusDelivered, OrderStatusCancelled, OrderStatusShippingFailed,
}

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	for _, v := range AllOrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusNew:
		return target == OrderStatusProcessing || target == OrderStatusCancelled
	case OrderStatusProcessing:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusPreparing || target == OrderStatusCancelled
	case OrderStatusPreparing:
		return target == OrderStatusPacked || target == OrderStatusCancelled
	case OrderStatusPacked:
		return target == OrderStatusShipping
	case OrderStatusShipping:
		return target == OrderStatusDelivered || target == OrderStatusShippingFailed
	case OrderStatusShippingFailed:
		return target == OrderStatusShipping
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PaymentStatus tracks payment independently of fulfillment
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusFailed   PaymentStatus = "failed"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded, PaymentStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// PaymentMethod is how the customer pays
type PaymentMethod string

const (
	PaymentMethodCOD          PaymentMethod = "cod"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCard         PaymentMethod = "card"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodBankTransfer, PaymentMethodCard:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// OrderItem represents a sold product line on a fulfillment order
type OrderItem struct {
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
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates a new order item
func NewOrderItem(orderID, productID uuid.UUID, productName string, quantity, unitPrice decimal.Decimal) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewValidationError("Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("Unit price cannot be negative")
	}

	now := time.Now()
	return &OrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Subtotal:    ledger.Subtotal(quantity, unitPrice),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Order represents a customer order moving through fulfillment.
// Fulfillment status and payment status evolve independently, except that
// delivering a cash-on-delivery order settles the payment.
type Order struct {
	shared.ActorAggregateRoot
	OrderCode     string        `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerName  string        `gorm:"type:varchar(200);not null"`
	CustomerPhone string        `gorm:"type:varchar(50)"`
	Address       string        `gorm:"type:varchar(500)"`
	Items         []OrderItem   `gorm:"foreignKey:OrderID;references:ID"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status        OrderStatus   `gorm:"type:varchar(20);not null;default:'new';index"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null"`
	Note          string        `gorm:"type:text"`
	ConfirmedAt   *time.Time
	PackedAt      *time.Time
	ShippedAt     *time.Time
	DeliveredAt   *time.Time
	CancelledAt   *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order in status new with payment pending
func NewOrder(orderCode, customerName, customerPhone, address string, method PaymentMethod, createdBy uuid.UUID) (*Order, error) {
	if orderCode == "" {
		return nil, shared.NewValidationError("Order code cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewValidationError("Customer name cannot be empty")
	}
	if !method.IsValid() {
		return nil, shared.NewValidationError("Invalid payment method")
	}

	order := &Order{
		ActorAggregateRoot: shared.NewActorAggregateRoot(createdBy),
		OrderCode:          orderCode,
		CustomerName:       customerName,
		CustomerPhone:      customerPhone,
		Address:            address,
		Items:              make([]OrderItem, 0),
		TotalAmount:        decimal.Zero,
		Status:             OrderStatusNew,
		PaymentStatus:      PaymentStatusPending,
		PaymentMethod:      method,
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// IsCOD reports whether the order is paid on delivery
func (o *Order) IsCOD() bool {
	return o.PaymentMethod == PaymentMethodCOD
}

// AddItem adds a product line. Only allowed while the order is new.
func (o *Order) AddItem(productID uuid.UUID, productName string, quantity, unitPrice decimal.Decimal) (*OrderItem, error) {
	if o.Status != OrderStatusNew {
		return nil, shared.NewInvalidTransitionError(o.Status.String(), "item mutation")
	}

	for _, item := range o.Items {
		if item.ProductID == productID {
			return nil, shared.NewValidationError("Product already exists in order")
		}
	}

	item, err := NewOrderItem(o.ID, productID, productName, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return item, nil
}

// StatusChange captures an accepted transition for the history log
type StatusChange struct {
	From OrderStatus
	To   OrderStatus
}

// ChangeStatus moves the order through the fulfillment state machine and
// returns the history entry to persist alongside it.
//
// Delivering a COD order requires confirmPayment; the courier must hand
// over the cash before the order can be closed. On success the payment
// status flips to paid.
func (o *Order) ChangeStatus(target OrderStatus, actor uuid.UUID, note string, confirmPayment bool) (*OrderHistory, error) {
	if !target.IsValid() {
		return nil, shared.NewValidationError("Invalid order status: " + target.String())
	}
	if !o.Status.CanTransitionTo(target) {
		return nil, shared.NewInvalidTransitionError(o.Status.String(), target.String())
	}

	if target == OrderStatusDelivered && o.IsCOD() {
		if !confirmPayment {
			return nil, shared.NewValidationError("Delivering a COD order requires payment confirmation")
		}
	}

	from := o.Status
	now := time.Now()
	o.Status = target
	o.UpdatedAt = now
	o.IncrementVersion()

	switch target {
	case OrderStatusConfirmed:
		o.ConfirmedAt = &now
	case OrderStatusPacked:
		o.PackedAt = &now
	case OrderStatusShipping:
		if o.ShippedAt == nil {
			o.ShippedAt = &now
		}
	case OrderStatusDelivered:
		o.DeliveredAt = &now
		if o.IsCOD() {
			o.PaymentStatus = PaymentStatusPaid
		}
	case OrderStatusCancelled:
		o.CancelledAt = &now
	}

	history := NewOrderHistory(o.ID, from, target, actor, note)

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, target, actor))

	return history, nil
}

// MarkPaid settles the payment. Refunded payments cannot be re-settled.
func (o *Order) MarkPaid() error {
	if o.PaymentStatus == PaymentStatusPaid {
		return shared.NewValidationError("Order is already paid")
	}
	if o.PaymentStatus == PaymentStatusRefunded {
		return shared.NewValidationError("Refunded orders cannot be paid again")
	}

	o.PaymentStatus = PaymentStatusPaid
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// MarkRefunded refunds a settled payment
func (o *Order) MarkRefunded() error {
	if o.PaymentStatus != PaymentStatusPaid {
		return shared.NewValidationError("Only paid orders can be refunded")
	}

	o.PaymentStatus = PaymentStatusRefunded
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// MarkPaymentFailed records a failed payment attempt
func (o *Order) MarkPaymentFailed() error {
	if o.PaymentStatus == PaymentStatusPaid || o.PaymentStatus == PaymentStatusRefunded {
		return shared.NewValidationError("Settled payments cannot be marked failed")
	}

	o.PaymentStatus = PaymentStatusFailed
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// recalculateTotals recomputes the order total from its item subtotals
func (o *Order) recalculateTotals() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal)
	}
	o.TotalAmount = total
}
