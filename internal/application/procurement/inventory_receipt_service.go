package procurement

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/retail/backoffice/internal/domain/procurement"
	"github.com/retail/backoffice/internal/domain/shared"
)

// InventoryReceiptService handles inventory receipt use cases
type InventoryReceiptService struct {
	receiptRepo    procurement.InventoryReceiptRepository
	eventPublisher shared.EventPublisher
	now            func() time.Time
}

// NewInventoryReceiptService creates a new InventoryReceiptService
func NewInventoryReceiptService(receiptRepo procurement.InventoryReceiptRepository) *InventoryReceiptService {
	return &InventoryReceiptService{
		receiptRepo: receiptRepo,
		now:         time.Now,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *InventoryReceiptService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new inventory receipt in draft status
func (s *InventoryReceiptService) Create(ctx context.Context, actor uuid.UUID, req CreateInventoryReceiptRequest) (*InventoryReceiptResponse, error) {
	receiptNumber, err := s.receiptRepo.GenerateReceiptNumber(ctx)
	if err != nil {
		return nil, err
	}

	receipt, err := procurement.NewInventoryReceipt(receiptNumber, req.PurchaseOrderID, req.SupplierID, req.SupplierName, actor)
	if err != nil {
		return nil, err
	}

	for _, l := range req.Lines {
		if _, err := receipt.AddLine(l.VariantID, l.VariantName, l.Quantity, l.UnitCost, l.BatchNumber, l.ExpiryDate); err != nil {
			return nil, err
		}
	}

	if req.Note != "" {
		receipt.Note = req.Note
	}

	events := receipt.GetDomainEvents()
	receipt.ClearDomainEvents()

	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}

	s.publish(ctx, events)

	response := ToInventoryReceiptResponse(receipt, s.now())
	return &response, nil
}

// GetByID retrieves a receipt by ID with derived totals and expiry info
func (s *InventoryReceiptService) GetByID(ctx context.Context, receiptID uuid.UUID) (*InventoryReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	response := ToInventoryReceiptResponse(receipt, s.now())
	return &response, nil
}

// List retrieves receipts with filtering and pagination
func (s *InventoryReceiptService) List(ctx context.Context, filter InventoryReceiptListFilter) ([]InventoryReceiptResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search

	if filter.PurchaseOrderID != nil {
		domainFilter.Filters["purchase_order_id"] = *filter.PurchaseOrderID
	}
	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = *filter.Status
	}
	if filter.ExpiringWithin != nil {
		domainFilter.Filters["expiring_before"] = s.now().AddDate(0, 0, *filter.ExpiringWithin)
	}
	if filter.FromDate != nil {
		domainFilter.Filters["start_date"] = *filter.FromDate
	}
	if filter.ToDate != nil {
		domainFilter.Filters["end_date"] = *filter.ToDate
	}

	receipts, err := s.receiptRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.receiptRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToInventoryReceiptResponses(receipts, s.now()), total, nil
}

// AddLine adds a line to a draft receipt
func (s *InventoryReceiptService) AddLine(ctx context.Context, receiptID uuid.UUID, req AddInventoryReceiptLineRequest) (*InventoryReceiptResponse, error) {
	return s.mutate(ctx, receiptID, func(receipt *procurement.InventoryReceipt) error {
		_, err := receipt.AddLine(req.VariantID, req.VariantName, req.Quantity, req.UnitCost, req.BatchNumber, req.ExpiryDate)
		return err
	})
}

// UpdateLine updates a line on a draft receipt
func (s *InventoryReceiptService) UpdateLine(ctx context.Context, receiptID, variantID uuid.UUID, req UpdateInventoryReceiptLineRequest) (*InventoryReceiptResponse, error) {
	return s.mutate(ctx, receiptID, func(receipt *procurement.InventoryReceipt) error {
		return receipt.UpdateLine(variantID, req.Quantity, req.UnitCost, req.BatchNumber, req.ExpiryDate)
	})
}

// RemoveLine removes a line from a draft receipt
func (s *InventoryReceiptService) RemoveLine(ctx context.Context, receiptID, variantID uuid.UUID) (*InventoryReceiptResponse, error) {
	return s.mutate(ctx, receiptID, func(receipt *procurement.InventoryReceipt) error {
		return receipt.RemoveLine(variantID)
	})
}

// Post transitions a draft receipt to posted
func (s *InventoryReceiptService) Post(ctx context.Context, receiptID uuid.UUID) (*InventoryReceiptResponse, error) {
	return s.mutate(ctx, receiptID, func(receipt *procurement.InventoryReceipt) error {
		return receipt.Post()
	})
}

// Cancel cancels a draft receipt
func (s *InventoryReceiptService) Cancel(ctx context.Context, receiptID uuid.UUID, req CancelRequest) (*InventoryReceiptResponse, error) {
	return s.mutate(ctx, receiptID, func(receipt *procurement.InventoryReceipt) error {
		return receipt.Cancel(req.Reason)
	})
}

// ExpiringReport lists posted receipt lines expiring within the window
func (s *InventoryReceiptService) ExpiringReport(ctx context.Context, days int) ([]ExpiringLineReport, error) {
	if days <= 0 {
		days = 30
	}

	now := s.now()
	cutoff := now.AddDate(0, 0, days)

	receipts, err := s.receiptRepo.FindWithLinesExpiringBy(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	report := make([]ExpiringLineReport, 0)
	for i := range receipts {
		receipt := &receipts[i]
		for _, line := range receipt.ExpiringLines(now, days) {
			remaining := line.DaysUntilExpiry(now)
			entry := ExpiringLineReport{
				ReceiptID:     receipt.ID,
				ReceiptNumber: receipt.ReceiptNumber,
				SupplierName:  receipt.SupplierName,
				VariantID:     line.VariantID,
				VariantName:   line.VariantName,
				Quantity:      line.Quantity,
				BatchNumber:   line.BatchNumber,
				ExpiryDate:    *line.ExpiryDate,
				IsExpired:     line.IsExpired(now),
			}
			if remaining != nil {
				entry.DaysUntilExpiry = *remaining
			}
			report = append(report, entry)
		}
	}

	return report, nil
}

func (s *InventoryReceiptService) mutate(ctx context.Context, receiptID uuid.UUID, fn func(*procurement.InventoryReceipt) error) (*InventoryReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	expectedVersion := receipt.GetVersion()
	if err := fn(receipt); err != nil {
		return nil, err
	}

	events := receipt.GetDomainEvents()
	receipt.ClearDomainEvents()

	if err := s.receiptRepo.SaveWithLock(ctx, receipt, expectedVersion); err != nil {
		return nil, err
	}

	s.publish(ctx, events)

	response := ToInventoryReceiptResponse(receipt, s.now())
	return &response, nil
}

func (s *InventoryReceiptService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	// Events are informational; publish failures must not fail the request.
	_ = s.eventPublisher.Publish(ctx, events...)
}
