package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/retail/backoffice/internal/domain/inventory"
	"github.com/retail/backoffice/internal/domain/shared"
)

// InventoryCheckService handles inventory check use cases
type InventoryCheckService struct {
	checkRepo      inventory.InventoryCheckRepository
	eventPublisher shared.EventPublisher
}

// NewInventoryCheckService creates a new InventoryCheckService
func NewInventoryCheckService(checkRepo inventory.InventoryCheckRepository) *InventoryCheckService {
	return &InventoryCheckService{
		checkRepo: checkRepo,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *InventoryCheckService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a new inventory check in draft status
func (s *InventoryCheckService) Create(ctx context.Context, actor uuid.UUID, req CreateInventoryCheckRequest) (*InventoryCheckResponse, error) {
	checkNumber, err := s.checkRepo.GenerateCheckNumber(ctx)
	if err != nil {
		return nil, err
	}

	check, err := inventory.NewInventoryCheck(checkNumber, req.Name, actor)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		if _, err := check.AddItem(item.ProductID, item.ProductName, item.SystemQuantity); err != nil {
			return nil, err
		}
	}

	if req.Note != "" {
		check.Note = req.Note
	}

	events := check.GetDomainEvents()
	check.ClearDomainEvents()

	if err := s.checkRepo.Save(ctx, check); err != nil {
		return nil, err
	}

	s.publish(ctx, events)

	response := ToInventoryCheckResponse(check)
	return &response, nil
}

// GetByID retrieves a check by ID
func (s *InventoryCheckService) GetByID(ctx context.Context, checkID uuid.UUID) (*InventoryCheckResponse, error) {
	check, err := s.checkRepo.FindByID(ctx, checkID)
	if err != nil {
		return nil, err
	}
	response := ToInventoryCheckResponse(check)
	return &response, nil
}

// List retrieves checks with filtering and pagination. Each item carries
// the summary figures derived from its counted products.
func (s *InventoryCheckService) List(ctx context.Context, filter InventoryCheckListFilter) ([]InventoryCheckListItem, int64, error) {
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

	if filter.Status != nil {
		domainFilter.Filters["status"] = *filter.Status
	}
	if filter.CreatedBy != nil {
		domainFilter.Filters["created_by"] = *filter.CreatedBy
	}
	if filter.FromDate != nil {
		domainFilter.Filters["start_date"] = *filter.FromDate
	}
	if filter.ToDate != nil {
		domainFilter.Filters["end_date"] = *filter.ToDate
	}

	checks, err := s.checkRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.checkRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToInventoryCheckListItems(checks), total, nil
}

// AddItem adds a product to a draft check
func (s *InventoryCheckService) AddItem(ctx context.Context, checkID uuid.UUID, req AddInventoryCheckItemRequest) (*InventoryCheckResponse, error) {
	return s.mutate(ctx, checkID, func(check *inventory.InventoryCheck) error {
		_, err := check.AddItem(req.ProductID, req.ProductName, req.SystemQuantity)
		return err
	})
}

// RemoveItem removes a product from a draft check
func (s *InventoryCheckService) RemoveItem(ctx context.Context, checkID, productID uuid.UUID) (*InventoryCheckResponse, error) {
	return s.mutate(ctx, checkID, func(check *inventory.InventoryCheck) error {
		return check.RemoveItem(productID)
	})
}

// SetActualQuantity records a count for a product. Difference and
// discrepancy are recomputed atomically with the count.
func (s *InventoryCheckService) SetActualQuantity(ctx context.Context, checkID, productID uuid.UUID, req SetActualQuantityRequest) (*InventoryCheckResponse, error) {
	return s.mutate(ctx, checkID, func(check *inventory.InventoryCheck) error {
		return check.SetActualQuantity(productID, req.ActualQuantity)
	})
}

// Summary returns the aggregated outcome of a check
func (s *InventoryCheckService) Summary(ctx context.Context, checkID uuid.UUID) (*CheckSummaryResponse, error) {
	check, err := s.checkRepo.FindByID(ctx, checkID)
	if err != nil {
		return nil, err
	}

	summary := ToCheckSummaryResponse(check.Summary())
	return &summary, nil
}

// Complete finalizes a draft check. Completing twice fails.
func (s *InventoryCheckService) Complete(ctx context.Context, checkID, actor uuid.UUID) (*InventoryCheckResponse, error) {
	return s.mutate(ctx, checkID, func(check *inventory.InventoryCheck) error {
		return check.Complete(actor)
	})
}

func (s *InventoryCheckService) mutate(ctx context.Context, checkID uuid.UUID, fn func(*inventory.InventoryCheck) error) (*InventoryCheckResponse, error) {
	check, err := s.checkRepo.FindByID(ctx, checkID)
	if err != nil {
		return nil, err
	}

	expectedVersion := check.GetVersion()
	if err := fn(check); err != nil {
		return nil, err
	}

	events := check.GetDomainEvents()
	check.ClearDomainEvents()

	if err := s.checkRepo.SaveWithLock(ctx, check, expectedVersion); err != nil {
		return nil, err
	}

	s.publish(ctx, events)

	response := ToInventoryCheckResponse(check)
	return &response, nil
}

func (s *InventoryCheckService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
