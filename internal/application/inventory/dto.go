package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail/backoffice/internal/domain/inventory"
)

// CreateInventoryCheckRequest represents a request to open a check
type CreateInventoryCheckRequest struct {
	Name  string                            `json:"name" binding:"required,min=1,max=200"`
	Items []CreateInventoryCheckItemInput   `json:"items"`
	Note  string                            `json:"note"`
}

// CreateInventoryCheckItemInput represents an item in the create request
type CreateInventoryCheckItemInput struct {
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	ProductName    string          `json:"product_name" binding:"required,min=1,max=200"`
	SystemQuantity decimal.Decimal `json:"system_quantity"`
}

// AddInventoryCheckItemRequest represents a request to add an item to a check
type AddInventoryCheckItemRequest struct {
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	ProductName    string          `json:"product_name" binding:"required,min=1,max=200"`
	SystemQuantity decimal.Decimal `json:"system_quantity"`
}

// SetActualQuantityRequest represents a request to record a count
type SetActualQuantityRequest struct {
	ActualQuantity decimal.Decimal `json:"actual_quantity"`
}

// InventoryCheckListFilter represents filter options for the check list.
// FromDate and ToDate bound the creation timestamp.
type InventoryCheckListFilter struct {
	Search    string     `form:"search"`
	Status    *string    `form:"status"`
	CreatedBy *uuid.UUID `form:"create_by"`
	FromDate  *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate    *time.Time `form:"to_date" time_format:"2006-01-02"`
	Page      int        `form:"page"`
	PageSize  int        `form:"per_page"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// InventoryCheckItemResponse represents a check item in API responses
type InventoryCheckItemResponse struct {
	ProductID          uuid.UUID        `json:"product_id"`
	ProductName        string           `json:"product_name"`
	SystemQuantity     decimal.Decimal  `json:"system_quantity"`
	ActualQuantity     *decimal.Decimal `json:"actual_quantity,omitempty"`
	Difference         decimal.Decimal  `json:"difference"`
	DiscrepancyPercent decimal.Decimal  `json:"discrepancy_percentage"`
	Counted            bool             `json:"counted"`
}

// InventoryCheckResponse represents a check in API responses
type InventoryCheckResponse struct {
	ID          uuid.UUID                    `json:"id"`
	CheckNumber string                       `json:"check_number"`
	Name        string                       `json:"name"`
	Items       []InventoryCheckItemResponse `json:"items"`
	Status      string                       `json:"status"`
	Note        string                       `json:"note,omitempty"`
	CompletedAt *time.Time                   `json:"completed_at,omitempty"`
	CompletedBy *uuid.UUID                   `json:"completed_by,omitempty"`
	CreatedBy   *uuid.UUID                   `json:"created_by,omitempty"`
	CreatedAt   time.Time                    `json:"created_at"`
	UpdatedAt   time.Time                    `json:"updated_at"`
}

// InventoryCheckListItem is a check in list responses, decorated with
// summary figures so clients can show the outcome without fetching each check
type InventoryCheckListItem struct {
	InventoryCheckResponse
	TotalProducts           int             `json:"total_products"`
	TotalDifference         decimal.Decimal `json:"total_difference"`
	ProductsWithDiscrepancy int             `json:"products_with_discrepancy"`
}

// CheckSummaryResponse represents the check summary in API responses
type CheckSummaryResponse struct {
	TotalItems      int             `json:"total_items"`
	CountedItems    int             `json:"counted_items"`
	UncountedItems  int             `json:"uncounted_items"`
	MatchedItems    int             `json:"matched_items"`
	ShortageItems   int             `json:"shortage_items"`
	OverageItems    int             `json:"overage_items"`
	TotalDifference decimal.Decimal `json:"total_difference"`
	AbsDifference   decimal.Decimal `json:"abs_difference"`
}

// ToInventoryCheckResponse converts a domain check to its response shape
func ToInventoryCheckResponse(check *inventory.InventoryCheck) InventoryCheckResponse {
	items := make([]InventoryCheckItemResponse, len(check.Items))
	for i := range check.Items {
		item := &check.Items[i]
		items[i] = InventoryCheckItemResponse{
			ProductID:          item.ProductID,
			ProductName:        item.ProductName,
			SystemQuantity:     item.SystemQuantity,
			ActualQuantity:     item.ActualQuantity,
			Difference:         item.Difference,
			DiscrepancyPercent: item.DiscrepancyPercent,
			Counted:            item.IsCounted(),
		}
	}

	return InventoryCheckResponse{
		ID:          check.ID,
		CheckNumber: check.CheckNumber,
		Name:        check.Name,
		Items:       items,
		Status:      check.Status.String(),
		Note:        check.Note,
		CompletedAt: check.CompletedAt,
		CompletedBy: check.CompletedBy,
		CreatedBy:   check.CreatedBy,
		CreatedAt:   check.CreatedAt,
		UpdatedAt:   check.UpdatedAt,
	}
}

// ToInventoryCheckListItem converts a domain check to its decorated list shape
func ToInventoryCheckListItem(check *inventory.InventoryCheck) InventoryCheckListItem {
	summary := check.Summary()
	return InventoryCheckListItem{
		InventoryCheckResponse:  ToInventoryCheckResponse(check),
		TotalProducts:           summary.TotalItems,
		TotalDifference:         summary.TotalDifference,
		ProductsWithDiscrepancy: summary.ShortageItems + summary.OverageItems,
	}
}

// ToInventoryCheckListItems converts a slice of domain checks to list items
func ToInventoryCheckListItems(checks []inventory.InventoryCheck) []InventoryCheckListItem {
	items := make([]InventoryCheckListItem, len(checks))
	for i := range checks {
		items[i] = ToInventoryCheckListItem(&checks[i])
	}
	return items
}

// ToCheckSummaryResponse converts a domain summary
func ToCheckSummaryResponse(summary inventory.CheckSummary) CheckSummaryResponse {
	return CheckSummaryResponse{
		TotalItems:      summary.TotalItems,
		CountedItems:    summary.CountedItems,
		UncountedItems:  summary.UncountedItems,
		MatchedItems:    summary.MatchedItems,
		ShortageItems:   summary.ShortageItems,
		OverageItems:    summary.OverageItems,
		TotalDifference: summary.TotalDifference,
		AbsDifference:   summary.AbsDifference,
	}
}
