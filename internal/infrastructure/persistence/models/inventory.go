package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail/backoffice/internal/domain/inventory"
)

// InventoryCheckModel is the persistence model for the InventoryCheck aggregate root.
type InventoryCheckModel struct {
	ActorAggregateModel
	CheckNumber string                         `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string                         `gorm:"type:varchar(200);not null"`
	Items       []InventoryCheckItemModel      `gorm:"foreignKey:CheckID;references:ID"`
	Status      inventory.InventoryCheckStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	Note        string                         `gorm:"type:text"`
	CompletedAt *time.Time                     `gorm:"index"`
	CompletedBy *uuid.UUID                     `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (InventoryCheckModel) TableName() string {
	return "inventory_checks"
}

// ToDomain converts the persistence model to a domain InventoryCheck.
func (m *InventoryCheckModel) ToDomain() *inventory.InventoryCheck {
	check := &inventory.InventoryCheck{
		CheckNumber: m.CheckNumber,
		Name:        m.Name,
		Status:      m.Status,
		Note:        m.Note,
		CompletedAt: m.CompletedAt,
		CompletedBy: m.CompletedBy,
		Items:       make([]inventory.InventoryCheckItem, len(m.Items)),
	}
	m.PopulateActorAggregateRoot(&check.ActorAggregateRoot)
	for i, item := range m.Items {
		check.Items[i] = *item.ToDomain()
	}
	return check
}

// FromDomain populates the persistence model from a domain InventoryCheck.
func (m *InventoryCheckModel) FromDomain(c *inventory.InventoryCheck) {
	m.FromDomainActorAggregateRoot(c.ActorAggregateRoot)
	m.CheckNumber = c.CheckNumber
	m.Name = c.Name
	m.Status = c.Status
	m.Note = c.Note
	m.CompletedAt = c.CompletedAt
	m.CompletedBy = c.CompletedBy
	m.Items = make([]InventoryCheckItemModel, len(c.Items))
	for i := range c.Items {
		m.Items[i] = *InventoryCheckItemModelFromDomain(&c.Items[i])
	}
}

// InventoryCheckModelFromDomain creates a new persistence model from a domain InventoryCheck.
func InventoryCheckModelFromDomain(c *inventory.InventoryCheck) *InventoryCheckModel {
	m := &InventoryCheckModel{}
	m.FromDomain(c)
	return m
}

// InventoryCheckItemModel is the persistence model for the InventoryCheckItem entity.
type InventoryCheckItemModel struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primary_key"`
	CheckID            uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_check_item_product,priority:1"`
	ProductID          uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_check_item_product,priority:2"`
	ProductName        string           `gorm:"type:varchar(200);not null"`
	SystemQuantity     decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	ActualQuantity     *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Difference         decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	DiscrepancyPercent decimal.Decimal  `gorm:"type:decimal(9,2);not null;default:0"`
	CreatedAt          time.Time        `gorm:"not null"`
	UpdatedAt          time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InventoryCheckItemModel) TableName() string {
	return "inventory_check_items"
}

// ToDomain converts the persistence model to a domain InventoryCheckItem.
func (m *InventoryCheckItemModel) ToDomain() *inventory.InventoryCheckItem {
	return &inventory.InventoryCheckItem{
		ID:                 m.ID,
		CheckID:            m.CheckID,
		ProductID:          m.ProductID,
		ProductName:        m.ProductName,
		SystemQuantity:     m.SystemQuantity,
		ActualQuantity:     m.ActualQuantity,
		Difference:         m.Difference,
		DiscrepancyPercent: m.DiscrepancyPercent,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// InventoryCheckItemModelFromDomain creates a persistence model from a domain item.
func InventoryCheckItemModelFromDomain(i *inventory.InventoryCheckItem) *InventoryCheckItemModel {
	return &InventoryCheckItemModel{
		ID:                 i.ID,
		CheckID:            i.CheckID,
		ProductID:          i.ProductID,
		ProductName:        i.ProductName,
		SystemQuantity:     i.SystemQuantity,
		ActualQuantity:     i.ActualQuantity,
		Difference:         i.Difference,
		DiscrepancyPercent: i.DiscrepancyPercent,
		CreatedAt:          i.CreatedAt,
		UpdatedAt:          i.UpdatedAt,
	}
}
