package models

import "gorm.io/gorm"

// Medicine represents a sellable product in a company's storefront.
type Medicine struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	CompanyID   string  `json:"company_id" gorm:"index;type:varchar(36)" validate:"required"`
	Image       string  `json:"image" validate:"omitempty,url"`
	gorm.Model          // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
