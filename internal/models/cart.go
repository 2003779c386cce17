package models

import "time"

// CartLine is one staged purchase intent. There is at most one line per
// (user, medicine) pair.
type CartLine struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string    `json:"user_id" gorm:"uniqueIndex:idx_cart_user_medicine;type:varchar(36)"`
	MedicineID string    `json:"medicine_id" gorm:"uniqueIndex:idx_cart_user_medicine;type:varchar(36)"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	Image      string    `json:"image"`
	Quantity   int       `json:"quantity" validate:"gte=1"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
