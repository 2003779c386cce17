package models

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"    // placed, stock not yet reserved
	OrderStatusProcessing OrderStatus = "processing" // stock reserved, being prepared
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatuses is the set of statuses an operator may set directly.
var ValidOrderStatuses = map[OrderStatus]bool{
	OrderStatusPending:    true,
	OrderStatusProcessing: true,
	OrderStatusShipped:    true,
	OrderStatusDelivered:  true,
	OrderStatusCancelled:  true,
}

// PaymentMethod is how the customer chose to pay.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentBank   PaymentMethod = "bank"
	PaymentMobile PaymentMethod = "mobile"
)

// MobileProvider identifies the mobile wallet used when PaymentMethod is "mobile".
type MobileProvider string

const (
	MobileBkash  MobileProvider = "bkash"
	MobileNagad  MobileProvider = "nagad"
	MobileRocket MobileProvider = "rocket"
)

// BankDetails holds the bank-transfer fields. All fields must be non-empty
// when the order's payment method is "bank".
type BankDetails struct {
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	Branch        string `json:"branch"`
	TransactionID string `json:"transaction_id"`
}

// CustomerInfo is a snapshot of the customer's contact details at the time
// the order was placed. It is independent of the live user profile.
type CustomerInfo struct {
	DisplayName string `json:"display_name"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	Email       string `json:"email"`
}

// OrderItem captures one line of an order. Name and Price are copied from the
// medicine at order time; later catalog edits never change a placed order.
type OrderItem struct {
	ID         uint    `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID    string  `json:"-" gorm:"index;type:varchar(36)"`
	MedicineID string  `json:"medicine_id" gorm:"type:varchar(36)"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"` // Unit price at the time of order
}

// Order represents a customer order.
type Order struct {
	ID            string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	InvoiceNumber string         `json:"invoice_number" gorm:"uniqueIndex;type:varchar(64)"`
	UserID        string         `json:"user_id" gorm:"index;type:varchar(36)"`
	Items         []OrderItem    `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Total         float64        `json:"total"`
	Status        OrderStatus    `json:"status" gorm:"type:varchar(20)"`
	PaymentMethod PaymentMethod  `json:"payment_method" gorm:"type:varchar(10)"`
	MobileMethod  MobileProvider `json:"mobile_method,omitempty" gorm:"type:varchar(10)"`
	BankDetails   BankDetails    `json:"bank_details,omitempty" gorm:"embedded;embeddedPrefix:bank_"`
	Customer      CustomerInfo   `json:"customer_info" gorm:"embedded;embeddedPrefix:customer_"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// ComputeTotal derives the order total from its items. Displayed and persisted
// totals always come from this, never from a client-supplied figure.
func (o *Order) ComputeTotal() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Price * float64(item.Quantity)
	}
	return RoundAmount(total)
}
