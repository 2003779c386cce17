package services

import (
	"strings"

	"apotek/internal/models"
)

// OrderDraft is a candidate order as collected by the UI: the items to buy,
// the chosen payment branch, and a snapshot of the customer's contact info.
type OrderDraft struct {
	Items         []models.OrderItem
	PaymentMethod models.PaymentMethod
	MobileMethod  models.MobileProvider
	BankDetails   models.BankDetails
	Customer      models.CustomerInfo
	// FromCart marks drafts built from the user's cart; the consumed cart
	// lines are deleted once the order is placed. Buy-now drafts leave the
	// cart untouched.
	FromCart bool
}

// phoneCountryPrefix is stripped before the digit-count check.
const phoneCountryPrefix = "+88"

// ValidateDraft decides whether an order draft may be submitted. It is a pure
// predicate: the same function runs at the HTTP boundary and again inside the
// submission orchestrator immediately before persisting, so a client can
// never sidestep it.
func ValidateDraft(draft *OrderDraft) error {
	if len(draft.Items) == 0 {
		return ErrEmptyOrder
	}
	var total float64
	for _, item := range draft.Items {
		if item.MedicineID == "" {
			return &ValidationError{Field: "items", Reason: "item is missing a medicine id"}
		}
		if item.Quantity < 1 {
			return &ValidationError{Field: "items", Reason: "quantity must be at least 1"}
		}
		if item.Price < 0 {
			return &ValidationError{Field: "items", Reason: "price must not be negative"}
		}
		total += item.Price * float64(item.Quantity)
	}
	if total <= 0 {
		return &ValidationError{Field: "items", Reason: "order total must be greater than zero"}
	}

	switch draft.PaymentMethod {
	case models.PaymentCash:
		// Nothing further to collect.
	case models.PaymentBank:
		if err := validateBankDetails(&draft.BankDetails); err != nil {
			return err
		}
	case models.PaymentMobile:
		switch draft.MobileMethod {
		case models.MobileBkash, models.MobileNagad, models.MobileRocket:
		default:
			return &ValidationError{Field: "mobile_method", Reason: "a mobile wallet must be selected"}
		}
	default:
		return &ValidationError{Field: "payment_method", Reason: "payment method must be cash, bank or mobile"}
	}

	return validateCustomerInfo(&draft.Customer)
}

func validateBankDetails(b *models.BankDetails) error {
	fields := map[string]string{
		"bank_details.bank_name":      b.BankName,
		"bank_details.account_name":   b.AccountName,
		"bank_details.account_number": b.AccountNumber,
		"bank_details.branch":         b.Branch,
		"bank_details.transaction_id": b.TransactionID,
	}
	for field, value := range fields {
		if strings.TrimSpace(value) == "" {
			return &ValidationError{Field: field, Reason: "required for bank payments"}
		}
	}
	return nil
}

func validateCustomerInfo(c *models.CustomerInfo) error {
	if strings.TrimSpace(c.DisplayName) == "" {
		return &ValidationError{Field: "customer_info.display_name", Reason: "required"}
	}
	if strings.TrimSpace(c.Address) == "" {
		return &ValidationError{Field: "customer_info.address", Reason: "required"}
	}
	if strings.TrimSpace(c.Email) == "" {
		return &ValidationError{Field: "customer_info.email", Reason: "required"}
	}

	phone := strings.TrimSpace(c.PhoneNumber)
	if phone == "" {
		return &ValidationError{Field: "customer_info.phone_number", Reason: "required"}
	}
	phone = strings.TrimPrefix(phone, phoneCountryPrefix)
	if len(phone) != 11 || !isDigits(phone) {
		return &ValidationError{Field: "customer_info.phone_number", Reason: "must be exactly 11 digits"}
	}
	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
