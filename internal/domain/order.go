package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrOrderNotFound covers both a missing order and one owned by someone else.
var ErrOrderNotFound = errors.New("order not found")

// OrderStatusPending is the status assigned at placement.
const OrderStatusPending = "pending"

// OrderItem is one persisted line of an order. Immutable once created.
type OrderItem struct {
	ID        string
	ProductID string
	Quantity  int
	CreatedAt time.Time
	// Product is populated on reads only.
	Product *Product
}

// ShippingInfo holds the delivery fields of an order.
type ShippingInfo struct {
	Address1 string
	Address2 string
	City     string
	Zip      string
	Country  string
	Phone    string
}

// Order is the aggregate created by order placement. TotalPrice is a snapshot
// taken at creation and is never recomputed on read.
type Order struct {
	ID           string
	OrderItemIDs []string
	Items        []OrderItem
	Shipping     ShippingInfo
	TotalPrice   decimal.Decimal
	UserID       string
	User         *UserSummary
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderPatch carries the allow-listed mutable fields of an order. Nil means untouched.
type OrderPatch struct {
	ShippingAddress1 *string
	ShippingAddress2 *string
	City             *string
	Zip              *string
	Country          *string
	Phone            *string
	Status           *string
}

// IsEmpty reports whether the patch changes nothing.
func (p OrderPatch) IsEmpty() bool {
	return p.ShippingAddress1 == nil &&
		p.ShippingAddress2 == nil &&
		p.City == nil &&
		p.Zip == nil &&
		p.Country == nil &&
		p.Phone == nil &&
		p.Status == nil
}
