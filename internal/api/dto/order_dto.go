package dto

import (
	"time"

	"github.com/spec-kit/shop-service/internal/domain"
)

// OrderItemRequest is one requested order line.
type OrderItemRequest struct {
	Product  string `json:"product" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"min=1"`
}

// CreateOrderRequest payload for POST /api/order.
type CreateOrderRequest struct {
	OrderItems       []OrderItemRequest `json:"orderItems" validate:"dive"`
	ShippingAddress1 string             `json:"shippingAddress1" validate:"max=255"`
	ShippingAddress2 string             `json:"shippingAddress2" validate:"max=255"`
	City             string             `json:"city" validate:"max=120"`
	Zip              string             `json:"zip" validate:"max=32"`
	Country          string             `json:"country" validate:"max=120"`
	Phone            string             `json:"phone" validate:"max=40"`
}

// Shipping maps the request onto the domain shipping fields.
func (r CreateOrderRequest) Shipping() domain.ShippingInfo {
	return domain.ShippingInfo{
		Address1: r.ShippingAddress1,
		Address2: r.ShippingAddress2,
		City:     r.City,
		Zip:      r.Zip,
		Country:  r.Country,
		Phone:    r.Phone,
	}
}

// UpdateOrderRequest payload for PATCH /api/order/:id. Fields outside the
// allow-list are dropped by the JSON decoder.
type UpdateOrderRequest struct {
	ShippingAddress1 *string `json:"shippingAddress1" validate:"omitempty,max=255"`
	ShippingAddress2 *string `json:"shippingAddress2" validate:"omitempty,max=255"`
	City             *string `json:"city" validate:"omitempty,max=120"`
	Zip              *string `json:"zip" validate:"omitempty,max=32"`
	Country          *string `json:"country" validate:"omitempty,max=120"`
	Phone            *string `json:"phone" validate:"omitempty,max=40"`
	Status           *string `json:"status" validate:"omitempty,min=1,max=40"`
}

// Patch maps the request onto the domain patch.
func (r UpdateOrderRequest) Patch() domain.OrderPatch {
	return domain.OrderPatch{
		ShippingAddress1: r.ShippingAddress1,
		ShippingAddress2: r.ShippingAddress2,
		City:             r.City,
		Zip:              r.Zip,
		Country:          r.Country,
		Phone:            r.Phone,
		Status:           r.Status,
	}
}

// OrderItemResponse is one line of an order.
type OrderItemResponse struct {
	ID        string           `json:"id"`
	ProductID string           `json:"productId"`
	Product   *ProductResponse `json:"product,omitempty"`
	Quantity  int              `json:"quantity"`
}

// OrderOwnerResponse is the owner summary attached to an order.
type OrderOwnerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// OrderResponse is the JSON shape of an order.
type OrderResponse struct {
	ID               string              `json:"id"`
	OrderItems       []OrderItemResponse `json:"orderItems"`
	ShippingAddress1 string              `json:"shippingAddress1"`
	ShippingAddress2 string              `json:"shippingAddress2"`
	City             string              `json:"city"`
	Zip              string              `json:"zip"`
	Country          string              `json:"country"`
	Phone            string              `json:"phone"`
	Status           string              `json:"status"`
	TotalPrice       Money               `json:"totalPrice"`
	UserID           string              `json:"userId"`
	User             *OrderOwnerResponse `json:"user,omitempty"`
	DateOrdered      time.Time           `json:"dateOrdered"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// NewOrderResponse converts a domain order. withOwnerPhone controls whether the
// owner's phone is exposed, which only the single-order view does.
func NewOrderResponse(o *domain.Order, withOwnerPhone bool) OrderResponse {
	resp := OrderResponse{
		ID:               o.ID,
		OrderItems:       make([]OrderItemResponse, 0, len(o.Items)),
		ShippingAddress1: o.Shipping.Address1,
		ShippingAddress2: o.Shipping.Address2,
		City:             o.Shipping.City,
		Zip:              o.Shipping.Zip,
		Country:          o.Shipping.Country,
		Phone:            o.Shipping.Phone,
		Status:           o.Status,
		TotalPrice:       Money(o.TotalPrice),
		UserID:           o.UserID,
		DateOrdered:      o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
	for i := range o.Items {
		item := o.Items[i]
		line := OrderItemResponse{ID: item.ID, ProductID: item.ProductID, Quantity: item.Quantity}
		if item.Product != nil {
			p := NewProductResponse(item.Product)
			line.Product = &p
		}
		resp.OrderItems = append(resp.OrderItems, line)
	}
	if o.User != nil {
		resp.User = &OrderOwnerResponse{ID: o.User.ID, Name: o.User.Name, Email: o.User.Email}
		if withOwnerPhone {
			resp.User.Phone = o.User.Phone
		}
	}
	return resp
}
