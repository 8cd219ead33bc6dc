package dto

import (
	"github.com/spec-kit/shop-service/internal/domain"
)

// ProductResponse is the public shape of a catalog product.
type ProductResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       Money  `json:"price"`
}

func NewProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{ID: p.ID, Name: p.Name, Description: p.Description, Price: Money(p.Price)}
}
