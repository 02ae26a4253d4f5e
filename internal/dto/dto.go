// dto.go
package dto

import (
	"order-loom/internal/model"
)

// CreateOrderRequest usado por la API para que un buyer haga un pedido
type CreateOrderRequest struct {
	ProductID string     `json:"productId" binding:"required"`
	Payment   PaymentDTO `json:"payment"`
}

type PaymentDTO struct {
	Method        string  `json:"method"`
	Amount        float64 `json:"amount" binding:"gte=0"`
	Currency      string  `json:"currency"`
	Quantity      int     `json:"quantity" binding:"gte=0"`
	TransactionID string  `json:"transactionId"`
}

func (p PaymentDTO) ToModel() model.PaymentInfo {
	return model.PaymentInfo{
		Method:        p.Method,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Quantity:      p.Quantity,
		TransactionID: p.TransactionID,
	}
}

type UpdateStatusRequest struct {
	Status   string  `json:"status" binding:"required"`
	Location *string `json:"location"`
	Note     *string `json:"note"`
}

type CreateProductRequest struct {
	Title             string   `json:"title" binding:"required"`
	Description       string   `json:"description"`
	Category          string   `json:"category"`
	Price             float64  `json:"price" binding:"gte=0"`
	AvailableQuantity int      `json:"availableQuantity" binding:"gte=0"`
	MinimumOrder      int      `json:"minimumOrder" binding:"gte=0"`
	Images            []string `json:"images"`
	PaymentOptions    []string `json:"paymentOptions"`
}

func (r CreateProductRequest) ToModel() *model.Product {
	return &model.Product{
		Title:             r.Title,
		Description:       r.Description,
		Category:          r.Category,
		Price:             r.Price,
		AvailableQuantity: r.AvailableQuantity,
		MinimumOrder:      r.MinimumOrder,
		Images:            r.Images,
		PaymentOptions:    r.PaymentOptions,
	}
}

type RegisterUserRequest struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type SetApprovalRequest struct {
	AdminApproval string `json:"adminApproval" binding:"required"`
}

// Next solo viene cuando las transiciones son estrictas.
type OrderFlowResponse struct {
	Stages []model.Stage             `json:"stages"`
	Next   map[string][]model.Status `json:"next,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
