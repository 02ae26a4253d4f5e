// models.go
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Order struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID    string             `bson:"productId" json:"productId"`
	ProductTitle string             `bson:"productTitle,omitempty" json:"productTitle,omitempty"`
	BuyerEmail   string             `bson:"buyerEmail" json:"buyerEmail"`
	Payment      PaymentInfo        `bson:"payment" json:"payment"`
	Status       Status             `bson:"status" json:"status"` // estado actual
	TrackingID   string             `bson:"trackingId" json:"trackingId"`
	PlacedAt     time.Time          `bson:"placedAt" json:"placedAt"`
	ApprovedAt   *time.Time         `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`
}

type PaymentInfo struct {
	Method        string  `bson:"method" json:"method"`
	Amount        float64 `bson:"amount" json:"amount"`
	Currency      string  `bson:"currency" json:"currency"`
	Quantity      int     `bson:"quantity" json:"quantity"`
	TransactionID string  `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
}

// Evento del ledger de tracking. Nunca se modifica una vez guardado.
// Location y Note quedan en nil para el evento de aprobación.
type TrackingEvent struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrackingID string             `bson:"trackingId" json:"trackingId"`
	Status     Status             `bson:"status" json:"status"`
	LoggedAt   time.Time          `bson:"loggedAt" json:"loggedAt"`
	Location   *string            `bson:"location,omitempty" json:"location,omitempty"`
	Note       *string            `bson:"note,omitempty" json:"note,omitempty"`
}

type Role string

const (
	RoleBuyer   Role = "buyer"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Valores de adminApproval. Cualquier otro valor se trata como no aprobado.
const (
	ApprovalNotChecked = "not checked"
	ApprovalApproved   = "approved"
	ApprovalRejected   = "rejected"
)

type User struct {
	Email         string    `bson:"email" json:"email"`
	Name          string    `bson:"name" json:"name"`
	PhotoURL      string    `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	Role          Role      `bson:"role" json:"role"`
	AdminApproval string    `bson:"adminApproval" json:"adminApproval"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

type Product struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title             string             `bson:"title" json:"title"`
	Description       string             `bson:"description" json:"description"`
	Category          string             `bson:"category" json:"category"`
	Price             float64            `bson:"price" json:"price"`
	AvailableQuantity int                `bson:"availableQuantity" json:"availableQuantity"`
	MinimumOrder      int                `bson:"minimumOrder" json:"minimumOrder"`
	Images            []string           `bson:"images,omitempty" json:"images,omitempty"`
	PaymentOptions    []string           `bson:"paymentOptions,omitempty" json:"paymentOptions,omitempty"`
	CreatedBy         string             `bson:"createdBy" json:"createdBy"`
	Date              time.Time          `bson:"date" json:"date"`
}
