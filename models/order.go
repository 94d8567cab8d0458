package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses
const (
	OrderInitiated  = "initiated"
	OrderProcessing = "processing"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
)

// Payment statuses
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// OrderLine is a snapshot of a cart line taken at checkout.
type OrderLine struct {
	Product  primitive.ObjectID `json:"product" bson:"product"`
	Quantity int                `json:"quantity" bson:"quantity"`
}

// Order is an immutable snapshot of a cart at checkout time. Only status,
// paymentStatus, transactionId and paymentDetails change afterwards, via the
// payment capture flow. It never re-derives from the cart.
type Order struct {
	ID             primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	OrderNo        string             `json:"orderNo" bson:"orderNo"`
	User           primitive.ObjectID `json:"user" bson:"user"`
	Products       []OrderLine        `json:"products" bson:"products"`
	TotalAmount    float64            `json:"totalAmount" bson:"totalAmount"`
	Status         string             `json:"status" bson:"status"`
	PaymentStatus  string             `json:"paymentStatus" bson:"paymentStatus"`
	TransactionID  string             `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	PaymentDetails bson.M             `json:"paymentDetails,omitempty" bson:"paymentDetails,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}
