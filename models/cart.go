package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartLine is a (product, quantity) pair inside a cart.
type CartLine struct {
	Product  primitive.ObjectID `json:"product" bson:"product"`
	Quantity int                `json:"quantity" bson:"quantity"`
}

// Cart holds one user's open cart. TotalAmount and TotalItems are derived
// from Products at save time and are never accepted from callers.
type Cart struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	User        primitive.ObjectID `json:"user" bson:"user"`
	Products    []CartLine         `json:"products" bson:"products"`
	TotalAmount float64            `json:"totalAmount" bson:"totalAmount"`
	TotalItems  int                `json:"totalItems" bson:"totalItems"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}
