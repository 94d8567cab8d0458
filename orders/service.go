package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kirana/apperr"
	"kirana/models"
	"kirana/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CartSource is the slice of the cart service checkout needs.
type CartSource interface {
	ByID(ctx context.Context, cartID primitive.ObjectID) (*models.Cart, error)
	Empty(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	ClearIfUnchanged(ctx context.Context, userID primitive.ObjectID, seen time.Time) error
}

// OrderStore persists and mutates orders.
type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) error
	ByID(ctx context.Context, orderID primitive.ObjectID) (*models.Order, error)
	Update(ctx context.Context, orderID primitive.ObjectID, update bson.M) error
}

// Checkout turns a cart into an immutable order snapshot and then clears
// the cart. The order write always happens before the cart clear; a clear
// failure after a durable order write is surfaced, never retried, so a
// purchase can be lost to a crash only in the direction of a re-checkout.
type Checkout struct {
	Orders OrderStore
	Carts  CartSource
}

// snapshot copies owner, line items and totalAmount out of the cart. The
// order owns its copy; later cart changes never reach it.
func snapshot(c *models.Cart) *models.Order {
	lines := make([]models.OrderLine, 0, len(c.Products))
	for _, line := range c.Products {
		lines = append(lines, models.OrderLine{Product: line.Product, Quantity: line.Quantity})
	}
	now := time.Now()
	return &models.Order{
		OrderNo:     utils.GetUUID(),
		User:        c.User,
		Products:    lines,
		TotalAmount: c.TotalAmount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *Checkout) validated(ctx context.Context, cartID primitive.ObjectID) (*models.Cart, error) {
	c, err := s.Carts.ByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if c.TotalAmount <= 0 {
		return nil, apperr.BadRequest("Total amount must be greater than 0")
	}
	return c, nil
}

// Direct is the direct-purchase flow: the order is persisted already
// completed, then the cart is emptied.
func (s *Checkout) Direct(ctx context.Context, cartID primitive.ObjectID) (*models.Order, error) {
	c, err := s.validated(ctx, cartID)
	if err != nil {
		return nil, err
	}

	order := snapshot(c)
	order.Status = models.OrderCompleted
	order.PaymentStatus = models.PaymentCompleted

	if err := s.Orders.Insert(ctx, order); err != nil {
		return nil, err
	}
	// The clear is conditioned on the cart being untouched since the
	// snapshot, so a racing checkout or cart write surfaces as a conflict
	// here instead of being silently discarded. The order is durable either
	// way; the stale cart is the safe failure direction.
	if err := s.Carts.ClearIfUnchanged(ctx, c.User, c.UpdatedAt); err != nil {
		return order, fmt.Errorf("order %s created but cart not cleared: %w", order.OrderNo, err)
	}
	return order, nil
}

// Initiate is the gateway-mediated flow: the order is created in
// "initiated"/"pending" and the cart stays untouched until capture.
func (s *Checkout) Initiate(ctx context.Context, cartID primitive.ObjectID) (*models.Order, error) {
	c, err := s.validated(ctx, cartID)
	if err != nil {
		return nil, err
	}

	order := snapshot(c)
	order.Status = models.OrderInitiated
	order.PaymentStatus = models.PaymentPending

	if err := s.Orders.Insert(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Capture records the gateway's result on the order. A completed capture
// also empties the source cart, in the same persist-then-clear order.
func (s *Checkout) Capture(ctx context.Context, orderID primitive.ObjectID, paymentStatus, transactionID string, details bson.M) (*models.Order, error) {
	order, err := s.Orders.ByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	update := bson.M{
		"paymentStatus": paymentStatus,
		"updatedAt":     time.Now(),
	}
	if transactionID != "" {
		update["transactionId"] = transactionID
	}
	if details != nil {
		update["paymentDetails"] = details
	}

	switch paymentStatus {
	case models.PaymentCompleted:
		update["status"] = models.OrderCompleted
	case models.PaymentFailed:
		update["status"] = models.OrderCancelled
	default:
		return nil, apperr.BadRequest("Invalid payment status")
	}

	if err := s.Orders.Update(ctx, orderID, update); err != nil {
		return nil, err
	}

	if paymentStatus == models.PaymentCompleted {
		if _, err := s.Carts.Empty(ctx, order.User); err != nil {
			return order, fmt.Errorf("payment captured but cart not cleared: %w", err)
		}
	}
	return s.Orders.ByID(ctx, orderID)
}

// mongoOrders is the Mongo-backed OrderStore.
type mongoOrders struct {
	coll *mongo.Collection
}

func NewStore(coll *mongo.Collection) OrderStore {
	return &mongoOrders{coll: coll}
}

func (m *mongoOrders) Insert(ctx context.Context, order *models.Order) error {
	res, err := m.coll.InsertOne(ctx, order)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid
	}
	return nil
}

func (m *mongoOrders) ByID(ctx context.Context, orderID primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := m.coll.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Order doesn't exist")
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (m *mongoOrders) Update(ctx context.Context, orderID primitive.ObjectID, update bson.M) error {
	res, err := m.coll.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("Order doesn't exist")
	}
	return nil
}
