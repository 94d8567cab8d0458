package cart

import (
	"context"
	"errors"
	"time"

	"kirana/apperr"
	"kirana/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Service owns all cart writes. Every write goes through save, which
// recomputes the derived totals first; the only other persistence path is
// ClearIfUnchanged, whose result (an empty cart) has constant totals.
type Service struct {
	carts   *mongo.Collection
	resolve PriceResolver
}

func NewService(carts, products *mongo.Collection) *Service {
	return &Service{carts: carts, resolve: mongoPrices(products)}
}

// NewServiceWithResolver swaps the price source; used by tests.
func NewServiceWithResolver(carts *mongo.Collection, resolve PriceResolver) *Service {
	return &Service{carts: carts, resolve: resolve}
}

func mongoPrices(products *mongo.Collection) PriceResolver {
	return func(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]float64, error) {
		prices := make(map[primitive.ObjectID]float64, len(ids))
		if len(ids) == 0 {
			return prices, nil
		}
		cursor, err := products.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
			options.Find().SetProjection(bson.M{"price": 1}))
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var rows []struct {
			ID    primitive.ObjectID `bson:"_id"`
			Price float64            `bson:"price"`
		}
		if err := cursor.All(ctx, &rows); err != nil {
			return nil, err
		}
		for _, row := range rows {
			prices[row.ID] = row.Price
		}
		return prices, nil
	}
}

// refresh is the derived-totals maintainer: it resolves current prices and
// recomputes totalAmount/totalItems from the line items at this instant.
func (s *Service) refresh(ctx context.Context, c *models.Cart) error {
	ids := make([]primitive.ObjectID, 0, len(c.Products))
	for _, line := range c.Products {
		ids = append(ids, line.Product)
	}
	prices, err := s.resolve(ctx, ids)
	if err != nil {
		return err
	}
	c.TotalAmount, c.TotalItems = computeTotals(c.Products, prices)
	return nil
}

func (s *Service) save(ctx context.Context, c *models.Cart) error {
	if err := s.refresh(ctx, c); err != nil {
		return err
	}

	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	_, err := s.carts.ReplaceOne(ctx, bson.M{"user": c.User}, c,
		options.Replace().SetUpsert(true))
	return err
}

func (s *Service) byUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var c models.Cart
	err := s.carts.FindOne(ctx, bson.M{"user": userID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ByID loads a cart by its own ID, for the checkout flow.
func (s *Service) ByID(ctx context.Context, cartID primitive.ObjectID) (*models.Cart, error) {
	var c models.Cart
	err := s.carts.FindOne(ctx, bson.M{"_id": cartID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Cart doesn't exist")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// AddItem creates the cart on first use, merges the quantity when the
// product is already present, appends a new line otherwise.
func (s *Service) AddItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		quantity = 1
	}

	c, err := s.byUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = &models.Cart{User: userID}
	}
	c.Products = addLine(c.Products, productID, quantity)

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveItem decrements a line's quantity, dropping the line entirely once
// it would reach zero.
func (s *Service) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		quantity = 1
	}

	c, err := s.byUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("Cart not found")
	}

	lines, found := removeLine(c.Products, productID, quantity)
	if !found {
		return nil, apperr.BadRequest("Product not found in the cart")
	}
	c.Products = lines

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Empty clears all line items; the totals maintainer zeroes both derived
// fields on save.
func (s *Service) Empty(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	c, err := s.byUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("Cart not found")
	}

	c.Products = []models.CartLine{}

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ClearIfUnchanged empties the cart only when it has not been written since
// seen. Checkout uses it so a concurrent cart write between the snapshot and
// the clear is detected instead of silently discarded. An empty cart's
// derived totals are constant, so the inline zeroing matches what the totals
// maintainer would compute.
func (s *Service) ClearIfUnchanged(ctx context.Context, userID primitive.ObjectID, seen time.Time) error {
	res, err := s.carts.UpdateOne(ctx,
		bson.M{"user": userID, "updatedAt": seen},
		bson.M{"$set": bson.M{
			"products":    []models.CartLine{},
			"totalAmount": 0.0,
			"totalItems":  0,
			"updatedAt":   time.Now(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.Conflict("Cart was modified during checkout")
	}
	return nil
}

// Get returns the user's cart with every line resolved to full product
// detail, or an empty document when no cart exists.
func (s *Service) Get(ctx context.Context, userID primitive.ObjectID) (bson.M, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"user": userID}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$products",
			"preserveNullAndEmptyArrays": true,
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "products.product",
			"foreignField": "_id",
			"as":           "productDetails",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$productDetails",
			"preserveNullAndEmptyArrays": true,
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":  "$_id",
			"user": bson.M{"$first": "$user"},
			"products": bson.M{"$push": bson.M{
				"product":  "$productDetails",
				"quantity": "$products.quantity",
			}},
			"totalAmount": bson.M{"$first": "$totalAmount"},
			"totalItems":  bson.M{"$first": "$totalItems"},
			"createdAt":   bson.M{"$first": "$createdAt"},
			"updatedAt":   bson.M{"$first": "$updatedAt"},
		}}},
	}

	cursor, err := s.carts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []bson.M
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return bson.M{}, nil
	}
	return results[0], nil
}

// Delete removes the cart document itself. Emptying is the normal path;
// this exists for explicit deletes only.
func (s *Service) Delete(ctx context.Context, cartID primitive.ObjectID) error {
	res, err := s.carts.DeleteOne(ctx, bson.M{"_id": cartID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("Cart not found")
	}
	return nil
}
