package reports

import (
	"context"
	"time"

	"kirana/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// BestSellerWindow is the trailing period best-sellers are ranked over.
const BestSellerWindow = 7 * 24 * time.Hour

type BestSeller struct {
	Product       primitive.ObjectID `json:"product" bson:"_id"`
	Name          string             `json:"name" bson:"name"`
	Category      string             `json:"category" bson:"category"`
	Price         float64            `json:"price" bson:"price"`
	TotalQuantity int                `json:"totalQuantity" bson:"totalQuantity"`
}

type CategorySales struct {
	Category      string  `json:"category" bson:"_id"`
	TotalQuantity int     `json:"totalQuantity" bson:"totalQuantity"`
	Revenue       float64 `json:"revenue" bson:"revenue"`
}

func bestSellersPipeline(since time.Time, limit int) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"status":    models.OrderCompleted,
			"createdAt": bson.M{"$gte": since},
		}}},
		bson.D{{Key: "$unwind", Value: "$products"}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":           "$products.product",
			"totalQuantity": bson.M{"$sum": "$products.quantity"},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "totalQuantity", Value: -1}}}},
		bson.D{{Key: "$limit", Value: limit}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "productDetails",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$productDetails",
			"preserveNullAndEmptyArrays": true,
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":           1,
			"totalQuantity": 1,
			"name":          "$productDetails.name",
			"category":      "$productDetails.category",
			"price":         "$productDetails.price",
		}}},
	}
}

// BestSellers ranks products by quantity sold in completed orders over the
// trailing 7-day window, descending. Ties keep the engine's stable order;
// no explicit tie-break key is applied.
func BestSellers(ctx context.Context, orders *mongo.Collection, limit int) ([]BestSeller, error) {
	if limit < 1 {
		limit = 10
	}
	pipeline := bestSellersPipeline(time.Now().Add(-BestSellerWindow), limit)

	cursor, err := orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sellers []BestSeller
	if err := cursor.All(ctx, &sellers); err != nil {
		return nil, err
	}
	if sellers == nil {
		sellers = []BestSeller{}
	}
	return sellers, nil
}

// SalesByCategory aggregates quantity and revenue of completed orders per
// product category. Lines whose product no longer resolves are dropped.
func SalesByCategory(ctx context.Context, orders *mongo.Collection) ([]CategorySales, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"status": models.OrderCompleted}}},
		bson.D{{Key: "$unwind", Value: "$products"}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "products.product",
			"foreignField": "_id",
			"as":           "productDetails",
		}}},
		bson.D{{Key: "$unwind", Value: "$productDetails"}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":           "$productDetails.category",
			"totalQuantity": bson.M{"$sum": "$products.quantity"},
			"revenue": bson.M{"$sum": bson.M{
				"$multiply": bson.A{"$products.quantity", "$productDetails.price"},
			}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "revenue", Value: -1}}}},
	}

	cursor, err := orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sales []CategorySales
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, err
	}
	if sales == nil {
		sales = []CategorySales{}
	}
	return sales, nil
}
