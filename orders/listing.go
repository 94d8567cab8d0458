package orders

import (
	"context"

	"kirana/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// lookupStages resolve the owning user and the snapshotted products so
// listings can search and project on joined fields.
func lookupStages() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "user",
			"foreignField": "_id",
			"as":           "user",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$user",
			"preserveNullAndEmptyArrays": true,
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "products.product",
			"foreignField": "_id",
			"as":           "productDetails",
			"pipeline": mongo.Pipeline{
				bson.D{{Key: "$project", Value: bson.M{"name": 1, "price": 1, "category": 1}}},
			},
		}}},
	}
}

func projection(includeDetails bool) bson.M {
	project := bson.M{
		"_id":           1,
		"orderNo":       1,
		"userName":      bson.M{"$ifNull": bson.A{"$user.name", nil}},
		"userEmail":     bson.M{"$ifNull": bson.A{"$user.email", nil}},
		"userId":        bson.M{"$ifNull": bson.A{"$user._id", nil}},
		"totalAmount":   1,
		"status":        1,
		"paymentStatus": 1,
		"transactionId": 1,
		"createdAt":     1,
		"updatedAt":     1,
		"products":      "$productDetails",
	}
	if includeDetails {
		project["paymentDetails"] = 1
	}
	return project
}

// List pages orders through the generic engine with the user/product joins
// in front of the filter and the projection after pagination.
func List(ctx context.Context, coll *mongo.Collection, spec query.Spec) (query.Envelope[bson.M], error) {
	extra := mongo.Pipeline{bson.D{{Key: "$project", Value: projection(false)}}}
	return query.FindAll[bson.M](ctx, coll, spec, lookupStages(), extra)
}

// Detail returns one fully joined order document.
func Detail(ctx context.Context, coll *mongo.Collection, orderID primitive.ObjectID) (bson.M, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": orderID}}},
	}
	pipeline = append(pipeline, lookupStages()...)
	pipeline = append(pipeline, bson.D{{Key: "$project", Value: projection(true)}})

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []bson.M
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// Recent returns the n most recent orders, fully joined.
func Recent(ctx context.Context, coll *mongo.Collection, n int) ([]bson.M, error) {
	pipeline := lookupStages()
	pipeline = append(pipeline,
		bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		bson.D{{Key: "$limit", Value: n}},
		bson.D{{Key: "$project", Value: projection(true)}},
	)

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []bson.M
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if results == nil {
		results = []bson.M{}
	}
	return results, nil
}
