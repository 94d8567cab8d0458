package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection     *mongo.Collection
	RoleCollection     *mongo.Collection
	ProductCollection  *mongo.Collection
	CategoryCollection *mongo.Collection
	CartCollection     *mongo.Collection
	OrderCollection    *mongo.Collection
	Client             *mongo.Client
)

// Initialize MongoDB connection. The driver connects lazily, so this
// succeeds even when the server is not reachable yet.
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	dbName := os.Getenv("MONGODB_DB")
	if dbName == "" {
		dbName = "kiranadb"
	}

	UserCollection = Client.Database(dbName).Collection("users")
	RoleCollection = Client.Database(dbName).Collection("roles")
	ProductCollection = Client.Database(dbName).Collection("products")
	CategoryCollection = Client.Database(dbName).Collection("categories")
	CartCollection = Client.Database(dbName).Collection("carts")
	OrderCollection = Client.Database(dbName).Collection("orders")
}

// EnsureIndexes creates the unique one-cart-per-user index.
func EnsureIndexes(ctx context.Context) error {
	_, err := CartCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_cart_user"),
	})
	return err
}
