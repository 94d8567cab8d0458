package products

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"kirana/apperr"
	"kirana/db"
	"kirana/models"
	"kirana/query"
	"kirana/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetProducts lists products through the generic engine; every query
// parameter except the control keys becomes an equality filter
// (?category=Spices&status=available).
func GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	envelope, err := query.FindAll[models.Product](ctx, db.ProductCollection, query.Parse(r.URL.Query()), nil, nil)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, envelope)
}

func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		http.Error(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	var product models.Product
	err = db.ProductCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.SendError(w, apperr.NotFound("Product doesn't exist"))
		return
	}
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": true, "data": product})
}

func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		log.Println("CreateProduct decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if product.Price < 0 || product.Category == "" {
		utils.SendError(w, apperr.BadRequest("Price and category are required"))
		return
	}
	if product.Status == "" {
		product.Status = models.ProductAvailable
	}
	now := time.Now()
	product.ID = primitive.NewObjectID()
	product.IsActive = true
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := db.ProductCollection.InsertOne(ctx, product); err != nil {
		utils.SendError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"status": true, "data": product})
}

// GetCategories lists the category documents products reference by name.
func GetCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	envelope, err := query.FindAll[models.Category](ctx, db.CategoryCollection, query.Parse(r.URL.Query()), nil, nil)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, envelope)
}

func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		http.Error(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	res, err := db.ProductCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		utils.SendError(w, err)
		return
	}
	if res.DeletedCount == 0 {
		utils.SendError(w, apperr.NotFound("Product doesn't exist"))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"status":  true,
		"message": "Product deleted successfully",
	})
}
