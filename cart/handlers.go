package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"kirana/db"
	"kirana/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var svc *Service

func init() {
	svc = NewService(db.CartCollection, db.ProductCollection)
}

type itemPayload struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func decodeItem(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, int, primitive.ObjectID, bool) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return primitive.NilObjectID, 0, primitive.NilObjectID, false
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return primitive.NilObjectID, 0, primitive.NilObjectID, false
	}

	var payload itemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Println("cart decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return primitive.NilObjectID, 0, primitive.NilObjectID, false
	}
	pid, err := primitive.ObjectIDFromHex(payload.ProductID)
	if err != nil {
		http.Error(w, "Invalid product id", http.StatusBadRequest)
		return primitive.NilObjectID, 0, primitive.NilObjectID, false
	}
	return uid, payload.Quantity, pid, true
}

// AddToCart merges the product into the user's cart, creating the cart on
// first use.
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	uid, qty, pid, ok := decodeItem(w, r)
	if !ok {
		return
	}

	updated, err := svc.AddItem(ctx, uid, pid, qty)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"status":  true,
		"message": "Product added to cart successfully",
		"data":    updated,
	})
}

// RemoveFromCart decrements the product's quantity, dropping the line at
// zero.
func RemoveFromCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	uid, qty, pid, ok := decodeItem(w, r)
	if !ok {
		return
	}

	updated, err := svc.RemoveItem(ctx, uid, pid, qty)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"status":  true,
		"message": "Product updated in cart",
		"data":    updated,
	})
}

// GetCart returns the cart with line items resolved to product detail.
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	data, err := svc.Get(ctx, uid)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": true, "data": data})
}

// EmptyCart clears all line items and zeroes the derived totals.
func EmptyCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	updated, err := svc.Empty(ctx, uid)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"status":  true,
		"message": "Cart emptied successfully",
		"data":    updated,
	})
}

// DeleteCart removes the cart document entirely.
func DeleteCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cartID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		http.Error(w, "Invalid cart id", http.StatusBadRequest)
		return
	}

	if err := svc.Delete(ctx, cartID); err != nil {
		utils.SendError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"status":  true,
		"message": "Cart deleted successfully",
	})
}

// Svc exposes the cart service to the checkout flow.
func Svc() *Service {
	return svc
}
