package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"kirana/cart"
	"kirana/db"
	"kirana/invoice"
	"kirana/models"
	"kirana/query"
	"kirana/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var svc *Checkout

func init() {
	svc = &Checkout{
		Orders: NewStore(db.OrderCollection),
		Carts:  cart.Svc(),
	}
}

func pathID(w http.ResponseWriter, ps httprouter.Params, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(ps.ByName(name))
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return primitive.NilObjectID, false
	}
	return id, true
}

// CheckoutCart is the direct-purchase flow.
func CheckoutCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cartID, ok := pathID(w, ps, "cartId")
	if !ok {
		return
	}

	order, err := svc.Direct(ctx, cartID)
	if err != nil {
		if order != nil {
			// Order persisted, cart clear failed. Surface it without
			// undoing the order.
			log.Println("checkout:", err)
			utils.RespondWithJSON(w, http.StatusCreated, utils.M{
				"status":  true,
				"message": "Order created but cart could not be cleared",
				"data":    order,
			})
			return
		}
		utils.SendError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"status":  true,
		"message": "Order created successfully",
		"data":    order,
	})
}

// InitiateCheckout creates a pending order for gateway-mediated payment.
func InitiateCheckout(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cartID, ok := pathID(w, ps, "cartId")
	if !ok {
		return
	}

	order, err := svc.Initiate(ctx, cartID)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"status":  true,
		"message": "Order initiated",
		"data":    order,
	})
}

// CapturePayment is the gateway capture callback surface.
func CapturePayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orderID, ok := pathID(w, ps, "id")
	if !ok {
		return
	}

	var payload struct {
		PaymentStatus  string `json:"paymentStatus"`
		TransactionID  string `json:"transactionId"`
		PaymentDetails bson.M `json:"paymentDetails"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Println("capture decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	order, err := svc.Capture(ctx, orderID, payload.PaymentStatus, payload.TransactionID, payload.PaymentDetails)
	if err != nil && order == nil {
		utils.SendError(w, err)
		return
	}
	if err != nil {
		log.Println("capture:", err)
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": true, "data": order})
}

// GetOrders lists orders through the generic engine.
func GetOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	envelope, err := List(ctx, db.OrderCollection, query.Parse(r.URL.Query()))
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, envelope)
}

// GetOrder returns one joined order document.
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orderID, ok := pathID(w, ps, "id")
	if !ok {
		return
	}

	doc, err := Detail(ctx, db.OrderCollection, orderID)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	if doc == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order doesn't exist")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": true, "data": doc})
}

// RecentOrders returns the latest n orders (default 5).
func RecentOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	n := utils.ParseInt(r.URL.Query().Get("n"))
	if n < 1 {
		n = 5
	}

	results, err := Recent(ctx, db.OrderCollection, n)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": true, "data": results})
}

// OrderInvoice renders the order as a PDF invoice.
func OrderInvoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	orderID, ok := pathID(w, ps, "id")
	if !ok {
		return
	}

	order, err := svc.Orders.ByID(ctx, orderID)
	if err != nil {
		utils.SendError(w, err)
		return
	}

	var buyer models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"_id": order.User}).Decode(&buyer); err != nil {
		log.Println("invoice: user lookup:", err)
	}

	ids := make([]primitive.ObjectID, 0, len(order.Products))
	for _, line := range order.Products {
		ids = append(ids, line.Product)
	}
	details := map[primitive.ObjectID]invoice.ProductDetail{}
	if len(ids) > 0 {
		cursor, err := db.ProductCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
			options.Find().SetProjection(bson.M{"name": 1, "price": 1}))
		if err != nil {
			utils.SendError(w, err)
			return
		}
		var rows []struct {
			ID    primitive.ObjectID `bson:"_id"`
			Name  string             `bson:"name"`
			Price float64            `bson:"price"`
		}
		if err := cursor.All(ctx, &rows); err != nil {
			utils.SendError(w, err)
			return
		}
		for _, row := range rows {
			details[row.ID] = invoice.ProductDetail{Name: row.Name, Price: row.Price}
		}
	}

	pdf, err := invoice.Render(order, &buyer, details)
	if err != nil {
		utils.SendError(w, errors.New("failed to render invoice"))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+order.OrderNo+".pdf")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Println("invoice write error:", err)
	}
}
