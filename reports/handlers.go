package reports

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"kirana/db"
	"kirana/rdx"
	"kirana/utils"

	"github.com/julienschmidt/httprouter"
)

// Report payloads change slowly; cache them briefly so dashboards don't
// hammer the aggregation pipeline.
const cacheTTL = 5 * time.Minute

func respondCached[T any](w http.ResponseWriter, r *http.Request, key string, compute func(ctx context.Context) (T, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var cached T
	if rdx.GetJSON(ctx, key, &cached) {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": true, "data": cached})
		return
	}

	data, err := compute(ctx)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	rdx.SetJSON(ctx, key, data, cacheTTL)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": true, "data": data})
}

func RevenueMonthHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	respondCached(w, r, "reports:revenue:month", func(ctx context.Context) (MonthRevenue, error) {
		return RevenueMonth(ctx, db.OrderCollection)
	})
}

func RevenueYearHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	respondCached(w, r, "reports:revenue:year", func(ctx context.Context) (YearRevenue, error) {
		return RevenueYear(ctx, db.OrderCollection)
	})
}

func RevenueGraphHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	respondCached(w, r, "reports:revenue:graph", func(ctx context.Context) ([]MonthPoint, error) {
		return RevenueGraph(ctx, db.OrderCollection)
	})
}

func SignupsMonthHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	respondCached(w, r, "reports:signups:month", func(ctx context.Context) (MonthSignups, error) {
		return SignupsMonth(ctx, db.UserCollection)
	})
}

func SignupsYearHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	respondCached(w, r, "reports:signups:year", func(ctx context.Context) (YearSignups, error) {
		return SignupsYear(ctx, db.UserCollection)
	})
}

func BestSellersHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit := utils.ParseInt(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 10
	}
	key := fmt.Sprintf("reports:bestsellers:%d", limit)
	respondCached(w, r, key, func(ctx context.Context) ([]BestSeller, error) {
		return BestSellers(ctx, db.OrderCollection, limit)
	})
}

func SalesByCategoryHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	respondCached(w, r, "reports:sales:category", func(ctx context.Context) ([]CategorySales, error) {
		return SalesByCategory(ctx, db.OrderCollection)
	})
}
