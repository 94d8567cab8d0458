package reports

import (
	"context"
	"time"

	"kirana/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MonthRevenue struct {
	CurrentMonthAmount float64   `json:"currentMonthAmount" bson:"currentMonthAmount"`
	LastMonthAmount    float64   `json:"lastMonthAmount" bson:"lastMonthAmount"`
	TotalAmount        float64   `json:"totalAmount" bson:"totalAmount"`
	DailyBreakdown     []float64 `json:"dailyBreakdown"`
}

type YearRevenue struct {
	CurrentYearAmount float64   `json:"currentYearAmount" bson:"currentYearAmount"`
	LastYearAmount    float64   `json:"lastYearAmount" bson:"lastYearAmount"`
	TotalAmount       float64   `json:"totalAmount" bson:"totalAmount"`
	MonthlyBreakdown  []float64 `json:"monthlyBreakdown"`
}

type MonthPoint struct {
	Month    string  `json:"month"`
	ThisYear float64 `json:"thisYear"`
	LastYear float64 `json:"lastYear"`
}

func completedSince(since time.Time) bson.M {
	return bson.M{
		"createdAt": bson.M{"$gte": since},
		"status":    models.OrderCompleted,
	}
}

func completedBetween(from, to time.Time) bson.M {
	return bson.M{
		"createdAt": bson.M{"$gte": from, "$lt": to},
		"status":    models.OrderCompleted,
	}
}

func sumBranch(match bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$totalAmount"}}}},
	}
}

func breakdownBranch(match bson.M, dateFormat string) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": dateFormat,
				"date":   "$createdAt",
			}},
			"total": bson.M{"$sum": "$totalAmount"},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

// firstTotal lifts the single grouped document out of a facet branch,
// defaulting to 0 when the branch matched nothing.
func firstTotal(branch string) bson.M {
	return bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$" + branch + ".total", 0}}, 0}}
}

type breakdownRow struct {
	ID    string  `bson:"_id"`
	Total float64 `bson:"total"`
}

func toMap(rows []breakdownRow) map[string]float64 {
	m := make(map[string]float64, len(rows))
	for _, row := range rows {
		m[row.ID] = row.Total
	}
	return m
}

func runFacet(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline, out interface{}) error {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	if cursor.Next(ctx) {
		return cursor.Decode(out)
	}
	return cursor.Err()
}

// RevenueMonth reports completed-order revenue for the current month, the
// previous month and all time, plus a per-day breakdown zero-filled to the
// length of the current calendar month.
func RevenueMonth(ctx context.Context, orders *mongo.Collection) (MonthRevenue, error) {
	now := time.Now().UTC()
	curStart := monthStart(now)
	prevStart := prevMonthStart(now)

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$facet", Value: bson.M{
			"currentMonthAmount": sumBranch(completedSince(curStart)),
			"lastMonthAmount":    sumBranch(completedBetween(prevStart, curStart)),
			"totalAmount":        sumBranch(bson.M{"status": models.OrderCompleted}),
			"dailyBreakdown":     breakdownBranch(completedSince(curStart), "%Y-%m-%d"),
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"currentMonthAmount": firstTotal("currentMonthAmount"),
			"lastMonthAmount":    firstTotal("lastMonthAmount"),
			"totalAmount":        firstTotal("totalAmount"),
			"dailyBreakdown":     "$dailyBreakdown",
		}}},
	}

	var raw struct {
		CurrentMonthAmount float64        `bson:"currentMonthAmount"`
		LastMonthAmount    float64        `bson:"lastMonthAmount"`
		TotalAmount        float64        `bson:"totalAmount"`
		DailyBreakdown     []breakdownRow `bson:"dailyBreakdown"`
	}
	if err := runFacet(ctx, orders, pipeline, &raw); err != nil {
		return MonthRevenue{}, err
	}

	return MonthRevenue{
		CurrentMonthAmount: raw.CurrentMonthAmount,
		LastMonthAmount:    raw.LastMonthAmount,
		TotalAmount:        raw.TotalAmount,
		DailyBreakdown:     fillDaily(toMap(raw.DailyBreakdown), now),
	}, nil
}

// RevenueYear is the yearly counterpart with a 12-month breakdown.
func RevenueYear(ctx context.Context, orders *mongo.Collection) (YearRevenue, error) {
	now := time.Now().UTC()
	curStart := yearStart(now)
	prevStart := prevYearStart(now)

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$facet", Value: bson.M{
			"currentYearAmount": sumBranch(completedSince(curStart)),
			"lastYearAmount":    sumBranch(completedBetween(prevStart, curStart)),
			"totalAmount":       sumBranch(bson.M{"status": models.OrderCompleted}),
			"monthlyBreakdown":  breakdownBranch(completedSince(curStart), "%m"),
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"currentYearAmount": firstTotal("currentYearAmount"),
			"lastYearAmount":    firstTotal("lastYearAmount"),
			"totalAmount":       firstTotal("totalAmount"),
			"monthlyBreakdown":  "$monthlyBreakdown",
		}}},
	}

	var raw struct {
		CurrentYearAmount float64        `bson:"currentYearAmount"`
		LastYearAmount    float64        `bson:"lastYearAmount"`
		TotalAmount       float64        `bson:"totalAmount"`
		MonthlyBreakdown  []breakdownRow `bson:"monthlyBreakdown"`
	}
	if err := runFacet(ctx, orders, pipeline, &raw); err != nil {
		return YearRevenue{}, err
	}

	return YearRevenue{
		CurrentYearAmount: raw.CurrentYearAmount,
		LastYearAmount:    raw.LastYearAmount,
		TotalAmount:       raw.TotalAmount,
		MonthlyBreakdown:  fillMonthly(toMap(raw.MonthlyBreakdown)),
	}, nil
}

// RevenueGraph compares per-month revenue this year against last year.
func RevenueGraph(ctx context.Context, orders *mongo.Collection) ([]MonthPoint, error) {
	now := time.Now().UTC()
	curStart := yearStart(now)
	prevStart := prevYearStart(now)

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$facet", Value: bson.M{
			"currentYearMonthly": breakdownBranch(completedSince(curStart), "%m"),
			"lastYearMonthly":    breakdownBranch(completedBetween(prevStart, curStart), "%m"),
		}}},
	}

	var raw struct {
		CurrentYearMonthly []breakdownRow `bson:"currentYearMonthly"`
		LastYearMonthly    []breakdownRow `bson:"lastYearMonthly"`
	}
	if err := runFacet(ctx, orders, pipeline, &raw); err != nil {
		return nil, err
	}

	thisYear := fillMonthly(toMap(raw.CurrentYearMonthly))
	lastYear := fillMonthly(toMap(raw.LastYearMonthly))

	points := make([]MonthPoint, 12)
	for i, name := range monthNames {
		points[i] = MonthPoint{Month: name, ThisYear: thisYear[i], LastYear: lastYear[i]}
	}
	return points, nil
}
