package reports

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MonthSignups struct {
	CurrentMonthCount float64   `json:"currentMonthCount"`
	LastMonthCount    float64   `json:"lastMonthCount"`
	TotalCount        float64   `json:"totalCount"`
	DailyBreakdown    []float64 `json:"dailyBreakdown"`
}

type YearSignups struct {
	CurrentYearCount float64   `json:"currentYearCount"`
	LastYearCount    float64   `json:"lastYearCount"`
	TotalCount       float64   `json:"totalCount"`
	MonthlyBreakdown []float64 `json:"monthlyBreakdown"`
}

func createdSince(since time.Time) bson.M {
	return bson.M{"createdAt": bson.M{"$gte": since}}
}

func createdBetween(from, to time.Time) bson.M {
	return bson.M{"createdAt": bson.M{"$gte": from, "$lt": to}}
}

func countBranch(match bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": 1}}}},
	}
}

func countBreakdownBranch(match bson.M, dateFormat string) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": dateFormat,
				"date":   "$createdAt",
			}},
			"total": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

// SignupsMonth reports user registrations for the current month, previous
// month and all time, with a zero-filled per-day breakdown.
func SignupsMonth(ctx context.Context, users *mongo.Collection) (MonthSignups, error) {
	now := time.Now().UTC()
	curStart := monthStart(now)
	prevStart := prevMonthStart(now)

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$facet", Value: bson.M{
			"currentMonthCount": countBranch(createdSince(curStart)),
			"lastMonthCount":    countBranch(createdBetween(prevStart, curStart)),
			"totalCount":        countBranch(bson.M{}),
			"dailyBreakdown":    countBreakdownBranch(createdSince(curStart), "%Y-%m-%d"),
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"currentMonthCount": firstTotal("currentMonthCount"),
			"lastMonthCount":    firstTotal("lastMonthCount"),
			"totalCount":        firstTotal("totalCount"),
			"dailyBreakdown":    "$dailyBreakdown",
		}}},
	}

	var raw struct {
		CurrentMonthCount float64        `bson:"currentMonthCount"`
		LastMonthCount    float64        `bson:"lastMonthCount"`
		TotalCount        float64        `bson:"totalCount"`
		DailyBreakdown    []breakdownRow `bson:"dailyBreakdown"`
	}
	if err := runFacet(ctx, users, pipeline, &raw); err != nil {
		return MonthSignups{}, err
	}

	return MonthSignups{
		CurrentMonthCount: raw.CurrentMonthCount,
		LastMonthCount:    raw.LastMonthCount,
		TotalCount:        raw.TotalCount,
		DailyBreakdown:    fillDaily(toMap(raw.DailyBreakdown), now),
	}, nil
}

// SignupsYear is the yearly counterpart with a 12-month breakdown.
func SignupsYear(ctx context.Context, users *mongo.Collection) (YearSignups, error) {
	now := time.Now().UTC()
	curStart := yearStart(now)
	prevStart := prevYearStart(now)

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$facet", Value: bson.M{
			"currentYearCount": countBranch(createdSince(curStart)),
			"lastYearCount":    countBranch(createdBetween(prevStart, curStart)),
			"totalCount":       countBranch(bson.M{}),
			"monthlyBreakdown": countBreakdownBranch(createdSince(curStart), "%m"),
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"currentYearCount": firstTotal("currentYearCount"),
			"lastYearCount":    firstTotal("lastYearCount"),
			"totalCount":       firstTotal("totalCount"),
			"monthlyBreakdown": "$monthlyBreakdown",
		}}},
	}

	var raw struct {
		CurrentYearCount float64        `bson:"currentYearCount"`
		LastYearCount    float64        `bson:"lastYearCount"`
		TotalCount       float64        `bson:"totalCount"`
		MonthlyBreakdown []breakdownRow `bson:"monthlyBreakdown"`
	}
	if err := runFacet(ctx, users, pipeline, &raw); err != nil {
		return YearSignups{}, err
	}

	return YearSignups{
		CurrentYearCount: raw.CurrentYearCount,
		LastYearCount:    raw.LastYearCount,
		TotalCount:       raw.TotalCount,
		MonthlyBreakdown: fillMonthly(toMap(raw.MonthlyBreakdown)),
	}, nil
}
