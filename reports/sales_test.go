package reports

import (
	"testing"
	"time"

	"kirana/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func pipelineStageKeys(p mongo.Pipeline) []string {
	keys := make([]string, 0, len(p))
	for _, stage := range p {
		keys = append(keys, stage[0].Key)
	}
	return keys
}

func TestBestSellersWindowLength(t *testing.T) {
	assert.Equal(t, 7*24*time.Hour, BestSellerWindow)
}

func TestBestSellersPipelineShape(t *testing.T) {
	since := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)

	p := bestSellersPipeline(since, 10)

	assert.Equal(t,
		[]string{"$match", "$unwind", "$group", "$sort", "$limit", "$lookup", "$unwind", "$project"},
		pipelineStageKeys(p))
}

// Only completed orders inside the trailing window count toward the ranking.
func TestBestSellersPipelineMatch(t *testing.T) {
	since := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)

	p := bestSellersPipeline(since, 10)

	match, ok := p[0][0].Value.(bson.M)
	require.True(t, ok)
	assert.Equal(t, models.OrderCompleted, match["status"])
	assert.Equal(t, bson.M{"$gte": since}, match["createdAt"])
}

// Ranking is by quantity sold, descending, cut to the limit after the sort.
func TestBestSellersPipelineSortAndLimit(t *testing.T) {
	since := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)

	p := bestSellersPipeline(since, 3)

	sort, ok := p[3][0].Value.(bson.D)
	require.True(t, ok)
	assert.Equal(t, bson.D{{Key: "totalQuantity", Value: -1}}, sort)
	assert.Equal(t, 3, p[4][0].Value)

	group, ok := p[2][0].Value.(bson.M)
	require.True(t, ok)
	assert.Equal(t, "$products.product", group["_id"])
	assert.Equal(t, bson.M{"$sum": "$products.quantity"}, group["totalQuantity"])
}
