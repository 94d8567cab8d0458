package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func stageKeys(p mongo.Pipeline) []string {
	keys := make([]string, 0, len(p))
	for _, stage := range p {
		keys = append(keys, stage[0].Key)
	}
	return keys
}

func TestMatchSearch(t *testing.T) {
	spec := Spec{Search: "rice", SearchKey: "name", Filters: bson.M{}}

	match := spec.match()

	assert.Equal(t, primitive.Regex{Pattern: "rice", Options: "i"}, match["name"])
}

func TestMatchSearchNeedsBothKeys(t *testing.T) {
	assert.Empty(t, Spec{Search: "rice", Filters: bson.M{}}.match())
	assert.Empty(t, Spec{SearchKey: "name", Filters: bson.M{}}.match())
}

func TestMatchDateBounds(t *testing.T) {
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)

	match := Spec{StartDate: &start, EndDate: &end, Filters: bson.M{}}.match()
	assert.Equal(t, bson.M{"$gte": start, "$lte": end}, match["createdAt"])

	match = Spec{StartDate: &start, Filters: bson.M{}}.match()
	assert.Equal(t, bson.M{"$gte": start}, match["createdAt"])
}

func TestMatchFilters(t *testing.T) {
	match := Spec{Filters: bson.M{"status": "available"}}.match()
	assert.Equal(t, "available", match["status"])
}

func TestBuildPipelinesStageOrder(t *testing.T) {
	spec := Spec{Page: 2, Limit: 5, SortKey: "createdAt", Filters: bson.M{}}
	initial := mongo.Pipeline{bson.D{{Key: "$lookup", Value: bson.M{}}}}
	extra := mongo.Pipeline{bson.D{{Key: "$project", Value: bson.M{}}}}

	data, count := BuildPipelines(spec, initial, extra)

	assert.Equal(t, []string{"$lookup", "$match", "$sort", "$skip", "$limit", "$project"}, stageKeys(data))
	assert.Equal(t, []string{"$lookup", "$match", "$sort", "$count"}, stageKeys(count))
}

func TestBuildPipelinesSkipAndLimit(t *testing.T) {
	spec := Spec{Page: 3, Limit: 20, SortKey: "createdAt", Filters: bson.M{}}

	data, _ := BuildPipelines(spec, nil, nil)

	require.Equal(t, []string{"$match", "$sort", "$skip", "$limit"}, stageKeys(data))
	assert.Equal(t, 40, data[2][0].Value)
	assert.Equal(t, 20, data[3][0].Value)
}

func TestBuildPipelinesSortDirection(t *testing.T) {
	spec := Spec{Page: 1, Limit: 10, SortKey: "price", SortAsc: true, Filters: bson.M{}}

	data, _ := BuildPipelines(spec, nil, nil)

	sort, ok := data[1][0].Value.(bson.D)
	require.True(t, ok)
	assert.Equal(t, bson.D{{Key: "price", Value: 1}}, sort)

	spec.SortAsc = false
	data, _ = BuildPipelines(spec, nil, nil)
	sort = data[1][0].Value.(bson.D)
	assert.Equal(t, bson.D{{Key: "price", Value: -1}}, sort)
}

// The count pipeline must not carry skip, limit or post-pagination shaping;
// the total reflects all matching documents.
func TestCountPipelineExcludesPaginationAndExtras(t *testing.T) {
	spec := Spec{Page: 4, Limit: 5, SortKey: "createdAt", Filters: bson.M{}}
	extra := mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.M{}}},
		bson.D{{Key: "$project", Value: bson.M{}}},
	}

	_, count := BuildPipelines(spec, nil, extra)

	keys := stageKeys(count)
	assert.NotContains(t, keys, "$skip")
	assert.NotContains(t, keys, "$limit")
	assert.NotContains(t, keys, "$project")
	assert.Equal(t, "$count", keys[len(keys)-1])
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0, 10))
	assert.Equal(t, 1, totalPages(1, 10))
	assert.Equal(t, 1, totalPages(10, 10))
	assert.Equal(t, 2, totalPages(11, 10))
	assert.Equal(t, 3, totalPages(12, 5))
	assert.Equal(t, 0, totalPages(5, 0))
}
