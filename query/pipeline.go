package query

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// match builds the single conjunctive $match document: substring search,
// createdAt bounds, then equality filters.
func (s Spec) match() bson.M {
	match := bson.M{}

	if s.Search != "" && s.SearchKey != "" {
		match[s.SearchKey] = primitive.Regex{Pattern: s.Search, Options: "i"}
	}

	if s.StartDate != nil || s.EndDate != nil {
		bounds := bson.M{}
		if s.StartDate != nil {
			bounds["$gte"] = *s.StartDate
		}
		if s.EndDate != nil {
			bounds["$lte"] = *s.EndDate
		}
		match["createdAt"] = bounds
	}

	for key, value := range s.Filters {
		match[key] = value
	}

	return match
}

func (s Spec) sortDir() int {
	if s.SortAsc {
		return 1
	}
	return -1
}

// BuildPipelines composes the data and count pipelines. Initial stages run
// before the match so filters can reference joined fields; extra stages run
// after pagination so they touch at most Limit documents. The count pipeline
// drops skip/limit and the extra stages: the total must reflect the
// pre-shaping document count.
//
// No secondary sort key is added: ties on SortKey may reorder across pages.
// Callers needing strict determinism must put a unique field in sortkey.
func BuildPipelines(s Spec, initial, extra mongo.Pipeline) (data, count mongo.Pipeline) {
	base := mongo.Pipeline{}
	base = append(base, initial...)
	base = append(base,
		bson.D{{Key: "$match", Value: s.match()}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: s.SortKey, Value: s.sortDir()}}}},
	)

	data = append(data, base...)
	data = append(data,
		bson.D{{Key: "$skip", Value: (s.Page - 1) * s.Limit}},
		bson.D{{Key: "$limit", Value: s.Limit}},
	)
	data = append(data, extra...)

	count = append(count, base...)
	count = append(count, bson.D{{Key: "$count", Value: "totalCount"}})

	return data, count
}
