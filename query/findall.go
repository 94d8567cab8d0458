package query

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

type Pagination struct {
	TotalItems   int `json:"totalItems"`
	TotalPages   int `json:"totalPages"`
	ItemsPerPage int `json:"itemsPerPage"`
	CurrentPage  int `json:"currentPage"`
}

// Envelope is the paginated result wrapper every listing returns.
type Envelope[T any] struct {
	Result     []T        `json:"result"`
	Pagination Pagination `json:"pagination"`
}

// strength 2: case- and diacritic-insensitive string comparison.
var collation = &options.Collation{Locale: "en", Strength: 2}

type countRow struct {
	TotalCount int `bson:"totalCount"`
}

// FindAll runs the data and count pipelines concurrently and assembles the
// envelope. The two reads are independent; if either fails the whole call
// fails and no partial envelope is returned.
func FindAll[T any](ctx context.Context, coll *mongo.Collection, spec Spec, initial, extra mongo.Pipeline) (Envelope[T], error) {
	dataPipe, countPipe := BuildPipelines(spec, initial, extra)

	var docs []T
	var counts []countRow

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cursor, err := coll.Aggregate(gctx, dataPipe, options.Aggregate().SetCollation(collation))
		if err != nil {
			return err
		}
		defer cursor.Close(gctx)
		return cursor.All(gctx, &docs)
	})
	g.Go(func() error {
		cursor, err := coll.Aggregate(gctx, countPipe)
		if err != nil {
			return err
		}
		defer cursor.Close(gctx)
		return cursor.All(gctx, &counts)
	})
	if err := g.Wait(); err != nil {
		return Envelope[T]{}, err
	}

	totalItems := 0
	if len(counts) > 0 {
		totalItems = counts[0].TotalCount
	}
	if docs == nil {
		docs = []T{}
	}

	return Envelope[T]{
		Result: docs,
		Pagination: Pagination{
			TotalItems:   totalItems,
			TotalPages:   totalPages(totalItems, spec.Limit),
			ItemsPerPage: spec.Limit,
			CurrentPage:  spec.Page,
		},
	}, nil
}

// totalPages is ceil(items/limit); zero when there are no items.
func totalPages(items, limit int) int {
	if items <= 0 || limit <= 0 {
		return 0
	}
	return (items + limit - 1) / limit
}
