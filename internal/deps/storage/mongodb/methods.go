package mongodb

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

type CommonParams struct {
	Database   string
	Collection string
	StructType any
}

type ScanParams struct {
	CommonParams

	Filters  map[string]any
	Callback func(ctx context.Context, value any) error
}

func (c *Client) Scan(ctx context.Context, params ScanParams) error {
	filters := makeBsonDFilters(params.Filters)

	cursor, err := c.client.
		Database(params.Database).
		Collection(params.Collection).
		Find(ctx, filters)

	if err != nil {
		return fmt.Errorf("c.client.Database.Collection.Find: %w", err)
	}

	defer func() {
		if err = cursor.Close(ctx); err != nil {
			log.Errorf("mongodb.Scan: cursor.Close: %v", err)
		}
	}()

	for cursor.Next(ctx) {
		doc := newDocument(params.StructType)

		if err = cursor.Decode(doc); err != nil {
			return fmt.Errorf("cursor.Decode: %T: %w", doc, err)
		}

		if err = params.Callback(ctx, doc); err != nil {
			return fmt.Errorf("params.Callback: %T: %w", doc, err)
		}
	}

	return nil
}

type UpsertParams struct {
	CommonParams

	Filters     map[string]any
	Set         any
	SetOnInsert any
}

// UpsertOne runs a single atomic create-or-update keyed on Filters and
// returns the stored document as it is after the write. Concurrent callers
// racing on the same key cannot produce two documents or a lost update.
func (c *Client) UpsertOne(ctx context.Context, params UpsertParams) (any, error) {
	filters := makeBsonDFilters(params.Filters)

	update := bson.D{{Key: "$set", Value: params.Set}}

	if params.SetOnInsert != nil {
		update = append(update, bson.E{Key: "$setOnInsert", Value: params.SetOnInsert})
	}

	opts := options.
		FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	res := c.client.
		Database(params.Database).
		Collection(params.Collection).
		FindOneAndUpdate(ctx, filters, update, opts)

	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("c.client.Database.Collection.FindOneAndUpdate: %w", err)
	}

	doc := newDocument(params.StructType)

	if err := res.Decode(doc); err != nil {
		return nil, fmt.Errorf("res.Decode: %T: %w", doc, err)
	}

	return doc, nil
}

type InsertParams struct {
	CommonParams

	Document any
}

func (c *Client) Insert(ctx context.Context, params InsertParams) (id any, err error) {
	res, err := c.client.
		Database(params.Database).
		Collection(params.Collection).
		InsertOne(ctx, params.Document)

	if err != nil {
		return nil, fmt.Errorf("c.client.Database.Collection.InsertOne: %w", err)
	}

	return res.InsertedID, nil
}

type GetParams struct {
	CommonParams

	Filters map[string]any
}

func (c *Client) Get(ctx context.Context, params GetParams) (any, error) {
	out, err := c.Find(ctx, FindParams{
		CommonParams: params.CommonParams,
		Filters:      params.Filters,
		Limit:        1,
	})
	if err != nil {
		return nil, fmt.Errorf("c.Find: %w", err)
	}

	if len(out) == 0 {
		return nil, ErrNotFound
	}

	return out[0], nil
}

type FindParams struct {
	CommonParams

	Filters map[string]any
	Sort    bson.D
	Limit   int64
}

func (p *FindParams) toOptions() *options.FindOptions {
	opts := options.Find()

	if p.Limit != 0 {
		opts.SetLimit(p.Limit)
	}
	if p.Sort != nil {
		opts.SetSort(p.Sort)
	}
	return opts
}

func (c *Client) Find(ctx context.Context, params FindParams) ([]any, error) {
	filters := makeBsonDFilters(params.Filters)
	opts := params.toOptions()

	cursor, err := c.client.
		Database(params.Database).
		Collection(params.Collection).
		Find(ctx, filters, opts)

	if err != nil {
		return nil, fmt.Errorf("c.client.Database.Collection.Find: %w", err)
	}

	defer func() {
		if err = cursor.Close(ctx); err != nil {
			log.Errorf("mongodb.Find: cursor.Close: %v", err)
		}
	}()

	out := make([]any, 0, params.Limit)

	for cursor.Next(ctx) {
		doc := newDocument(params.StructType)

		if err = cursor.Decode(doc); err != nil {
			return nil, fmt.Errorf("cursor.Decode: %T: %w", doc, err)
		}

		out = append(out, doc)
	}

	return out, nil
}

type DeleteParams struct {
	CommonParams

	Filters map[string]any
}

func (c *Client) Delete(ctx context.Context, params DeleteParams) (count int64, err error) {
	filters := makeBsonDFilters(params.Filters)

	res, err := c.client.
		Database(params.Database).
		Collection(params.Collection).
		DeleteMany(ctx, filters)

	if err != nil {
		return 0, fmt.Errorf("c.client.Database.Collection.Delete: %w", err)
	}

	return res.DeletedCount, nil
}

// WithTransaction requires a replica set deployment.
func (c *Client) WithTransaction(ctx context.Context, callback func(txCtx context.Context) error) error {
	writeConcern := writeconcern.Majority()

	txOptions := options.
		Transaction().
		SetWriteConcern(writeConcern)

	session, err := c.client.StartSession()
	if err != nil {
		return fmt.Errorf("c.client.StartSession: %w", err)
	}
	defer session.EndSession(ctx)

	wrappedCallback := func(sessionCtx mongo.SessionContext) (any, error) {
		return nil, callback(sessionCtx)
	}

	_, err = session.WithTransaction(ctx, wrappedCallback, txOptions)
	if err != nil {
		return fmt.Errorf("session.WithTransaction: %w", err)
	}

	return nil
}
