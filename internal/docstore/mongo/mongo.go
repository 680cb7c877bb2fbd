// Package mongo implements docstore.Store on MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/vbonduro/inmuebles/internal/docstore"
)

const connectTimeout = 10 * time.Second

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects to uri and verifies the server answers before returning.
func Open(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, &docstore.ConnectionError{Backend: "mongo", Err: err}
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, &docstore.ConnectionError{Backend: "mongo", Err: err}
	}
	return &Store{client: client, db: client.Database(dbName)}, nil
}

func (s *Store) Insert(ctx context.Context, collection string, doc docstore.Document) (string, error) {
	res, err := s.db.Collection(collection).InsertOne(ctx, toBSON(doc))
	if err != nil {
		return "", fmt.Errorf("failed to insert document: %w", err)
	}
	switch id := res.InsertedID.(type) {
	case primitive.ObjectID:
		return id.Hex(), nil
	case string:
		return id, nil
	default:
		return fmt.Sprint(id), nil
	}
}

func (s *Store) Find(ctx context.Context, collection string, filter docstore.Filter, opts docstore.FindOptions) ([]docstore.Document, error) {
	findOpts := options.Find()
	if len(opts.Sort) > 0 {
		findOpts.SetSort(buildSort(opts.Sort))
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cursor, err := s.db.Collection(collection).Find(ctx, buildFilter(filter), findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to find documents: %w", err)
	}
	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}

	docs := make([]docstore.Document, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, docstore.Document(m))
	}
	return docs, nil
}

func (s *Store) FindOne(ctx context.Context, collection string, filter docstore.Filter) (docstore.Document, error) {
	var m bson.M
	err := s.db.Collection(collection).FindOne(ctx, buildFilter(filter)).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find document: %w", err)
	}
	return docstore.Document(m), nil
}

func (s *Store) UpdateOne(ctx context.Context, collection string, filter docstore.Filter, update docstore.Update) (int64, error) {
	upd := buildUpdate(update)
	if len(upd) == 0 {
		return 0, errors.New("empty update")
	}
	res, err := s.db.Collection(collection).UpdateOne(ctx, buildFilter(filter), upd)
	if err != nil {
		return 0, fmt.Errorf("failed to update document: %w", err)
	}
	return res.MatchedCount, nil
}

func (s *Store) DeleteOne(ctx context.Context, collection string, filter docstore.Filter) (int64, error) {
	res, err := s.db.Collection(collection).DeleteOne(ctx, buildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to delete document: %w", err)
	}
	return res.DeletedCount, nil
}

func (s *Store) Count(ctx context.Context, collection string, filter docstore.Filter) (int64, error) {
	n, err := s.db.Collection(collection).CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return n, nil
}

func (s *Store) CollectionNames(ctx context.Context) ([]string, error) {
	names, err := s.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return names, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Name() string {
	return s.db.Name()
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func buildFilter(filter docstore.Filter) bson.D {
	out := bson.D{}
	for _, c := range filter {
		value := c.Value
		if c.Field == docstore.IDField {
			value = objectID(value)
		}
		switch c.Op {
		case docstore.Ne:
			out = append(out, bson.E{Key: c.Field, Value: bson.M{"$ne": value}})
		default:
			out = append(out, bson.E{Key: c.Field, Value: value})
		}
	}
	return out
}

func buildSort(sorts []docstore.Sort) bson.D {
	out := make(bson.D, 0, len(sorts))
	for _, s := range sorts {
		dir := 1
		if s.Desc {
			dir = -1
		}
		out = append(out, bson.E{Key: s.Field, Value: dir})
	}
	return out
}

func buildUpdate(update docstore.Update) bson.D {
	out := bson.D{}
	if len(update.Set) > 0 {
		out = append(out, bson.E{Key: "$set", Value: bson.M(update.Set)})
	}
	if len(update.Inc) > 0 {
		inc := bson.M{}
		for k, v := range update.Inc {
			inc[k] = v
		}
		out = append(out, bson.E{Key: "$inc", Value: inc})
	}
	return out
}

func toBSON(doc docstore.Document) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		if k == docstore.IDField {
			v = objectID(v)
		}
		out[k] = v
	}
	return out
}

// objectID converts hex identifiers to ObjectIDs; anything else is kept as is.
func objectID(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return v
	}
	return oid
}
