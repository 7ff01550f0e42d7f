// Package mongo stores content and settings documents in MongoDB, one collection per
// document collection with the document ID as _id.
package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"eventpass/internal/domain"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Connect opens a client for uri and pings the primary.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

type collectionAPI interface {
	FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongo.SingleResult
	UpdateOne(ctx context.Context, filter, update any, opts ...options.Lister[options.UpdateOneOptions]) (*mongo.UpdateResult, error)
	ReplaceOne(ctx context.Context, filter, replacement any, opts ...options.Lister[options.ReplaceOptions]) (*mongo.UpdateResult, error)
}

type documentRepository struct {
	collection func(name string) collectionAPI
}

// NewDocumentRepository returns a DocumentRepository backed by db.
func NewDocumentRepository(db *mongo.Database) domain.DocumentRepository {
	return &documentRepository{collection: func(name string) collectionAPI { return db.Collection(name) }}
}

func (r *documentRepository) Get(ctx context.Context, collection, id string) (domain.Document, error) {
	var raw bson.D
	err := r.collection(collection).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find %s/%s: %w", collection, id, err)
	}
	return toDocument(raw)
}

// toDocument drops _id and converts BSON to the plain JSON shapes the API serves.
func toDocument(raw bson.D) (domain.Document, error) {
	fields := make(bson.D, 0, len(raw))
	for _, e := range raw {
		if e.Key != "_id" {
			fields = append(fields, e)
		}
	}
	ext, err := bson.MarshalExtJSON(fields, false, false)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	doc := domain.Document{}
	if err := json.Unmarshal(ext, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

func (r *documentRepository) Set(ctx context.Context, collection, id string, doc domain.Document, merge bool) error {
	filter := bson.D{{Key: "_id", Value: id}}
	fields := bson.M{}
	for k, v := range doc {
		if k != "_id" {
			fields[k] = v
		}
	}
	coll := r.collection(collection)
	if merge {
		if len(fields) == 0 {
			// $set rejects an empty document; merging nothing changes nothing
			return nil
		}
		_, err := coll.UpdateOne(ctx, filter, bson.M{"$set": fields}, options.UpdateOne().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("merge %s/%s: %w", collection, id, err)
		}
		return nil
	}
	if _, err := coll.ReplaceOne(ctx, filter, fields, options.Replace().SetUpsert(true)); err != nil {
		return fmt.Errorf("replace %s/%s: %w", collection, id, err)
	}
	return nil
}
