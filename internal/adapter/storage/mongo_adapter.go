package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rl1809/pantry-tracker/internal/core/domain"
)

// mongoDocument is the stored shape: the item name is the _id.
type mongoDocument struct {
	Key      string `bson:"_id"`
	Quantity int    `bson:"quantity"`
}

// MongoAdapter stores each collection as a MongoDB collection of the same name.
type MongoAdapter struct {
	client   *mongo.Client
	database string
}

// ConnectMongo connects using uri and pings the deployment.
func ConnectMongo(ctx context.Context, uri, database string) (*MongoAdapter, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return NewMongoAdapter(client, database), nil
}

func NewMongoAdapter(client *mongo.Client, database string) *MongoAdapter {
	return &MongoAdapter{client: client, database: database}
}

func (m *MongoAdapter) col(collection string) *mongo.Collection {
	return m.client.Database(m.database).Collection(collection)
}

func (m *MongoAdapter) ListDocuments(ctx context.Context, collection string) ([]domain.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := m.col(collection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find documents: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var stored []mongoDocument
	if err := cursor.All(ctx, &stored); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}

	docs := make([]domain.Document, 0, len(stored))
	for _, d := range stored {
		docs = append(docs, domain.Document{Key: d.Key, Quantity: d.Quantity})
	}
	return docs, nil
}

func (m *MongoAdapter) GetDocument(ctx context.Context, collection, key string) (*domain.Document, error) {
	var stored mongoDocument
	err := m.col(collection).FindOne(ctx, bson.D{{Key: "_id", Value: key}}).Decode(&stored)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find document: %w", err)
	}
	return &domain.Document{Key: stored.Key, Quantity: stored.Quantity}, nil
}

func (m *MongoAdapter) SetDocument(ctx context.Context, collection string, doc domain.Document) error {
	opts := options.Replace().SetUpsert(true)
	_, err := m.col(collection).ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: doc.Key}},
		mongoDocument{Key: doc.Key, Quantity: doc.Quantity},
		opts,
	)
	if err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

func (m *MongoAdapter) DeleteDocument(ctx context.Context, collection, key string) error {
	_, err := m.col(collection).DeleteOne(ctx, bson.D{{Key: "_id", Value: key}})
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// AdjustQuantity applies $inc server-side, then removes the document if the
// result dropped to zero or below. Only positive deltas upsert.
func (m *MongoAdapter) AdjustQuantity(ctx context.Context, collection, key string, delta int) (int, error) {
	col := m.col(collection)
	filter := bson.D{{Key: "_id", Value: key}}
	upd := bson.D{{Key: "$inc", Value: bson.D{{Key: "quantity", Value: delta}}}}
	opts := options.FindOneAndUpdate().
		SetUpsert(delta > 0).
		SetReturnDocument(options.After)

	var stored mongoDocument
	err := col.FindOneAndUpdate(ctx, filter, upd, opts).Decode(&stored)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("increment document: %w", err)
	}

	if stored.Quantity > 0 {
		return stored.Quantity, nil
	}
	_, err = col.DeleteOne(ctx, bson.D{
		{Key: "_id", Value: key},
		{Key: "quantity", Value: bson.D{{Key: "$lte", Value: 0}}},
	})
	if err != nil {
		return 0, fmt.Errorf("delete document: %w", err)
	}
	return 0, nil
}

func (m *MongoAdapter) Close() error {
	return m.client.Disconnect(context.Background())
}
