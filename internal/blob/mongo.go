package blob

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoCollection holds one document per object, keyed by the object key.
const mongoCollection = "objects"

type mongoObject struct {
	Key         string    `bson:"_id"`
	ContentType string    `bson:"content_type"`
	Data        []byte    `bson:"data"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

// MongoBucket stores objects as documents in a MongoDB collection.
type MongoBucket struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoBucket connects to uri, verifies the connection and binds the
// objects collection of database.
func NewMongoBucket(ctx context.Context, uri, database string) (*MongoBucket, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &MongoBucket{
		client: client,
		coll:   client.Database(database).Collection(mongoCollection),
	}, nil
}

// Exists counts at most one matching document.
func (b *MongoBucket) Exists(ctx context.Context, key string) (bool, error) {
	n, err := b.coll.CountDocuments(ctx, bson.M{"_id": key}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", key, err)
	}
	return n > 0, nil
}

// Get loads the object document and returns its data.
func (b *MongoBucket) Get(ctx context.Context, key string) ([]byte, error) {
	var obj mongoObject
	err := b.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&obj)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("get %s: %w", key, ErrObjectNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return obj.Data, nil
}

// Put replaces the object document, inserting it when absent.
func (b *MongoBucket) Put(ctx context.Context, key string, data []byte, contentType string) error {
	obj := mongoObject{
		Key:         key,
		ContentType: contentType,
		Data:        data,
		UpdatedAt:   time.Now().UTC(),
	}
	_, err := b.coll.ReplaceOne(ctx, bson.M{"_id": key}, obj, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Close disconnects the client.
func (b *MongoBucket) Close() error {
	return b.client.Disconnect(context.Background())
}
