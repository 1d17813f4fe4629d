package kv

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCollection = "skill_items"

type mongoItem struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type mongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func newMongoStore(ctx context.Context, uri, database string) (*mongoStore, error) {
	if database == "" {
		database = "morning_report"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	return &mongoStore{client: client, coll: client.Database(database).Collection(mongoCollection)}, nil
}

func (s *mongoStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var item mongoItem
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, nil
		}
		return nil, false, unavailable("get", key, err)
	}
	return []byte(item.Value), true, nil
}

func (s *mongoStore) Put(ctx context.Context, key string, value []byte) error {
	item := mongoItem{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, item, options.Replace().SetUpsert(true))
	if err != nil {
		return unavailable("put", key, err)
	}
	return nil
}

func (s *mongoStore) Delete(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return unavailable("delete", key, err)
	}
	return nil
}

func (s *mongoStore) BatchGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	cur, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": keys}})
	if err != nil {
		return nil, unavailable("batch get", "", err)
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var item mongoItem
		if err := cur.Decode(&item); err != nil {
			return nil, unavailable("batch get", "", err)
		}
		out[item.Key] = []byte(item.Value)
	}
	if err := cur.Err(); err != nil {
		return nil, unavailable("batch get", "", err)
	}
	return out, nil
}

func (s *mongoStore) Ping(ctx context.Context) error { return s.client.Ping(ctx, nil) }

func (s *mongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
