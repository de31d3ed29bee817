// Package mongo implementa docstore.Store sobre una única colección de MongoDB.
//
// Cada documento se guarda con _id = path completo y _parent = path de su colección;
// los campos del dominio van al nivel superior, así un merge es un $set.
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

	"nyanpass/internal/ports/docstore"
)

const (
	idKey     = "_id"
	parentKey = "_parent"
)

// Connect abre el cliente y hace ping. El caller hace client.Disconnect(ctx).
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

type Store struct {
	col *mongo.Collection
}

func NewStore(col *mongo.Collection) *Store {
	return &Store{col: col}
}

var _ docstore.Store = (*Store)(nil)

// EnsureIndexes crea el índice por _parent que usa List.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: parentKey, Value: 1}, {Key: idKey, Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("mongo ensure indexes: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, docPath string) (docstore.Document, error) {
	_, id, err := docstore.SplitDoc(docPath)
	if err != nil {
		return docstore.Document{}, err
	}

	var raw bson.M
	err = s.col.FindOne(ctx, bson.M{idKey: docPath}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return docstore.Document{}, docstore.ErrNotFound
	}
	if err != nil {
		return docstore.Document{}, fmt.Errorf("mongo get %s: %w", docPath, err)
	}
	return docstore.Document{ID: id, Path: docPath, Fields: toFields(raw)}, nil
}

func (s *Store) List(ctx context.Context, collectionPath string) ([]docstore.Document, error) {
	if err := docstore.ValidateCollectionPath(collectionPath); err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: idKey, Value: 1}})
	cur, err := s.col.Find(ctx, bson.M{parentKey: collectionPath}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo list %s: %w", collectionPath, err)
	}
	defer cur.Close(ctx)

	out := make([]docstore.Document, 0)
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, fmt.Errorf("mongo list %s: %w", collectionPath, err)
		}
		p, _ := raw[idKey].(string)
		_, id, err := docstore.SplitDoc(p)
		if err != nil {
			return nil, fmt.Errorf("mongo list %s: %w", collectionPath, err)
		}
		out = append(out, docstore.Document{ID: id, Path: p, Fields: toFields(raw)})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongo list %s: %w", collectionPath, err)
	}
	return out, nil
}

func (s *Store) Set(ctx context.Context, docPath string, fields map[string]any) error {
	parent, _, err := docstore.SplitDoc(docPath)
	if err != nil {
		return err
	}

	set := bson.M{parentKey: parent}
	for k, v := range fields {
		if k == idKey || k == parentKey {
			continue
		}
		set[k] = v
	}

	_, err = s.col.UpdateOne(ctx,
		bson.M{idKey: docPath},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("mongo set %s: %w", docPath, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, docPath string) error {
	if err := docstore.ValidateDocPath(docPath); err != nil {
		return err
	}
	if _, err := s.col.DeleteOne(ctx, bson.M{idKey: docPath}); err != nil {
		return fmt.Errorf("mongo delete %s: %w", docPath, err)
	}
	return nil
}

// toFields quita las claves internas y pasa los tipos BSON a tipos Go planos.
func toFields(raw bson.M) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if k == idKey || k == parentKey {
			continue
		}
		out[k] = normalize(v)
	}
	return out
}

func normalize(v any) any {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = normalize(e.Value)
		}
		return m
	case primitive.M:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = normalize(e)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = normalize(e)
		}
		return m
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case int32:
		return int64(t)
	default:
		return v
	}
}
