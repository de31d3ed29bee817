package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"nyanpass/internal/ports/docstore"
	"nyanpass/internal/ports/docstore/docstoretest"
)

func TestToFields_NormalizesBSON(t *testing.T) {
	when := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	raw := bson.M{
		"_id":             "users/u1/cats/c1",
		"_parent":         "users/u1/cats",
		"name":            "Luna",
		"birthdate":       primitive.NewDateTimeFromTime(when),
		"traits":          primitive.A{"playful"},
		"weightRecords":   primitive.A{primitive.D{{Key: "date", Value: primitive.NewDateTimeFromTime(when)}, {Key: "weight", Value: 4.2}}},
		"legacyCount":     int32(3),
		"preferredWeight": nil,
	}

	got := toFields(raw)

	require.NotContains(t, got, "_id")
	require.NotContains(t, got, "_parent")
	require.True(t, when.Equal(got["birthdate"].(time.Time)))
	require.Equal(t, []any{"playful"}, got["traits"])
	require.Equal(t, int64(3), got["legacyCount"])
	require.Contains(t, got, "preferredWeight")

	recs := got["weightRecords"].([]any)
	rec := recs[0].(map[string]any)
	require.True(t, when.Equal(rec["date"].(time.Time)))
	require.Equal(t, 4.2, rec["weight"])
}

// Requiere un mongod: TEST_MONGODB_URI=mongodb://localhost:27017
func TestStore_Contract(t *testing.T) {
	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TEST_MONGODB_URI not set")
	}
	ctx := context.Background()

	client, err := Connect(ctx, uri, 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	col := client.Database("nyanpass_test").Collection("documents")
	s := NewStore(col)
	require.NoError(t, s.EnsureIndexes(ctx))

	docstoretest.Run(t, func(t *testing.T) docstore.Store {
		_, err := col.DeleteMany(ctx, bson.M{})
		require.NoError(t, err)
		return s
	})
}
