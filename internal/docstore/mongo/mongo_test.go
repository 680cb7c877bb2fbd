package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vbonduro/inmuebles/internal/docstore"
)

func TestBuildFilterEmpty(t *testing.T) {
	assert.Equal(t, bson.D{}, buildFilter(nil))
}

func TestBuildFilterFeatured(t *testing.T) {
	assert.Equal(t,
		bson.D{{Key: "featured", Value: true}},
		buildFilter(docstore.Where("featured", docstore.Eq, true)))

	assert.Equal(t,
		bson.D{{Key: "featured", Value: bson.M{"$ne": true}}},
		buildFilter(docstore.Where("featured", docstore.Ne, true)))
}

func TestBuildFilterConvertsHexID(t *testing.T) {
	oid := primitive.NewObjectID()

	f := buildFilter(docstore.ByID(oid.Hex()))
	require.Len(t, f, 1)
	assert.Equal(t, "_id", f[0].Key)
	assert.Equal(t, oid, f[0].Value)
}

func TestBuildFilterKeepsNonHexID(t *testing.T) {
	f := buildFilter(docstore.ByID("custom-id"))
	require.Len(t, f, 1)
	assert.Equal(t, "custom-id", f[0].Value)
}

func TestBuildSort(t *testing.T) {
	got := buildSort([]docstore.Sort{{Field: "views", Desc: true}, {Field: "_id"}})
	assert.Equal(t, bson.D{{Key: "views", Value: -1}, {Key: "_id", Value: 1}}, got)
}

func TestBuildUpdate(t *testing.T) {
	got := buildUpdate(docstore.Update{
		Set: map[string]any{"title": "x"},
		Inc: map[string]int64{"views": 1},
	})

	assert.Equal(t, bson.D{
		{Key: "$set", Value: bson.M{"title": "x"}},
		{Key: "$inc", Value: bson.M{"views": int64(1)}},
	}, got)
}

func TestBuildUpdateEmpty(t *testing.T) {
	assert.Empty(t, buildUpdate(docstore.Update{}))
}

func TestToBSONConvertsID(t *testing.T) {
	oid := primitive.NewObjectID()
	out := toBSON(docstore.Document{"_id": oid.Hex(), "title": "x"})

	assert.Equal(t, oid, out["_id"])
	assert.Equal(t, "x", out["title"])
}
