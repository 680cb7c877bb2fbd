package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/inmuebles/internal/docstore"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, s.Close(context.Background())) })
	return s
}

func titles(docs []docstore.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d["title"].(string))
	}
	return out
}

func TestOpenAppliesMigrationsIdempotently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close(context.Background()))

	second, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close(context.Background()) })

	var table string
	err = second.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='documents'").Scan(&table)
	require.NoError(t, err)
	assert.Equal(t, "documents", table)
	assert.Equal(t, "twice", second.Name())
}

func TestOpenInMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	assert.NoError(t, s.Ping(context.Background()))
}

func TestInsertAndFindOne(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, "property", docstore.Document{"title": "Casa", "price_usd": 365000.0})
	require.NoError(t, err)
	assert.True(t, docstore.ValidID(id))

	doc, err := s.FindOne(ctx, "property", docstore.ByID(id))
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, id, doc[docstore.IDField])
	assert.Equal(t, "Casa", doc["title"])
	assert.Equal(t, json.Number("365000"), doc["price_usd"])
}

func TestFindOneAbsent(t *testing.T) {
	s := openTestStore(t)

	doc, err := s.FindOne(context.Background(), "property", docstore.ByID(docstore.NewID()))
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestCollectionsAreIsolated(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, "property", docstore.Document{"title": "a"})
	require.NoError(t, err)
	_, err = s.Insert(ctx, "inquiry", docstore.Document{"title": "b"})
	require.NoError(t, err)

	n, err := s.Count(ctx, "property", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	names, err := s.CollectionNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"inquiry", "property"}, names)
}

func TestFindEqAndNe(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, doc := range []docstore.Document{
		{"title": "featured", "featured": true},
		{"title": "plain", "featured": false},
		{"title": "unset"},
	} {
		_, err := s.Insert(ctx, "property", doc)
		require.NoError(t, err)
	}

	eq, err := s.Find(ctx, "property", docstore.Where("featured", docstore.Eq, true), docstore.FindOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"featured"}, titles(eq))

	ne, err := s.Find(ctx, "property", docstore.Where("featured", docstore.Ne, true), docstore.FindOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"plain", "unset"}, titles(ne))

	all, err := s.Find(ctx, "property", nil, docstore.FindOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"featured", "plain", "unset"}, titles(all))
}

func TestFindSortAndLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, doc := range []docstore.Document{
		{"title": "a", "views": 3},
		{"title": "b", "views": 10},
		{"title": "c", "views": 3},
		{"title": "d", "views": 7},
	} {
		_, err := s.Insert(ctx, "property", doc)
		require.NoError(t, err)
	}

	docs, err := s.Find(ctx, "property", nil, docstore.FindOptions{
		Sort:  []docstore.Sort{{Field: "views", Desc: true}, {Field: docstore.IDField}},
		Limit: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "d", "a"}, titles(docs))
}

func TestFindSortsTimestamps(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	// Fractional widths differ on purpose: 0.1s must sort after 0.05s.
	for _, tc := range []struct {
		title string
		at    time.Time
	}{
		{"first", base.Add(50 * time.Millisecond)},
		{"second", base.Add(100 * time.Millisecond)},
		{"third", base.Add(time.Second)},
	} {
		_, err := s.Insert(ctx, "inquiry", docstore.Document{"title": tc.title, "created_at": tc.at})
		require.NoError(t, err)
	}

	docs, err := s.Find(ctx, "inquiry", nil, docstore.FindOptions{
		Sort: []docstore.Sort{{Field: "created_at", Desc: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second", "first"}, titles(docs))
}

func TestUpdateOneSetAndInc(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, "property", docstore.Document{"title": "Casa", "views": 0, "price_usd": 100.0})
	require.NoError(t, err)

	matched, err := s.UpdateOne(ctx, "property", docstore.ByID(id), docstore.Update{
		Set: map[string]any{"price_usd": 0.0, "images": []string{"x.jpg"}},
		Inc: map[string]int64{"views": 1},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	doc, err := s.FindOne(ctx, "property", docstore.ByID(id))
	require.NoError(t, err)
	assert.Equal(t, json.Number("0"), doc["price_usd"])
	assert.Equal(t, json.Number("1"), doc["views"])
	assert.Equal(t, []any{"x.jpg"}, doc["images"])
	assert.Equal(t, "Casa", doc["title"])
}

func TestUpdateOneIncAbsentField(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, "property", docstore.Document{"title": "Casa"})
	require.NoError(t, err)

	_, err = s.UpdateOne(ctx, "property", docstore.ByID(id), docstore.Update{Inc: map[string]int64{"views": 2}})
	require.NoError(t, err)

	doc, err := s.FindOne(ctx, "property", docstore.ByID(id))
	require.NoError(t, err)
	assert.Equal(t, json.Number("2"), doc["views"])
}

func TestUpdateOneNoMatch(t *testing.T) {
	s := openTestStore(t)

	matched, err := s.UpdateOne(context.Background(), "property", docstore.ByID(docstore.NewID()), docstore.Update{
		Set: map[string]any{"title": "x"},
	})
	require.NoError(t, err)
	assert.Zero(t, matched)
}

func TestUpdateOneRejectsEmptyUpdate(t *testing.T) {
	s := openTestStore(t)

	_, err := s.UpdateOne(context.Background(), "property", nil, docstore.Update{})
	assert.Error(t, err)
}

func TestUpdateOneTouchesSingleDocument(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Insert(ctx, "property", docstore.Document{"featured": false})
		require.NoError(t, err)
	}

	matched, err := s.UpdateOne(ctx, "property", docstore.Where("featured", docstore.Eq, false), docstore.Update{
		Set: map[string]any{"featured": true},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	n, err := s.Count(ctx, "property", docstore.Where("featured", docstore.Eq, true))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestDeleteOne(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, "property", docstore.Document{"title": "Temp"})
	require.NoError(t, err)

	deleted, err := s.DeleteOne(ctx, "property", docstore.ByID(id))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	deleted, err = s.DeleteOne(ctx, "property", docstore.ByID(id))
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestInsertKeepsGivenID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	want := docstore.NewID()

	got, err := s.Insert(ctx, "property", docstore.Document{docstore.IDField: want, "title": "x"})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTimestampsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2025, 6, 1, 8, 30, 0, 123456789, time.UTC)

	id, err := s.Insert(ctx, "inquiry", docstore.Document{"created_at": at})
	require.NoError(t, err)

	doc, err := s.FindOne(ctx, "inquiry", docstore.ByID(id))
	require.NoError(t, err)

	parsed, err := time.Parse(time.RFC3339Nano, doc["created_at"].(string))
	require.NoError(t, err)
	assert.True(t, at.Equal(parsed))
}
