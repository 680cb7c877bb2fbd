package docstore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendFor(t *testing.T) {
	tests := []struct {
		url     string
		want    Backend
		wantErr bool
	}{
		{url: "", want: BackendNone},
		{url: "   ", want: BackendNone},
		{url: "mongodb://localhost:27017", want: BackendMongo},
		{url: "mongodb+srv://user:pw@cluster.example.net/db", want: BackendMongo},
		{url: "sqlite:///var/lib/inmuebles.db", want: BackendSQLite},
		{url: "file:inmuebles.db", want: BackendSQLite},
		{url: "postgres://localhost/db", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := BackendFor(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSQLitePath(t *testing.T) {
	assert.Equal(t, "/var/lib/inmuebles.db", SQLitePath("sqlite:///var/lib/inmuebles.db"))
	assert.Equal(t, "data/inmuebles.db", SQLitePath("sqlite://data/inmuebles.db"))
	assert.Equal(t, "inmuebles.db", SQLitePath("file:inmuebles.db"))
}

func TestNewIDIsValid(t *testing.T) {
	id := NewID()
	assert.Len(t, id, 24)
	assert.True(t, ValidID(id))
	assert.NotEqual(t, id, NewID())
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID("507f1f77bcf86cd799439011"))
	assert.False(t, ValidID("not-an-id"))
	assert.False(t, ValidID("507f1f77bcf86cd79943901"))
	assert.False(t, ValidID("zzzzzzzzzzzzzzzzzzzzzzzz"))
	assert.False(t, ValidID(""))
}

func TestConnectionErrorUnwraps(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := error(&ConnectionError{Backend: "mongo", Err: cause})

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "mongo")

	var connErr *ConnectionError
	assert.True(t, errors.As(err, &connErr))
}

func TestByID(t *testing.T) {
	f := ByID("507f1f77bcf86cd799439011")
	require.Len(t, f, 1)
	assert.Equal(t, IDField, f[0].Field)
	assert.Equal(t, Eq, f[0].Op)
}
