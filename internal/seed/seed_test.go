package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/inmuebles/internal/validate"
)

func TestPropertiesLiterals(t *testing.T) {
	props := Properties()
	require.Len(t, props, 3)

	want := []struct {
		title    string
		location string
		price    float64
		featured bool
	}{
		{"Penthouse con vista al mar", "Miraflores, Lima", 850000, true},
		{"Departamento moderno en San Isidro", "San Isidro, Lima", 420000, true},
		{"Casa familiar con jardín", "La Molina, Lima", 365000, false},
	}
	for i, w := range want {
		assert.Equal(t, w.title, props[i].Title)
		assert.Equal(t, w.location, props[i].Location)
		require.NotNil(t, props[i].PriceUSD)
		assert.Equal(t, w.price, *props[i].PriceUSD)
		assert.Equal(t, w.featured, props[i].Featured)
		assert.NotEmpty(t, props[i].Images)
	}
}

func TestPropertiesPassValidation(t *testing.T) {
	for _, p := range Properties() {
		assert.NoError(t, validate.Struct(p), p.Title)
	}
}

func TestPropertiesReturnsFreshSlice(t *testing.T) {
	first := Properties()
	first[0].Title = "changed"
	assert.Equal(t, "Penthouse con vista al mar", Properties()[0].Title)
}
