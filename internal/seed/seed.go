// Package seed holds the demo listings loaded into an empty property
// collection.
package seed

import "github.com/vbonduro/inmuebles/internal/domain"

// Properties returns the three demo listings, in insertion order. A fresh
// slice is built on every call so callers may modify it.
func Properties() []domain.PropertyInput {
	return []domain.PropertyInput{
		{
			Title:    "Penthouse con vista al mar",
			Location: "Miraflores, Lima",
			PriceUSD: ptr(850000.0),
			Beds:     ptr(3),
			Baths:    ptr(3.5),
			AreaM2:   ptr(240.0),
			Type:     ptr("Penthouse"),
			Images: []string{
				"https://images.unsplash.com/photo-1505693416388-ac5ce068fe85?q=80&w=1800&auto=format&fit=crop",
				"https://images.unsplash.com/photo-1502673530728-f79b4cab31b1?q=80&w=1800&auto=format&fit=crop",
			},
			Featured:    true,
			Description: ptr("Exclusivo penthouse con terraza y vista panorámica al océano Pacífico."),
			Views:       ptr(int64(0)),
		},
		{
			Title:    "Departamento moderno en San Isidro",
			Location: "San Isidro, Lima",
			PriceUSD: ptr(420000.0),
			Beds:     ptr(2),
			Baths:    ptr(2.0),
			AreaM2:   ptr(120.0),
			Type:     ptr("Departamento"),
			Images: []string{
				"https://images.unsplash.com/photo-1502005229762-cf1b2da7c5d6?q=80&w=1800&auto=format&fit=crop",
			},
			Featured:    true,
			Description: ptr("Acabados de lujo, iluminación natural y ubicación privilegiada."),
			Views:       ptr(int64(0)),
		},
		{
			Title:    "Casa familiar con jardín",
			Location: "La Molina, Lima",
			PriceUSD: ptr(365000.0),
			Beds:     ptr(4),
			Baths:    ptr(3.0),
			AreaM2:   ptr(280.0),
			Type:     ptr("Casa"),
			Images: []string{
				"https://images.unsplash.com/photo-1560448204-e02f11c3d0e2?q=80&w=1800&auto=format&fit=crop",
			},
			Featured:    false,
			Description: ptr("Amplios ambientes, jardín y zona tranquila."),
			Views:       ptr(int64(0)),
		},
	}
}

func ptr[T any](v T) *T { return &v }
