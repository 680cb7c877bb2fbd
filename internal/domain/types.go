package domain

import (
	"encoding/json"
	"time"
)

// Property is a real-estate listing as returned to clients.
type Property struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Location    string     `json:"location"`
	PriceUSD    float64    `json:"price_usd"`
	Beds        *int       `json:"beds"`
	Baths       *float64   `json:"baths"`
	AreaM2      *float64   `json:"area_m2"`
	Type        *string    `json:"type"`
	Images      []string   `json:"images"`
	Featured    bool       `json:"featured"`
	Description *string    `json:"description"`
	Views       int64      `json:"views"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`

	// Extra holds stored fields the listing schema does not declare. They are
	// returned to clients unchanged.
	Extra map[string]json.RawMessage `json:"-"`
}

type propertyFields Property

var propertyKeys = []string{
	"id", "title", "location", "price_usd", "beds", "baths", "area_m2", "type",
	"images", "featured", "description", "views", "created_at", "updated_at",
}

// UnmarshalJSON decodes the declared fields, keeps the rest in Extra and
// defaults a missing image list to empty.
func (p *Property) UnmarshalJSON(data []byte) error {
	var fields propertyFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range propertyKeys {
		delete(all, k)
	}

	*p = Property(fields)
	p.Extra = nil
	if len(all) > 0 {
		p.Extra = all
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return nil
}

func (p Property) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(propertyFields(p))
	if err != nil || len(p.Extra) == 0 {
		return data, err
	}
	merged := make(map[string]json.RawMessage, len(propertyKeys)+len(p.Extra))
	for k, v := range p.Extra {
		merged[k] = v
	}
	// Declared fields win over extras of the same name.
	var declared map[string]json.RawMessage
	if err := json.Unmarshal(data, &declared); err != nil {
		return nil, err
	}
	for k, v := range declared {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// PropertyInput is the payload accepted when creating a property.
type PropertyInput struct {
	Title       string   `json:"title" validate:"required"`
	Location    string   `json:"location" validate:"required"`
	PriceUSD    *float64 `json:"price_usd" validate:"required,gte=0"`
	Beds        *int     `json:"beds" validate:"omitempty,gte=0"`
	Baths       *float64 `json:"baths" validate:"omitempty,gte=0"`
	AreaM2      *float64 `json:"area_m2" validate:"omitempty,gte=0"`
	Type        *string  `json:"type"`
	Images      []string `json:"images"`
	Featured    bool     `json:"featured"`
	Description *string  `json:"description"`
	Views       *int64   `json:"views" validate:"omitempty,gte=0"`
}

// Document maps the input onto store fields. Absent optional fields are left
// out, images default to an empty list and views to zero.
func (in PropertyInput) Document(now time.Time) map[string]any {
	doc := map[string]any{
		"title":      in.Title,
		"location":   in.Location,
		"featured":   in.Featured,
		"images":     []string{},
		"views":      int64(0),
		"created_at": now,
		"updated_at": now,
	}
	if in.PriceUSD != nil {
		doc["price_usd"] = *in.PriceUSD
	}
	if in.Images != nil {
		doc["images"] = in.Images
	}
	if in.Views != nil {
		doc["views"] = *in.Views
	}
	setIfPresent(doc, "beds", in.Beds)
	setIfPresent(doc, "baths", in.Baths)
	setIfPresent(doc, "area_m2", in.AreaM2)
	setIfPresent(doc, "type", in.Type)
	setIfPresent(doc, "description", in.Description)
	return doc
}

// PropertyPatch is a partial update. A nil field is absent and leaves the
// stored value untouched; a non-nil field overwrites it, zero values included.
type PropertyPatch struct {
	Title       *string  `json:"title" validate:"omitempty,min=1"`
	Location    *string  `json:"location" validate:"omitempty,min=1"`
	PriceUSD    *float64 `json:"price_usd" validate:"omitempty,gte=0"`
	Beds        *int     `json:"beds" validate:"omitempty,gte=0"`
	Baths       *float64 `json:"baths" validate:"omitempty,gte=0"`
	AreaM2      *float64 `json:"area_m2" validate:"omitempty,gte=0"`
	Type        *string  `json:"type"`
	Images      []string `json:"images"`
	Featured    *bool    `json:"featured"`
	Description *string  `json:"description"`
	Views       *int64   `json:"views" validate:"omitempty,gte=0"`
}

// Fields returns the present fields keyed by their stored names.
func (p PropertyPatch) Fields() map[string]any {
	fields := make(map[string]any)
	setIfPresent(fields, "title", p.Title)
	setIfPresent(fields, "location", p.Location)
	setIfPresent(fields, "price_usd", p.PriceUSD)
	setIfPresent(fields, "beds", p.Beds)
	setIfPresent(fields, "baths", p.Baths)
	setIfPresent(fields, "area_m2", p.AreaM2)
	setIfPresent(fields, "type", p.Type)
	if p.Images != nil {
		fields["images"] = p.Images
	}
	setIfPresent(fields, "featured", p.Featured)
	setIfPresent(fields, "description", p.Description)
	setIfPresent(fields, "views", p.Views)
	return fields
}

// IsEmpty reports whether the patch carries no field at all.
func (p PropertyPatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Inquiry is a prospect's message, optionally about a property. PropertyID is
// a free-form reference and is never checked against the property collection.
type Inquiry struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      *string   `json:"phone"`
	Message    string    `json:"message"`
	PropertyID *string   `json:"property_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// InquiryInput is the payload accepted when creating an inquiry.
type InquiryInput struct {
	Name       string  `json:"name" validate:"required"`
	Email      string  `json:"email" validate:"required,email"`
	Phone      *string `json:"phone"`
	Message    string  `json:"message" validate:"required"`
	PropertyID *string `json:"property_id"`
}

func (in InquiryInput) Document(now time.Time) map[string]any {
	doc := map[string]any{
		"name":       in.Name,
		"email":      in.Email,
		"message":    in.Message,
		"created_at": now,
		"updated_at": now,
	}
	setIfPresent(doc, "phone", in.Phone)
	setIfPresent(doc, "property_id", in.PropertyID)
	return doc
}

// Stats is the dashboard summary across both collections.
type Stats struct {
	TotalProperties int64      `json:"total_properties"`
	TotalInquiries  int64      `json:"total_inquiries"`
	TopProperties   []Property `json:"top_properties"`
	RecentInquiries []Inquiry  `json:"recent_inquiries"`
}

func setIfPresent[T any](m map[string]any, key string, v *T) {
	if v != nil {
		m[key] = *v
	}
}
