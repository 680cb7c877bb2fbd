// Package record converts store-native documents into the external record
// shape: the identifier is exposed as a string "id" and "_id" never leaves.
package record

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vbonduro/inmuebles/internal/docstore"
)

// Serialize renames the identifier field to "id" and normalises store-native
// values. Other fields pass through. A nil document yields nil.
func Serialize(doc docstore.Document) docstore.Document {
	if doc == nil {
		return nil
	}
	out := make(docstore.Document, len(doc))
	for k, v := range doc {
		if k == docstore.IDField {
			out["id"] = idString(v)
			continue
		}
		out[k] = native(v)
	}
	return out
}

// SerializeAll applies Serialize to each document.
func SerializeAll(docs []docstore.Document) []docstore.Document {
	out := make([]docstore.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, Serialize(d))
	}
	return out
}

// Decode serializes doc and fills out through its JSON field tags.
func Decode(doc docstore.Document, out any) error {
	return decode(Serialize(doc), out)
}

// DecodeAll serializes docs and fills out, which must point to a slice.
func DecodeAll(docs []docstore.Document, out any) error {
	return decode(SerializeAll(docs), out)
}

func decode(v any, out any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}
	return nil
}

func idString(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

func native(v any) any {
	switch x := v.(type) {
	case primitive.ObjectID:
		return x.Hex()
	case primitive.DateTime:
		return x.Time().UTC()
	case primitive.A:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = native(e)
		}
		return out
	case time.Time:
		return x.UTC()
	default:
		return v
	}
}
