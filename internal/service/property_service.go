package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vbonduro/inmuebles/internal/docstore"
	"github.com/vbonduro/inmuebles/internal/domain"
	"github.com/vbonduro/inmuebles/internal/logging"
	"github.com/vbonduro/inmuebles/internal/record"
	"github.com/vbonduro/inmuebles/internal/seed"
	"github.com/vbonduro/inmuebles/internal/validate"
)

const (
	propertyCollection = "property"
	inquiryCollection  = "inquiry"
)

// documentStore is the subset of docstore.Store the services require.
type documentStore interface {
	Insert(ctx context.Context, collection string, doc docstore.Document) (string, error)
	Find(ctx context.Context, collection string, filter docstore.Filter, opts docstore.FindOptions) ([]docstore.Document, error)
	FindOne(ctx context.Context, collection string, filter docstore.Filter) (docstore.Document, error)
	UpdateOne(ctx context.Context, collection string, filter docstore.Filter, update docstore.Update) (int64, error)
	DeleteOne(ctx context.Context, collection string, filter docstore.Filter) (int64, error)
	Count(ctx context.Context, collection string, filter docstore.Filter) (int64, error)
}

type PropertyService struct {
	store  documentStore
	logger *slog.Logger
	now    func() time.Time
}

// NewPropertyService returns a service over store. A nil store is allowed;
// every operation then fails with domain.ErrStoreUnavailable.
func NewPropertyService(store documentStore, logger *slog.Logger) *PropertyService {
	return &PropertyService{store: store, logger: logger, now: utcNow}
}

func utcNow() time.Time { return time.Now().UTC() }

// List returns the properties matching the featured filter, seeding the demo
// listings first when the collection is empty. A nil featured returns all;
// false matches listings whose featured flag is false or missing.
func (s *PropertyService) List(ctx context.Context, featured *bool) ([]domain.Property, error) {
	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}
	if err := s.seedIfEmpty(ctx); err != nil {
		return nil, err
	}

	var filter docstore.Filter
	if featured != nil {
		if *featured {
			filter = docstore.Where("featured", docstore.Eq, true)
		} else {
			filter = docstore.Where("featured", docstore.Ne, true)
		}
	}

	docs, err := s.store.Find(ctx, propertyCollection, filter, docstore.FindOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	props := make([]domain.Property, 0, len(docs))
	if err := record.DecodeAll(docs, &props); err != nil {
		return nil, err
	}
	return props, nil
}

func (s *PropertyService) seedIfEmpty(ctx context.Context) error {
	n, err := s.store.Count(ctx, propertyCollection, nil)
	if err != nil {
		return fmt.Errorf("failed to count properties: %w", err)
	}
	if n > 0 {
		return nil
	}

	now := s.now()
	seeds := seed.Properties()
	for _, p := range seeds {
		if err := validate.Struct(p); err != nil {
			return fmt.Errorf("invalid seed property %q: %w", p.Title, err)
		}
		if _, err := s.store.Insert(ctx, propertyCollection, p.Document(now)); err != nil {
			return fmt.Errorf("failed to seed properties: %w", err)
		}
	}
	logging.FromContext(ctx, s.logger).Info("seeded demo properties", "count", len(seeds))
	return nil
}

// Get returns the property and counts the fetch as a view. The returned
// record reflects the state read before the increment.
func (s *PropertyService) Get(ctx context.Context, id string) (*domain.Property, error) {
	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}
	if !docstore.ValidID(id) {
		return nil, domain.ErrInvalidID
	}

	doc, err := s.store.FindOne(ctx, propertyCollection, docstore.ByID(id))
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}

	if _, err := s.store.UpdateOne(ctx, propertyCollection, docstore.ByID(id), docstore.Update{
		Set: map[string]any{"updated_at": s.now()},
		Inc: map[string]int64{"views": 1},
	}); err != nil {
		logging.FromContext(ctx, s.logger).Warn("failed to record property view", "id", id, "error", err)
	}

	var p domain.Property
	if err := record.Decode(doc, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PropertyService) Create(ctx context.Context, in domain.PropertyInput) (string, error) {
	if s.store == nil {
		return "", domain.ErrStoreUnavailable
	}
	if err := validate.Struct(in); err != nil {
		return "", err
	}

	id, err := s.store.Insert(ctx, propertyCollection, in.Document(s.now()))
	if err != nil {
		return "", fmt.Errorf("failed to create property: %w", err)
	}
	logging.FromContext(ctx, s.logger).Info("property created", "id", id)
	return id, nil
}

// Update applies the fields present in patch and returns the stored result.
func (s *PropertyService) Update(ctx context.Context, id string, patch domain.PropertyPatch) (*domain.Property, error) {
	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}
	if !docstore.ValidID(id) {
		return nil, domain.ErrInvalidID
	}
	if patch.IsEmpty() {
		return nil, domain.ErrNoFields
	}
	if err := validate.Struct(patch); err != nil {
		return nil, err
	}

	set := patch.Fields()
	set["updated_at"] = s.now()
	matched, err := s.store.UpdateOne(ctx, propertyCollection, docstore.ByID(id), docstore.Update{Set: set})
	if err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}
	if matched == 0 {
		return nil, domain.ErrNotFound
	}

	doc, err := s.store.FindOne(ctx, propertyCollection, docstore.ByID(id))
	if err != nil {
		return nil, fmt.Errorf("failed to get updated property: %w", err)
	}
	if doc == nil {
		// Deleted between the update and the read.
		return nil, domain.ErrNotFound
	}

	var p domain.Property
	if err := record.Decode(doc, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PropertyService) Delete(ctx context.Context, id string) error {
	if s.store == nil {
		return domain.ErrStoreUnavailable
	}
	if !docstore.ValidID(id) {
		return domain.ErrInvalidID
	}

	deleted, err := s.store.DeleteOne(ctx, propertyCollection, docstore.ByID(id))
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	if deleted == 0 {
		return domain.ErrNotFound
	}
	logging.FromContext(ctx, s.logger).Info("property deleted", "id", id)
	return nil
}
