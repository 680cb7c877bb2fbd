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
	"github.com/vbonduro/inmuebles/internal/validate"
)

// newestFirst orders inquiries by creation time, breaking ties by identifier
// so that inquiries created within the same instant keep reverse insertion order.
var newestFirst = []docstore.Sort{
	{Field: "created_at", Desc: true},
	{Field: docstore.IDField, Desc: true},
}

type InquiryService struct {
	store  documentStore
	logger *slog.Logger
	now    func() time.Time
}

func NewInquiryService(store documentStore, logger *slog.Logger) *InquiryService {
	return &InquiryService{store: store, logger: logger, now: utcNow}
}

// List returns every inquiry, newest first.
func (s *InquiryService) List(ctx context.Context) ([]domain.Inquiry, error) {
	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}
	return listInquiries(ctx, s.store, 0)
}

func (s *InquiryService) Create(ctx context.Context, in domain.InquiryInput) (string, error) {
	if s.store == nil {
		return "", domain.ErrStoreUnavailable
	}
	if err := validate.Struct(in); err != nil {
		return "", err
	}

	id, err := s.store.Insert(ctx, inquiryCollection, in.Document(s.now()))
	if err != nil {
		return "", fmt.Errorf("failed to create inquiry: %w", err)
	}
	logging.FromContext(ctx, s.logger).Info("inquiry created", "id", id)
	return id, nil
}

func listInquiries(ctx context.Context, store documentStore, limit int64) ([]domain.Inquiry, error) {
	docs, err := store.Find(ctx, inquiryCollection, nil, docstore.FindOptions{Sort: newestFirst, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list inquiries: %w", err)
	}
	inquiries := make([]domain.Inquiry, 0, len(docs))
	if err := record.DecodeAll(docs, &inquiries); err != nil {
		return nil, err
	}
	return inquiries, nil
}
