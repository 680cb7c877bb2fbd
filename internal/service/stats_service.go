package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vbonduro/inmuebles/internal/docstore"
	"github.com/vbonduro/inmuebles/internal/domain"
	"github.com/vbonduro/inmuebles/internal/record"
)

const statsTopN = 5

var mostViewed = []docstore.Sort{
	{Field: "views", Desc: true},
	{Field: docstore.IDField},
}

// StatsService summarises both collections. It never writes.
type StatsService struct {
	store documentStore
}

func NewStatsService(store documentStore) *StatsService {
	return &StatsService{store: store}
}

func (s *StatsService) Get(ctx context.Context) (*domain.Stats, error) {
	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}

	var stats domain.Stats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.store.Count(gctx, propertyCollection, nil)
		if err != nil {
			return fmt.Errorf("failed to count properties: %w", err)
		}
		stats.TotalProperties = n
		return nil
	})
	g.Go(func() error {
		n, err := s.store.Count(gctx, inquiryCollection, nil)
		if err != nil {
			return fmt.Errorf("failed to count inquiries: %w", err)
		}
		stats.TotalInquiries = n
		return nil
	})
	g.Go(func() error {
		docs, err := s.store.Find(gctx, propertyCollection, nil, docstore.FindOptions{Sort: mostViewed, Limit: statsTopN})
		if err != nil {
			return fmt.Errorf("failed to list top properties: %w", err)
		}
		top := make([]domain.Property, 0, len(docs))
		if err := record.DecodeAll(docs, &top); err != nil {
			return err
		}
		stats.TopProperties = top
		return nil
	})
	g.Go(func() error {
		recent, err := listInquiries(gctx, s.store, statsTopN)
		if err != nil {
			return err
		}
		stats.RecentInquiries = recent
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
