package library

import (
	"context"

	"github.com/mmcdole/grimoire/internal/domain"
)

// Refresh refetches a collection regardless of staleness
func (s *Service) Refresh(ctx context.Context, kind domain.Kind) error {
	if kind.Path() == "" {
		return domain.ErrUnknownKind
	}
	if _, err := s.cache.Refetch(ctx, s.CollectionQuery(kind)); err != nil {
		return err
	}
	s.logger.Info("refreshed collection", "kind", kind)
	return nil
}

// RefreshItem refetches one record regardless of staleness
func (s *Service) RefreshItem(ctx context.Context, kind domain.Kind, id string) error {
	if kind.Path() == "" {
		return domain.ErrUnknownKind
	}
	_, err := s.cache.Refetch(ctx, s.ItemQuery(kind, id))
	return err
}

// Prefetch starts background loads for every collection that is absent or
// stale. It returns immediately.
func (s *Service) Prefetch() {
	for _, kind := range domain.Kinds {
		s.cache.Read(s.CollectionQuery(kind))
	}
}

func (s *Service) InvalidateAll() {
	s.cache.InvalidateAll()
	s.logger.Info("invalidated all cache")
}
