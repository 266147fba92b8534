// Package menu lists what customers can order.
package menu

import (
	"context"

	"github.com/zertkwork/d2c-food-menu-app/internal/domain"
)

type Store interface {
	ListAvailable(ctx context.Context) ([]domain.MenuItem, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context) ([]domain.MenuItem, error) {
	return s.store.ListAvailable(ctx)
}
