package service

import (
	"context"
	"fmt"
	"time"

	"cabanas-backend/internal/domain"
	"cabanas-backend/internal/repository"

	"github.com/karlseguin/ccache/v3"
)

const unitCacheTTL = 5 * time.Minute

// catalogService fronts the unit table with a small in-process cache. Unit
// rows change rarely and every quote reads them, so a short TTL is enough.
type catalogService struct {
	units repository.UnitRepository
	cache *ccache.Cache[*domain.Unit]
}

func NewCatalogService(units repository.UnitRepository) CatalogService {
	return &catalogService{
		units: units,
		cache: ccache.New(ccache.Configure[*domain.Unit]().MaxSize(512)),
	}
}

func (s *catalogService) GetUnit(ctx context.Context, id int32) (*domain.Unit, error) {
	key := fmt.Sprintf("unit:%d", id)
	if item := s.cache.Get(key); item != nil && !item.Expired() {
		return item.Value(), nil
	}
	unit, err := s.units.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, unit, unitCacheTTL)
	return unit, nil
}

func (s *catalogService) ListUnits(ctx context.Context) ([]domain.Unit, error) {
	return s.units.ListActive(ctx)
}

func (s *catalogService) ListUnitsByKind(ctx context.Context, kind domain.UnitKind) ([]domain.Unit, error) {
	return s.units.ListByKind(ctx, kind)
}
