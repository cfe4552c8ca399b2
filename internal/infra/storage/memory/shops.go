package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Shops репозиторий мастерских в памяти
type Shops struct {
	store *Store
}

// GetByID получает мастерскую по ID
func (r *Shops) GetByID(_ context.Context, id uuid.UUID) (*domain.Shop, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	shop, ok := s.shops[id]
	if !ok {
		return nil, ErrShopNotFound
	}
	return cloneShop(shop), nil
}

// Upsert создает мастерскую или заменяет её часы работы и часовой пояс
func (r *Shops) Upsert(ctx context.Context, shop *domain.Shop) (*domain.Shop, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	shop.UpdatedAt = time.Now().UTC()
	s.putShop(ctx, shop.ID, cloneShop(shop))
	return shop, nil
}
