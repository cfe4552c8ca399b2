package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Appointments репозиторий записей в памяти
// Все методы возвращают и сохраняют копии, вызывающий код не разделяет состояние с хранилищем
type Appointments struct {
	store *Store
}

// Create сохраняет новую запись
func (r *Appointments) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.appointments[a.ID]; exists {
		return nil, fmt.Errorf("%w: id=%s", ErrDuplicateID, a.ID)
	}

	now := time.Now().UTC()
	a.StartTime = a.StartTime.UTC()
	a.EndTime = a.EndTime.UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	s.putAppointment(ctx, a.ID, a.Clone())
	return a, nil
}

// GetByID получает запись по ID
func (r *Appointments) GetByID(_ context.Context, id uuid.UUID) (*domain.Appointment, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return a.Clone(), nil
}

// ListByShop получает записи мастерской, пересекающие период [From, To), в указанных статусах
func (r *Appointments) ListByShop(_ context.Context, filter domain.ShopAppointmentsFilter) ([]*domain.Appointment, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Appointment, 0)
	for _, a := range s.appointments {
		if a.ShopID != filter.ShopID {
			continue
		}
		if filter.From != nil && !a.EndTime.After(*filter.From) {
			continue
		}
		if filter.To != nil && !a.StartTime.Before(*filter.To) {
			continue
		}
		if !statusIn(a.Status, filter.Statuses) {
			continue
		}
		out = append(out, a.Clone())
	}

	sortByStart(out, false)
	return out, nil
}

// ListByCustomer получает записи клиента, новые сначала
func (r *Appointments) ListByCustomer(_ context.Context, customerID uuid.UUID, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Appointment, 0)
	for _, a := range s.appointments {
		if a.CustomerID != customerID {
			continue
		}
		if status != nil && a.Status != *status {
			continue
		}
		out = append(out, a.Clone())
	}

	sortByStart(out, true)
	return out, nil
}

// ListOverlapping получает записи мастерской в указанных статусах, пересекающие интервал, кроме excludeID
func (r *Appointments) ListOverlapping(
	_ context.Context,
	shopID uuid.UUID,
	excludeID uuid.UUID,
	interval domain.Interval,
	statuses []domain.AppointmentStatus,
) ([]*domain.Appointment, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Appointment, 0)
	for _, a := range s.appointments {
		if a.ShopID != shopID || a.ID == excludeID {
			continue
		}
		if !statusIn(a.Status, statuses) {
			continue
		}
		if !domain.Overlaps(a.Interval(), interval) {
			continue
		}
		out = append(out, a.Clone())
	}

	sortByStart(out, false)
	return out, nil
}

// Update сохраняет время, цену и ссылки записи
func (r *Appointments) Update(ctx context.Context, a *domain.Appointment) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.appointments[a.ID]
	if !ok {
		return ErrAppointmentNotFound
	}
	updated := current.Clone()
	updated.StartTime = a.StartTime.UTC()
	updated.EndTime = a.EndTime.UTC()
	patch := a.Clone()
	updated.Price = patch.Price
	updated.QuoteID = patch.QuoteID
	updated.EmployeeID = patch.EmployeeID
	updated.WorkOrderID = patch.WorkOrderID
	updated.UpdatedAt = time.Now().UTC()

	s.putAppointment(ctx, a.ID, updated)
	a.UpdatedAt = updated.UpdatedAt
	return nil
}

// UpdateStatus сохраняет статус записи вместе с причиной и временем отмены
func (r *Appointments) UpdateStatus(ctx context.Context, a *domain.Appointment) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.appointments[a.ID]
	if !ok {
		return ErrAppointmentNotFound
	}
	patch := a.Clone()
	updated := current.Clone()
	updated.Status = patch.Status
	updated.CancellationReason = patch.CancellationReason
	updated.CancelledAt = patch.CancelledAt
	updated.UpdatedAt = time.Now().UTC()

	s.putAppointment(ctx, a.ID, updated)
	a.UpdatedAt = updated.UpdatedAt
	return nil
}

// Reject принудительно переводит незавершённую запись в REJECTED
func (r *Appointments) Reject(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	if current.IsTerminal() {
		return nil, fmt.Errorf("%w: id=%s status=%s", ErrAlreadyTerminal, id, current.Status)
	}
	updated := current.Clone()
	updated.Status = domain.StatusRejected
	updated.UpdatedAt = time.Now().UTC()
	s.putAppointment(ctx, id, updated)

	return updated.Clone(), nil
}

// Delete удаляет запись
func (r *Appointments) Delete(ctx context.Context, id uuid.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.appointments[id]; !ok {
		return ErrAppointmentNotFound
	}
	s.putAppointment(ctx, id, nil)
	return nil
}

// LockShop блокирует мастерскую до завершения текущей транзакции
func (r *Appointments) LockShop(ctx context.Context, shopID uuid.UUID) error {
	t, ok := txFromContext(ctx)
	if !ok {
		return ErrNoTransaction
	}
	return r.store.lockShop(ctx, t, shopID)
}

func statusIn(status domain.AppointmentStatus, statuses []domain.AppointmentStatus) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func sortByStart(list []*domain.Appointment, desc bool) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.StartTime.Equal(b.StartTime) {
			if desc {
				return a.StartTime.After(b.StartTime)
			}
			return a.StartTime.Before(b.StartTime)
		}
		return a.ID.String() < b.ID.String()
	})
}
