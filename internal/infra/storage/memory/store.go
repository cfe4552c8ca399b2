package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Store хранилище записей и мастерских в памяти процесса
// Используется при database.driver = "memory" и в тестах.
// Реализует тот же набор операций, что и postgres-репозитории, и менеджер транзакций:
// транзакция ведёт журнал отмены и держит блокировки мастерских до своего завершения
type Store struct {
	mu           sync.RWMutex
	appointments map[uuid.UUID]*domain.Appointment
	shops        map[uuid.UUID]*domain.Shop

	locksMu   sync.Mutex
	shopLocks map[uuid.UUID]*sync.Mutex

	appointmentRepo *Appointments
	shopRepo        *Shops
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	s := &Store{
		appointments: make(map[uuid.UUID]*domain.Appointment),
		shops:        make(map[uuid.UUID]*domain.Shop),
		shopLocks:    make(map[uuid.UUID]*sync.Mutex),
	}
	s.appointmentRepo = &Appointments{store: s}
	s.shopRepo = &Shops{store: s}
	return s
}

// Appointments репозиторий записей
func (s *Store) Appointments() *Appointments {
	return s.appointmentRepo
}

// Shops репозиторий мастерских
func (s *Store) Shops() *Shops {
	return s.shopRepo
}

// Do выполняет fn в транзакции
// При ошибке изменения, сделанные в транзакции, откатываются
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.run(ctx, fn)
}

// DoSerializable выполняет fn в транзакции
// Для хранилища в памяти совпадает с Do
func (s *Store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.run(ctx, fn)
}

// DoReadOnly выполняет fn в транзакции только для чтения
func (s *Store) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.run(ctx, fn)
}

func (s *Store) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := txFromContext(ctx); ok {
		return ErrNestedTx
	}

	t := newTx()
	defer s.releaseLocks(t)
	defer func() {
		if p := recover(); p != nil {
			s.rollback(t)
			panic(p)
		}
	}()

	if err = fn(withTx(ctx, t)); err != nil {
		s.rollback(t)
		return err
	}
	return nil
}

// lockShop берёт блокировку мастерской и запоминает её в транзакции
func (s *Store) lockShop(ctx context.Context, t *tx, shopID uuid.UUID) error {
	if _, held := t.locked[shopID]; held {
		return nil
	}

	s.locksMu.Lock()
	m, ok := s.shopLocks[shopID]
	if !ok {
		m = &sync.Mutex{}
		s.shopLocks[shopID] = m
	}
	s.locksMu.Unlock()

	acquired := make(chan struct{})
	go func() {
		m.Lock()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.locked[shopID] = m
		return nil
	case <-ctx.Done():
		// блокировка всё равно будет взята горутиной - освобождаем её сразу после захвата
		go func() {
			<-acquired
			m.Unlock()
		}()
		return ctx.Err()
	}
}

func (s *Store) releaseLocks(t *tx) {
	for _, m := range t.locked {
		m.Unlock()
	}
	t.locked = nil
}

// rollback восстанавливает записи и мастерские, изменённые в транзакции.
// Запись, которую после транзакции изменили вне её, остаётся как есть
func (s *Store) rollback(t *tx) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, u := range t.appointmentUndo {
		if s.appointments[id] != u.written {
			continue
		}
		if u.prev == nil {
			delete(s.appointments, id)
			continue
		}
		s.appointments[id] = u.prev
	}
	for id, u := range t.shopUndo {
		if s.shops[id] != u.written {
			continue
		}
		if u.prev == nil {
			delete(s.shops, id)
			continue
		}
		s.shops[id] = u.prev
	}
}

// putAppointment заменяет запись (nil удаляет её) и ведёт журнал отмены транзакции.
// Вызывается под s.mu
func (s *Store) putAppointment(ctx context.Context, id uuid.UUID, a *domain.Appointment) {
	if t, ok := txFromContext(ctx); ok {
		u, seen := t.appointmentUndo[id]
		if !seen {
			u = &undo[domain.Appointment]{prev: s.appointments[id].Clone()}
			t.appointmentUndo[id] = u
		}
		u.written = a
	}
	if a == nil {
		delete(s.appointments, id)
		return
	}
	s.appointments[id] = a
}

// putShop заменяет мастерскую и ведёт журнал отмены транзакции.
// Вызывается под s.mu
func (s *Store) putShop(ctx context.Context, id uuid.UUID, shop *domain.Shop) {
	if t, ok := txFromContext(ctx); ok {
		u, seen := t.shopUndo[id]
		if !seen {
			u = &undo[domain.Shop]{prev: cloneShop(s.shops[id])}
			t.shopUndo[id] = u
		}
		u.written = shop
	}
	s.shops[id] = shop
}

// undo исходное состояние объекта и последняя версия, записанная транзакцией
type undo[T any] struct {
	prev    *T
	written *T
}

type tx struct {
	appointmentUndo map[uuid.UUID]*undo[domain.Appointment]
	shopUndo        map[uuid.UUID]*undo[domain.Shop]
	locked          map[uuid.UUID]*sync.Mutex
}

func newTx() *tx {
	return &tx{
		appointmentUndo: make(map[uuid.UUID]*undo[domain.Appointment]),
		shopUndo:        make(map[uuid.UUID]*undo[domain.Shop]),
		locked:          make(map[uuid.UUID]*sync.Mutex),
	}
}

type txKey struct{}

func withTx(ctx context.Context, t *tx) context.Context {
	return context.WithValue(ctx, txKey{}, t)
}

func txFromContext(ctx context.Context) (*tx, bool) {
	t, ok := ctx.Value(txKey{}).(*tx)
	return t, ok && t != nil
}

func cloneShop(s *domain.Shop) *domain.Shop {
	if s == nil {
		return nil
	}
	c := *s
	if s.Hours != nil {
		h := *s.Hours
		c.Hours = &h
	}
	return &c
}
