package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SchedulingService/internal/service/conflicts"
	"github.com/m04kA/SMC-SchedulingService/internal/service/statemachine"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

type recordingPublisher struct {
	events []domain.AppointmentEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...domain.AppointmentEvent) {
	p.events = append(p.events, events...)
}

type fixture struct {
	store     *memory.Store
	publisher *recordingPublisher
	svc       *Service
	shopID    uuid.UUID
	customer  uuid.UUID
}

func newFixture() *fixture {
	store := memory.NewStore()
	log := logger.Discard()
	resolver := conflicts.NewResolver(store.Appointments(), nil, log)
	machine := statemachine.NewMachine(store.Appointments(), resolver, nil, log)
	publisher := &recordingPublisher{}

	return &fixture{
		store:     store,
		publisher: publisher,
		svc:       NewService(store.Appointments(), machine, publisher, store, log),
		shopID:    uuid.New(),
		customer:  uuid.New(),
	}
}

func (f *fixture) add(t *testing.T, day, startHour, endHour int, status domain.AppointmentStatus) *domain.Appointment {
	t.Helper()
	a, err := f.store.Appointments().Create(context.Background(), &domain.Appointment{
		ID:         uuid.New(),
		ShopID:     f.shopID,
		CustomerID: f.customer,
		StartTime:  time.Date(2023, 11, day, startHour, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2023, 11, day, endHour, 0, 0, 0, time.UTC),
		Status:     status,
	})
	require.NoError(t, err)
	return a
}

func TestGetByID(t *testing.T) {
	f := newFixture()
	a := f.add(t, 9, 10, 11, domain.StatusPendingApproval)

	got, err := f.svc.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = f.svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestListByShop_FiltersByPeriodAndStatus(t *testing.T) {
	f := newFixture()
	a := f.add(t, 9, 10, 11, domain.StatusPendingApproval)
	b := f.add(t, 9, 8, 9, domain.StatusAccepted)
	f.add(t, 10, 10, 11, domain.StatusAccepted)
	f.add(t, 9, 12, 13, domain.StatusCancelled)

	from := time.Date(2023, 11, 9, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, 11, 10, 0, 0, 0, 0, time.UTC)

	list, err := f.svc.ListByShop(context.Background(), &models.ListShopAppointmentsRequest{
		ShopID:   f.shopID,
		From:     &from,
		To:       &to,
		Statuses: []string{"PENDING_APPROVAL", "ACCEPTED"},
	})
	require.NoError(t, err)
	require.Len(t, list.Appointments, 2)
	assert.Equal(t, b.ID, list.Appointments[0].ID, "sorted by start time")
	assert.Equal(t, a.ID, list.Appointments[1].ID)
}

func TestListByShop_Validation(t *testing.T) {
	f := newFixture()
	from := time.Date(2023, 11, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, 11, 9, 0, 0, 0, 0, time.UTC)

	_, err := f.svc.ListByShop(context.Background(), &models.ListShopAppointmentsRequest{ShopID: f.shopID, From: &from, To: &to})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.ListByShop(context.Background(), &models.ListShopAppointmentsRequest{ShopID: f.shopID, Statuses: []string{"LOST"}})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListByCustomer(t *testing.T) {
	f := newFixture()
	older := f.add(t, 8, 10, 11, domain.StatusCompleted)
	newer := f.add(t, 9, 10, 11, domain.StatusPendingApproval)

	list, err := f.svc.ListByCustomer(context.Background(), &models.ListCustomerAppointmentsRequest{CustomerID: f.customer})
	require.NoError(t, err)
	require.Len(t, list.Appointments, 2)
	assert.Equal(t, newer.ID, list.Appointments[0].ID, "newest first")
	assert.Equal(t, older.ID, list.Appointments[1].ID)

	list, err = f.svc.ListByCustomer(context.Background(), &models.ListCustomerAppointmentsRequest{
		CustomerID: f.customer,
		Status:     ptr.Ptr("COMPLETED"),
	})
	require.NoError(t, err)
	require.Len(t, list.Appointments, 1)
	assert.Equal(t, older.ID, list.Appointments[0].ID)

	list, err = f.svc.ListByCustomer(context.Background(), &models.ListCustomerAppointmentsRequest{CustomerID: uuid.New()})
	require.NoError(t, err)
	assert.NotNil(t, list.Appointments)
	assert.Empty(t, list.Appointments)
}

func TestCancel(t *testing.T) {
	f := newFixture()
	a := f.add(t, 9, 10, 11, domain.StatusAccepted)

	got, err := f.svc.Cancel(context.Background(), a.ID, &models.CancelRequest{CancellationReason: "engine fixed elsewhere"})
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", got.Status)
	require.NotNil(t, got.CancellationReason)
	assert.Equal(t, "engine fixed elsewhere", *got.CancellationReason)

	// повторная отмена успешна и не перезаписывает причину
	again, err := f.svc.Cancel(context.Background(), a.ID, &models.CancelRequest{CancellationReason: "another"})
	require.NoError(t, err)
	assert.Equal(t, "engine fixed elsewhere", *again.CancellationReason)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, "appointment.cancelled", f.publisher.events[0].Type)
}

func TestCancel_Errors(t *testing.T) {
	f := newFixture()
	completed := f.add(t, 9, 10, 11, domain.StatusCompleted)
	pending := f.add(t, 9, 12, 13, domain.StatusPendingApproval)

	_, err := f.svc.Cancel(context.Background(), uuid.New(), &models.CancelRequest{CancellationReason: "x"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	_, err = f.svc.Cancel(context.Background(), completed.ID, &models.CancelRequest{CancellationReason: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.svc.Cancel(context.Background(), pending.ID, &models.CancelRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Empty(t, f.publisher.events)
}

func TestDelete(t *testing.T) {
	f := newFixture()
	a := f.add(t, 9, 10, 11, domain.StatusPendingApproval)
	other := f.add(t, 9, 10, 11, domain.StatusPendingApproval)

	require.NoError(t, f.svc.Delete(context.Background(), a.ID))
	_, err := f.store.Appointments().GetByID(context.Background(), a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.store.Appointments().GetByID(context.Background(), other.ID)
	assert.NoError(t, err)

	// повторное удаление не является ошибкой
	require.NoError(t, f.svc.Delete(context.Background(), a.ID))

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, domain.EventAppointmentDeleted, f.publisher.events[0].Type)
}
