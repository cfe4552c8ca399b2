package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShop_Location(t *testing.T) {
	var nilShop *Shop
	assert.Equal(t, time.UTC, nilShop.Location())
	assert.Equal(t, time.UTC, (&Shop{}).Location())
	assert.Equal(t, time.UTC, (&Shop{Timezone: "Mars/Olympus_Mons"}).Location())
	assert.Equal(t, "UTC", (&Shop{Timezone: "UTC"}).Location().String())
}

func TestAppointment_Clone(t *testing.T) {
	reason := "customer called"
	orig := &Appointment{Status: StatusCancelled, CancellationReason: &reason}

	c := orig.Clone()
	*c.CancellationReason = "changed"
	c.Status = StatusAccepted

	assert.Equal(t, "customer called", *orig.CancellationReason)
	assert.Equal(t, StatusCancelled, orig.Status)

	var nilAppt *Appointment
	assert.Nil(t, nilAppt.Clone())
}

func TestStatusEventType(t *testing.T) {
	assert.Equal(t, "appointment.accepted", StatusEventType(StatusAccepted))
	assert.Equal(t, "appointment.in_progress", StatusEventType(StatusInProgress))
}
