package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
)

func TestAppointmentStatus_Transiciones(t *testing.T) {
	cases := []struct {
		from, to entity.AppointmentStatus
		ok       bool
	}{
		{entity.AppointmentPending, entity.AppointmentConfirmed, true},
		{entity.AppointmentPending, entity.AppointmentCompleted, true},
		{entity.AppointmentPending, entity.AppointmentCancelled, true},
		{entity.AppointmentConfirmed, entity.AppointmentCompleted, true},
		{entity.AppointmentConfirmed, entity.AppointmentCancelled, true},
		{entity.AppointmentConfirmed, entity.AppointmentPending, false},
		{entity.AppointmentCompleted, entity.AppointmentCancelled, false},
		{entity.AppointmentCompleted, entity.AppointmentCompleted, false},
		{entity.AppointmentCancelled, entity.AppointmentCompleted, false},
		{entity.AppointmentCancelled, entity.AppointmentConfirmed, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s → %s", tc.from, tc.to)
	}
	assert.True(t, entity.AppointmentCompleted.IsTerminal())
	assert.True(t, entity.AppointmentCancelled.IsTerminal())
	assert.False(t, entity.AppointmentConfirmed.IsTerminal())
}

func TestAppointment_OverdueYUpcoming(t *testing.T) {
	now := time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)

	past := entity.Appointment{Date: "2025-11-19", Time: "10:00", Status: entity.AppointmentPending}
	assert.True(t, past.IsOverdue(now), "una cita abierta con fecha pasada está vencida")

	past.Status = entity.AppointmentCompleted
	assert.False(t, past.IsOverdue(now), "una cita terminal nunca está vencida")

	today := entity.Appointment{Date: "2025-11-20", Time: "08:00", Status: entity.AppointmentConfirmed}
	assert.False(t, today.IsOverdue(now), "hoy no cuenta como vencida")

	soon := entity.Appointment{Date: "2025-11-25", Time: "10:00", Status: entity.AppointmentPending}
	assert.True(t, soon.IsUpcoming(now))

	far := entity.Appointment{Date: "2025-12-25", Time: "10:00", Status: entity.AppointmentPending}
	assert.False(t, far.IsUpcoming(now))
}

func TestItem_IsLowStock(t *testing.T) {
	item := entity.Item{Quantity: 20, ReorderLevel: 20}
	assert.True(t, item.IsLowStock(), "igual al punto de reorden es stock bajo")
	item.Quantity = 21
	assert.False(t, item.IsLowStock())
}

func TestTransactionType_Motivos(t *testing.T) {
	assert.True(t, entity.TransactionOUT.AllowsReason(entity.ReasonDamaged))
	assert.False(t, entity.TransactionIN.AllowsReason(entity.ReasonDamaged))
	assert.False(t, entity.TransactionOUT.AllowsReason("damaged/discarded"))
	assert.Len(t, entity.TransactionIN.Reasons(), 5)
}
