package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-inventory/internal/domain"
	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
	"github.com/jhoicas/warehouse-inventory/internal/domain/inventory"
)

func TestApplyDelta(t *testing.T) {
	cases := []struct {
		name    string
		before  int
		typ     entity.TransactionType
		qty     int
		want    int
		wantErr error
	}{
		{"entrada suma", 10, entity.TransactionIN, 5, 15, nil},
		{"salida resta", 100, entity.TransactionOUT, 85, 15, nil},
		{"salida exacta deja cero", 7, entity.TransactionOUT, 7, 0, nil},
		{"salida excede stock", 3, entity.TransactionOUT, 4, 3, domain.ErrInsufficientStock},
		{"cantidad cero", 3, entity.TransactionIN, 0, 3, domain.ErrInvalidInput},
		{"cantidad negativa", 3, entity.TransactionOUT, -1, 3, domain.ErrInvalidInput},
		{"tipo desconocido", 3, entity.TransactionType("ADJUST"), 1, 3, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := inventory.ApplyDelta(tc.before, tc.typ, tc.qty)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTransactionDetails_Formato(t *testing.T) {
	assert.Equal(t, "Stock OUT: -85 (100 → 15) - Sold to customer",
		inventory.TransactionDetails(entity.TransactionOUT, 85, 100, 15, entity.ReasonSoldToCustomer))
	assert.Equal(t, "Stock IN: +5 (10 → 15) - Other",
		inventory.TransactionDetails(entity.TransactionIN, 5, 10, 15, entity.ReasonOther))
}

func TestIsDamageReason_CoincidenciaExacta(t *testing.T) {
	assert.True(t, inventory.IsDamageReason(entity.TransactionOUT, "Damaged/Discarded"))
	assert.False(t, inventory.IsDamageReason(entity.TransactionOUT, "damaged/discarded"))
	assert.False(t, inventory.IsDamageReason(entity.TransactionIN, "Damaged/Discarded"))
}
