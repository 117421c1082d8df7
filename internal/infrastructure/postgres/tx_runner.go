package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// defaultLockTimeout tope de espera por el lock de fila de una colección.
const defaultLockTimeout = 5 * time.Second

// TxRunner abre transacciones READ COMMITTED con lock_timeout acotado. Dos sesiones que
// escriben la misma colección se serializan en el lock de la fila; la que espera más
// del tope recibe error en vez de quedar colgada.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner. lockTimeout <= 0 deja el valor del servidor.
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// Run ejecuta fn dentro de la transacción; commit si fn no falla, rollback en caso contrario.
func (r *TxRunner) Run(ctx context.Context, fn func(q Querier) error) error {
	err := pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		if r.lockTimeout > 0 {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("fijar lock_timeout: %w", err)
			}
		}
		return fn(tx)
	})
	if err != nil {
		return fmt.Errorf("transacción: %w", err)
	}
	return nil
}
