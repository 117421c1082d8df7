package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/warehouse-inventory/internal/domain/repository"
	"github.com/jhoicas/warehouse-inventory/pkg/logger"
)

var _ repository.CollectionStore = (*CollectionStore)(nil)

// notifyChannel canal LISTEN/NOTIFY de cambios de colecciones.
const notifyChannel = "collection_changes"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS collections (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	origin     TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// notifyPayload va en el NOTIFY. El valor no viaja (límite de 8000 bytes); el receptor lo relee.
type notifyPayload struct {
	Key    string `json:"key"`
	Origin string `json:"origin"`
}

// CollectionStore implementación de CollectionStore sobre PostgreSQL (tabla collections + LISTEN/NOTIFY).
type CollectionStore struct {
	pool *pgxpool.Pool
	tx   *TxRunner
	log  *logger.Logger
}

// NewCollectionStore construye el adaptador.
func NewCollectionStore(pool *pgxpool.Pool, log *logger.Logger) *CollectionStore {
	return &CollectionStore{pool: pool, tx: NewTxRunner(pool, defaultLockTimeout), log: log}
}

// EnsureSchema crea la tabla si no existe.
func (s *CollectionStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("crear tabla collections: %w", err)
	}
	return nil
}

// Load obtiene el JSON de la colección.
func (s *CollectionStore) Load(ctx context.Context, key string) (json.RawMessage, bool, error) {
	return loadCollection(ctx, s.pool, key)
}

func loadCollection(ctx context.Context, q Querier, key string) (json.RawMessage, bool, error) {
	var raw []byte
	err := q.QueryRow(ctx, `SELECT value FROM collections WHERE key = $1`, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isUndefinedTable(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load collection %s: %w", key, err)
	}
	return json.RawMessage(raw), true, nil
}

// Save hace upsert y notifica en la misma transacción: el NOTIFY solo sale si hay commit.
func (s *CollectionStore) Save(ctx context.Context, key string, value json.RawMessage, origin string) error {
	payload, err := json.Marshal(notifyPayload{Key: key, Origin: origin})
	if err != nil {
		return fmt.Errorf("serializar notify: %w", err)
	}
	return s.tx.Run(ctx, func(q Querier) error {
		query := `
			INSERT INTO collections (key, value, origin, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (key) DO UPDATE
			SET value = EXCLUDED.value, origin = EXCLUDED.origin, updated_at = EXCLUDED.updated_at`
		if _, err := q.Exec(ctx, query, key, []byte(value), origin); err != nil {
			return fmt.Errorf("save collection %s: %w", key, err)
		}
		if _, err := q.Exec(ctx, `SELECT pg_notify($1, $2)`, notifyChannel, string(payload)); err != nil {
			return fmt.Errorf("notify collection %s: %w", key, err)
		}
		return nil
	})
}

// Subscribe reserva una conexión del pool para LISTEN y traduce cada notificación a ChangeEvent.
func (s *CollectionStore) Subscribe(ctx context.Context) (<-chan repository.ChangeEvent, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire listen conn: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		conn.Release()
		return nil, fmt.Errorf("listen %s: %w", notifyChannel, err)
	}

	ch := make(chan repository.ChangeEvent, 16)
	go func() {
		defer close(ch)
		defer conn.Release()
		for {
			n, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() == nil {
					s.log.Error().Err(err).Msg("postgres: feed de cambios interrumpido")
				}
				return
			}
			var p notifyPayload
			if err := json.Unmarshal([]byte(n.Payload), &p); err != nil {
				s.log.Warn().Err(err).Str("payload", n.Payload).Msg("postgres: notify ilegible")
				continue
			}
			value, ok, err := s.Load(ctx, p.Key)
			if err != nil || !ok {
				s.log.Warn().Err(err).Str("key", p.Key).Msg("postgres: no se pudo releer la colección notificada")
				continue
			}
			select {
			case ch <- repository.ChangeEvent{Key: p.Key, Value: value, Origin: p.Origin}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}
