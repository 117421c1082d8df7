// Package mysql implementa el CollectionStore sobre MySQL con sqlx.
// MySQL no tiene LISTEN/NOTIFY: el feed de cambios sondea la columna version.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/warehouse-inventory/internal/domain/repository"
	"github.com/jhoicas/warehouse-inventory/pkg/logger"
)

var _ repository.CollectionStore = (*CollectionStore)(nil)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS collections (
	name       VARCHAR(64) PRIMARY KEY,
	value      LONGTEXT    NOT NULL,
	origin     VARCHAR(64) NOT NULL DEFAULT '',
	version    BIGINT      NOT NULL DEFAULT 1,
	updated_at TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
)`

type collectionRow struct {
	Name    string `db:"name"`
	Value   string `db:"value"`
	Origin  string `db:"origin"`
	Version int64  `db:"version"`
}

type versionRow struct {
	Name    string `db:"name"`
	Origin  string `db:"origin"`
	Version int64  `db:"version"`
}

// CollectionStore adaptador MySQL.
type CollectionStore struct {
	db           *sqlx.DB
	pollInterval time.Duration
	log          *logger.Logger
}

// Open abre la conexión con el DSN del driver go-sql-driver/mysql (parseTime=true recomendado).
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("conectar mysql: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// NewCollectionStore construye el adaptador. pollInterval controla la latencia del feed.
func NewCollectionStore(db *sqlx.DB, pollInterval time.Duration, log *logger.Logger) *CollectionStore {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &CollectionStore{db: db, pollInterval: pollInterval, log: log}
}

// EnsureSchema crea la tabla si no existe.
func (s *CollectionStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("crear tabla collections: %w", err)
	}
	return nil
}

// Load obtiene la colección por nombre.
func (s *CollectionStore) Load(ctx context.Context, key string) (json.RawMessage, bool, error) {
	var row collectionRow
	err := s.db.GetContext(ctx, &row, `SELECT name, value, origin, version FROM collections WHERE name = ? LIMIT 1`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load collection %s: %w", key, err)
	}
	return json.RawMessage(row.Value), true, nil
}

// Save hace upsert e incrementa version para que los sondeos detecten el cambio.
func (s *CollectionStore) Save(ctx context.Context, key string, value json.RawMessage, origin string) error {
	query := `
		INSERT INTO collections (name, value, origin, version)
		VALUES (:name, :value, :origin, 1)
		ON DUPLICATE KEY UPDATE value = VALUES(value), origin = VALUES(origin), version = version + 1`
	_, err := s.db.NamedExecContext(ctx, query, collectionRow{Name: key, Value: string(value), Origin: origin})
	if err != nil {
		return fmt.Errorf("save collection %s: %w", key, err)
	}
	return nil
}

// Subscribe sondea las versiones cada pollInterval y emite un evento por cada versión nueva.
// Las versiones existentes al suscribirse se toman como línea base y no generan eventos.
func (s *CollectionStore) Subscribe(ctx context.Context) (<-chan repository.ChangeEvent, error) {
	seen, err := s.versions(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan repository.ChangeEvent, 16)
	go func() {
		defer close(out)
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			current, err := s.versions(ctx)
			if err != nil {
				if ctx.Err() == nil {
					s.log.Warn().Err(err).Msg("mysql: sondeo de versiones fallido")
				}
				continue
			}
			for name, v := range current {
				if seen[name].Version == v.Version {
					continue
				}
				seen[name] = v
				value, ok, err := s.Load(ctx, name)
				if err != nil || !ok {
					continue
				}
				select {
				case out <- repository.ChangeEvent{Key: name, Value: value, Origin: v.Origin}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (s *CollectionStore) versions(ctx context.Context) (map[string]versionRow, error) {
	var rows []versionRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT name, origin, version FROM collections`); err != nil {
		return nil, fmt.Errorf("listar versiones: %w", err)
	}
	out := make(map[string]versionRow, len(rows))
	for _, r := range rows {
		out[r.Name] = r
	}
	return out, nil
}
