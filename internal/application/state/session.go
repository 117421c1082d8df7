// Package state mantiene la copia en memoria de todas las colecciones de una sesión,
// serializa las mutaciones y sincroniza con el CollectionStore y con otras sesiones.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
	"github.com/jhoicas/warehouse-inventory/internal/domain/repository"
	"github.com/jhoicas/warehouse-inventory/pkg/logger"
)

// sinkTimeout tiempo máximo de entrega a cada AuditSink.
const sinkTimeout = 10 * time.Second

// Runner puerto que usan los casos de uso: mutaciones serializadas y lecturas consistentes.
type Runner interface {
	Run(ctx context.Context, fn func(tx *Tx) error) error
	View(fn func(c *Collections))
	Now() time.Time
}

// AuditSink recibe las entradas de bitácora confirmadas (archivo externo, best-effort).
type AuditSink interface {
	Archive(ctx context.Context, entries []entity.ActivityLog) error
}

var _ Runner = (*Session)(nil)

// Session estado de aplicación explícito de un proceso. Equivale a una pestaña:
// tiene su propia copia de las colecciones y la mantiene al día con el feed de cambios.
type Session struct {
	mu     sync.Mutex
	c      Collections
	store  repository.CollectionStore
	origin string
	log    *logger.Logger
	now    func() time.Time
	seed   func(now time.Time) Collections
	sinks  []AuditSink
}

// Option configura la sesión.
type Option func(*Session)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithSeed reemplaza el dataset inicial usado cuando una clave no existe en el store.
func WithSeed(seed func(now time.Time) Collections) Option {
	return func(s *Session) { s.seed = seed }
}

// WithAuditSink registra un destino adicional para la bitácora.
func WithAuditSink(sink AuditSink) Option {
	return func(s *Session) { s.sinks = append(s.sinks, sink) }
}

// Open carga todas las colecciones. Las claves ausentes toman el valor del seed y se persisten.
func Open(ctx context.Context, store repository.CollectionStore, log *logger.Logger, opts ...Option) (*Session, error) {
	s := &Session{
		store:  store,
		origin: uuid.New().String(),
		log:    log.Named("state"),
		now:    time.Now,
		seed:   Seed,
	}
	for _, opt := range opts {
		opt(s)
	}

	seed := s.seed(s.now())
	var missing []string
	for _, key := range repository.Keys {
		raw, ok, err := store.Load(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("cargar %s: %w", key, err)
		}
		if !ok {
			s.c.replace(key, &seed)
			missing = append(missing, key)
			continue
		}
		if err := json.Unmarshal(raw, s.c.field(key)); err != nil {
			return nil, fmt.Errorf("decodificar %s: %w", key, err)
		}
	}
	for _, key := range missing {
		if err := s.save(ctx, key); err != nil {
			return nil, err
		}
	}
	s.log.Info().Str("origin", s.origin).Strs("seeded", missing).Msg("sesión abierta")
	return s, nil
}

// Origin identificador de esta sesión en los eventos de cambio.
func (s *Session) Origin() string { return s.origin }

// Now reloj de la sesión.
func (s *Session) Now() time.Time { return s.now() }

// View ejecuta fn con acceso de solo lectura bajo el lock de la sesión.
// fn no debe retener slices fuera de la llamada.
func (s *Session) View(fn func(c *Collections)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.c)
}

// Run ejecuta una mutación. Si fn falla el estado queda intacto; si no, la copia pasa a ser
// el estado actual y se persiste cada colección modificada en orden fijo. Una escritura fallida
// no deshace las anteriores (no hay atomicidad entre colecciones).
func (s *Session) Run(ctx context.Context, fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := newTx(s.c, s.now())
	if err := fn(tx); err != nil {
		return err
	}
	if evicted := tx.ReconcileAlerts(); len(evicted) > 0 {
		s.log.Debug().Strs("items", evicted).Msg("memoria de alertas: episodio cerrado")
	}
	s.c = *tx.Collections

	var errs []error
	for _, key := range repository.Keys {
		if !tx.Dirty(key) {
			continue
		}
		if err := s.save(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	s.archive(tx.NewLogs())
	if err := errors.Join(errs...); err != nil {
		s.log.Error().Err(err).Msg("persistencia parcial: el estado en memoria quedó adelantado al store")
		return err
	}
	return nil
}

func (s *Session) save(ctx context.Context, key string) error {
	raw, err := json.Marshal(s.c.field(key))
	if err != nil {
		return fmt.Errorf("serializar %s: %w", key, err)
	}
	if string(raw) == "null" {
		raw = []byte("[]")
	}
	if err := s.store.Save(ctx, key, raw, s.origin); err != nil {
		return fmt.Errorf("guardar %s: %w", key, err)
	}
	return nil
}

func (s *Session) archive(entries []entity.ActivityLog) {
	if len(entries) == 0 || len(s.sinks) == 0 {
		return
	}
	batch := append([]entity.ActivityLog(nil), entries...)
	for _, sink := range s.sinks {
		go func(sink AuditSink) {
			ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
			defer cancel()
			if err := sink.Archive(ctx, batch); err != nil {
				s.log.Warn().Err(err).Int("entries", len(batch)).Msg("archivo de bitácora fallido")
			}
		}(sink)
	}
}

// Apply reemplaza la colección del evento por completo (last-writer-wins por colección).
// Los eventos propios se ignoran.
func (s *Session) Apply(ev repository.ChangeEvent) error {
	if ev.Origin == s.origin {
		return nil
	}
	var incoming Collections
	target := incoming.field(ev.Key)
	if target == nil {
		return fmt.Errorf("clave desconocida %q", ev.Key)
	}
	if err := json.Unmarshal(ev.Value, target); err != nil {
		return fmt.Errorf("decodificar %s: %w", ev.Key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.replace(ev.Key, &incoming)
	return nil
}

// Watch consume el feed de cambios del store hasta que ctx termine.
func (s *Session) Watch(ctx context.Context) error {
	feed, err := s.store.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("suscribir feed: %w", err)
	}
	for ev := range feed {
		if err := s.Apply(ev); err != nil {
			s.log.Warn().Err(err).Str("key", ev.Key).Msg("evento de cambio descartado")
			continue
		}
		if ev.Origin != s.origin {
			s.log.Debug().Str("key", ev.Key).Str("from", ev.Origin).Msg("colección reemplazada por otra sesión")
		}
	}
	return ctx.Err()
}
