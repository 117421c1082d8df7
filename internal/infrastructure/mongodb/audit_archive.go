// Package mongodb archiva la bitácora de auditoría en MongoDB para retención larga.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/warehouse-inventory/internal/application/state"
	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
)

var _ state.AuditSink = (*AuditArchive)(nil)

// DefaultCollection colección por defecto del archivo.
const DefaultCollection = "activity_logs"

// connectTimeout tiempo máximo para conectar y verificar el servidor.
const connectTimeout = 10 * time.Second

// logDocument forma persistida de una entrada. El ID de la entrada es el _id, así un
// reintento del mismo lote no duplica documentos.
type logDocument struct {
	ID        string    `bson:"_id"`
	ItemName  string    `bson:"item_name"`
	Action    string    `bson:"action"`
	User      string    `bson:"user"`
	UserRole  string    `bson:"user_role"`
	Timestamp time.Time `bson:"timestamp"`
	Details   string    `bson:"details"`
	Origin    string    `bson:"origin,omitempty"`
}

func toDocument(l entity.ActivityLog, origin string) logDocument {
	return logDocument{
		ID:        l.ID,
		ItemName:  l.ItemName,
		Action:    string(l.Action),
		User:      l.User,
		UserRole:  l.UserRole,
		Timestamp: l.Timestamp.UTC(),
		Details:   l.Details,
		Origin:    origin,
	}
}

// AuditArchive implementa state.AuditSink sobre una colección de Mongo.
type AuditArchive struct {
	collection *mongo.Collection
	origin     string
}

// Connect abre el cliente y verifica la conexión con un ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: conectar: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}
	return client, nil
}

// NewAuditArchive construye el archivo sobre database/collection. origin identifica al
// proceso que escribe (opcional).
func NewAuditArchive(client *mongo.Client, database, collection, origin string) *AuditArchive {
	if collection == "" {
		collection = DefaultCollection
	}
	return &AuditArchive{
		collection: client.Database(database).Collection(collection),
		origin:     origin,
	}
}

// EnsureIndexes crea el índice por fecha usado en consultas de retención.
func (a *AuditArchive) EnsureIndexes(ctx context.Context) error {
	_, err := a.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("mongo: crear índice: %w", err)
	}
	return nil
}

// Archive inserta el lote sin orden. Los _id ya existentes se ignoran.
func (a *AuditArchive) Archive(ctx context.Context, entries []entity.ActivityLog) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(entries))
	for _, l := range entries {
		docs = append(docs, toDocument(l, a.origin))
	}
	_, err := a.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil && !onlyDuplicates(err) {
		return fmt.Errorf("mongo: archivar %d entradas: %w", len(entries), err)
	}
	return nil
}

// Recent devuelve las últimas entradas archivadas, más reciente primero.
func (a *AuditArchive) Recent(ctx context.Context, limit int64) ([]entity.ActivityLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(limit)
	cur, err := a.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: consultar archivo: %w", err)
	}
	var docs []logDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: leer archivo: %w", err)
	}
	out := make([]entity.ActivityLog, 0, len(docs))
	for _, d := range docs {
		out = append(out, entity.ActivityLog{
			ID:        d.ID,
			ItemName:  d.ItemName,
			Action:    entity.ActivityAction(d.Action),
			User:      d.User,
			UserRole:  d.UserRole,
			Timestamp: d.Timestamp,
			Details:   d.Details,
		})
	}
	return out, nil
}

func onlyDuplicates(err error) bool {
	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) || bwe.WriteConcernError != nil {
		return false
	}
	for _, we := range bwe.WriteErrors {
		if we.Code != 11000 {
			return false
		}
	}
	return len(bwe.WriteErrors) > 0
}
