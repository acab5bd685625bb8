package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rummage/shopkeeper/internal/models"
)

// MongoSink mirrors the snapshot into one collection, one document per row
// keyed by its position.
type MongoSink struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoExportDoc struct {
	Position  int       `bson:"_id"`
	Name      string    `bson:"name"`
	Brand     string    `bson:"brand"`
	Size      string    `bson:"size"`
	Price     float64   `bson:"price"`
	Sold      bool      `bson:"sold"`
	Added     time.Time `bson:"added"`
	PhotoName string    `bson:"photo_name"`
	SyncedAt  time.Time `bson:"synced_at"`
}

func NewMongoSink(ctx context.Context, mongoURI, dbName, collection string) (*MongoSink, error) {
	// Atlas occasionally fails TLS negotiation in some environments unless we force TLS 1.2.
	tlsCfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS12,
	}

	opts := options.Client().ApplyURI(mongoURI)
	if opts.TLSConfig != nil {
		opts.SetTLSConfig(tlsCfg)
	}
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo sink: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo sink: ping: %w", err)
	}

	return &MongoSink{
		client: client,
		coll:   client.Database(dbName).Collection(collection),
	}, nil
}

func (s *MongoSink) Name() string {
	return "mongo:" + s.coll.Database().Name() + "." + s.coll.Name()
}

// Sync upserts every row by position and then drops documents past the end
// of the snapshot. An interrupted sync leaves the previous rows in place
// rather than an empty collection.
func (s *MongoSink) Sync(ctx context.Context, rows []models.ExportRow) error {
	docs := mongoExportDocs(rows, time.Now().UTC())
	if len(docs) > 0 {
		opts := options.BulkWrite().SetOrdered(true)
		if _, err := s.coll.BulkWrite(ctx, mongoReplaceModels(docs), opts); err != nil {
			return fmt.Errorf("upsert rows: %w", err)
		}
	}
	if _, err := s.coll.DeleteMany(ctx, mongoTrailingFilter(len(docs))); err != nil {
		return fmt.Errorf("trim rows: %w", err)
	}
	return nil
}

func (s *MongoSink) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func mongoReplaceModels(docs []mongoExportDoc) []mongo.WriteModel {
	writes := make([]mongo.WriteModel, 0, len(docs))
	for _, doc := range docs {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": doc.Position}).
			SetReplacement(doc).
			SetUpsert(true))
	}
	return writes
}

func mongoTrailingFilter(n int) bson.M {
	return bson.M{"_id": bson.M{"$gte": n}}
}

func mongoExportDocs(rows []models.ExportRow, syncedAt time.Time) []mongoExportDoc {
	docs := make([]mongoExportDoc, 0, len(rows))
	for i, row := range rows {
		docs = append(docs, mongoExportDoc{
			Position:  i,
			Name:      row.Name,
			Brand:     row.Brand,
			Size:      row.Size,
			Price:     row.Price,
			Sold:      row.Sold,
			Added:     row.Added,
			PhotoName: row.PhotoName,
			SyncedAt:  syncedAt,
		})
	}
	return docs
}
