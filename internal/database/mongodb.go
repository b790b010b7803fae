package database

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ie-tracker-report/internal/config"
)

// MongoStore is a MongoDB-backed SessionStore. Each session is one document
// keyed by session ID, so clearing a session is a single delete.
type MongoStore struct {
	client     *mongo.Client
	database   *mongo.Database
	collection *mongo.Collection
}

// sessionDocument is the persisted shape of one session.
type sessionDocument struct {
	SessionID    string          `bson:"_id"`
	RawData      *RawDataEntry   `bson:"rawData,omitempty"`
	Processed    *ProcessedEntry `bson:"processed,omitempty"`
	History      []HistoryItem   `bson:"history,omitempty"`
	CreatedAt    time.Time       `bson:"createdAt"`
	LastAccessed time.Time       `bson:"lastAccessed"`
}

// NewMongoStore connects to MongoDB and returns a session store backed by
// the configured collection.
func NewMongoStore(cfg config.MongoDBConfig) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Build connection URI
	uri := cfg.URI
	if uri == "" {
		if cfg.Username != "" && cfg.Password != "" {
			userInfo := url.UserPassword(cfg.Username, cfg.Password)
			uri = fmt.Sprintf("mongodb://%s@%s:%s/%s?authSource=%s",
				userInfo.String(),
				cfg.Host,
				cfg.Port,
				cfg.Database,
				url.QueryEscape(cfg.AuthSource),
			)
		} else {
			uri = fmt.Sprintf("mongodb://%s:%s/%s",
				cfg.Host,
				cfg.Port,
				cfg.Database,
			)
		}
	}

	// Mask the password when logging the connection target.
	logURI := uri
	if cfg.Password != "" && cfg.Username != "" {
		userInfo := url.User(cfg.Username)
		authSource := cfg.AuthSource
		if authSource == "" {
			authSource = "admin"
		}
		logURI = fmt.Sprintf("mongodb://%s:***@%s:%s/%s?authSource=%s",
			userInfo.String(), cfg.Host, cfg.Port, cfg.Database, url.QueryEscape(authSource))
	}
	log.Printf("Attempting to connect to MongoDB at %s", logURI)

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB at %s: %w", logURI, err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB at %s: %w", logURI, err)
	}

	database := client.Database(cfg.Database)
	collection := database.Collection(cfg.Collection)

	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "lastAccessed", Value: 1}},
	}
	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		// Index might already exist, that's okay
		log.Printf("Note: MongoDB index creation: %v", err)
	}

	return &MongoStore{
		client:     client,
		database:   database,
		collection: collection,
	}, nil
}

// Close disconnects the underlying MongoDB client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) load(ctx context.Context, sessionID string) (*sessionDocument, error) {
	var doc sessionDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query session %s: %w", sessionID, err)
	}

	update := bson.M{"$set": bson.M{"lastAccessed": time.Now()}}
	if _, err := s.collection.UpdateOne(ctx, bson.M{"_id": sessionID}, update); err != nil {
		// Log but don't fail, the data is still valid.
		log.Printf("WARNING: Failed to update lastAccessed for session %s: %v", sessionID, err)
	}

	return &doc, nil
}

func (s *MongoStore) upsert(ctx context.Context, sessionID string, set bson.M) error {
	now := time.Now()
	set["lastAccessed"] = now
	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": sessionID}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"createdAt": now},
	}
	if _, err := s.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to update session %s: %w", sessionID, err)
	}
	return nil
}

func (s *MongoStore) StoreRawData(ctx context.Context, sessionID string, entry RawDataEntry) error {
	return s.upsert(ctx, sessionID, bson.M{"rawData": entry})
}

func (s *MongoStore) GetRawData(ctx context.Context, sessionID string) (*RawDataEntry, error) {
	doc, err := s.load(ctx, sessionID)
	if err != nil || doc == nil {
		return nil, err
	}
	return doc.RawData, nil
}

func (s *MongoStore) StoreProcessedData(ctx context.Context, sessionID string, entry ProcessedEntry) error {
	item := HistoryItem{
		Timestamp: entry.Timestamp,
		Summary:   summarize(entry.Data),
	}
	now := time.Now()
	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": sessionID}
	update := bson.M{
		"$set": bson.M{
			"processed":    entry,
			"lastAccessed": now,
		},
		"$setOnInsert": bson.M{"createdAt": now},
		"$push": bson.M{
			"history": bson.M{
				"$each":  []HistoryItem{item},
				"$slice": -historyLimit,
			},
		},
	}
	if _, err := s.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to store analysis for session %s: %w", sessionID, err)
	}
	return nil
}

func (s *MongoStore) GetProcessedData(ctx context.Context, sessionID string) (*ProcessedEntry, error) {
	doc, err := s.load(ctx, sessionID)
	if err != nil || doc == nil {
		return nil, err
	}
	return doc.Processed, nil
}

func (s *MongoStore) GetHistory(ctx context.Context, sessionID string) ([]HistoryItem, error) {
	doc, err := s.load(ctx, sessionID)
	if err != nil || doc == nil {
		return nil, err
	}
	return doc.History, nil
}

func (s *MongoStore) GetCacheInfo(ctx context.Context, sessionID string) (*CacheInfo, error) {
	doc, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return buildCacheInfo(nil, nil, 0), nil
	}
	return buildCacheInfo(doc.RawData, doc.Processed, len(doc.History)), nil
}

func (s *MongoStore) ClearProcessedData(ctx context.Context, sessionID string) error {
	update := bson.M{"$unset": bson.M{"processed": ""}}
	if _, err := s.collection.UpdateOne(ctx, bson.M{"_id": sessionID}, update); err != nil {
		return fmt.Errorf("failed to clear analysis for session %s: %w", sessionID, err)
	}
	return nil
}

func (s *MongoStore) ClearSession(ctx context.Context, sessionID string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": sessionID}); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}

var _ SessionStore = (*MongoStore)(nil)
