package database

import (
	"context"
	"sync"
	"time"

	"ie-tracker-report/internal/models"
)

// Session cache section names, reported by CacheInfo.
const (
	SectionRawData         = "raw_data"
	SectionProcessedData   = "processed_data"
	SectionAnalysisHistory = "analysis_history"
)

// historyLimit caps the analysis history kept per session.
const historyLimit = 10

// RawDataEntry is the cleaned dataset cached for a session, plus the
// metadata the cache info endpoint reports.
type RawDataEntry struct {
	Records     []models.WorkRecord `bson:"records" json:"records"`
	Columns     []string            `bson:"columns" json:"columns"`
	Rows        int                 `bson:"rows" json:"rows"`
	DroppedRows int                 `bson:"droppedRows" json:"dropped_rows"`
	DateRange   models.DateRange    `bson:"dateRange" json:"date_range"`
	Timestamp   time.Time           `bson:"timestamp" json:"timestamp"`
}

// ProcessedEntry is a validated aggregation cached for a session.
type ProcessedEntry struct {
	Data             map[string]interface{} `bson:"data" json:"data"`
	Timestamp        time.Time              `bson:"timestamp" json:"timestamp"`
	ValidationStatus string                 `bson:"validationStatus" json:"validation_status"`
}

// HistoryItem is one past analysis, kept as a lightweight summary.
type HistoryItem struct {
	Timestamp time.Time      `bson:"timestamp" json:"timestamp"`
	Summary   HistorySummary `bson:"summary" json:"summary"`
}

// HistorySummary counts the sections of a stored analysis.
type HistorySummary struct {
	TotalRecords int `bson:"totalRecords" json:"total_records"`
	Months       int `bson:"months" json:"months"`
	Weeks        int `bson:"weeks" json:"weeks"`
	Users        int `bson:"users" json:"users"`
}

// CacheInfo describes the state of one session's cache.
type CacheInfo struct {
	CacheStatus      map[string]bool        `json:"cache_status"`
	DataSummary      map[string]interface{} `json:"data_summary"`
	LastUpdated      *time.Time             `json:"last_updated,omitempty"`
	LastAnalysis     *time.Time             `json:"last_analysis,omitempty"`
	ValidationStatus string                 `json:"validation_status,omitempty"`
}

// SessionStore caches per-session datasets and analysis results. The store
// never interprets the aggregation; it only round-trips what it is given.
type SessionStore interface {
	StoreRawData(ctx context.Context, sessionID string, entry RawDataEntry) error
	GetRawData(ctx context.Context, sessionID string) (*RawDataEntry, error)

	// StoreProcessedData also appends a summary of the analysis to the
	// session's history.
	StoreProcessedData(ctx context.Context, sessionID string, entry ProcessedEntry) error
	GetProcessedData(ctx context.Context, sessionID string) (*ProcessedEntry, error)

	GetHistory(ctx context.Context, sessionID string) ([]HistoryItem, error)
	GetCacheInfo(ctx context.Context, sessionID string) (*CacheInfo, error)

	ClearProcessedData(ctx context.Context, sessionID string) error
	ClearSession(ctx context.Context, sessionID string) error

	Close() error
}

// summarize builds the history summary for a stored aggregation.
func summarize(data map[string]interface{}) HistorySummary {
	count := func(key string) int {
		if list, ok := data[key].([]interface{}); ok {
			return len(list)
		}
		return 0
	}
	return HistorySummary{
		TotalRecords: count("daily_summaries"),
		Months:       count("monthly_summaries"),
		Weeks:        count("weekly_summaries"),
		Users:        count("user_summaries"),
	}
}

// buildCacheInfo assembles the cache info view shared by both store
// implementations.
func buildCacheInfo(raw *RawDataEntry, processed *ProcessedEntry, historyLen int) *CacheInfo {
	info := &CacheInfo{
		CacheStatus: map[string]bool{
			SectionRawData:         raw != nil,
			SectionProcessedData:   processed != nil,
			SectionAnalysisHistory: historyLen > 0,
		},
		DataSummary: map[string]interface{}{},
	}
	if raw != nil {
		info.DataSummary = map[string]interface{}{
			"rows":       raw.Rows,
			"columns":    len(raw.Columns),
			"date_range": raw.DateRange,
		}
		t := raw.Timestamp
		info.LastUpdated = &t
	}
	if processed != nil {
		t := processed.Timestamp
		info.LastAnalysis = &t
		info.ValidationStatus = processed.ValidationStatus
	}
	return info
}

// MemoryStore is the in-process SessionStore used when no MongoDB is
// configured. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memorySession
}

type memorySession struct {
	raw       *RawDataEntry
	processed *ProcessedEntry
	history   []HistoryItem
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*memorySession)}
}

func (s *MemoryStore) session(sessionID string) *memorySession {
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &memorySession{}
		s.sessions[sessionID] = sess
	}
	return sess
}

func (s *MemoryStore) StoreRawData(_ context.Context, sessionID string, entry RawDataEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session(sessionID).raw = &entry
	return nil
}

func (s *MemoryStore) GetRawData(_ context.Context, sessionID string) (*RawDataEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok || sess.raw == nil {
		return nil, nil
	}
	return sess.raw, nil
}

func (s *MemoryStore) StoreProcessedData(_ context.Context, sessionID string, entry ProcessedEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.session(sessionID)
	sess.processed = &entry
	sess.history = append(sess.history, HistoryItem{
		Timestamp: entry.Timestamp,
		Summary:   summarize(entry.Data),
	})
	if len(sess.history) > historyLimit {
		sess.history = sess.history[len(sess.history)-historyLimit:]
	}
	return nil
}

func (s *MemoryStore) GetProcessedData(_ context.Context, sessionID string) (*ProcessedEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok || sess.processed == nil {
		return nil, nil
	}
	return sess.processed, nil
}

func (s *MemoryStore) GetHistory(_ context.Context, sessionID string) ([]HistoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	out := make([]HistoryItem, len(sess.history))
	copy(out, sess.history)
	return out, nil
}

func (s *MemoryStore) GetCacheInfo(_ context.Context, sessionID string) (*CacheInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return buildCacheInfo(nil, nil, 0), nil
	}
	return buildCacheInfo(sess.raw, sess.processed, len(sess.history)), nil
}

func (s *MemoryStore) ClearProcessedData(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		sess.processed = nil
	}
	return nil
}

func (s *MemoryStore) ClearSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ SessionStore = (*MemoryStore)(nil)
