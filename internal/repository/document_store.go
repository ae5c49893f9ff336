package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"learnhub_portal/internal/model"
	"learnhub_portal/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrDocumentNotFound = errors.New("document not found")

// Document is a schemaless record. Documents returned by a store carry
// their key under "id".
type Document map[string]interface{}

// ID returns the document key, or "" if it has none.
func (d Document) ID() string {
	id, _ := d["id"].(string)
	return id
}

// DocumentStore is the collection accessor screens read from. FetchAll
// returns documents in insertion order.
type DocumentStore interface {
	FetchAll(ctx context.Context, collection string) ([]Document, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	Set(ctx context.Context, collection, id string, doc Document) error
}

func withID(id string, data Document) Document {
	out := make(Document, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	out["id"] = id
	return out
}

func withoutID(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		if k != "id" {
			out[k] = v
		}
	}
	return out
}

type GormDocumentStore struct {
	DB *gorm.DB
}

func NewGormDocumentStore(db *gorm.DB) *GormDocumentStore {
	return &GormDocumentStore{DB: db}
}

func (s *GormDocumentStore) FetchAll(ctx context.Context, collection string) ([]Document, error) {
	var records []model.DocumentRecord
	err := s.DB.WithContext(ctx).
		Where("collection = ?", collection).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", collection, err)
	}

	return unmarshalRecords(collection, records), nil
}

// unmarshalRecords skips rows whose payload is not a JSON object.
func unmarshalRecords(collection string, records []model.DocumentRecord) []Document {
	docs := make([]Document, 0, len(records))
	for _, r := range records {
		doc, err := unmarshalRecord(r)
		if err != nil {
			logger.Log.Warn("Skipping malformed record",
				zap.String("collection", collection),
				zap.String("id", r.DocID),
				zap.Error(err))
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}

func (s *GormDocumentStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var r model.DocumentRecord
	err := s.DB.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return unmarshalRecord(r)
}

// Set creates or replaces the document. A replaced document keeps its
// position in the collection.
func (s *GormDocumentStore) Set(ctx context.Context, collection, id string, doc Document) error {
	data, err := json.Marshal(withoutID(doc))
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}

	r := model.DocumentRecord{Collection: collection, DocID: id, Data: datatypes.JSON(data)}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "doc_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"data": r.Data, "updated_at": time.Now()}),
	}).Create(&r).Error
}

func unmarshalRecord(r model.DocumentRecord) (Document, error) {
	var data Document
	if len(r.Data) > 0 {
		if err := json.Unmarshal(r.Data, &data); err != nil {
			return nil, fmt.Errorf("%w: %s/%s: %v", ErrMalformedRecord, r.Collection, r.DocID, err)
		}
	}
	return withID(r.DocID, data), nil
}

// MemoryDocumentStore keeps collections in process. Values are stored as
// given; callers must not mutate a document after Set.
type MemoryDocumentStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

type memoryCollection struct {
	order []string
	docs  map[string]Document
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{collections: make(map[string]*memoryCollection)}
}

func (s *MemoryDocumentStore) FetchAll(ctx context.Context, collection string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return []Document{}, nil
	}
	docs := make([]Document, 0, len(c.order))
	for _, id := range c.order {
		docs = append(docs, withID(id, c.docs[id]))
	}
	return docs, nil
}

func (s *MemoryDocumentStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	doc, ok := c.docs[id]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return withID(id, doc), nil
}

func (s *MemoryDocumentStore) Set(ctx context.Context, collection, id string, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		c = &memoryCollection{docs: make(map[string]Document)}
		s.collections[collection] = c
	}
	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = withoutID(doc)
	return nil
}
