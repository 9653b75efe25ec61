package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"stock_sync/internal/feature/marketsync/domain/entity"
	"stock_sync/internal/feature/marketsync/usecase"
)

// Older files carry naive timestamps without an offset; they are read as UTC.
const naiveTimestampLayout = "2006-01-02T15:04:05.999999"

type metadataDocument struct {
	Symbols map[string]json.RawMessage `json:"symbols"`
}

type metadataEntry struct {
	LastUpdated string            `json:"last_updated"`
	Status      entity.SyncStatus `json:"status"`
}

// metadataJSON stores every symbol's metadata in a single JSON document.
// Entries are kept raw so that an upsert never rewrites its siblings.
type metadataJSON struct {
	mu   sync.Mutex
	path string
}

var _ usecase.MetadataRepository = (*metadataJSON)(nil)

func NewMetadataRepository(layout Layout) *metadataJSON {
	return &metadataJSON{path: layout.MetadataPath()}
}

// Find returns nil, nil for a missing file, a missing symbol or a malformed entry.
func (r *metadataJSON) Find(ctx context.Context, symbol string) (*entity.SymbolMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	doc, err := r.load()
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	raw, ok := doc.Symbols[symbol]
	if !ok {
		return nil, nil
	}
	var e metadataEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, nil
	}
	ts, err := parseTimestamp(e.LastUpdated)
	if err != nil {
		return nil, nil
	}
	return &entity.SymbolMetadata{Symbol: symbol, LastUpdated: ts, Status: e.Status}, nil
}

// Upsert rewrites symbol's entry. A document that cannot be parsed is never overwritten.
func (r *metadataJSON) Upsert(ctx context.Context, meta entity.SymbolMetadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(metadataEntry{
		LastUpdated: meta.LastUpdated.UTC().Format(time.RFC3339Nano),
		Status:      meta.Status,
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}
	doc.Symbols[meta.Symbol] = raw

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(r.path, data)
}

// load reads the document; callers hold r.mu.
func (r *metadataJSON) load() (metadataDocument, error) {
	doc := metadataDocument{}
	data, err := os.ReadFile(r.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return doc, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return doc, fmt.Errorf("malformed metadata document %s: %w", r.path, err)
		}
	}
	if doc.Symbols == nil {
		doc.Symbols = map[string]json.RawMessage{}
	}
	return doc, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	return time.ParseInLocation(naiveTimestampLayout, s, time.UTC)
}
