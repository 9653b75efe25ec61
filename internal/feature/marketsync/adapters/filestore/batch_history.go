package filestore

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"

	"stock_sync/internal/feature/marketsync/domain/entity"
	"stock_sync/internal/feature/marketsync/usecase"
)

// batchHistory appends one JSON object per line.
type batchHistory struct {
	mu   sync.Mutex
	path string
}

var _ usecase.BatchResultRepository = (*batchHistory)(nil)

func NewBatchResultRepository(layout Layout) *batchHistory {
	return &batchHistory{path: layout.BatchHistoryPath()}
}

func (r *batchHistory) Append(ctx context.Context, res entity.BatchResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	line, err := json.Marshal(res)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, filePerm)
	if err != nil {
		return err
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ListRecent returns up to limit results, newest first. Unparseable lines are skipped.
func (r *batchHistory) ListRecent(ctx context.Context, limit int) ([]entity.BatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return []entity.BatchResult{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var all []entity.BatchResult
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for sc.Scan() {
		var res entity.BatchResult
		if err := json.Unmarshal(sc.Bytes(), &res); err != nil {
			continue
		}
		all = append(all, res)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	out := make([]entity.BatchResult, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, all[i])
	}
	return out, nil
}
