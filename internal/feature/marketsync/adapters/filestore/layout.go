// Package filestore keeps series, metadata and batch history as plain files under a data directory:
//
//	<root>/<partition>/<symbol>.csv
//	<root>/metadata.json
//	<root>/batch_results.jsonl
package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stock_sync/internal/feature/marketsync/domain/entity"
)

const (
	MetadataFile     = "metadata.json"
	BatchHistoryFile = "batch_results.jsonl"

	dirPerm  = 0o755
	filePerm = 0o644
)

var ErrInvalidSymbol = errors.New("invalid symbol for file storage")

// Layout resolves file locations under a data directory.
type Layout struct {
	Root string
}

func NewLayout(root string) Layout {
	return Layout{Root: root}
}

// SeriesPath returns the CSV path for symbol inside its market partition.
func (l Layout) SeriesPath(symbol string) (string, error) {
	if symbol == "" || symbol == "." || symbol == ".." || strings.ContainsAny(symbol, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}
	partition := entity.ClassifyMarket(symbol).Partition()
	return filepath.Join(l.Root, partition, symbol+".csv"), nil
}

func (l Layout) MetadataPath() string {
	return filepath.Join(l.Root, MetadataFile)
}

func (l Layout) BatchHistoryPath() string {
	return filepath.Join(l.Root, BatchHistoryFile)
}

// Provision creates the partition directories, one directory per extra folder
// (typically the index names), and an empty metadata document if none exists.
// Existing files are left as they are.
func (l Layout) Provision(extra ...string) error {
	dirs := append(entity.Partitions(), extra...)
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(l.Root, d), dirPerm); err != nil {
			return fmt.Errorf("create directory %s: %w", d, err)
		}
	}

	path := l.MetadataPath()
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	empty, err := json.MarshalIndent(metadataDocument{Symbols: map[string]json.RawMessage{}}, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(path, empty)
}

// writeFileAtomic writes data to a temp file next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}
