package adapters

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stock_sync/internal/feature/indexcatalog/domain/entity"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&entity.IndexConstituent{}), "failed to migrate table")
	return db
}

func writeList(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestEmbeddedRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewEmbeddedRepository()

	names, err := repo.IndexNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"nifty50", "niftyNext50", "niftyMidcap150", "ftse100", "ftse250", "usStocks"}, names)

	tests := []struct {
		name      string
		index     string
		wantFirst string
		wantEmpty bool
	}{
		{name: "success: nifty50", index: "nifty50", wantFirst: "ADANIENT.NS"},
		{name: "success: ftse250", index: "ftse250", wantFirst: "3IN.L"},
		{name: "success: us_stocks alias", index: "us_stocks", wantFirst: "AAPL"},
		{name: "success: unknown index is empty", index: "dax40", wantEmpty: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := repo.ListActive(ctx, tt.index)
			require.NoError(t, err)
			if tt.wantEmpty {
				assert.Empty(t, list)
				assert.NotNil(t, list)
				return
			}
			require.NotEmpty(t, list)
			assert.Equal(t, tt.wantFirst, list[0].Symbol)
		})
	}
}

func TestEmbeddedRepository_ReturnsCopies(t *testing.T) {
	t.Parallel()
	repo := NewEmbeddedRepository()

	list, _ := repo.ListActive(context.Background(), "nifty50")
	list[0].Symbol = "MUTATED"

	again, _ := repo.ListActive(context.Background(), "nifty50")
	assert.Equal(t, "ADANIENT.NS", again[0].Symbol)
}

func TestJSONFileRepository_ListActive(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		setup func(t *testing.T, dir string)
		index string
		want  []string
	}{
		{
			name: "success: reads list from file",
			setup: func(t *testing.T, dir string) {
				writeList(t, dir, "nifty50.json", `[{"name":"Infosys","symbol":"INFY.NS"},{"name":"TCS","symbol":"TCS.NS"}]`)
			},
			index: "nifty50",
			want:  []string{"INFY.NS", "TCS.NS"},
		},
		{
			name: "success: alias resolves to usStocks file",
			setup: func(t *testing.T, dir string) {
				writeList(t, dir, "usStocks.json", `[{"name":"Nvidia","symbol":"NVDA"}]`)
			},
			index: "us_stocks",
			want:  []string{"NVDA"},
		},
		{
			name: "success: entries without a symbol are skipped",
			setup: func(t *testing.T, dir string) {
				writeList(t, dir, "ftse100.json", `[{"name":"blank","symbol":" "},{"name":"BT","symbol":"BT-A.L"}]`)
			},
			index: "ftse100",
			want:  []string{"BT-A.L"},
		},
		{
			name:  "success: missing file falls back to embedded",
			setup: func(t *testing.T, dir string) {},
			index: "niftyNext50",
			want:  []string{"TATAPOWER.NS", "ZYDUSLIFE.NS"},
		},
		{
			name: "success: malformed file falls back to embedded",
			setup: func(t *testing.T, dir string) {
				writeList(t, dir, "niftyMidcap150.json", `{not json`)
			},
			index: "niftyMidcap150",
			want:  []string{"ABCAPITAL.NS", "TTML.NS"},
		},
		{
			name:  "success: path-like names never touch the filesystem",
			setup: func(t *testing.T, dir string) {},
			index: "../nifty50",
			want:  []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.setup(t, dir)
			repo := NewJSONFileRepository(dir, nil, quietLogger())

			list, err := repo.ListActive(ctx, tt.index)
			require.NoError(t, err)
			got := make([]string, 0, len(list))
			for _, c := range list {
				got = append(got, c.Symbol)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONFileRepository_IndexNames(t *testing.T) {
	dir := t.TempDir()
	writeList(t, dir, "nifty50.json", `[]`)
	writeList(t, dir, "usMidCap.json", `[]`)
	writeList(t, dir, "indices.json", `[]`)
	writeList(t, dir, "notes.txt", `ignored`)

	repo := NewJSONFileRepository(dir, NewEmbeddedRepository(), quietLogger())
	names, err := repo.IndexNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"nifty50", "niftyNext50", "niftyMidcap150", "ftse100", "ftse250", "usStocks",
		"indices", "usMidCap",
	}, names)
}

func TestConstituentRepository_SeedAndList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewConstituentRepository(db)

	require.NoError(t, repo.Seed(ctx, "ftse100", []entity.Constituent{
		{Name: "HSBC Holdings", Symbol: "HSBA.L"},
		{Name: "BP", Symbol: "BP.L"},
	}))
	require.NoError(t, repo.Seed(ctx, "us_stocks", []entity.Constituent{{Name: "Apple", Symbol: "AAPL"}}))

	list, err := repo.ListActive(ctx, "ftse100")
	require.NoError(t, err)
	assert.Equal(t, []entity.Constituent{
		{Name: "HSBC Holdings", Symbol: "HSBA.L"},
		{Name: "BP", Symbol: "BP.L"},
	}, list)

	list, err = repo.ListActive(ctx, "usStocks")
	require.NoError(t, err)
	assert.Equal(t, []entity.Constituent{{Name: "Apple", Symbol: "AAPL"}}, list)

	names, err := repo.IndexNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ftse100", "usStocks"}, names)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestConstituentRepository_SeedReplacesMembership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewConstituentRepository(db)

	require.NoError(t, repo.Seed(ctx, "nifty50", []entity.Constituent{{Symbol: "A.NS"}, {Symbol: "B.NS"}}))
	require.NoError(t, repo.Seed(ctx, "nifty50", []entity.Constituent{{Symbol: "C.NS"}}))

	list, err := repo.ListActive(ctx, "nifty50")
	require.NoError(t, err)
	assert.Equal(t, []entity.Constituent{{Symbol: "C.NS"}}, list)
}

func TestConstituentRepository_SkipsInactiveAndUnknown(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewConstituentRepository(db)

	require.NoError(t, repo.Seed(ctx, "ftse250", []entity.Constituent{{Symbol: "SXS.L"}, {Symbol: "SPI.L"}}))
	require.NoError(t, db.Model(&entity.IndexConstituent{}).
		Where("symbol = ?", "SXS.L").
		Update("is_active", false).Error)

	list, err := repo.ListActive(ctx, "ftse250")
	require.NoError(t, err)
	assert.Equal(t, []entity.Constituent{{Symbol: "SPI.L"}}, list)

	list, err = repo.ListActive(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestConstituentRepository_ClosedDB(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewConstituentRepository(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = repo.ListActive(context.Background(), "nifty50")
	assert.Error(t, err)
}
