// internal/refdata/file_store_test.go
package refdata

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "aq-insight/internal/common/errors"
	"aq-insight/internal/common/logger"
	"aq-insight/internal/models"
)

const historyFixture = `{
  "unit": "ug/m3",
  "countries": {
    "Thailand": {"2019": 24.9, "2018": 24.8, "2020": 24.5, "2021": 24.1},
    "Vietnam": {"2019": 29.6, "2020": 29.1, "2021": 28.8}
  }
}`

const baselineFixture = `{
  "year": 2019,
  "countries": {
    "Thailand": {
      "Ischemic heart disease": 32000,
      "Stroke": 28000,
      "Lower respiratory infections": 12000
    },
    "Vietnam": {
      "Ischemic heart disease": 41000,
      "Stroke": 35000,
      "Lower respiratory infections": 16000
    }
  }
}`

const ageFixture = `{
  "countries": {
    "Thailand": {"children": 0.16, "adults": 0.65, "elderly": 0.19}
  }
}`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func createTestFileStore(t *testing.T) *FileStore {
	dir := t.TempDir()
	store, err := NewFileStore(FileStoreOptions{
		HistoryPath:   writeFixture(t, dir, "history.json", historyFixture),
		BaselinePath:  writeFixture(t, dir, "baseline.json", baselineFixture),
		AgeDetailPath: writeFixture(t, dir, "ages.json", ageFixture),
	}, logger.NewTestLogger(t))
	require.NoError(t, err)
	return store
}

func TestFileStore_History(t *testing.T) {
	store := createTestFileStore(t)

	t.Run("sorted by year", func(t *testing.T) {
		series, err := store.History(context.Background(), "Thailand")
		require.NoError(t, err)
		require.Len(t, series, 4)

		assert.Equal(t, 2018, series[0].Year)
		assert.Equal(t, 2021, series[3].Year)
		assert.Equal(t, 24.8, series[0].PM25)
	})

	t.Run("unknown country", func(t *testing.T) {
		_, err := store.History(context.Background(), "Wakanda")
		assert.ErrorIs(t, err, ErrCountryNotFound)
	})

	t.Run("callers cannot mutate the cache", func(t *testing.T) {
		first, err := store.History(context.Background(), "Vietnam")
		require.NoError(t, err)
		first[0].PM25 = 999

		second, err := store.History(context.Background(), "Vietnam")
		require.NoError(t, err)
		assert.NotEqual(t, 999.0, second[0].PM25)
	})
}

func TestFileStore_Countries(t *testing.T) {
	store := createTestFileStore(t)

	infos, err := store.Countries(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, models.CountryInfo{
		Name: "Thailand", StartYear: 2018, EndYear: 2021, DataPoints: 4,
	}, infos[0])
	assert.Equal(t, "Vietnam", infos[1].Name)
}

func TestFileStore_Baseline(t *testing.T) {
	store := createTestFileStore(t)

	baseline, err := store.Baseline(context.Background(), "Vietnam")
	require.NoError(t, err)
	assert.Equal(t, 41000.0, baseline["Ischemic heart disease"])
	assert.Len(t, baseline, 3)

	_, err = store.Baseline(context.Background(), "Wakanda")
	assert.ErrorIs(t, err, ErrCountryNotFound)
}

func TestFileStore_Canonical(t *testing.T) {
	store := createTestFileStore(t)

	tests := []struct {
		input string
		want  string
		found bool
	}{
		{input: "Thailand", want: "Thailand", found: true},
		{input: "thailand", want: "Thailand", found: true},
		{input: " VIETNAM ", want: "Vietnam", found: true},
		{input: "Narnia", found: false},
	}

	for _, tt := range tests {
		got, ok := store.Canonical(tt.input)
		assert.Equal(t, tt.found, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestFileStore_AgeShares(t *testing.T) {
	store := createTestFileStore(t)

	shares, ok := store.AgeShares(context.Background(), "Thailand")
	require.True(t, ok)
	assert.Equal(t, 0.19, shares[models.AgeElderly])

	_, ok = store.AgeShares(context.Background(), "Vietnam")
	assert.False(t, ok)
}

func TestNewFileStore_OptionalAgeDetail(t *testing.T) {
	dir := t.TempDir()

	// A missing age detail file degrades to default multipliers.
	store, err := NewFileStore(FileStoreOptions{
		HistoryPath:   writeFixture(t, dir, "history.json", historyFixture),
		BaselinePath:  writeFixture(t, dir, "baseline.json", baselineFixture),
		AgeDetailPath: filepath.Join(dir, "missing.json"),
	}, logger.NewTestLogger(t))
	require.NoError(t, err)

	_, ok := store.AgeShares(context.Background(), "Thailand")
	assert.False(t, ok)
}

func TestNewFileStore_CorruptHistory(t *testing.T) {
	dir := t.TempDir()

	_, err := NewFileStore(FileStoreOptions{
		HistoryPath:  writeFixture(t, dir, "history.json", `{"unit": "ug/m3", "countries": {`),
		BaselinePath: writeFixture(t, dir, "baseline.json", baselineFixture),
	}, logger.NewTestLogger(t))
	require.Error(t, err)
	assert.Equal(t, stderrors.CodeRefdataCorrupt, stderrors.AsStandard(err).Code)
}

func TestNewFileStore_SchemaValidation(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid documents pass", func(t *testing.T) {
		_, err := NewFileStore(FileStoreOptions{
			HistoryPath:  writeFixture(t, dir, "history.json", historyFixture),
			BaselinePath: writeFixture(t, dir, "baseline.json", baselineFixture),
			SchemaDir:    "../../data/schema",
			Validate:     true,
		}, logger.NewTestLogger(t))
		require.NoError(t, err)
	})

	t.Run("out of range concentration fails", func(t *testing.T) {
		bad := `{"unit": "ug/m3", "countries": {"Thailand": {"2019": 9000, "2020": 24, "2021": 24}}}`
		_, err := NewFileStore(FileStoreOptions{
			HistoryPath:  writeFixture(t, dir, "bad_history.json", bad),
			BaselinePath: writeFixture(t, dir, "baseline.json", baselineFixture),
			SchemaDir:    "../../data/schema",
			Validate:     true,
		}, logger.NewTestLogger(t))
		require.Error(t, err)
		assert.Equal(t, stderrors.CodeRefdataCorrupt, stderrors.AsStandard(err).Code)
	})

	t.Run("wrong unit fails", func(t *testing.T) {
		bad := `{"unit": "ppm", "countries": {"Thailand": {"2019": 24, "2020": 24, "2021": 24}}}`
		_, err := NewFileStore(FileStoreOptions{
			HistoryPath:  writeFixture(t, dir, "bad_unit.json", bad),
			BaselinePath: writeFixture(t, dir, "baseline.json", baselineFixture),
			SchemaDir:    "../../data/schema",
			Validate:     true,
		}, logger.NewTestLogger(t))
		require.Error(t, err)
	})
}
