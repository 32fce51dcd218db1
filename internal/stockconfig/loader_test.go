package stockconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolveMissingFileUsesDefaults(t *testing.T) {
	s, source, err := Resolve(filepath.Join(t.TempDir(), "stocks.json"))
	require.NoError(t, err)

	assert.Equal(t, SourceBuiltin, source)
	require.Len(t, s.Stocks, 4)
	assert.Equal(t, "SZ000423", s.Stocks[0].Symbol)

	roe, ok := s.ROEOverride("SZ002304")
	assert.True(t, ok)
	assert.Equal(t, 20.0, roe)
}

func TestLoadBareStockList(t *testing.T) {
	path := writeFile(t, "stocks.json", `[
  {"name": "贵州茅台", "symbol": "sh600519"},
  {"name": "五粮液", "symbol": "SZ000858"}
]`)

	s, source, err := Resolve(path)
	require.NoError(t, err)

	assert.Equal(t, SourceFile, source)
	require.Len(t, s.Stocks, 2)
	assert.Equal(t, "SH600519", s.Stocks[0].Symbol, "symbols are normalized")
	assert.Equal(t, "五粮液", s.Stocks[1].Name)
	assert.Empty(t, s.ROEOverrides, "file list replaces the defaults entirely")
}

func TestLoadFullDocument(t *testing.T) {
	path := writeFile(t, "settings.yaml", `
stocks:
  - name: 贵州茅台
    symbol: SH600519
  - name: 洋河股份
    symbol: SZ002304
roe_overrides:
  sz002304: 20
roe_floors:
  - symbol: SH600519
    min_roe: 25
notes:
  SH600519: guaranteed payout
default_note: check filings
`)

	s, _, err := Load(path)
	require.NoError(t, err)

	roe, ok := s.ROEOverride("SZ002304")
	require.True(t, ok)
	assert.Equal(t, 20.0, roe)

	floor, ok := s.ROEFloor("SH600519")
	require.True(t, ok)
	assert.Equal(t, 25.0, floor)

	assert.Equal(t, "guaranteed payout", s.Note("SH600519"))
	assert.Equal(t, "check filings", s.Note("SZ002304"))
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeFile(t, "settings.yaml", `
stocks:
  - name: 贵州茅台
    symbol: SH600519
roe_overide:
  SH600519: 30
`)

	_, _, err := Load(path)
	assert.Error(t, err)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"empty file", "", ErrNoStocks},
		{"empty list", "[]", ErrNoStocks},
		{"empty stocks", "stocks: []", ErrNoStocks},
		{"bad prefix", `[{"name": "x", "symbol": "HK00700"}]`, nil},
		{"duplicate", `[{"name": "a", "symbol": "SH600519"}, {"name": "b", "symbol": "sh600519"}]`, nil},
		{"non-positive override", "stocks: [{name: a, symbol: SH600519}]\nroe_overrides: {SH600519: 0}", nil},
		{"non-positive floor", "stocks: [{name: a, symbol: SH600519}]\nroe_floors: [{symbol: SH600519, min_roe: -1}]", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
		})
	}
}

func TestValidationErrorField(t *testing.T) {
	_, err := Parse([]byte(`[{"name": "a", "symbol": "SH600519"}, {"name": "b", "symbol": "SH600519"}]`))

	var ve ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "stocks[1].symbol", ve.Field)
}

func TestHashDeterministic(t *testing.T) {
	h1, err := Hash(Default())
	require.NoError(t, err)
	h2, err := Hash(Default())
	require.NoError(t, err)

	assert.Len(t, h1, 64)
	assert.Equal(t, h1, h2)

	other := Default().WithStocks(Default().Stocks[:1])
	h3, err := Hash(other)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestWithStocksDoesNotMutate(t *testing.T) {
	base := Default()
	narrowed := base.WithStocks(base.Stocks[:2])

	assert.Len(t, base.Stocks, 4)
	assert.Len(t, narrowed.Stocks, 2)

	_, ok := narrowed.ROEOverride("SZ002304")
	assert.True(t, ok)
}
