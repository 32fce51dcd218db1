package contracts

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSymbol(t *testing.T) {
	tests := []struct {
		input        string
		wantExchange string
		wantCode     string
		wantErr      bool
	}{
		{"SH600519", "SH", "600519", false},
		{"sz000858", "SZ", "000858", false},
		{" SZ002304 ", "SZ", "002304", false},
		{"HK00700", "", "", true},
		{"600519", "", "", true},
		{"SHABC", "", "", true},
		{"", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			exchange, code, err := ParseSymbol(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidSymbol))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExchange, exchange)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestSecuCode(t *testing.T) {
	got, err := SecuCode("sh600519")
	require.NoError(t, err)
	assert.Equal(t, "600519.SH", got)

	_, err = SecuCode("BJ430047")
	assert.Error(t, err)
}

func TestReportTimestamp(t *testing.T) {
	r := Report{GeneratedAt: time.Date(2025, 10, 15, 15, 30, 5, 0, time.Local)}
	assert.Equal(t, "20251015_153005", r.Timestamp())
}

func TestROIResultDegraded(t *testing.T) {
	r := ROIResult{}
	assert.False(t, r.Degraded())

	r.Unavailable = []string{ProviderDividend}
	assert.True(t, r.Degraded())
}
