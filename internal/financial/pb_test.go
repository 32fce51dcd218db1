package financial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wonny/roicalc/pkg/config"
)

func TestResolvePB(t *testing.T) {
	tests := []struct {
		name       string
		policy     string
		quotePB    float64
		price      float64
		bps        float64
		wantPB     float64
		wantSource string
	}{
		{"quote preferred", config.PBSourceQuote, 7.95, 1500, 185.6, 7.95, PBFromQuote},
		{"quote falls back to bps", config.PBSourceQuote, 0, 1500, 185.6, 8.08, PBFromBPS},
		{"bps preferred", config.PBSourceBPS, 7.95, 1500, 185.6, 8.08, PBFromBPS},
		{"bps falls back to quote", config.PBSourceBPS, 7.95, 1500, 0, 7.95, PBFromQuote},
		{"nothing usable", config.PBSourceQuote, 0, 0, 185.6, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pb, source := ResolvePB(tt.policy, tt.quotePB, tt.price, tt.bps)
			assert.InDelta(t, tt.wantPB, pb, 1e-9)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}
