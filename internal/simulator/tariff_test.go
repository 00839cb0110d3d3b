package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGridRate(t *testing.T) {
	tariff := TariffConfig{OffPeakRate: 0.10, StandardRate: 0.18, PeakRate: 0.30}
	tests := map[string]struct {
		hour float64
		want float64
	}{
		"midnight":               {hour: 0, want: 0.10},
		"late night":             {hour: 5.99, want: 0.10},
		"off-peak boundary":      {hour: 6, want: 0.18},
		"midday":                 {hour: 12, want: 0.18},
		"peak start":             {hour: 18, want: 0.30},
		"evening peak":           {hour: 21.5, want: 0.30},
		"peak end":               {hour: 22, want: 0.18},
		"second day wraps round": {hour: 24 + 3, want: 0.10},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, GridRate(tc.hour, tariff))
		})
	}
}
