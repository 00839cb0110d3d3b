package simulator

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/heliosyn/heliosim/internal/common/slices"
)

// SeriesSummary condenses a run's step series into a few headline numbers.
type SeriesSummary struct {
	MeanFacilityTempC float64
	PeakFacilityTempC float64
	MeanGridKw        float64
	P95GridKw         float64
	PeakSolarUsedKw   float64
}

// SummariseSeries computes summary statistics over the per-step series.
func SummariseSeries(series []StepSample) SeriesSummary {
	if len(series) == 0 {
		return SeriesSummary{}
	}
	temps := slices.Map(series, func(s StepSample) float64 { return s.FacilityTempC })
	grid := slices.Map(series, func(s StepSample) float64 { return s.GridTotalKw })
	solar := slices.Map(series, func(s StepSample) float64 { return s.SolarUsedKw })

	sortedGrid := append([]float64(nil), grid...)
	sort.Float64s(sortedGrid)

	return SeriesSummary{
		MeanFacilityTempC: stat.Mean(temps, nil),
		PeakFacilityTempC: maxOf(temps),
		MeanGridKw:        stat.Mean(grid, nil),
		P95GridKw:         stat.Quantile(0.95, stat.Empirical, sortedGrid, nil),
		PeakSolarUsedKw:   maxOf(solar),
	}
}

func maxOf(values []float64) float64 {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// MetricsCollector aggregates run results for end-of-simulation reporting.
type MetricsCollector struct {
	Results []*RunResult
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{}
}

func (mc *MetricsCollector) Add(result *RunResult) {
	mc.Results = append(mc.Results, result)
}

func (mc *MetricsCollector) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, result := range mc.Results {
		summary := SummariseSeries(result.Series)
		sb.WriteString(fmt.Sprintf(
			"%s/%s: {Solar: %.2f kWh (%.1f%%), Grid: %.2f kWh, Cooling: %.2f kWh, Cost: %.2f, Carbon: %.2f kg, Violations: %d, MeanTemp: %.1fC, P95Grid: %.2f kW}",
			result.Scenario, result.Policy,
			result.SolarEnergyKwh, result.SolarSharePct,
			result.GridTotalEnergyKwh, result.CoolingEnergyKwh,
			result.TotalCost, result.CarbonKg, result.SLAViolations,
			summary.MeanFacilityTempC, summary.P95GridKw,
		))
		if i != len(mc.Results)-1 {
			sb.WriteString(", ")
		}
	}
	sb.WriteString("}")
	return sb.String()
}
