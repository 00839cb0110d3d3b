package simulator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RunObserver exports final run metrics as prometheus gauges, labelled by
// scenario and policy, for scraping after a simulation batch.
type RunObserver struct {
	energyKwh     *prometheus.GaugeVec
	solarSharePct *prometheus.GaugeVec
	cost          *prometheus.GaugeVec
	carbonKg      *prometheus.GaugeVec
	slaViolations *prometheus.GaugeVec
}

func NewRunObserver(registerer prometheus.Registerer) *RunObserver {
	factory := promauto.With(registerer)
	return &RunObserver{
		energyKwh: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "heliosim_energy_kwh",
			Help: "Energy consumed over the run, by source.",
		}, []string{"scenario", "policy", "source"}),
		solarSharePct: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "heliosim_solar_share_pct",
			Help: "Share of total energy sourced from solar.",
		}, []string{"scenario", "policy"}),
		cost: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "heliosim_cost",
			Help: "Run cost in currency units, by kind.",
		}, []string{"scenario", "policy", "kind"}),
		carbonKg: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "heliosim_carbon_kg",
			Help: "Grid carbon emitted over the run.",
		}, []string{"scenario", "policy"}),
		slaViolations: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "heliosim_sla_violations",
			Help: "Number of jobs that missed their deadline.",
		}, []string{"scenario", "policy"}),
	}
}

func (o *RunObserver) Observe(result *RunResult) {
	labels := prometheus.Labels{"scenario": result.Scenario, "policy": string(result.Policy)}

	o.energyKwh.MustCurryWith(labels).WithLabelValues("solar").Set(result.SolarEnergyKwh)
	o.energyKwh.MustCurryWith(labels).WithLabelValues("grid_compute").Set(result.GridComputeEnergyKwh)
	o.energyKwh.MustCurryWith(labels).WithLabelValues("cooling").Set(result.CoolingEnergyKwh)
	o.energyKwh.MustCurryWith(labels).WithLabelValues("total").Set(result.TotalEnergyKwh)

	o.solarSharePct.With(labels).Set(result.SolarSharePct)

	o.cost.MustCurryWith(labels).WithLabelValues("grid").Set(result.GridCost)
	o.cost.MustCurryWith(labels).WithLabelValues("penalty").Set(result.PenaltyCost)
	o.cost.MustCurryWith(labels).WithLabelValues("total").Set(result.TotalCost)

	o.carbonKg.With(labels).Set(result.CarbonKg)
	o.slaViolations.With(labels).Set(float64(result.SLAViolations))
}
