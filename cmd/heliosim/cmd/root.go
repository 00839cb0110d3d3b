package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/renstrom/shortuuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/heliosyn/heliosim/internal/common/logging"
	"github.com/heliosyn/heliosim/internal/common/simcontext"
	"github.com/heliosyn/heliosim/internal/simulator"
	"github.com/heliosyn/heliosim/internal/simulator/sink"
)

func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "heliosim",
		Short: "Simulate energy-aware job scheduling for a solar-equipped facility.",
		RunE:  runSimulations,
	}
	cmd.Flags().String("scenarios", "", "Glob pattern specifying scenario files to simulate.")
	cmd.Flags().String("policy", "both", "Scheduling policy to run: smart, baseline or both.")
	cmd.Flags().String("output", "", "Directory for parquet output. Disabled if empty.")
	cmd.Flags().String("metricsAddress", "", "Expose run metrics for scraping on this address. Disabled if empty.")
	cmd.Flags().Bool("showStepLogs", false, "Show per-step scheduler logs.")
	return cmd
}

func runSimulations(cmd *cobra.Command, args []string) error {
	scenarioPattern, err := cmd.Flags().GetString("scenarios")
	if err != nil {
		return err
	}
	policyFlag, err := cmd.Flags().GetString("policy")
	if err != nil {
		return err
	}
	outputDir, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	metricsAddress, err := cmd.Flags().GetString("metricsAddress")
	if err != nil {
		return err
	}
	showStepLogs, err := cmd.Flags().GetBool("showStepLogs")
	if err != nil {
		return err
	}

	logging.ConfigureLogging()
	if showStepLogs {
		logrus.SetLevel(logrus.DebugLevel)
	}

	scenarios, err := simulator.ScenarioSpecsFromPattern(scenarioPattern)
	if err != nil {
		return err
	}

	runId := shortuuid.New()
	ctx := simcontext.New(cmd.Context(), logrus.WithField("run", runId))
	ctx.Info("HelioSyn scheduling simulator")

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return err
		}
	}

	collector := simulator.NewMetricsCollector()
	for _, scenario := range scenarios {
		results, err := runScenario(ctx, scenario, policyFlag, outputDir)
		if err != nil {
			return err
		}
		for _, result := range results {
			collector.Add(result)
		}
	}

	ctx.Infof("Simulation results: %s", collector)
	for _, result := range collector.Results {
		logComparisonDelta(ctx, collector, result)
	}

	if metricsAddress != "" {
		registry := prometheus.NewRegistry()
		observer := simulator.NewRunObserver(registry)
		for _, result := range collector.Results {
			observer.Observe(result)
		}
		ctx.Infof("Serving metrics on %s", metricsAddress)
		http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		return http.ListenAndServe(metricsAddress, nil)
	}
	return nil
}

func runScenario(ctx *simcontext.Context, scenario *simulator.ScenarioSpec, policyFlag, outputDir string) ([]*simulator.RunResult, error) {
	ctx = simcontext.WithLogField(ctx, "scenario", scenario.Name)

	newSink := func(policy simulator.Policy) (simulator.Sink, *sink.ParquetSink, error) {
		if outputDir == "" {
			return nil, nil, nil
		}
		s, err := sink.NewParquetSink(outputDir, fmt.Sprintf("%s_%s", scenario.Name, policy))
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	}

	switch policyFlag {
	case "both":
		smartSink, smartParquet, err := newSink(simulator.PolicySmart)
		if err != nil {
			return nil, err
		}
		baselineSink, baselineParquet, err := newSink(simulator.PolicyBaseline)
		if err != nil {
			return nil, err
		}
		result, err := simulator.RunComparison(ctx, scenario, smartSink, baselineSink)
		if smartParquet != nil {
			smartParquet.Close(ctx)
		}
		if baselineParquet != nil {
			baselineParquet.Close(ctx)
		}
		if err != nil {
			return nil, err
		}
		return []*simulator.RunResult{result.Smart, result.Baseline}, nil
	case string(simulator.PolicySmart), string(simulator.PolicyBaseline):
		policy := simulator.Policy(policyFlag)
		runSink, parquetSink, err := newSink(policy)
		if err != nil {
			return nil, err
		}
		s, err := simulator.NewSimulator(scenario, policy, runSink)
		if err != nil {
			return nil, err
		}
		result, err := s.Run(ctx)
		if parquetSink != nil {
			parquetSink.Close(ctx)
		}
		if err != nil {
			return nil, err
		}
		return []*simulator.RunResult{result}, nil
	default:
		return nil, fmt.Errorf("unknown policy %q: must be smart, baseline or both", policyFlag)
	}
}

func logComparisonDelta(ctx *simcontext.Context, collector *simulator.MetricsCollector, result *simulator.RunResult) {
	if result.Policy != simulator.PolicySmart {
		return
	}
	for _, other := range collector.Results {
		if other.Scenario == result.Scenario && other.Policy == simulator.PolicyBaseline {
			delta := (&simulator.ComparisonResult{Smart: result, Baseline: other}).Delta()
			ctx.Infof(
				"%s: smart vs baseline: solar share %+.1f%%, cost saving %.2f, carbon saving %.2f kg, violations %+d",
				result.Scenario, delta.SolarShareGainPct, delta.CostSaving, delta.CarbonSavingKg, delta.ViolationDelta,
			)
		}
	}
}
