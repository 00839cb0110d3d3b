package simulator

import (
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mattn/go-zglob"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/heliosyn/heliosim/internal/common/simcontext"
)

// PriorityDecodeHook lets scenario files spell priorities as free-form
// strings; unknown values normalise to medium.
func PriorityDecodeHook() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(PriorityMedium) {
			return data, nil
		}
		return ParsePriority(data.(string)), nil
	}
}

// ScenarioSpecsFromPattern loads every scenario file matching a glob pattern.
func ScenarioSpecsFromPattern(pattern string) ([]*ScenarioSpec, error) {
	filePaths, err := zglob.Glob(pattern)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(filePaths) == 0 {
		return nil, errors.Errorf("no scenario files match pattern %s", pattern)
	}
	return ScenarioSpecsFromFilePaths(filePaths)
}

func ScenarioSpecsFromFilePaths(filePaths []string) ([]*ScenarioSpec, error) {
	rv := make([]*ScenarioSpec, len(filePaths))
	for i, filePath := range filePaths {
		spec, err := ScenarioSpecFromFilePath(filePath)
		if err != nil {
			return nil, err
		}
		rv[i] = spec
	}
	return rv, nil
}

func ScenarioSpecFromFilePath(filePath string) (*ScenarioSpec, error) {
	rv := &ScenarioSpec{}
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	v.SetConfigFile(filePath)
	if err := v.ReadInConfig(); err != nil {
		err = errors.WithMessagef(err, "failed to read in ScenarioSpec %s", filePath)
		return nil, errors.WithStack(err)
	}
	if err := v.Unmarshal(rv, viper.DecodeHook(PriorityDecodeHook())); err != nil {
		err = errors.WithMessagef(err, "failed to unmarshal ScenarioSpec %s", filePath)
		return nil, errors.WithStack(err)
	}

	// If no scenario name is provided, set it to be the filename.
	if rv.Name == "" {
		fileName := filepath.Base(filePath)
		fileName = strings.TrimSuffix(fileName, filepath.Ext(fileName))
		rv.Name = fileName
	}
	initialiseScenarioSpec(rv)
	if err := validateScenarioSpec(rv); err != nil {
		return nil, err
	}

	return rv, nil
}

// ComparisonResult pairs the outcomes of running both policies over an
// identical catalog and environment.
type ComparisonResult struct {
	Smart    *RunResult
	Baseline *RunResult
}

// ComparisonDelta summarises what the smart policy gained over the baseline.
type ComparisonDelta struct {
	SolarShareGainPct float64
	CostSaving        float64
	CarbonSavingKg    float64
	ViolationDelta    int
}

func (r *ComparisonResult) Delta() ComparisonDelta {
	return ComparisonDelta{
		SolarShareGainPct: r.Smart.SolarSharePct - r.Baseline.SolarSharePct,
		CostSaving:        r.Baseline.TotalCost - r.Smart.TotalCost,
		CarbonSavingKg:    r.Baseline.CarbonKg - r.Smart.CarbonKg,
		ViolationDelta:    r.Smart.SLAViolations - r.Baseline.SLAViolations,
	}
}

// RunComparison runs the smart and baseline policies over one scenario
// concurrently. Each run constructs its own scheduler and job set from the
// catalog, so no job state leaks between the two.
func RunComparison(ctx *simcontext.Context, scenario *ScenarioSpec, smartSink, baselineSink Sink) (*ComparisonResult, error) {
	smart, err := NewSimulator(scenario, PolicySmart, smartSink)
	if err != nil {
		return nil, err
	}
	baseline, err := NewSimulator(scenario, PolicyBaseline, baselineSink)
	if err != nil {
		return nil, err
	}

	rv := &ComparisonResult{}
	g, ctx := simcontext.ErrGroup(ctx)
	g.Go(func() error {
		result, err := smart.Run(simcontext.WithLogField(ctx, "policy", PolicySmart))
		if err != nil {
			return err
		}
		rv.Smart = result
		return nil
	})
	g.Go(func() error {
		result, err := baseline.Run(simcontext.WithLogField(ctx, "policy", PolicyBaseline))
		if err != nil {
			return err
		}
		rv.Baseline = result
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rv, nil
}
