// Package sink writes simulation output to parquet files for downstream
// reporting and analysis layers.
package sink

import (
	"github.com/heliosyn/heliosim/internal/common/simcontext"
	"github.com/heliosyn/heliosim/internal/simulator"
)

// ParquetSink writes the per-step time series and the per-job timeline of
// one run. It is not safe for use by concurrent runs; give each run its
// own sink.
type ParquetSink struct {
	timeSeriesWriter *TimeSeriesWriter
	timelineWriter   *TimelineWriter
}

// NewParquetSink creates a sink writing into outputDir. The prefix,
// typically "<scenario>_<policy>", distinguishes files between runs.
func NewParquetSink(outputDir, prefix string) (*ParquetSink, error) {
	timeSeriesWriter, err := NewTimeSeriesWriter(outputDir, prefix)
	if err != nil {
		return nil, err
	}
	timelineWriter, err := NewTimelineWriter(outputDir, prefix)
	if err != nil {
		return nil, err
	}
	return &ParquetSink{
		timeSeriesWriter: timeSeriesWriter,
		timelineWriter:   timelineWriter,
	}, nil
}

func (s *ParquetSink) OnStep(policy simulator.Policy, sample simulator.StepSample) error {
	return s.timeSeriesWriter.Update(policy, sample)
}

func (s *ParquetSink) OnRunEnd(result *simulator.RunResult) error {
	return s.timelineWriter.Update(result)
}

func (s *ParquetSink) Close(ctx *simcontext.Context) {
	s.timeSeriesWriter.Close(ctx)
	s.timelineWriter.Close(ctx)
}
