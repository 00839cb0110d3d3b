package sink

import (
	"fmt"
	"os"
	"path/filepath"

	parquetWriter "github.com/xitongsys/parquet-go/writer"

	"github.com/heliosyn/heliosim/internal/common/simcontext"
	"github.com/heliosyn/heliosim/internal/simulator"
)

type TimeSeriesRow struct {
	Policy         string  `parquet:"name=policy, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Hour           float64 `parquet:"name=hour, type=DOUBLE"`
	SolarUsedKw    float64 `parquet:"name=solar_used_kw, type=DOUBLE"`
	GridTotalKw    float64 `parquet:"name=grid_total_kw, type=DOUBLE"`
	FacilityTempC  float64 `parquet:"name=facility_temp_c, type=DOUBLE"`
	CoolingKw      float64 `parquet:"name=cooling_kw, type=DOUBLE"`
	CumulativeCost float64 `parquet:"name=cumulative_cost, type=DOUBLE"`
}

type TimeSeriesWriter struct {
	fileWriter *os.File
	writer     *parquetWriter.ParquetWriter
}

func NewTimeSeriesWriter(outputDir, prefix string) (*TimeSeriesWriter, error) {
	fileWriter, err := os.Create(filepath.Join(outputDir, fmt.Sprintf("%s_timeseries.parquet", prefix)))
	if err != nil {
		return nil, err
	}
	pw, err := parquetWriter.NewParquetWriterFromWriter(fileWriter, new(TimeSeriesRow), 1)
	if err != nil {
		return nil, err
	}
	return &TimeSeriesWriter{
		fileWriter: fileWriter,
		writer:     pw,
	}, nil
}

func (w *TimeSeriesWriter) Update(policy simulator.Policy, sample simulator.StepSample) error {
	row := TimeSeriesRow{
		Policy:         string(policy),
		Hour:           sample.Hour,
		SolarUsedKw:    sample.SolarUsedKw,
		GridTotalKw:    sample.GridTotalKw,
		FacilityTempC:  sample.FacilityTempC,
		CoolingKw:      sample.CoolingKw,
		CumulativeCost: sample.CumulativeCost,
	}
	return w.writer.Write(row)
}

func (w *TimeSeriesWriter) Close(ctx *simcontext.Context) {
	if err := w.writer.WriteStop(); err != nil {
		ctx.Warnf("Could not cleanly close timeseries parquet file: %s", err)
	}
	if err := w.fileWriter.Close(); err != nil {
		ctx.Warnf("Could not close timeseries file: %s", err)
	}
}
