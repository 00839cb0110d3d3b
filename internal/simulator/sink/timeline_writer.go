package sink

import (
	"fmt"
	"os"
	"path/filepath"

	parquetWriter "github.com/xitongsys/parquet-go/writer"

	"github.com/heliosyn/heliosim/internal/common/simcontext"
	"github.com/heliosyn/heliosim/internal/simulator"
)

type TimelineRow struct {
	Scenario        string  `parquet:"name=scenario, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Policy          string  `parquet:"name=policy, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Job             string  `parquet:"name=job, type=BYTE_ARRAY, convertedtype=UTF8"`
	StartHour       float64 `parquet:"name=start_hour, type=DOUBLE"`
	DurationMinutes float64 `parquet:"name=duration_minutes, type=DOUBLE"`
	Priority        string  `parquet:"name=priority, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Status          string  `parquet:"name=status, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
}

type TimelineWriter struct {
	fileWriter *os.File
	writer     *parquetWriter.ParquetWriter
}

func NewTimelineWriter(outputDir, prefix string) (*TimelineWriter, error) {
	fileWriter, err := os.Create(filepath.Join(outputDir, fmt.Sprintf("%s_timeline.parquet", prefix)))
	if err != nil {
		return nil, err
	}
	pw, err := parquetWriter.NewParquetWriterFromWriter(fileWriter, new(TimelineRow), 1)
	if err != nil {
		return nil, err
	}
	return &TimelineWriter{
		fileWriter: fileWriter,
		writer:     pw,
	}, nil
}

func (w *TimelineWriter) Update(result *simulator.RunResult) error {
	for _, record := range result.Timeline {
		row := TimelineRow{
			Scenario:        result.Scenario,
			Policy:          string(result.Policy),
			Job:             record.Name,
			StartHour:       record.StartHour,
			DurationMinutes: record.DurationMinutes,
			Priority:        record.Priority,
			Status:          record.Status,
		}
		if err := w.writer.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (w *TimelineWriter) Close(ctx *simcontext.Context) {
	if err := w.writer.WriteStop(); err != nil {
		ctx.Warnf("Could not cleanly close timeline parquet file: %s", err)
	}
	if err := w.fileWriter.Close(); err != nil {
		ctx.Warnf("Could not close timeline file: %s", err)
	}
}
