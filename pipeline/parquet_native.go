//go:build !js

package pipeline

import (
	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	powerprofile "github.com/360coachinglab/powerprofile-app"
	"github.com/360coachinglab/powerprofile-app/curve"
	"github.com/360coachinglab/powerprofile-app/dataset"
)

type curveParquetRow struct {
	DurationS   int64   `parquet:"name=duration_s, type=INT64"`
	Label       string  `parquet:"name=label, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	PowerW      float64 `parquet:"name=power_w, type=DOUBLE"`
	PowerWPerKG float64 `parquet:"name=power_w_per_kg, type=DOUBLE"`
}

func marshalCurveParquet(p *powerprofile.Profile) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, new(curveParquetRow), 4)
	if err != nil {
		return nil, err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, pt := range p.CurvePoints {
		row := curveParquetRow{
			DurationS:   int64(pt.DurationSeconds),
			Label:       curve.Label(pt.DurationSeconds),
			PowerW:      pt.PowerWatts,
			PowerWPerKG: p.Athlete.PerKG(pt.PowerWatts),
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return nil, err
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return append([]byte(nil), fw.Bytes()...), nil
}

func marshalTrainingRow(r dataset.Row) ([]byte, error) {
	return dataset.MarshalParquet([]dataset.Row{r})
}
