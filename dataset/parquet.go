//go:build !js

package dataset

import (
	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

type parquetRow struct {
	ID          string  `parquet:"name=id, type=BYTE_ARRAY, convertedtype=UTF8"`
	RecordedAt  string  `parquet:"name=recorded_at, type=BYTE_ARRAY, convertedtype=UTF8"`
	WeightKG    float64 `parquet:"name=weight_kg, type=DOUBLE"`
	BodyFatPct  float64 `parquet:"name=body_fat_pct, type=DOUBLE"`
	Sex         string  `parquet:"name=sex, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	MMP1s       float64 `parquet:"name=MMP_1s, type=DOUBLE"`
	MMP20s      float64 `parquet:"name=MMP_20s, type=DOUBLE"`
	MMP1min     float64 `parquet:"name=MMP_1min, type=DOUBLE"`
	MMP2min     float64 `parquet:"name=MMP_2min, type=DOUBLE"`
	MMP3min     float64 `parquet:"name=MMP_3min, type=DOUBLE"`
	MMP5min     float64 `parquet:"name=MMP_5min, type=DOUBLE"`
	MMP10min    float64 `parquet:"name=MMP_10min, type=DOUBLE"`
	MMP20min    float64 `parquet:"name=MMP_20min, type=DOUBLE"`
	FFM         float64 `parquet:"name=ffm_kg, type=DOUBLE"`
	FTPWatts    float64 `parquet:"name=ftp_w, type=DOUBLE"`
	VLamax      float64 `parquet:"name=vlamax, type=DOUBLE"`
	VO2Max      float64 `parquet:"name=vo2max, type=DOUBLE"`
	AthleteType string  `parquet:"name=athlete_type, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
}

func toParquetRow(r Row) parquetRow {
	return parquetRow{
		ID:          r.ID.String(),
		RecordedAt:  r.RecordedAt.Format(timeLayout),
		WeightKG:    r.WeightKG,
		BodyFatPct:  r.BodyFatPct,
		Sex:         string(r.Sex),
		MMP1s:       r.MMP[0],
		MMP20s:      r.MMP[1],
		MMP1min:     r.MMP[2],
		MMP2min:     r.MMP[3],
		MMP3min:     r.MMP[4],
		MMP5min:     r.MMP[5],
		MMP10min:    r.MMP[6],
		MMP20min:    r.MMP[7],
		FFM:         r.FFM,
		FTPWatts:    r.FTPWatts,
		VLamax:      r.VLamax,
		VO2Max:      r.VO2Max,
		AthleteType: string(r.AthleteType),
	}
}

// MarshalParquet encodes rows as a snappy-compressed parquet file.
func MarshalParquet(rows []Row) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, new(parquetRow), 4)
	if err != nil {
		return nil, err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, r := range rows {
		if err := pw.Write(toParquetRow(r)); err != nil {
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
