//go:build js

package pipeline

import (
	powerprofile "github.com/360coachinglab/powerprofile-app"
	"github.com/360coachinglab/powerprofile-app/dataset"
)

func marshalCurveParquet(*powerprofile.Profile) ([]byte, error) {
	return nil, dataset.ErrParquetUnsupported
}

func marshalTrainingRow(dataset.Row) ([]byte, error) {
	return nil, dataset.ErrParquetUnsupported
}
