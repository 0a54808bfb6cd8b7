//go:build js

package pipeline

import (
	"context"
	"errors"

	"github.com/360coachinglab/powerprofile-app/dataset"
)

func appendTrainingRow(context.Context, string, dataset.Row) error {
	return errors.New("sqlite storage is not supported in js/wasm builds")
}
