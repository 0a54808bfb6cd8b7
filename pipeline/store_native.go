//go:build !js

package pipeline

import (
	"context"

	"github.com/360coachinglab/powerprofile-app/dataset"
	"github.com/360coachinglab/powerprofile-app/dataset/sqlitestore"
)

func appendTrainingRow(ctx context.Context, dbPath string, row dataset.Row) error {
	store, err := sqlitestore.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Append(ctx, row)
}
