package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/resellernumbers-backend/pkg/logger"
)

const defaultUploadRetentionDays = 90

type UploadRetentionJobParams struct {
	Logger    *logger.Logger
	Uploads   uploadPurger
	Retention int
}

type uploadPurger interface {
	PurgeUploads(ctx context.Context, before time.Time) (int64, error)
}

// NewUploadRetentionJob deletes upload snapshots older than the retention
// window. History rows written from those uploads are kept.
func NewUploadRetentionJob(params UploadRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Uploads == nil {
		return nil, fmt.Errorf("upload purger required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultUploadRetentionDays
	}
	return &uploadRetentionJob{
		logg:      params.Logger,
		uploads:   params.Uploads,
		retention: retention,
		now:       time.Now,
	}, nil
}

type uploadRetentionJob struct {
	logg      *logger.Logger
	uploads   uploadPurger
	retention int
	now       func() time.Time
}

func (j *uploadRetentionJob) Name() string { return "upload-retention" }

func (j *uploadRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().AddDate(0, 0, -j.retention)
	deleted, err := j.uploads.PurgeUploads(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("upload retention: %w", err)
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retention,
		"rows_deleted":   deleted,
	}), "upload retention cleanup complete")
	return nil
}
