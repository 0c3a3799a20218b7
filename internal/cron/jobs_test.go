package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	cutoff time.Time
	calls  int
	err    error
}

func (f *fakePurger) PurgeUploads(_ context.Context, before time.Time) (int64, error) {
	f.calls++
	f.cutoff = before
	return 4, f.err
}

func TestUploadRetentionJobUsesCutoff(t *testing.T) {
	purger := &fakePurger{}
	job, err := NewUploadRetentionJob(UploadRetentionJobParams{Logger: testLogger(), Uploads: purger, Retention: 30})
	require.NoError(t, err)
	impl := job.(*uploadRetentionJob)
	now := time.Date(2024, time.October, 31, 8, 0, 0, 0, time.UTC)
	impl.now = func() time.Time { return now }

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, purger.calls)
	assert.True(t, purger.cutoff.Equal(time.Date(2024, time.October, 1, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, "upload-retention", job.Name())
}

func TestUploadRetentionJobDefaultsAndErrors(t *testing.T) {
	purger := &fakePurger{err: errors.New("boom")}
	job, err := NewUploadRetentionJob(UploadRetentionJobParams{Logger: testLogger(), Uploads: purger})
	require.NoError(t, err)
	assert.Equal(t, defaultUploadRetentionDays, job.(*uploadRetentionJob).retention)
	assert.Error(t, job.Run(context.Background()))

	_, err = NewUploadRetentionJob(UploadRetentionJobParams{Logger: testLogger()})
	assert.Error(t, err)
}

type fakeExpirer struct {
	count int64
	err   error
}

func (f fakeExpirer) ExpireTrials(context.Context) (int64, error) { return f.count, f.err }

func TestTrialExpiryJob(t *testing.T) {
	job, err := NewTrialExpiryJob(testLogger(), fakeExpirer{count: 2})
	require.NoError(t, err)
	assert.NoError(t, job.Run(context.Background()))

	job, err = NewTrialExpiryJob(testLogger(), fakeExpirer{err: errors.New("db down")})
	require.NoError(t, err)
	assert.ErrorContains(t, job.Run(context.Background()), "db down")

	_, err = NewTrialExpiryJob(testLogger(), nil)
	assert.Error(t, err)
}
