package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/resellernumbers-backend/pkg/logger"
)

type trialExpirer interface {
	ExpireTrials(ctx context.Context) (int64, error)
}

// NewTrialExpiryJob marks trial subscriptions past their end date as expired.
func NewTrialExpiryJob(logg *logger.Logger, profiles trialExpirer) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if profiles == nil {
		return nil, fmt.Errorf("profile service required")
	}
	return &trialExpiryJob{logg: logg, profiles: profiles}, nil
}

type trialExpiryJob struct {
	logg     *logger.Logger
	profiles trialExpirer
}

func (j *trialExpiryJob) Name() string { return "trial-expiry" }

func (j *trialExpiryJob) Run(ctx context.Context) error {
	expired, err := j.profiles.ExpireTrials(ctx)
	if err != nil {
		return fmt.Errorf("expire trials: %w", err)
	}
	j.logg.Info(j.logg.WithField(ctx, "profiles_expired", expired), "trial expiry complete")
	return nil
}
