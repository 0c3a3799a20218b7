package profiles

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/resellernumbers-backend/pkg/db/models"
	"github.com/angelmondragon/resellernumbers-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/resellernumbers-backend/pkg/errors"
)

const DefaultTrialPeriod = 14 * 24 * time.Hour

type repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	CreateIfMissing(ctx context.Context, profile *models.Profile) error
	ExpireTrials(ctx context.Context, now time.Time) (int64, error)
}

// Service owns the approval workflow that gates access to analytics data.
type Service interface {
	Ensure(ctx context.Context, id uuid.UUID, email string) (*models.Profile, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	CheckAccess(ctx context.Context, id uuid.UUID) error
	ExpireTrials(ctx context.Context) (int64, error)
}

type service struct {
	repo  repository
	trial time.Duration
	now   func() time.Time
}

// NewService wires the profiles service. A non-positive trial uses DefaultTrialPeriod.
func NewService(repo repository, trial time.Duration, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "profiles repository required")
	}
	if trial <= 0 {
		trial = DefaultTrialPeriod
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, trial: trial, now: now}, nil
}

// Ensure returns the caller's profile, creating a pending one with a fresh
// trial the first time an authenticated user shows up.
func (s *service) Ensure(ctx context.Context, id uuid.UUID, email string) (*models.Profile, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	if existing != nil {
		return existing, nil
	}

	now := s.now().UTC()
	trialEnds := now.Add(s.trial)
	profile := &models.Profile{
		ID:                 id,
		Email:              strings.ToLower(strings.TrimSpace(email)),
		Status:             enums.ProfileStatusPending,
		SubscriptionStatus: enums.SubscriptionStatusTrial,
		TrialEndsAt:        &trialEnds,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.CreateIfMissing(ctx, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create profile")
	}
	// a concurrent request may have won the insert
	stored, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	if stored == nil {
		return profile, nil
	}
	return stored, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	if profile == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
	}
	return profile, nil
}

// CheckAccess is nil only for approved profiles whose subscription has not expired.
func (s *service) CheckAccess(ctx context.Context, id uuid.UUID) error {
	profile, err := s.Get(ctx, id)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return pkgerrors.New(pkgerrors.CodeNotApproved, "profile pending approval")
		}
		return err
	}
	return Allowed(profile)
}

func (s *service) ExpireTrials(ctx context.Context) (int64, error) {
	count, err := s.repo.ExpireTrials(ctx, s.now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire trials")
	}
	return count, nil
}

// Allowed applies the approval gate to an already loaded profile.
func Allowed(profile *models.Profile) error {
	if profile == nil || profile.Status != enums.ProfileStatusApproved {
		return pkgerrors.New(pkgerrors.CodeNotApproved, "profile pending approval")
	}
	if profile.SubscriptionStatus == enums.SubscriptionStatusExpired {
		return pkgerrors.New(pkgerrors.CodeForbidden, "subscription expired")
	}
	return nil
}
