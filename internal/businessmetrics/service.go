package businessmetrics

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/resellernumbers-backend/internal/profitability"
	"github.com/angelmondragon/resellernumbers-backend/internal/repo"
	"github.com/angelmondragon/resellernumbers-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/resellernumbers-backend/pkg/errors"
)

var hundred = decimal.NewFromInt(100)

// Repository reads and upserts the per-user metrics row.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Get returns nil when the user never saved metrics.
func (r *Repository) Get(ctx context.Context, userID uuid.UUID) (*models.BusinessMetrics, error) {
	var row models.BusinessMetrics
	found, err := repo.TakeOwned(ctx, r.Base, userID, &row)
	if err != nil || !found {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) Upsert(ctx context.Context, row *models.BusinessMetrics) error {
	return r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"minutes_per_item", "ideal_hourly_rate", "avg_fee_percent", "tax_bracket", "updated_at"}),
	}).Create(row).Error
}

type repository interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.BusinessMetrics, error)
	Upsert(ctx context.Context, row *models.BusinessMetrics) error
}

// Service exposes a seller's cost assumptions. Unsaved metrics read as zero.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (profitability.BusinessMetrics, error)
	Save(ctx context.Context, userID uuid.UUID, input profitability.BusinessMetrics) (profitability.BusinessMetrics, error)
}

type service struct {
	repo repository
}

func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "business metrics repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (profitability.BusinessMetrics, error) {
	if userID == uuid.Nil {
		return profitability.BusinessMetrics{}, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	row, err := s.repo.Get(ctx, userID)
	if err != nil {
		return profitability.BusinessMetrics{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load business metrics")
	}
	if row == nil {
		return profitability.BusinessMetrics{}, nil
	}
	return fromModel(*row), nil
}

func (s *service) Save(ctx context.Context, userID uuid.UUID, input profitability.BusinessMetrics) (profitability.BusinessMetrics, error) {
	if userID == uuid.Nil {
		return profitability.BusinessMetrics{}, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if err := validate(input); err != nil {
		return profitability.BusinessMetrics{}, err
	}
	row := &models.BusinessMetrics{
		UserID:          userID,
		MinutesPerItem:  input.MinutesPerItem.Round(2),
		IdealHourlyRate: input.IdealHourlyRate.Round(2),
		AvgFeePercent:   input.AvgFeePercent.Round(2),
		TaxBracket:      input.TaxBracket.Round(2),
	}
	if err := s.repo.Upsert(ctx, row); err != nil {
		return profitability.BusinessMetrics{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save business metrics")
	}
	return fromModel(*row), nil
}

func validate(m profitability.BusinessMetrics) error {
	fields := map[string]decimal.Decimal{
		"minutes_per_item":  m.MinutesPerItem,
		"ideal_hourly_rate": m.IdealHourlyRate,
		"avg_fee_percent":   m.AvgFeePercent,
		"tax_bracket":       m.TaxBracket,
	}
	invalid := map[string]string{}
	for name, v := range fields {
		if v.IsNegative() {
			invalid[name] = "must be zero or greater"
		}
	}
	for _, name := range []string{"avg_fee_percent", "tax_bracket"} {
		if fields[name].GreaterThan(hundred) {
			invalid[name] = "must be at most 100"
		}
	}
	if len(invalid) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid business metrics").WithDetails(invalid)
	}
	return nil
}

func fromModel(row models.BusinessMetrics) profitability.BusinessMetrics {
	return profitability.BusinessMetrics{
		MinutesPerItem:  row.MinutesPerItem,
		IdealHourlyRate: row.IdealHourlyRate,
		AvgFeePercent:   row.AvgFeePercent,
		TaxBracket:      row.TaxBracket,
	}
}
