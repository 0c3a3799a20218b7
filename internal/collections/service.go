package collections

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/resellernumbers-backend/internal/profitability"
	"github.com/angelmondragon/resellernumbers-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/resellernumbers-backend/pkg/errors"
)

type repository interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Collection, error)
	Find(ctx context.Context, userID, id uuid.UUID) (*models.Collection, error)
	Create(ctx context.Context, row *models.Collection) error
	Save(ctx context.Context, row *models.Collection) error
	Delete(ctx context.Context, userID, id uuid.UUID) (bool, error)
}

// Service manages the purchases a seller records against their collections.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]DTO, error)
	Create(ctx context.Context, userID uuid.UUID, input Input) (*DTO, error)
	Update(ctx context.Context, userID, id uuid.UUID, input Input) (*DTO, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Purchases(ctx context.Context, userID uuid.UUID) ([]profitability.Purchase, error)
}

type service struct {
	repo repository
}

// NewService wires the collections service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "collections repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]DTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	rows, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list collections")
	}
	out := make([]DTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input Input) (*DTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if err := validateInput(&input); err != nil {
		return nil, err
	}
	row := &models.Collection{ID: uuid.New(), UserID: userID}
	applyInput(row, input)
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create collection")
	}
	dto := FromModel(*row)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, userID, id uuid.UUID, input Input) (*DTO, error) {
	if userID == uuid.Nil || id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and collection id required")
	}
	if err := validateInput(&input); err != nil {
		return nil, err
	}
	row, err := s.repo.Find(ctx, userID, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load collection")
	}
	if row == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "collection not found")
	}
	applyInput(row, input)
	if err := s.repo.Save(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update collection")
	}
	dto := FromModel(*row)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil || id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and collection id required")
	}
	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete collection")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "collection not found")
	}
	return nil
}

func (s *service) Purchases(ctx context.Context, userID uuid.UUID) ([]profitability.Purchase, error) {
	dtos, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]profitability.Purchase, 0, len(dtos))
	for _, dto := range dtos {
		out = append(out, dto.Purchase())
	}
	return out, nil
}

func validateInput(input *Input) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "collection name required")
	}
	if input.Cost.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cost must be zero or greater").
			WithDetails(map[string]any{"cost": input.Cost.String()})
	}
	input.SKU = trimOptional(input.SKU)
	input.Notes = trimOptional(input.Notes)
	return nil
}

func applyInput(row *models.Collection, input Input) {
	row.Name = input.Name
	row.SKU = input.SKU
	row.Cost = input.Cost.Round(2)
	row.Notes = input.Notes
	row.PurchaseDate = nil
	if input.PurchaseDate != nil {
		d := input.PurchaseDate.UTC()
		d = d.Truncate(24 * time.Hour)
		row.PurchaseDate = &d
	}
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
