package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Estore-api/internal/application/dto"
	"github.com/jhoicas/Estore-api/internal/domain"
	"github.com/jhoicas/Estore-api/internal/domain/entity"
	"github.com/jhoicas/Estore-api/internal/domain/repository"
)

// MeasureUnitsUseCase CRUD de unidades de medida.
type MeasureUnitsUseCase struct {
	repo        repository.MeasureUnitsRepository
	productRepo repository.ProductRepository
}

// NewMeasureUnitsUseCase construye el caso de uso.
func NewMeasureUnitsUseCase(repo repository.MeasureUnitsRepository, productRepo repository.ProductRepository) *MeasureUnitsUseCase {
	return &MeasureUnitsUseCase{repo: repo, productRepo: productRepo}
}

func toMeasureUnitsResponse(mu *entity.MeasureUnits) *dto.MeasureUnitsResponse {
	return &dto.MeasureUnitsResponse{ID: mu.ID, Name: mu.Name}
}

func (uc *MeasureUnitsUseCase) Create(ctx context.Context, in dto.RenameRequest) (*dto.MeasureUnitsResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	mu := &entity.MeasureUnits{ID: uuid.New().String(), Name: strings.TrimSpace(in.Name)}
	if err := uc.repo.Create(ctx, mu); err != nil {
		return nil, err
	}
	return toMeasureUnitsResponse(mu), nil
}

func (uc *MeasureUnitsUseCase) List(ctx context.Context) ([]dto.MeasureUnitsResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MeasureUnitsResponse, 0, len(list))
	for _, mu := range list {
		out = append(out, *toMeasureUnitsResponse(mu))
	}
	return out, nil
}

func (uc *MeasureUnitsUseCase) GetByID(ctx context.Context, id string) (*dto.MeasureUnitsResponse, error) {
	mu, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mu == nil {
		return nil, domain.ErrNotFound
	}
	return toMeasureUnitsResponse(mu), nil
}

func (uc *MeasureUnitsUseCase) Rename(ctx context.Context, id string, in dto.RenameRequest) (*dto.MeasureUnitsResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	mu, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mu == nil {
		return nil, domain.ErrNotFound
	}
	mu.Name = strings.TrimSpace(in.Name)
	if err := uc.repo.Update(ctx, mu); err != nil {
		return nil, err
	}
	return toMeasureUnitsResponse(mu), nil
}

// Delete elimina la unidad si ningún producto la usa.
func (uc *MeasureUnitsUseCase) Delete(ctx context.Context, id string) error {
	mu, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if mu == nil {
		return domain.ErrNotFound
	}
	n, err := uc.productRepo.CountByMeasureUnits(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrMeasureUnitsInUse
	}
	return uc.repo.Delete(ctx, id)
}
