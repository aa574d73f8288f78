package repository

import (
	"context"

	"github.com/jhoicas/Estore-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
// El árbol se arma en memoria a partir de ListAll.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	ListAll(ctx context.Context) ([]*entity.Category, error)
	Rename(ctx context.Context, id, name string) error
	// DeleteMany elimina los nodos indicados (subárbol completo, hijos incluidos).
	DeleteMany(ctx context.Context, ids []string) error
}

// MeasureUnitsRepository define el puerto de persistencia para MeasureUnits.
type MeasureUnitsRepository interface {
	Create(ctx context.Context, mu *entity.MeasureUnits) error
	GetByID(ctx context.Context, id string) (*entity.MeasureUnits, error)
	List(ctx context.Context) ([]*entity.MeasureUnits, error)
	Update(ctx context.Context, mu *entity.MeasureUnits) error
	Delete(ctx context.Context, id string) error
}
