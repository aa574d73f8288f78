package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Estore-api/internal/application/dto"
	"github.com/jhoicas/Estore-api/internal/domain"
	"github.com/jhoicas/Estore-api/internal/domain/catalog"
	"github.com/jhoicas/Estore-api/internal/domain/entity"
	"github.com/jhoicas/Estore-api/internal/domain/repository"
)

// CategoryUseCase gestión del árbol de categorías.
type CategoryUseCase struct {
	repo        repository.CategoryRepository
	productRepo repository.ProductRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, productRepo repository.ProductRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, productRepo: productRepo}
}

// forest carga todas las categorías y arma el árbol.
func (uc *CategoryUseCase) forest(ctx context.Context) ([]*entity.Category, error) {
	flat, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.BuildTree(flat), nil
}

// Node devuelve el nodo con su subárbol, o ErrNotFound.
func (uc *CategoryUseCase) Node(ctx context.Context, id string) (*entity.Category, error) {
	roots, err := uc.forest(ctx)
	if err != nil {
		return nil, err
	}
	node := catalog.Find(roots, id)
	if node == nil {
		return nil, domain.ErrNotFound
	}
	return node, nil
}

// LeafIDs IDs de categorías hoja bajo id (id mismo si es hoja).
func (uc *CategoryUseCase) LeafIDs(ctx context.Context, id string) ([]string, error) {
	node, err := uc.Node(ctx, id)
	if err != nil {
		return nil, err
	}
	return catalog.LeafIDs(node), nil
}

// Create crea una categoría. Sin padre es raíz; con padre, este debe existir y ser carpeta.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.ParentID != "" {
		parent, err := uc.repo.GetByID(ctx, in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, fmt.Errorf("%w: categoría padre", domain.ErrNotFound)
		}
		if !parent.IsFolder() {
			return nil, domain.ErrParentNotFolder
		}
	}
	c := &entity.Category{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Type:      in.Type,
		ParentID:  in.ParentID,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	out := dto.ToCategoryResponse(c)
	return &out, nil
}

// ListTopLevel raíces con su subárbol completo.
func (uc *CategoryUseCase) ListTopLevel(ctx context.Context) ([]dto.CategoryResponse, error) {
	roots, err := uc.forest(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(roots))
	for _, r := range roots {
		out = append(out, dto.ToCategoryResponse(r))
	}
	return out, nil
}

// ListLeaves todas las categorías hoja (destino válido de productos).
func (uc *CategoryUseCase) ListLeaves(ctx context.Context) ([]dto.CategoryResponse, error) {
	roots, err := uc.forest(ctx)
	if err != nil {
		return nil, err
	}
	leaves := catalog.Leaves(roots)
	out := make([]dto.CategoryResponse, 0, len(leaves))
	for _, l := range leaves {
		out = append(out, dto.ToCategoryResponse(l))
	}
	return out, nil
}

// GetByID nodo con su subárbol.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	node, err := uc.Node(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.ToCategoryResponse(node)
	return &out, nil
}

// Rename cambia el nombre de un nodo.
func (uc *CategoryUseCase) Rename(ctx context.Context, id string, in dto.RenameRequest) (*dto.CategoryResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	name := strings.TrimSpace(in.Name)
	if err := uc.repo.Rename(ctx, id, name); err != nil {
		return nil, err
	}
	c.Name = name
	out := dto.ToCategoryResponse(c)
	return &out, nil
}

// Delete elimina el nodo y su subárbol si ninguna hoja debajo tiene productos.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	node, err := uc.Node(ctx, id)
	if err != nil {
		return err
	}
	if leaves := catalog.LeafIDs(node); len(leaves) > 0 {
		n, err := uc.productRepo.CountByCategories(ctx, leaves)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrCategoryHasProducts
		}
	}
	return uc.repo.DeleteMany(ctx, catalog.SubtreeIDs(node))
}
