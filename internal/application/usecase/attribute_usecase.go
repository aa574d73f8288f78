package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Estore-api/internal/application/dto"
	"github.com/jhoicas/Estore-api/internal/domain"
	"github.com/jhoicas/Estore-api/internal/domain/entity"
	"github.com/jhoicas/Estore-api/internal/domain/repository"
)

// AttributeUseCase atributos libres de los productos (color, tamaño...).
type AttributeUseCase struct {
	repo        repository.AttributeRepository
	productRepo repository.ProductRepository
	categories  *CategoryUseCase
}

// NewAttributeUseCase construye el caso de uso.
func NewAttributeUseCase(repo repository.AttributeRepository, productRepo repository.ProductRepository, categories *CategoryUseCase) *AttributeUseCase {
	return &AttributeUseCase{repo: repo, productRepo: productRepo, categories: categories}
}

func (uc *AttributeUseCase) requireProduct(ctx context.Context, productID string) error {
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return nil
}

func toAttributeResponses(list []entity.ProductAttribute) []dto.ProductAttributeResponse {
	out := make([]dto.ProductAttributeResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.ProductAttributeResponse{AttributeID: a.AttributeID, Name: a.Name, Value: a.Value})
	}
	return out
}

// AddToProduct busca o crea el atributo por nombre y lo vincula al producto con valor vacío.
func (uc *AttributeUseCase) AddToProduct(ctx context.Context, productID string, in dto.AddAttributeRequest) ([]dto.ProductAttributeResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := uc.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	attr, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if attr == nil {
		attr = &entity.Attribute{ID: uuid.New().String(), Name: name}
		if err := uc.repo.Create(ctx, attr); err != nil {
			return nil, err
		}
	}
	current, err := uc.repo.ListForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	for _, a := range current {
		if a.AttributeID == attr.ID {
			return toAttributeResponses(current), nil
		}
	}
	if err := uc.repo.Link(ctx, productID, attr.ID); err != nil {
		return nil, err
	}
	return uc.ListForProduct(ctx, productID)
}

// ListForProduct atributos del producto con sus valores.
func (uc *AttributeUseCase) ListForProduct(ctx context.Context, productID string) ([]dto.ProductAttributeResponse, error) {
	list, err := uc.repo.ListForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toAttributeResponses(list), nil
}

// UpdateValues asigna valores por nombre de atributo; nombres no vinculados al producto se rechazan.
func (uc *AttributeUseCase) UpdateValues(ctx context.Context, productID string, in dto.UpdateAttributeValuesRequest) ([]dto.ProductAttributeResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := uc.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	current, err := uc.repo.ListForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]string, len(current))
	for _, a := range current {
		byName[a.Name] = a.AttributeID
	}
	for name, value := range in.Values {
		id, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: el producto no tiene el atributo %q", domain.ErrInvalidInput, name)
		}
		if err := uc.repo.SetValue(ctx, productID, id, strings.TrimSpace(value)); err != nil {
			return nil, err
		}
	}
	return uc.ListForProduct(ctx, productID)
}

// RemoveFromProduct desvincula el atributo del producto.
func (uc *AttributeUseCase) RemoveFromProduct(ctx context.Context, productID, attributeID string) error {
	if err := uc.requireProduct(ctx, productID); err != nil {
		return err
	}
	return uc.repo.Unlink(ctx, productID, attributeID)
}

// WithValues atributos presentes en los productos de la categoría (carpeta = sus hojas) con sus valores.
func (uc *AttributeUseCase) WithValues(ctx context.Context, categoryID string) ([]dto.AttributeValuesResponse, error) {
	leaves, err := uc.categories.LeafIDs(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	out := []dto.AttributeValuesResponse{}
	if len(leaves) == 0 {
		return out, nil
	}
	list, err := uc.repo.ValuesForCategories(ctx, leaves)
	if err != nil {
		return nil, err
	}
	for _, av := range list {
		values := append([]string(nil), av.Values...)
		sort.Strings(values)
		out = append(out, dto.AttributeValuesResponse{ID: av.Attribute.ID, Name: av.Attribute.Name, Values: values})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
