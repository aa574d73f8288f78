package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Estore-api/internal/application/dto"
	"github.com/jhoicas/Estore-api/internal/application/ports"
	"github.com/jhoicas/Estore-api/internal/domain"
	"github.com/jhoicas/Estore-api/internal/domain/catalog"
	"github.com/jhoicas/Estore-api/internal/domain/entity"
	"github.com/jhoicas/Estore-api/internal/domain/repository"
)

// ProductUseCase alta, edición, consulta y búsqueda de productos.
// El stock reservado y el contador de ventas solo cambian vía checkout.
type ProductUseCase struct {
	repo       repository.ProductRepository
	categories *CategoryUseCase
	muRepo     repository.MeasureUnitsRepository
	topLength  int
	tx         ports.TxRunner
	now        func() time.Time
}

// NewProductUseCase construye el caso de uso. topLength es el tamaño del ranking de más vendidos.
func NewProductUseCase(repo repository.ProductRepository, categories *CategoryUseCase, muRepo repository.MeasureUnitsRepository, topLength int) *ProductUseCase {
	if topLength <= 0 {
		topLength = 10
	}
	return &ProductUseCase{repo: repo, categories: categories, muRepo: muRepo, topLength: topLength, now: time.Now}
}

// WithTx hace que Create y Update escriban el producto y su historial de precios en una sola transacción.
func (uc *ProductUseCase) WithTx(tx ports.TxRunner) *ProductUseCase {
	uc.tx = tx
	return uc
}

// inTx ejecuta fn con el repositorio de la transacción, o con el propio si no hay TxRunner.
func (uc *ProductUseCase) inTx(ctx context.Context, fn func(repo repository.ProductRepository) error) error {
	if uc.tx == nil {
		return fn(uc.repo)
	}
	return uc.tx.Run(ctx, func(productRepo repository.ProductRepository, _ repository.OrderRepository, _ repository.ReservationRepository) error {
		return fn(productRepo)
	})
}

// checkReferences valida que la categoría exista y sea hoja y que la unidad de medida exista.
func (uc *ProductUseCase) checkReferences(ctx context.Context, categoryID, measureUnitsID string) error {
	c, err := uc.categories.repo.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, categoryID)
	}
	if !c.IsLeaf() {
		return domain.ErrCategoryNotLeaf
	}
	mu, err := uc.muRepo.GetByID(ctx, measureUnitsID)
	if err != nil {
		return err
	}
	if mu == nil {
		return fmt.Errorf("%w: unidad de medida %s", domain.ErrNotFound, measureUnitsID)
	}
	return nil
}

// applyRequest copia los campos editables; el precio de compra se agrega al historial solo si cambió.
func applyRequest(p *entity.Product, in dto.ProductRequest, now time.Time) {
	p.Name = strings.TrimSpace(in.Name)
	p.SellingPrice = entity.RoundMoney(in.SellingPrice)
	p.AddPurchasingPrice(in.PurchasingPrice, now)
	p.CategoryID = in.CategoryID
	p.MeasureUnitsID = in.MeasureUnitsID
	p.Weight = in.Weight
	p.Height = in.Height
	p.Width = in.Width
	p.Depth = in.Depth
	p.QuantityInStock = in.QuantityInStock
	if in.ImageURL != "" {
		p.ImageURL = in.ImageURL
	}
	p.UpdatedAt = now
}

// Create crea un producto con historial de un precio y sin ventas.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.ProductRequest) (*dto.ProductResponse, error) {
	var p *entity.Product
	err := uc.inTx(ctx, func(repo repository.ProductRepository) error {
		var err error
		p, err = uc.create(ctx, repo, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto.ToProductResponse(p), nil
}

func (uc *ProductUseCase) create(ctx context.Context, repo repository.ProductRepository, in dto.ProductRequest) (*entity.Product, error) {
	if err := in.Check(); err != nil {
		return nil, err
	}
	if err := uc.checkReferences(ctx, in.CategoryID, in.MeasureUnitsID); err != nil {
		return nil, err
	}
	now := uc.now()
	p := &entity.Product{ID: uuid.New().String(), CreatedAt: now}
	applyRequest(p, in, now)
	if err := repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update actualiza un producto. Una imagen vacía conserva la actual.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	var p *entity.Product
	err := uc.inTx(ctx, func(repo repository.ProductRepository) error {
		var err error
		p, err = uc.update(ctx, repo, id, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto.ToProductResponse(p), nil
}

func (uc *ProductUseCase) update(ctx context.Context, repo repository.ProductRepository, id string, in dto.ProductRequest) (*entity.Product, error) {
	if err := in.Check(); err != nil {
		return nil, err
	}
	// bloquea la fila: el stock no puede cambiar entre la lectura y la escritura
	p, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	if err := uc.checkReferences(ctx, in.CategoryID, in.MeasureUnitsID); err != nil {
		return nil, err
	}
	applyRequest(p, in, uc.now())
	if err := repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID obtiene un producto con historial de precios y atributos.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToProductResponse(p), nil
}

// ListAll todos los productos, mayor stock primero.
func (uc *ProductUseCase) ListAll(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ToProductResponses(list), nil
}

// ListByCategory productos de una categoría; una carpeta incluye todas sus hojas.
func (uc *ProductUseCase) ListByCategory(ctx context.Context, categoryID string) ([]dto.ProductResponse, error) {
	leaves, err := uc.categories.LeafIDs(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if len(leaves) == 0 {
		return []dto.ProductResponse{}, nil
	}
	list, err := uc.repo.ListByCategories(ctx, leaves)
	if err != nil {
		return nil, err
	}
	return dto.ToProductResponses(list), nil
}

// Search nombre parcial sin distinguir mayúsculas, categoría opcional y filtros de atributos.
func (uc *ProductUseCase) Search(ctx context.Context, in dto.ProductSearchRequest) ([]dto.ProductResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var leaves []string
	if in.CategoryID != "" {
		ids, err := uc.categories.LeafIDs(ctx, in.CategoryID)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []dto.ProductResponse{}, nil
		}
		leaves = ids
	}
	list, err := uc.repo.SearchByName(ctx, strings.TrimSpace(in.Name), leaves)
	if err != nil {
		return nil, err
	}
	return dto.ToProductResponses(catalog.FilterByAttributes(list, in.Attributes)), nil
}

// TopSelling ranking de más vendidos; sin ventas no entran.
func (uc *ProductUseCase) TopSelling(ctx context.Context) ([]*entity.Product, error) {
	list, err := uc.repo.TopSelling(ctx, uc.topLength)
	if err != nil {
		return nil, err
	}
	return catalog.TopSelling(list, uc.topLength), nil
}
