package usecase

import (
	"github.com/jhoicas/Estore-api/internal/application/dto"
	"github.com/jhoicas/Estore-api/internal/domain/entity"
)

// CompanyUseCase datos del vendedor, cargados de configuración al arrancar.
type CompanyUseCase struct {
	info entity.CompanyInfo
}

// NewCompanyUseCase construye el caso de uso.
func NewCompanyUseCase(info entity.CompanyInfo) *CompanyUseCase {
	return &CompanyUseCase{info: info}
}

// Info devuelve la ficha pública del vendedor.
func (uc *CompanyUseCase) Info() dto.CompanyResponse {
	return dto.CompanyResponse(uc.info)
}
