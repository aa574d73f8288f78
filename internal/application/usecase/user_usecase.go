package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Estore-api/internal/application/dto"
	"github.com/jhoicas/Estore-api/internal/domain"
	"github.com/jhoicas/Estore-api/internal/domain/entity"
	"github.com/jhoicas/Estore-api/internal/domain/repository"
)

// UserUseCase cuenta del usuario autenticado y administración de usuarios.
type UserUseCase struct {
	repo        repository.UserRepository
	roleRepo    repository.RoleRepository
	countryRepo repository.CountryRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(repo repository.UserRepository, roleRepo repository.RoleRepository, countryRepo repository.CountryRepository) *UserUseCase {
	return &UserUseCase{repo: repo, roleRepo: roleRepo, countryRepo: countryRepo}
}

func (uc *UserUseCase) load(ctx context.Context, userID string) (*entity.User, error) {
	u, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

// Me datos del usuario autenticado.
func (uc *UserUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	u, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.ToUserResponse(u), nil
}

// UpdateDetails nombre, apellido y fecha de nacimiento.
func (uc *UserUseCase) UpdateDetails(ctx context.Context, userID string, in dto.UpdateDetailsRequest) (*dto.UserResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	u, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	dob, err := time.Parse(dto.DateLayout, in.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("%w: date_of_birth", domain.ErrInvalidInput)
	}
	u.FirstName = strings.TrimSpace(in.FirstName)
	u.LastName = strings.TrimSpace(in.LastName)
	u.DateOfBirth = dob
	u.UpdatedAt = time.Now()
	if err := uc.repo.UpdateDetails(ctx, u); err != nil {
		return nil, err
	}
	return dto.ToUserResponse(u), nil
}

// ChangePassword exige la contraseña actual.
func (uc *UserUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	if err := dto.Validate(in); err != nil {
		return err
	}
	u, err := uc.load(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.OldPassword)); err != nil {
		return domain.ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return uc.repo.UpdatePassword(ctx, userID, string(hash))
}

func (uc *UserUseCase) addressFrom(ctx context.Context, userID string, in dto.AddressRequest) (*entity.Address, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	country, err := uc.countryRepo.GetByID(ctx, in.CountryID)
	if err != nil {
		return nil, err
	}
	if country == nil {
		return nil, fmt.Errorf("%w: país %d", domain.ErrNotFound, in.CountryID)
	}
	return &entity.Address{
		UserID:      userID,
		CountryID:   country.ID,
		CountryName: country.Name,
		City:        strings.TrimSpace(in.City),
		PostalCode:  strings.TrimSpace(in.PostalCode),
		Street:      strings.TrimSpace(in.Street),
		House:       strings.TrimSpace(in.House),
		Apartment:   strings.TrimSpace(in.Apartment),
	}, nil
}

// AddAddress agrega una dirección al usuario.
func (uc *UserUseCase) AddAddress(ctx context.Context, userID string, in dto.AddressRequest) (*dto.AddressResponse, error) {
	if _, err := uc.load(ctx, userID); err != nil {
		return nil, err
	}
	a, err := uc.addressFrom(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	a.ID = uuid.New().String()
	if err := uc.repo.AddAddress(ctx, a); err != nil {
		return nil, err
	}
	out := dto.ToAddressResponse(*a)
	return &out, nil
}

// UpdateAddress modifica una dirección que debe pertenecer al usuario.
func (uc *UserUseCase) UpdateAddress(ctx context.Context, userID, addressID string, in dto.AddressRequest) (*dto.AddressResponse, error) {
	u, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Address(addressID) == nil {
		return nil, fmt.Errorf("%w: dirección %s", domain.ErrNotFound, addressID)
	}
	a, err := uc.addressFrom(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	a.ID = addressID
	if err := uc.repo.UpdateAddress(ctx, a); err != nil {
		return nil, err
	}
	out := dto.ToAddressResponse(*a)
	return &out, nil
}

// RemoveAddress elimina una dirección del usuario.
func (uc *UserUseCase) RemoveAddress(ctx context.Context, userID, addressID string) error {
	u, err := uc.load(ctx, userID)
	if err != nil {
		return err
	}
	if u.Address(addressID) == nil {
		return fmt.Errorf("%w: dirección %s", domain.ErrNotFound, addressID)
	}
	return uc.repo.DeleteAddress(ctx, userID, addressID)
}

// Search búsqueda exacta por los campos informados.
func (uc *UserUseCase) Search(ctx context.Context, in dto.UserSearchRequest) ([]dto.UserResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	list, err := uc.repo.Search(ctx, repository.UserFilter{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		RoleID:    in.RoleID,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *dto.ToUserResponse(u))
	}
	return out, nil
}

// UpdateRole otorga o revoca un rol. Es idempotente.
func (uc *UserUseCase) UpdateRole(ctx context.Context, userID string, roleID int, grant bool) (*dto.UserResponse, error) {
	u, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	role, err := uc.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, fmt.Errorf("%w: rol %d", domain.ErrNotFound, roleID)
	}
	switch {
	case grant && !u.HasRole(role.Name):
		if err := uc.repo.AddRole(ctx, userID, role.ID); err != nil {
			return nil, err
		}
	case !grant && u.HasRole(role.Name):
		if err := uc.repo.RemoveRole(ctx, userID, role.ID); err != nil {
			return nil, err
		}
	}
	return uc.Me(ctx, userID)
}

// TopClients clientes con mayor total comprado; los que no compraron no entran.
func (uc *UserUseCase) TopClients(ctx context.Context, limit int) ([]dto.ClientTotalResponse, error) {
	list, err := uc.repo.TopClients(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClientTotalResponse, 0, len(list))
	for _, c := range list {
		if !c.Total.IsPositive() {
			continue
		}
		out = append(out, dto.ClientTotalResponse{User: *dto.ToUserResponse(c.User), Total: entity.RoundMoney(c.Total)})
	}
	return out, nil
}

// ListCountries países para formularios de dirección.
func (uc *UserUseCase) ListCountries(ctx context.Context) ([]dto.CountryResponse, error) {
	list, err := uc.countryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CountryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CountryResponse{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

// ListRoles roles asignables.
func (uc *UserUseCase) ListRoles(ctx context.Context) ([]dto.RoleResponse, error) {
	list, err := uc.roleRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RoleResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.RoleResponse{ID: r.ID, Name: r.Name})
	}
	return out, nil
}
