package auth

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
	"github.com/jhoicas/Estore-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	roleRepo    repository.RoleRepository
	countryRepo repository.CountryRepository
	jwtCfg      JWTConfig
	now         func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, roleRepo repository.RoleRepository, countryRepo repository.CountryRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, roleRepo: roleRepo, countryRepo: countryRepo, jwtCfg: jwtCfg, now: time.Now}
}

// Signup registra un cliente con rol ROLE_CLIENT y su primera dirección.
// Devuelve ErrEmailAlreadyExists si el email ya está registrado.
func (uc *AuthUseCase) Signup(ctx context.Context, in dto.SignupRequest) (*dto.UserResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	dob, err := time.Parse(dto.DateLayout, in.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("%w: date_of_birth", domain.ErrInvalidInput)
	}
	country, err := uc.countryRepo.GetByID(ctx, in.Address.CountryID)
	if err != nil {
		return nil, err
	}
	if country == nil {
		return nil, fmt.Errorf("%w: país %d", domain.ErrNotFound, in.Address.CountryID)
	}
	role, err := uc.roleRepo.GetByName(ctx, entity.RoleClient)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, fmt.Errorf("rol %s no configurado", entity.RoleClient)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	userID := uuid.New().String()
	user := &entity.User{
		ID:           userID,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		DateOfBirth:  dob,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        []entity.Role{*role},
		Addresses: []entity.Address{{
			ID:          uuid.New().String(),
			UserID:      userID,
			CountryID:   country.ID,
			CountryName: country.Name,
			City:        in.Address.City,
			PostalCode:  in.Address.PostalCode,
			Street:      in.Address.Street,
			House:       in.Address.House,
			Apartment:   in.Address.Apartment,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return dto.ToUserResponse(user), nil
}

// Login verifica email/password, genera JWT con los roles y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, user.RoleNames(), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *dto.ToUserResponse(user),
	}, nil
}
