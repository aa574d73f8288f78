package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout formato de fechas de calendario en la API.
const DateLayout = "2006-01-02"

// AddressRequest entrada de una dirección.
type AddressRequest struct {
	CountryID  int    `json:"country_id" validate:"required,min=1"`
	City       string `json:"city" validate:"required,min=1,max=35"`
	PostalCode string `json:"postal_code" validate:"required,min=1,max=16"`
	Street     string `json:"street" validate:"required,min=1,max=100"`
	House      string `json:"house" validate:"required,min=1,max=16"`
	Apartment  string `json:"apartment" validate:"omitempty,max=16"`
}

// SignupRequest registro de un cliente con su primera dirección.
type SignupRequest struct {
	FirstName   string         `json:"first_name" validate:"required,min=1,max=35"`
	LastName    string         `json:"last_name" validate:"required,min=1,max=35"`
	DateOfBirth string         `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Email       string         `json:"email" validate:"required,email,max=100"`
	Password    string         `json:"password" validate:"required,min=8,max=64"`
	Address     AddressRequest `json:"address" validate:"required"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UpdateDetailsRequest datos personales editables.
type UpdateDetailsRequest struct {
	FirstName   string `json:"first_name" validate:"required,min=1,max=35"`
	LastName    string `json:"last_name" validate:"required,min=1,max=35"`
	DateOfBirth string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
}

// ChangePasswordRequest cambio de contraseña verificando la actual.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=64"`
}

// AddressResponse dirección de un usuario.
type AddressResponse struct {
	ID          string `json:"id"`
	CountryID   int    `json:"country_id"`
	CountryName string `json:"country_name"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	Street      string `json:"street"`
	House       string `json:"house"`
	Apartment   string `json:"apartment,omitempty"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          string            `json:"id"`
	FirstName   string            `json:"first_name"`
	LastName    string            `json:"last_name"`
	DateOfBirth string            `json:"date_of_birth"`
	Email       string            `json:"email"`
	Roles       []string          `json:"roles"`
	Addresses   []AddressResponse `json:"addresses"`
	CreatedAt   time.Time         `json:"created_at"`
}

// UserSearchRequest búsqueda exacta por campos no vacíos; RoleID 0 = cualquier rol.
type UserSearchRequest struct {
	FirstName string `query:"first_name"`
	LastName  string `query:"last_name"`
	Email     string `query:"email"`
	RoleID    int    `query:"role_id" validate:"min=0"`
}

// ClientTotalResponse cliente del ranking con su total comprado.
type ClientTotalResponse struct {
	User  UserResponse    `json:"user"`
	Total decimal.Decimal `json:"total"`
}

// RoleResponse rol asignable.
type RoleResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CountryResponse país.
type CountryResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CompanyResponse datos públicos del vendedor.
type CompanyResponse struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Website     string `json:"website"`
	PhoneNumber string `json:"phone_number"`
	FaxNumber   string `json:"fax_number"`
	Country     string `json:"country"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	Street      string `json:"street"`
	House       string `json:"house"`
	Apartment   string `json:"apartment"`
}
