package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estore-api/internal/domain/entity"
)

// UserFilter criterios de búsqueda de usuarios. Campos vacíos no filtran; RoleID 0 = cualquier rol.
type UserFilter struct {
	FirstName string
	LastName  string
	Email     string
	RoleID    int
}

// ClientTotal cliente con la suma de sus pedidos.
type ClientTotal struct {
	User  *entity.User
	Total decimal.Decimal
}

// UserRepository define el puerto de persistencia para User (DIP).
// Los métodos Get devuelven (nil, nil) si no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateDetails(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	Search(ctx context.Context, filter UserFilter) ([]*entity.User, error)

	AddRole(ctx context.Context, userID string, roleID int) error
	RemoveRole(ctx context.Context, userID string, roleID int) error

	AddAddress(ctx context.Context, address *entity.Address) error
	UpdateAddress(ctx context.Context, address *entity.Address) error
	DeleteAddress(ctx context.Context, userID, addressID string) error

	// TopClients usuarios ordenados por la suma de precio de venta de sus pedidos.
	TopClients(ctx context.Context, limit int) ([]ClientTotal, error)
}

// RoleRepository tabla paramétrica de roles.
type RoleRepository interface {
	List(ctx context.Context) ([]entity.Role, error)
	GetByID(ctx context.Context, id int) (*entity.Role, error)
	GetByName(ctx context.Context, name string) (*entity.Role, error)
}

// CountryRepository tabla paramétrica de países.
type CountryRepository interface {
	List(ctx context.Context) ([]entity.Country, error)
	GetByID(ctx context.Context, id int) (*entity.Country, error)
}
