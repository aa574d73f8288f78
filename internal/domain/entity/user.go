package entity

import (
	"strings"
	"time"
)

// Roles del sistema. Un usuario puede acumular varios.
const (
	RoleClient  = "ROLE_CLIENT"
	RoleManager = "ROLE_MANAGER" // productos, pedidos, reportes, categorías
	RoleAdmin   = "ROLE_ADMIN"   // gestión de usuarios
)

// Role rol asignable (tabla paramétrica sembrada).
type Role struct {
	ID   int
	Name string
}

// User representa una cuenta de la tienda (cliente o personal).
type User struct {
	ID           string
	FirstName    string
	LastName     string
	DateOfBirth  time.Time
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Roles        []Role
	Addresses    []Address
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName nombre y apellido separados por espacio.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasRole indica si el usuario tiene el rol con ese nombre.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// RoleNames nombres de los roles en el orden almacenado.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// Address devuelve la dirección del usuario con ese ID o nil.
func (u *User) Address(id string) *Address {
	for i := range u.Addresses {
		if u.Addresses[i].ID == id {
			return &u.Addresses[i]
		}
	}
	return nil
}
