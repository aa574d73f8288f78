package entity

import (
	"fmt"
	"strings"
)

// Country país de la tabla paramétrica.
type Country struct {
	ID   int
	Name string
}

// Address dirección de envío de un usuario.
type Address struct {
	ID          string
	UserID      string
	CountryID   int
	CountryName string
	City        string
	PostalCode  string
	Street      string
	House       string
	Apartment   string
}

// String formato de una línea usado en factura y listados.
func (a Address) String() string {
	parts := []string{}
	street := strings.TrimSpace(a.Street + " " + a.House)
	if a.Apartment != "" {
		street = fmt.Sprintf("%s, apt. %s", street, a.Apartment)
	}
	for _, p := range []string{street, a.City, a.PostalCode, a.CountryName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
