package entity

import "time"

// CartLine producto y cantidad en el carrito.
type CartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Cart carrito de un usuario. Se guarda fuera de la base relacional.
type Cart struct {
	UserID string     `json:"user_id"`
	Lines  []CartLine `json:"lines"`
}

// Add suma qty a la línea del producto o crea una nueva.
func (c *Cart) Add(productID string, qty int) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity += qty
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{ProductID: productID, Quantity: qty})
}

// Set fija la cantidad de un producto; qty <= 0 lo quita.
func (c *Cart) Set(productID string, qty int) {
	if qty <= 0 {
		c.Remove(productID)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity = qty
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{ProductID: productID, Quantity: qty})
}

// Remove quita la línea del producto si existe.
func (c *Cart) Remove(productID string) {
	out := c.Lines[:0]
	for _, l := range c.Lines {
		if l.ProductID != productID {
			out = append(out, l)
		}
	}
	c.Lines = out
}

// IsEmpty indica si no hay líneas.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Estados de una reserva de stock.
const (
	ReservationActive    = "active"
	ReservationCompleted = "completed"
	ReservationCancelled = "cancelled"
	ReservationExpired   = "expired"
)

// Reservation stock apartado para el checkout de un carrito durante un tiempo limitado.
type Reservation struct {
	ID        string
	UserID    string
	Lines     []CartLine
	Status    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired indica si la reserva ya venció en el instante now.
func (r *Reservation) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// SecondsLeft segundos restantes (0 si venció).
func (r *Reservation) SecondsLeft(now time.Time) int {
	if r.IsExpired(now) {
		return 0
	}
	return int(r.ExpiresAt.Sub(now).Seconds())
}
