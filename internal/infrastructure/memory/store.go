// Package memory implementación en memoria de los puertos de persistencia.
// Segura para uso concurrente; pensada para tests y desarrollo local.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estore-api/internal/domain"
	"github.com/jhoicas/Estore-api/internal/domain/catalog"
	"github.com/jhoicas/Estore-api/internal/domain/entity"
	"github.com/jhoicas/Estore-api/internal/domain/repository"
)

// Store guarda todas las tablas en mapas protegidos por un único mutex.
// Los valores se copian al entrar y al salir para que los llamadores no compartan punteros.
type Store struct {
	mu           sync.RWMutex
	txMu         sync.Mutex
	users        map[string]*entity.User
	roles        []entity.Role
	countries    []entity.Country
	categories   map[string]*entity.Category
	measureUnits map[string]*entity.MeasureUnits
	products     map[string]*entity.Product
	attributes   map[string]*entity.Attribute
	productAttrs map[string][]entity.ProductAttribute
	orders       map[string]*entity.Order
	orderSeq     int64
	reservations map[string]*entity.Reservation
	carts        map[string]*entity.Cart
}

// New crea un store vacío con los tres roles del sistema.
func New() *Store {
	return &Store{
		users: make(map[string]*entity.User),
		roles: []entity.Role{
			{ID: 1, Name: entity.RoleClient},
			{ID: 2, Name: entity.RoleManager},
			{ID: 3, Name: entity.RoleAdmin},
		},
		categories:   make(map[string]*entity.Category),
		measureUnits: make(map[string]*entity.MeasureUnits),
		products:     make(map[string]*entity.Product),
		attributes:   make(map[string]*entity.Attribute),
		productAttrs: make(map[string][]entity.ProductAttribute),
		orders:       make(map[string]*entity.Order),
		reservations: make(map[string]*entity.Reservation),
		carts:        make(map[string]*entity.Cart),
	}
}

// AddCountry registra un país (tabla paramétrica).
func (s *Store) AddCountry(c entity.Country) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countries = append(s.countries, c)
}

// Repositorios de cada puerto sobre el mismo store.
func (s *Store) Users() *UserRepo                { return &UserRepo{s} }
func (s *Store) Roles() *RoleRepo                { return &RoleRepo{s} }
func (s *Store) Countries() *CountryRepo         { return &CountryRepo{s} }
func (s *Store) Categories() *CategoryRepo       { return &CategoryRepo{s} }
func (s *Store) MeasureUnits() *MeasureUnitsRepo { return &MeasureUnitsRepo{s} }
func (s *Store) Products() *ProductRepo          { return &ProductRepo{s} }
func (s *Store) Attributes() *AttributeRepo      { return &AttributeRepo{s} }
func (s *Store) Orders() *OrderRepo              { return &OrderRepo{s} }
func (s *Store) Reservations() *ReservationRepo  { return &ReservationRepo{s} }
func (s *Store) Carts() *CartRepo                { return &CartRepo{s} }
func (s *Store) TxRunner() *TxRunner             { return &TxRunner{s} }

var (
	_ repository.UserRepository         = (*UserRepo)(nil)
	_ repository.RoleRepository         = (*RoleRepo)(nil)
	_ repository.CountryRepository      = (*CountryRepo)(nil)
	_ repository.CategoryRepository     = (*CategoryRepo)(nil)
	_ repository.MeasureUnitsRepository = (*MeasureUnitsRepo)(nil)
	_ repository.ProductRepository      = (*ProductRepo)(nil)
	_ repository.AttributeRepository    = (*AttributeRepo)(nil)
	_ repository.OrderRepository        = (*OrderRepo)(nil)
	_ repository.ReservationRepository  = (*ReservationRepo)(nil)
	_ repository.CartRepository         = (*CartRepo)(nil)
)

// ── copias ──────────────────────────────────────────────────────────────────

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.Roles = append([]entity.Role(nil), u.Roles...)
	c.Addresses = append([]entity.Address(nil), u.Addresses...)
	return &c
}

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	c.PurchasingPrices = append([]entity.Price(nil), p.PurchasingPrices...)
	c.Attributes = append([]entity.ProductAttribute(nil), p.Attributes...)
	return &c
}

func cloneOrder(o *entity.Order) *entity.Order {
	c := *o
	c.Products = append([]entity.OrderProduct(nil), o.Products...)
	return &c
}

func cloneReservation(r *entity.Reservation) *entity.Reservation {
	c := *r
	c.Lines = append([]entity.CartLine(nil), r.Lines...)
	return &c
}

// ── usuarios ────────────────────────────────────────────────────────────────

type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.users[u.ID] = cloneUser(u)
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepo) UpdateDetails(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.users[u.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	stored.FirstName, stored.LastName, stored.DateOfBirth, stored.UpdatedAt = u.FirstName, u.LastName, u.DateOfBirth, u.UpdatedAt
	return nil
}

func (r *UserRepo) UpdatePassword(_ context.Context, userID, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	stored.PasswordHash = hash
	return nil
}

func (r *UserRepo) Search(_ context.Context, f repository.UserFilter) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.User
	for _, u := range r.s.users {
		if f.FirstName != "" && u.FirstName != f.FirstName ||
			f.LastName != "" && u.LastName != f.LastName ||
			f.Email != "" && u.Email != f.Email {
			continue
		}
		if f.RoleID != 0 && !hasRoleID(u, f.RoleID) {
			continue
		}
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func hasRoleID(u *entity.User, id int) bool {
	for _, role := range u.Roles {
		if role.ID == id {
			return true
		}
	}
	return false
}

func (r *UserRepo) AddRole(_ context.Context, userID string, roleID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	for _, role := range r.s.roles {
		if role.ID == roleID && !hasRoleID(u, roleID) {
			u.Roles = append(u.Roles, role)
		}
	}
	return nil
}

func (r *UserRepo) RemoveRole(_ context.Context, userID string, roleID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	kept := u.Roles[:0]
	for _, role := range u.Roles {
		if role.ID != roleID {
			kept = append(kept, role)
		}
	}
	u.Roles = kept
	return nil
}

func (r *UserRepo) AddAddress(_ context.Context, a *entity.Address) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[a.UserID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Addresses = append(u.Addresses, *a)
	return nil
}

func (r *UserRepo) UpdateAddress(_ context.Context, a *entity.Address) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[a.UserID]
	if !ok {
		return domain.ErrUserNotFound
	}
	for i := range u.Addresses {
		if u.Addresses[i].ID == a.ID {
			u.Addresses[i] = *a
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *UserRepo) DeleteAddress(_ context.Context, userID, addressID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	kept := u.Addresses[:0]
	for _, a := range u.Addresses {
		if a.ID != addressID {
			kept = append(kept, a)
		}
	}
	u.Addresses = kept
	return nil
}

func (r *UserRepo) TopClients(_ context.Context, limit int) ([]repository.ClientTotal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	totals := make(map[string]decimal.Decimal)
	for _, o := range r.s.orders {
		totals[o.UserID] = totals[o.UserID].Add(o.TotalSellingPrice)
	}
	out := make([]repository.ClientTotal, 0, len(totals))
	for id, total := range totals {
		u, ok := r.s.users[id]
		if !ok {
			continue
		}
		out = append(out, repository.ClientTotal{User: cloneUser(u), Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Total.GreaterThan(out[j].Total) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type RoleRepo struct{ s *Store }

func (r *RoleRepo) List(_ context.Context) ([]entity.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]entity.Role(nil), r.s.roles...), nil
}

func (r *RoleRepo) GetByID(_ context.Context, id int) (*entity.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, role := range r.s.roles {
		if role.ID == id {
			out := role
			return &out, nil
		}
	}
	return nil, nil
}

func (r *RoleRepo) GetByName(_ context.Context, name string) (*entity.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, role := range r.s.roles {
		if role.Name == name {
			out := role
			return &out, nil
		}
	}
	return nil, nil
}

type CountryRepo struct{ s *Store }

func (r *CountryRepo) List(_ context.Context) ([]entity.Country, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := append([]entity.Country(nil), r.s.countries...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CountryRepo) GetByID(_ context.Context, id int) (*entity.Country, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.countries {
		if c.ID == id {
			out := c
			return &out, nil
		}
	}
	return nil, nil
}

// ── catálogo ────────────────────────────────────────────────────────────────

type CategoryRepo struct{ s *Store }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *c
	stored.Children = nil
	r.s.categories[c.ID] = &stored
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (r *CategoryRepo) ListAll(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CategoryRepo) Rename(_ context.Context, id, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Name = name
	return nil
}

func (r *CategoryRepo) DeleteMany(_ context.Context, ids []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		delete(r.s.categories, id)
	}
	return nil
}

type MeasureUnitsRepo struct{ s *Store }

func (r *MeasureUnitsRepo) Create(_ context.Context, mu *entity.MeasureUnits) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.measureUnits {
		if existing.Name == mu.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *mu
	r.s.measureUnits[mu.ID] = &cp
	return nil
}

func (r *MeasureUnitsRepo) GetByID(_ context.Context, id string) (*entity.MeasureUnits, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	mu, ok := r.s.measureUnits[id]
	if !ok {
		return nil, nil
	}
	cp := *mu
	return &cp, nil
}

func (r *MeasureUnitsRepo) List(_ context.Context) ([]*entity.MeasureUnits, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.MeasureUnits, 0, len(r.s.measureUnits))
	for _, mu := range r.s.measureUnits {
		cp := *mu
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MeasureUnitsRepo) Update(_ context.Context, mu *entity.MeasureUnits) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.measureUnits[mu.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *mu
	r.s.measureUnits[mu.ID] = &cp
	return nil
}

func (r *MeasureUnitsRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.measureUnits, id)
	return nil
}

type ProductRepo struct{ s *Store }

// withAttrs copia el producto con sus atributos actuales. Requiere el lock tomado.
func (r *ProductRepo) withAttrs(p *entity.Product) *entity.Product {
	out := cloneProduct(p)
	out.Attributes = append([]entity.ProductAttribute(nil), r.s.productAttrs[p.ID]...)
	return out
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.products[p.ID] = cloneProduct(p)
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return r.withAttrs(p), nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.products[p.ID] = cloneProduct(p)
	return nil
}

func (r *ProductRepo) list(keep func(*entity.Product) bool) []*entity.Product {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Product
	for _, p := range r.s.products {
		if keep(p) {
			out = append(out, r.withAttrs(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *ProductRepo) ListAll(_ context.Context) ([]*entity.Product, error) {
	out := r.list(func(*entity.Product) bool { return true })
	sort.SliceStable(out, func(i, j int) bool { return out[i].QuantityInStock > out[j].QuantityInStock })
	return out, nil
}

func inSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func (r *ProductRepo) ListByCategories(_ context.Context, categoryIDs []string) ([]*entity.Product, error) {
	set := inSet(categoryIDs)
	return r.list(func(p *entity.Product) bool { return set[p.CategoryID] }), nil
}

func (r *ProductRepo) SearchByName(_ context.Context, name string, categoryIDs []string) ([]*entity.Product, error) {
	set := inSet(categoryIDs)
	return r.list(func(p *entity.Product) bool {
		if len(set) > 0 && !set[p.CategoryID] {
			return false
		}
		return catalog.ContainsFold(p.Name, name)
	}), nil
}

func (r *ProductRepo) TopSelling(ctx context.Context, limit int) ([]*entity.Product, error) {
	all, _ := r.ListAll(ctx)
	return catalog.TopSelling(all, limit), nil
}

func (r *ProductRepo) CountByCategories(_ context.Context, categoryIDs []string) (int, error) {
	set := inSet(categoryIDs)
	return len(r.list(func(p *entity.Product) bool { return set[p.CategoryID] })), nil
}

func (r *ProductRepo) CountByMeasureUnits(_ context.Context, id string) (int, error) {
	return len(r.list(func(p *entity.Product) bool { return p.MeasureUnitsID == id })), nil
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) UpdateStock(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.QuantityInStock, stored.QuantityReserved, stored.SaleCount = p.QuantityInStock, p.QuantityReserved, p.SaleCount
	return nil
}

type AttributeRepo struct{ s *Store }

func (r *AttributeRepo) GetByName(_ context.Context, name string) (*entity.Attribute, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.attributes {
		if strings.EqualFold(a.Name, name) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *AttributeRepo) Create(_ context.Context, a *entity.Attribute) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *a
	r.s.attributes[a.ID] = &cp
	return nil
}

func (r *AttributeRepo) ListForProduct(_ context.Context, productID string) ([]entity.ProductAttribute, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := append([]entity.ProductAttribute(nil), r.s.productAttrs[productID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *AttributeRepo) Link(_ context.Context, productID, attributeID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.attributes[attributeID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, pa := range r.s.productAttrs[productID] {
		if pa.AttributeID == attributeID {
			return nil
		}
	}
	r.s.productAttrs[productID] = append(r.s.productAttrs[productID], entity.ProductAttribute{
		ProductID: productID, AttributeID: attributeID, Name: a.Name,
	})
	return nil
}

func (r *AttributeRepo) SetValue(_ context.Context, productID, attributeID, value string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := r.s.productAttrs[productID]
	for i := range list {
		if list[i].AttributeID == attributeID {
			list[i].Value = value
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *AttributeRepo) Unlink(_ context.Context, productID, attributeID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := r.s.productAttrs[productID]
	kept := list[:0]
	for _, pa := range list {
		if pa.AttributeID != attributeID {
			kept = append(kept, pa)
		}
	}
	r.s.productAttrs[productID] = kept
	return nil
}

func (r *AttributeRepo) ValuesForCategories(_ context.Context, categoryIDs []string) ([]entity.AttributeValues, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	set := inSet(categoryIDs)
	values := make(map[string]map[string]bool)
	for id, p := range r.s.products {
		if !set[p.CategoryID] {
			continue
		}
		for _, pa := range r.s.productAttrs[id] {
			if values[pa.AttributeID] == nil {
				values[pa.AttributeID] = make(map[string]bool)
			}
			if pa.Value != "" {
				values[pa.AttributeID][pa.Value] = true
			}
		}
	}
	out := make([]entity.AttributeValues, 0, len(values))
	for attrID, vs := range values {
		av := entity.AttributeValues{Attribute: *r.s.attributes[attrID]}
		for v := range vs {
			av.Values = append(av.Values, v)
		}
		out = append(out, av)
	}
	return out, nil
}

// ── pedidos, reservas y carritos ────────────────────────────────────────────

type OrderRepo struct{ s *Store }

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orderSeq++
	o.Number = r.s.orderSeq
	r.s.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

func (r *OrderRepo) filter(keep func(*entity.Order) bool) []*entity.Order {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Order
	for _, o := range r.s.orders {
		if keep(o) {
			out = append(out, cloneOrder(o))
		}
	}
	return out
}

func (r *OrderRepo) ListByUser(_ context.Context, userID string) ([]*entity.Order, error) {
	out := r.filter(func(o *entity.Order) bool { return o.UserID == userID })
	sort.Slice(out, func(i, j int) bool { return out[i].Number > out[j].Number })
	return out, nil
}

func (r *OrderRepo) Search(_ context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	out := r.filter(func(o *entity.Order) bool {
		switch {
		case f.OrderNumber != 0 && o.Number != f.OrderNumber,
			o.CreatedAt.Before(f.From) || !o.CreatedAt.Before(f.To),
			f.UserEmail != "" && o.UserEmail != f.UserEmail,
			f.MinPrice != nil && o.TotalSellingPrice.LessThan(*f.MinPrice),
			f.MaxPrice != nil && o.TotalSellingPrice.GreaterThan(*f.MaxPrice),
			f.Status != "" && o.Status != f.Status:
			return false
		}
		return true
	})
	less := func(a, b *entity.Order) bool {
		switch f.SortBy {
		case repository.OrderSortDate:
			return a.CreatedAt.Before(b.CreatedAt)
		case repository.OrderSortEmail:
			return a.UserEmail < b.UserEmail
		case repository.OrderSortPrice:
			return a.TotalSellingPrice.LessThan(b.TotalSellingPrice)
		}
		return a.Number < b.Number
	}
	sort.SliceStable(out, func(i, j int) bool {
		if f.Descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out, nil
}

func (r *OrderRepo) UpdateStatus(_ context.Context, id string, status entity.OrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	return nil
}

func (r *OrderRepo) ListCreatedBetween(_ context.Context, from, to time.Time) ([]*entity.Order, error) {
	return r.filter(func(o *entity.Order) bool {
		return !o.CreatedAt.Before(from) && o.CreatedAt.Before(to)
	}), nil
}

type ReservationRepo struct{ s *Store }

func (r *ReservationRepo) Create(_ context.Context, res *entity.Reservation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.reservations[res.ID] = cloneReservation(res)
	return nil
}

func (r *ReservationRepo) GetActiveByUser(_ context.Context, userID string) (*entity.Reservation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, res := range r.s.reservations {
		if res.UserID == userID && res.Status == entity.ReservationActive {
			return cloneReservation(res), nil
		}
	}
	return nil, nil
}

// GetForUpdate devuelve la reserva por id; el bloqueo lo da TxRunner.
func (r *ReservationRepo) GetForUpdate(_ context.Context, id string) (*entity.Reservation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	res, ok := r.s.reservations[id]
	if !ok {
		return nil, nil
	}
	return cloneReservation(res), nil
}

// UpdateStatus cierra una reserva activa. Una reserva ya cerrada devuelve ErrNoReservation.
func (r *ReservationRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.reservations[id]
	if !ok || res.Status != entity.ReservationActive {
		return domain.ErrNoReservation
	}
	res.Status = status
	return nil
}

func (r *ReservationRepo) ListExpired(_ context.Context, now time.Time) ([]*entity.Reservation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Reservation
	for _, res := range r.s.reservations {
		if res.Status == entity.ReservationActive && res.IsExpired(now) {
			out = append(out, cloneReservation(res))
		}
	}
	return out, nil
}

type CartRepo struct{ s *Store }

func (r *CartRepo) Get(_ context.Context, userID string) (*entity.Cart, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.carts[userID]
	if !ok {
		return nil, nil
	}
	return &entity.Cart{UserID: c.UserID, Lines: append([]entity.CartLine(nil), c.Lines...)}, nil
}

func (r *CartRepo) Save(_ context.Context, c *entity.Cart) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.carts[c.UserID] = &entity.Cart{UserID: c.UserID, Lines: append([]entity.CartLine(nil), c.Lines...)}
	return nil
}

func (r *CartRepo) Delete(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.carts, userID)
	return nil
}
