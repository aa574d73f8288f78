package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Estore-api/internal/domain"
	"github.com/jhoicas/Estore-api/internal/domain/entity"
	"github.com/jhoicas/Estore-api/internal/domain/repository"
)

var (
	_ repository.OrderRepository       = (*OrderRepo)(nil)
	_ repository.ReservationRepository = (*ReservationRepo)(nil)
)

// OrderRepo implementación de OrderRepository (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `o.id, o.number, o.created_at, o.payment_method, o.payment_status, o.shipping_method, o.status,
	o.total_selling_price, o.total_purchasing_price, o.user_id, o.user_email, o.address_id, o.shipping_address`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var addressID, shipping *string
	err := row.Scan(
		&o.ID, &o.Number, &o.CreatedAt, &o.PaymentMethod, &o.PaymentStatus, &o.ShippingMethod, &o.Status,
		&o.TotalSellingPrice, &o.TotalPurchasingPrice, &o.UserID, &o.UserEmail, &addressID, &shipping,
	)
	if err != nil {
		return nil, err
	}
	o.AddressID = stringOrEmpty(addressID)
	o.ShippingAddress = stringOrEmpty(shipping)
	return &o, nil
}

// Create persiste cabecera y líneas. El número correlativo lo asigna la secuencia de la tabla.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO orders (id, created_at, payment_method, payment_status, shipping_method, status,
		                    total_selling_price, total_purchasing_price, user_id, user_email, address_id, shipping_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING number`,
		order.ID, order.CreatedAt, order.PaymentMethod, order.PaymentStatus, order.ShippingMethod, order.Status,
		order.TotalSellingPrice, order.TotalPurchasingPrice, order.UserID, order.UserEmail,
		nullIfEmpty(order.AddressID), nullIfEmpty(order.ShippingAddress),
	).Scan(&order.Number)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	for _, l := range order.Products {
		_, err := r.q.Exec(ctx, `
			INSERT INTO order_products (order_id, product_id, product_name, quantity, selling_price, purchasing_price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			order.ID, l.ProductID, l.ProductName, l.Quantity, l.SellingPrice, l.PurchasingPrice,
		)
		if err != nil {
			return fmt.Errorf("insert order product: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el pedido con sus líneas.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.loadLines(ctx, []*entity.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Order, error) {
	list, err := r.list(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.user_id = $1 ORDER BY o.number DESC`, userID)
	if err != nil {
		return nil, err
	}
	return list, r.loadLines(ctx, list)
}

var orderSortColumns = map[string]string{
	repository.OrderSortID:    "o.number",
	repository.OrderSortDate:  "o.created_at",
	repository.OrderSortEmail: "o.user_email",
	repository.OrderSortPrice: "o.total_selling_price",
}

// Search aplica los criterios ya normalizados; la columna de orden sale de una lista cerrada.
func (r *OrderRepo) Search(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	args := []any{f.From, f.To}
	where := []string{"o.created_at >= $1", "o.created_at < $2"}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.OrderNumber != 0 {
		add("o.number = $%d", f.OrderNumber)
	}
	if f.UserEmail != "" {
		add("o.user_email = $%d", f.UserEmail)
	}
	if f.MinPrice != nil {
		add("o.total_selling_price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("o.total_selling_price <= $%d", *f.MaxPrice)
	}
	if f.Status != "" {
		add("o.status = $%d", f.Status)
	}
	column, ok := orderSortColumns[f.SortBy]
	if !ok {
		column = "o.number"
	}
	direction := "ASC"
	if f.Descending {
		direction = "DESC"
	}
	query := fmt.Sprintf(`SELECT %s FROM orders o WHERE %s ORDER BY %s %s, o.number %s`,
		orderColumns, strings.Join(where, " AND "), column, direction, direction)

	list, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return list, r.loadLines(ctx, list)
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error {
	cmd, err := r.q.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListCreatedBetween cabeceras en [from, to) para los reportes de ganancia.
func (r *OrderRepo) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*entity.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders o
		WHERE o.created_at >= $1 AND o.created_at < $2 ORDER BY o.created_at`, from, to)
}

func (r *OrderRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func (r *OrderRepo) loadLines(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT order_id, product_id, product_name, quantity, selling_price, purchasing_price
		FROM order_products WHERE order_id = ANY($1) ORDER BY product_name`, ids)
	if err != nil {
		return fmt.Errorf("list order products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var orderID string
		var l entity.OrderProduct
		if err := rows.Scan(&orderID, &l.ProductID, &l.ProductName, &l.Quantity, &l.SellingPrice, &l.PurchasingPrice); err != nil {
			return fmt.Errorf("scan order product: %w", err)
		}
		o := byID[orderID]
		o.Products = append(o.Products, l)
	}
	return rows.Err()
}

// ReservationRepo reservas de stock; las líneas se guardan como JSONB.
type ReservationRepo struct {
	q Querier
}

// NewReservationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

const reservationColumns = `id, user_id, lines, status, created_at, expires_at`

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var res entity.Reservation
	if err := row.Scan(&res.ID, &res.UserID, &res.Lines, &res.Status, &res.CreatedAt, &res.ExpiresAt); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ReservationRepo) Create(ctx context.Context, res *entity.Reservation) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO reservations (`+reservationColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		res.ID, res.UserID, res.Lines, res.Status, res.CreatedAt, res.ExpiresAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el usuario ya tiene una reserva activa", domain.ErrConflict)
		}
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepo) GetActiveByUser(ctx context.Context, userID string) (*entity.Reservation, error) {
	res, err := scanReservation(r.q.QueryRow(ctx, `
		SELECT `+reservationColumns+` FROM reservations WHERE user_id = $1 AND status = $2`,
		userID, entity.ReservationActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active reservation: %w", err)
	}
	return res, nil
}

func (r *ReservationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Reservation, error) {
	res, err := scanReservation(r.q.QueryRow(ctx, `
		SELECT `+reservationColumns+` FROM reservations WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock reservation: %w", err)
	}
	return res, nil
}

func (r *ReservationRepo) UpdateStatus(ctx context.Context, id, status string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE reservations SET status = $2 WHERE id = $1 AND status = $3`,
		id, status, entity.ReservationActive)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNoReservation
	}
	return nil
}

func (r *ReservationRepo) ListExpired(ctx context.Context, now time.Time) ([]*entity.Reservation, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+reservationColumns+` FROM reservations
		WHERE status = $1 AND expires_at <= $2 ORDER BY expires_at`, entity.ReservationActive, now)
	if err != nil {
		return nil, fmt.Errorf("list expired reservations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		list = append(list, res)
	}
	return list, rows.Err()
}
