package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Estore-api/internal/domain"
	"github.com/jhoicas/Estore-api/internal/domain/entity"
	"github.com/jhoicas/Estore-api/internal/domain/repository"
)

var (
	_ repository.UserRepository    = (*UserRepo)(nil)
	_ repository.RoleRepository    = (*RoleRepo)(nil)
	_ repository.CountryRepository = (*CountryRepo)(nil)
)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, first_name, last_name, date_of_birth, email, password_hash, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.DateOfBirth, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create persiste el usuario con sus roles y direcciones iniciales.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.FirstName, user.LastName, user.DateOfBirth, user.Email, user.PasswordHash,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	for _, role := range user.Roles {
		if err := r.AddRole(ctx, user.ID, role.ID); err != nil {
			return err
		}
	}
	for i := range user.Addresses {
		if err := r.AddAddress(ctx, &user.Addresses[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByID obtiene un usuario por ID con roles y direcciones.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail obtiene un usuario por email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := r.loadRelations(ctx, []*entity.User{u}); err != nil {
		return nil, err
	}
	return u, nil
}

// loadRelations completa roles y direcciones de los usuarios con dos consultas.
func (r *UserRepo) loadRelations(ctx context.Context, users []*entity.User) error {
	if len(users) == 0 {
		return nil
	}
	byID := make(map[string]*entity.User, len(users))
	ids := make([]string, 0, len(users))
	for _, u := range users {
		byID[u.ID] = u
		ids = append(ids, u.ID)
	}

	rows, err := r.q.Query(ctx, `
		SELECT ur.user_id, ro.id, ro.name
		FROM user_roles ur JOIN roles ro ON ro.id = ur.role_id
		WHERE ur.user_id = ANY($1)
		ORDER BY ro.id`, ids)
	if err != nil {
		return fmt.Errorf("list user roles: %w", err)
	}
	for rows.Next() {
		var userID string
		var role entity.Role
		if err := rows.Scan(&userID, &role.ID, &role.Name); err != nil {
			rows.Close()
			return fmt.Errorf("scan user role: %w", err)
		}
		byID[userID].Roles = append(byID[userID].Roles, role)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.q.Query(ctx, `
		SELECT a.id, a.user_id, a.country_id, c.name, a.city, a.postal_code, a.street, a.house, a.apartment
		FROM addresses a JOIN countries c ON c.id = a.country_id
		WHERE a.user_id = ANY($1)
		ORDER BY a.created_at, a.id`, ids)
	if err != nil {
		return fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a entity.Address
		var apartment *string
		if err := rows.Scan(&a.ID, &a.UserID, &a.CountryID, &a.CountryName, &a.City, &a.PostalCode, &a.Street, &a.House, &apartment); err != nil {
			return fmt.Errorf("scan address: %w", err)
		}
		a.Apartment = stringOrEmpty(apartment)
		byID[a.UserID].Addresses = append(byID[a.UserID].Addresses, a)
	}
	return rows.Err()
}

// UpdateDetails actualiza nombre, apellido y fecha de nacimiento.
func (r *UserRepo) UpdateDetails(ctx context.Context, user *entity.User) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE users SET first_name = $2, last_name = $3, date_of_birth = $4, updated_at = $5
		WHERE id = $1`,
		user.ID, user.FirstName, user.LastName, user.DateOfBirth, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdatePassword reemplaza el hash de la contraseña.
func (r *UserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Search filtra por coincidencia exacta en los campos informados, ordenado por email.
func (r *UserRepo) Search(ctx context.Context, f repository.UserFilter) ([]*entity.User, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.FirstName != "" {
		add("u.first_name = $%d", f.FirstName)
	}
	if f.LastName != "" {
		add("u.last_name = $%d", f.LastName)
	}
	if f.Email != "" {
		add("u.email = $%d", f.Email)
	}
	if f.RoleID != 0 {
		add("EXISTS (SELECT 1 FROM user_roles ur WHERE ur.user_id = u.id AND ur.role_id = $%d)", f.RoleID)
	}
	query := `SELECT u.id, u.first_name, u.last_name, u.date_of_birth, u.email, u.password_hash, u.created_at, u.updated_at FROM users u`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY u.email"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadRelations(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// AddRole asigna un rol; si ya lo tenía no hace nada.
func (r *UserRepo) AddRole(ctx context.Context, userID string, roleID int) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, userID, roleID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("add role: %w", err)
	}
	return nil
}

// RemoveRole quita un rol.
func (r *UserRepo) RemoveRole(ctx context.Context, userID string, roleID int) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`, userID, roleID); err != nil {
		return fmt.Errorf("remove role: %w", err)
	}
	return nil
}

// AddAddress inserta una dirección del usuario.
func (r *UserRepo) AddAddress(ctx context.Context, a *entity.Address) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO addresses (id, user_id, country_id, city, postal_code, street, house, apartment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.UserID, a.CountryID, a.City, a.PostalCode, a.Street, a.House, nullIfEmpty(a.Apartment),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert address: %w", err)
	}
	return nil
}

// UpdateAddress reemplaza los datos de una dirección del usuario.
func (r *UserRepo) UpdateAddress(ctx context.Context, a *entity.Address) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE addresses SET country_id = $3, city = $4, postal_code = $5, street = $6, house = $7, apartment = $8
		WHERE id = $1 AND user_id = $2`,
		a.ID, a.UserID, a.CountryID, a.City, a.PostalCode, a.Street, a.House, nullIfEmpty(a.Apartment),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update address: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteAddress elimina una dirección. Los pedidos conservan el texto de envío.
func (r *UserRepo) DeleteAddress(ctx context.Context, userID, addressID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM addresses WHERE id = $1 AND user_id = $2`, addressID, userID); err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	return nil
}

// TopClients suma el precio de venta de los pedidos de cada usuario.
func (r *UserRepo) TopClients(ctx context.Context, limit int) ([]repository.ClientTotal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT u.id, u.first_name, u.last_name, u.date_of_birth, u.email, u.password_hash, u.created_at, u.updated_at,
		       SUM(o.total_selling_price) AS total
		FROM users u JOIN orders o ON o.user_id = u.id
		GROUP BY u.id
		ORDER BY total DESC, u.email
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top clients: %w", err)
	}
	defer rows.Close()
	var list []repository.ClientTotal
	for rows.Next() {
		var ct repository.ClientTotal
		var u entity.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.DateOfBirth, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt, &ct.Total); err != nil {
			return nil, fmt.Errorf("scan top client: %w", err)
		}
		ct.User = &u
		list = append(list, ct)
	}
	return list, rows.Err()
}

// RoleRepo tabla paramétrica de roles.
type RoleRepo struct {
	q Querier
}

// NewRoleRepository construye el adaptador.
func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{q: q}
}

func (r *RoleRepo) List(ctx context.Context) ([]entity.Role, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name FROM roles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()
	var list []entity.Role
	for rows.Next() {
		var role entity.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		list = append(list, role)
	}
	return list, rows.Err()
}

func (r *RoleRepo) GetByID(ctx context.Context, id int) (*entity.Role, error) {
	return r.find(ctx, `SELECT id, name FROM roles WHERE id = $1`, id)
}

func (r *RoleRepo) GetByName(ctx context.Context, name string) (*entity.Role, error) {
	return r.find(ctx, `SELECT id, name FROM roles WHERE name = $1`, name)
}

func (r *RoleRepo) find(ctx context.Context, query string, arg any) (*entity.Role, error) {
	var role entity.Role
	if err := r.q.QueryRow(ctx, query, arg).Scan(&role.ID, &role.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	return &role, nil
}

// CountryRepo tabla paramétrica de países.
type CountryRepo struct {
	q Querier
}

// NewCountryRepository construye el adaptador.
func NewCountryRepository(q Querier) *CountryRepo {
	return &CountryRepo{q: q}
}

func (r *CountryRepo) List(ctx context.Context) ([]entity.Country, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name FROM countries ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	defer rows.Close()
	var list []entity.Country
	for rows.Next() {
		var c entity.Country
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *CountryRepo) GetByID(ctx context.Context, id int) (*entity.Country, error) {
	var c entity.Country
	if err := r.q.QueryRow(ctx, `SELECT id, name FROM countries WHERE id = $1`, id).Scan(&c.ID, &c.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get country: %w", err)
	}
	return &c, nil
}

// Upsert inserta o renombra un país; usado por el seed.
func (r *CountryRepo) Upsert(ctx context.Context, c entity.Country) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO countries (id, name) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`, c.ID, c.Name)
	if err != nil {
		return fmt.Errorf("upsert country: %w", err)
	}
	return nil
}
