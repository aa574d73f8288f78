package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Estore-api/internal/application/dto"
	"github.com/jhoicas/Estore-api/internal/domain"
	"github.com/jhoicas/Estore-api/internal/domain/entity"
	"github.com/jhoicas/Estore-api/internal/infrastructure/memory"
)

func newUserFixture(t *testing.T) (*memory.Store, *UserUseCase, *entity.User) {
	t.Helper()
	store := memory.New()
	store.AddCountry(entity.Country{ID: 1, Name: "Belarus"})
	store.AddCountry(entity.Country{ID: 2, Name: "Argentina"})
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &entity.User{
		ID:           "u-1",
		FirstName:    "Ana",
		LastName:     "Pérez",
		Email:        "ana@estore.dev",
		PasswordHash: string(hash),
		Roles:        []entity.Role{{ID: 1, Name: entity.RoleClient}},
		Addresses:    []entity.Address{{ID: "a-1", UserID: "u-1", CountryID: 1, CountryName: "Belarus", City: "Minsk"}},
	}
	require.NoError(t, store.Users().Create(context.Background(), u))
	return store, NewUserUseCase(store.Users(), store.Roles(), store.Countries()), u
}

func TestUser_UpdateDetails(t *testing.T) {
	_, uc, u := newUserFixture(t)
	out, err := uc.UpdateDetails(context.Background(), u.ID, dto.UpdateDetailsRequest{FirstName: "Ana María", LastName: "Pérez", DateOfBirth: "1991-02-03"})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", out.FirstName)
	assert.Equal(t, "1991-02-03", out.DateOfBirth)

	_, err = uc.UpdateDetails(context.Background(), "nobody", dto.UpdateDetailsRequest{FirstName: "a", LastName: "b", DateOfBirth: "1991-02-03"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUser_ChangePassword(t *testing.T) {
	store, uc, u := newUserFixture(t)
	ctx := context.Background()

	err := uc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{OldPassword: "otra", NewPassword: "nuevaClave1"})
	assert.ErrorIs(t, err, domain.ErrWrongPassword)

	require.NoError(t, uc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{OldPassword: "secreto123", NewPassword: "nuevaClave1"}))
	stored, err := store.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("nuevaClave1")))
}

func TestUser_Direcciones(t *testing.T) {
	_, uc, u := newUserFixture(t)
	ctx := context.Background()
	in := dto.AddressRequest{CountryID: 2, City: "Córdoba", PostalCode: "5000", Street: "San Martín", House: "12"}

	added, err := uc.AddAddress(ctx, u.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Argentina", added.CountryName)

	in.Apartment = "3B"
	updated, err := uc.UpdateAddress(ctx, u.ID, added.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "3B", updated.Apartment)

	_, err = uc.UpdateAddress(ctx, u.ID, "ajena", in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	in.CountryID = 99
	_, err = uc.AddAddress(ctx, u.ID, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, uc.RemoveAddress(ctx, u.ID, "a-1"))
	me, err := uc.Me(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, me.Addresses, 1)
	assert.Equal(t, added.ID, me.Addresses[0].ID)
}

func TestUser_UpdateRoleYSearch(t *testing.T) {
	_, uc, u := newUserFixture(t)
	ctx := context.Background()

	out, err := uc.UpdateRole(ctx, u.ID, 2, true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{entity.RoleClient, entity.RoleManager}, out.Roles)

	out, err = uc.UpdateRole(ctx, u.ID, 2, true)
	require.NoError(t, err)
	assert.Len(t, out.Roles, 2, "otorgar dos veces no duplica")

	managers, err := uc.Search(ctx, dto.UserSearchRequest{RoleID: 2})
	require.NoError(t, err)
	assert.Len(t, managers, 1)

	out, err = uc.UpdateRole(ctx, u.ID, 2, false)
	require.NoError(t, err)
	assert.Equal(t, []string{entity.RoleClient}, out.Roles)

	_, err = uc.UpdateRole(ctx, u.ID, 42, true)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	found, err := uc.Search(ctx, dto.UserSearchRequest{Email: "ANA@estore.dev"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
	found, err = uc.Search(ctx, dto.UserSearchRequest{FirstName: "An"})
	require.NoError(t, err)
	assert.Empty(t, found, "búsqueda exacta")
}

func TestUser_TopClientsDescartaSinCompras(t *testing.T) {
	store, uc, u := newUserFixture(t)
	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: "u-2", Email: "bob@estore.dev"}))
	require.NoError(t, store.Orders().Create(ctx, &entity.Order{ID: "o-1", UserID: u.ID, TotalSellingPrice: decimal.RequireFromString("10.50"), CreatedAt: time.Now()}))
	require.NoError(t, store.Orders().Create(ctx, &entity.Order{ID: "o-2", UserID: "u-2", TotalSellingPrice: decimal.Zero, CreatedAt: time.Now()}))

	top, err := uc.TopClients(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, u.Email, top[0].User.Email)
	assert.Equal(t, "10.5", top[0].Total.String())
}

func TestUser_ParametricTables(t *testing.T) {
	_, uc, _ := newUserFixture(t)
	countries, err := uc.ListCountries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Argentina", countries[0].Name)

	roles, err := uc.ListRoles(context.Background())
	require.NoError(t, err)
	assert.Len(t, roles, 3)
}
