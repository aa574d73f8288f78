package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Estore-api/internal/domain/entity"
	"github.com/jhoicas/Estore-api/internal/infrastructure/memory"
	"github.com/jhoicas/Estore-api/pkg/logger"
)

type fakeCountries struct{ saved []entity.Country }

func (f *fakeCountries) Upsert(_ context.Context, c entity.Country) error {
	f.saved = append(f.saved, c)
	return nil
}

// ─── Seed ────────────────────────────────────────────────────────────────────

func TestLoadSeed_VacioUsaPaisesPorDefecto(t *testing.T) {
	data, err := LoadSeed(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, defaultCountries, data.Countries)
	assert.Nil(t, data.Admin)
}

func TestLoadSeed_Archivo(t *testing.T) {
	data, err := LoadSeed(strings.NewReader(`
countries:
  - id: 7
    name: Estonia
admin:
  email: Root@Estore.dev
  password: super-secret
`))
	require.NoError(t, err)
	assert.Equal(t, []SeedCountry{{ID: 7, Name: "Estonia"}}, data.Countries)
	require.NotNil(t, data.Admin)
	assert.Equal(t, "Root@Estore.dev", data.Admin.Email)
}

func TestLoadSeed_Invalido(t *testing.T) {
	tests := map[string]string{
		"yaml roto":          "countries: [",
		"país sin nombre":    "countries:\n  - id: 1\n",
		"contraseña corta":   "admin:\n  email: a@b.dev\n  password: abc\n",
		"id de país en cero": "countries:\n  - id: 0\n    name: X\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadSeed(strings.NewReader(body))
			assert.Error(t, err)
		})
	}
}

func TestApplySeed_CreaAdminUnaSolaVez(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	countries := &fakeCountries{}
	data := SeedData{
		Countries: defaultCountries[:2],
		Admin:     &SeedAdmin{Email: " Root@Estore.dev ", Password: "super-secret"},
	}

	res, err := ApplySeed(ctx, data, countries, store.Users(), store.Roles(), logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Countries)
	assert.True(t, res.AdminCreated)
	assert.Len(t, countries.saved, 2)

	admin, err := store.Users().GetByEmail(ctx, "root@estore.dev")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.ElementsMatch(t, []string{entity.RoleClient, entity.RoleManager, entity.RoleAdmin}, admin.RoleNames())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("super-secret")))

	res, err = ApplySeed(ctx, data, countries, store.Users(), store.Roles(), logger.Nop())
	require.NoError(t, err)
	assert.False(t, res.AdminCreated)
}

// ─── Migraciones ─────────────────────────────────────────────────────────────

func TestParseSteps(t *testing.T) {
	n, err := parseSteps(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = parseSteps([]string{"3"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, bad := range []string{"0", "-2", "dos"} {
		_, err := parseSteps([]string{bad})
		assert.Error(t, err, bad)
	}
}

// ─── Lista de precios ────────────────────────────────────────────────────────

func TestPriceListReader_Latin1(t *testing.T) {
	// "Teléfono" en ISO-8859-1: é = 0xE9
	raw := []byte{'T', 'e', 'l', 0xE9, 'f', 'o', 'n', 'o'}

	out, err := io.ReadAll(priceListReader(bytes.NewReader(raw), true))
	require.NoError(t, err)
	assert.Equal(t, "Teléfono", string(out))

	out, err = io.ReadAll(priceListReader(strings.NewReader("Teléfono"), false))
	require.NoError(t, err)
	assert.Equal(t, "Teléfono", string(out))
}

func TestComandosRegistrados(t *testing.T) {
	for _, path := range [][]string{
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "version"},
		{"seed"},
		{"pricelist", "export"},
		{"pricelist", "import"},
	} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err, strings.Join(path, " "))
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}
