package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	v.Set("COMPANY_INFO_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "estore-api", cfg.App.Name)
	assert.Equal(t, 600, cfg.Store.ProductReserveSeconds)
	assert.Equal(t, 10, cfg.Store.TopProductsLength)
	assert.Equal(t, "@every 30s", cfg.Store.ReservationSweep)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "eStore", cfg.Company.Name)
}

func TestFromViper_EnvOverrides(t *testing.T) {
	v := viper.New()
	v.Set("COMPANY_INFO_PATH", "")
	v.Set("HTTP_PORT", "9090")
	v.Set("STORE_PRODUCT_RESERVE_SECONDS", "30")
	v.Set("DB_PORT", "no-es-numero")
	v.Set("COMPANY_NAME", "Acme")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 30, cfg.Store.ProductReserveSeconds)
	assert.Equal(t, 5432, cfg.DB.Port, "un entero inválido vuelve al valor por defecto")
	assert.Equal(t, "Acme", cfg.Company.Name)
}

func TestFromViper_ReservaNoPositiva(t *testing.T) {
	v := viper.New()
	v.Set("COMPANY_INFO_PATH", "")
	v.Set("STORE_PRODUCT_RESERVE_SECONDS", 0)

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "estore", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/estore?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}

func TestLoadCompanyInfo_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "company.yaml")
	content := "name: eStore Ltd\nemail: sales@estore.dev\ncity: Minsk\npostal_code: \"220000\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	info, err := LoadCompanyInfo(path)
	require.NoError(t, err)
	assert.Equal(t, "eStore Ltd", info.Name)
	assert.Equal(t, "sales@estore.dev", info.Email)
	assert.Equal(t, "Minsk", info.City)
	assert.Equal(t, "220000", info.PostalCode)
}

func TestLoadCompanyInfo_YAMLInvalido(t *testing.T) {
	path := filepath.Join(t.TempDir(), "company.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: [sin cerrar"), 0o600))

	_, err := LoadCompanyInfo(path)
	assert.Error(t, err)
}
