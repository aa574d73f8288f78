package postgres

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgx5URL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/estore?sslmode=disable", pgx5URL("postgres://u:p@db:5432/estore?sslmode=disable"))
	assert.Equal(t, "pgx5://u@db/estore", pgx5URL("postgresql://u@db/estore"))
	assert.Equal(t, "pgx5://x", pgx5URL("pgx5://x"))
}

func TestMigrations_CadaUpTieneDown(t *testing.T) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	for _, n := range names {
		if strings.HasSuffix(n, ".up.sql") {
			assert.True(t, set[strings.TrimSuffix(n, ".up.sql")+".down.sql"], "falta down de %s", n)
		}
	}
}
