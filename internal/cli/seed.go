package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/Estore-api/internal/domain/entity"
	"github.com/jhoicas/Estore-api/internal/domain/repository"
	"github.com/jhoicas/Estore-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Estore-api/pkg/logger"
)

// SeedCountry país del archivo de datos iniciales.
type SeedCountry struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
}

// SeedAdmin administrador inicial.
type SeedAdmin struct {
	Email       string `yaml:"email"`
	Password    string `yaml:"password"`
	FirstName   string `yaml:"first_name"`
	LastName    string `yaml:"last_name"`
	DateOfBirth string `yaml:"date_of_birth"`
}

// SeedData contenido de seed.yaml.
type SeedData struct {
	Countries []SeedCountry `yaml:"countries"`
	Admin     *SeedAdmin    `yaml:"admin"`
}

var defaultCountries = []SeedCountry{
	{ID: 1, Name: "Belarus"},
	{ID: 2, Name: "Russia"},
	{ID: 3, Name: "Ukraine"},
	{ID: 4, Name: "Poland"},
	{ID: 5, Name: "Lithuania"},
	{ID: 6, Name: "Latvia"},
}

// CountryUpserter destino de los países.
type CountryUpserter interface {
	Upsert(ctx context.Context, c entity.Country) error
}

// SeedResult resumen de lo aplicado.
type SeedResult struct {
	Countries    int
	AdminCreated bool
}

// LoadSeed decodifica el YAML; sin países usa la lista por defecto.
func LoadSeed(r io.Reader) (SeedData, error) {
	var data SeedData
	if err := yaml.NewDecoder(r).Decode(&data); err != nil && !errors.Is(err, io.EOF) {
		return data, fmt.Errorf("seed: parsear: %w", err)
	}
	if len(data.Countries) == 0 {
		data.Countries = defaultCountries
	}
	for _, c := range data.Countries {
		if c.ID <= 0 || strings.TrimSpace(c.Name) == "" {
			return data, fmt.Errorf("seed: país inválido %d %q", c.ID, c.Name)
		}
	}
	if data.Admin != nil && (data.Admin.Email == "" || len(data.Admin.Password) < 8) {
		return data, fmt.Errorf("seed: el administrador requiere email y contraseña de al menos 8 caracteres")
	}
	return data, nil
}

// ApplySeed inserta los países y crea el administrador si aún no existe.
func ApplySeed(ctx context.Context, data SeedData, countries CountryUpserter, users repository.UserRepository, roles repository.RoleRepository, log *logger.Logger) (SeedResult, error) {
	var res SeedResult
	for _, c := range data.Countries {
		if err := countries.Upsert(ctx, entity.Country{ID: c.ID, Name: strings.TrimSpace(c.Name)}); err != nil {
			return res, err
		}
		res.Countries++
	}
	if data.Admin == nil {
		return res, nil
	}

	email := strings.ToLower(strings.TrimSpace(data.Admin.Email))
	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		return res, err
	}
	if existing != nil {
		log.Info().Str("email", email).Msg("administrador ya existe")
		return res, nil
	}

	granted := make([]entity.Role, 0, 3)
	for _, name := range []string{entity.RoleClient, entity.RoleManager, entity.RoleAdmin} {
		role, err := roles.GetByName(ctx, name)
		if err != nil {
			return res, err
		}
		if role == nil {
			return res, fmt.Errorf("seed: rol %s no existe; ejecutar migrate up", name)
		}
		granted = append(granted, *role)
	}
	dob := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	if data.Admin.DateOfBirth != "" {
		dob, err = time.Parse("2006-01-02", data.Admin.DateOfBirth)
		if err != nil {
			return res, fmt.Errorf("seed: date_of_birth: %w", err)
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(data.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return res, err
	}
	now := time.Now().UTC()
	admin := &entity.User{
		ID:           uuid.New().String(),
		FirstName:    nonEmpty(data.Admin.FirstName, "Admin"),
		LastName:     nonEmpty(data.Admin.LastName, "eStore"),
		DateOfBirth:  dob,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        granted,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, admin); err != nil {
		return res, err
	}
	res.AdminCreated = true
	log.Info().Str("email", email).Msg("administrador creado")
	return res, nil
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return strings.TrimSpace(s)
}

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Carga países y el administrador inicial",
	Long:  "Lee seed.yaml (países y administrador). Sin archivo carga solo la lista de países por defecto.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := environment()
		if err != nil {
			return err
		}
		data, err := readSeedFile(seedFile)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer pool.Close()

		res, err := ApplySeed(ctx, data,
			postgres.NewCountryRepository(pool),
			postgres.NewUserRepository(pool),
			postgres.NewRoleRepository(pool),
			log,
		)
		if err != nil {
			return err
		}
		cmd.Printf("países: %d, administrador creado: %t\n", res.Countries, res.AdminCreated)
		return nil
	},
}

func readSeedFile(path string) (SeedData, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LoadSeed(strings.NewReader(""))
		}
		return SeedData{}, err
	}
	defer f.Close()
	return LoadSeed(f)
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "seed.yaml", "archivo YAML de datos iniciales")
	rootCmd.AddCommand(seedCmd)
}
