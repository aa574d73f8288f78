package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// CompanyInfo datos del vendedor que aparecen en facturas y en GET /api/company.
type CompanyInfo struct {
	Name        string `yaml:"name" json:"name"`
	Email       string `yaml:"email" json:"email"`
	Website     string `yaml:"website" json:"website"`
	PhoneNumber string `yaml:"phone_number" json:"phone_number"`
	FaxNumber   string `yaml:"fax_number" json:"fax_number"`
	Country     string `yaml:"country" json:"country"`
	City        string `yaml:"city" json:"city"`
	PostalCode  string `yaml:"postal_code" json:"postal_code"`
	Street      string `yaml:"street" json:"street"`
	House       string `yaml:"house" json:"house"`
	Apartment   string `yaml:"apartment" json:"apartment"`
}

// LoadCompanyInfo lee el archivo YAML de la empresa. Un archivo inexistente no es error:
// se devuelve una CompanyInfo vacía para completar desde variables de entorno.
func LoadCompanyInfo(path string) (CompanyInfo, error) {
	var info CompanyInfo
	if path == "" {
		return info, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return info, nil
		}
		return info, fmt.Errorf("config: leer %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &info); err != nil {
		return info, fmt.Errorf("config: parsear %s: %w", path, err)
	}
	return info, nil
}

// companyFromEnv sobreescribe los campos presentes en COMPANY_* sobre lo leído del YAML.
func companyFromEnv(v *viper.Viper, base CompanyInfo) CompanyInfo {
	base.Name = getString(v, "COMPANY_NAME", nonEmpty(base.Name, "eStore"))
	base.Email = getString(v, "COMPANY_EMAIL", base.Email)
	base.Website = getString(v, "COMPANY_WEBSITE", base.Website)
	base.PhoneNumber = getString(v, "COMPANY_PHONE", base.PhoneNumber)
	base.FaxNumber = getString(v, "COMPANY_FAX", base.FaxNumber)
	base.Country = getString(v, "COMPANY_COUNTRY", base.Country)
	base.City = getString(v, "COMPANY_CITY", base.City)
	base.PostalCode = getString(v, "COMPANY_POSTAL_CODE", base.PostalCode)
	base.Street = getString(v, "COMPANY_STREET", base.Street)
	base.House = getString(v, "COMPANY_HOUSE", base.House)
	base.Apartment = getString(v, "COMPANY_APARTMENT", base.Apartment)
	return base
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
