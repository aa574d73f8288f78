package entity

// CompanyInfo datos del vendedor impresos en facturas y publicados en la tienda.
type CompanyInfo struct {
	Name        string
	Email       string
	Website     string
	PhoneNumber string
	FaxNumber   string
	Country     string
	City        string
	PostalCode  string
	Street      string
	House       string
	Apartment   string
}
