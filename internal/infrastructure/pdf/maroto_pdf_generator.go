// Package pdf genera la factura de un pedido con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  INVOICE                                  │  código barras   │
//	│  N° factura + fecha de emisión                              │
//	│  FACTURADO A (comprador)  │  vendedor (CompanyInfo)         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Descripción | Costo unit. | Cant. | Importe         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL                                                       │
//	│  PAID (solo pedidos pagados)                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estore-api/internal/application/ports"
	"github.com/jhoicas/Estore-api/internal/domain/entity"
)

var _ ports.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 80, Green: 123, Blue: 218}
	colorGray    = &props.Color{Red: 128, Green: 128, Blue: 128}
	colorPaid    = &props.Color{Red: 255, Green: 175, Blue: 175}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	currency string
}

// NewMarotoPDFGenerator construye el generador con el símbolo de moneda de la tienda.
func NewMarotoPDFGenerator(currencySymbol string) *MarotoPDFGenerator {
	if currencySymbol == "" {
		currencySymbol = "$"
	}
	return &MarotoPDFGenerator{currency: currencySymbol}
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	order *entity.Order,
	buyer *entity.User,
	seller entity.CompanyInfo,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle(fmt.Sprintf("Invoice %d", order.Number), true).
		WithAuthor(seller.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(titleRow(order))
	m.AddRows(numberDateRow(order))
	m.AddRows(line.NewRow(4))
	m.AddRows(partiesRow(order, buyer, seller))
	m.AddRows(line.NewRow(4))

	m.AddRows(tableHeaderRow())
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range g.tableDetailRows(order.Products) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(g.totalRow(order.TotalSellingPrice))

	if order.PaymentStatus == entity.PaymentPaid {
		m.AddRows(paidRow())
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// BarcodeValue número del pedido con ceros a la izquierda hasta 13 dígitos.
func BarcodeValue(number int64) string {
	return fmt.Sprintf("%013d", number)
}

// titleRow: palabra INVOICE (izq) y código de barras del número de pedido (der).
func titleRow(order *entity.Order) core.Row {
	return row.New(22).Add(
		col.New(8).Add(
			text.New("INVOICE", props.Text{Size: 32, Top: 2}),
		),
		col.New(4).Add(
			code.NewBar(BarcodeValue(order.Number), props.Barcode{Percent: 90, Center: true}),
		),
	)
}

func numberDateRow(order *entity.Order) core.Row {
	grey := props.Text{Size: 9, Color: colorGray}
	main := props.Text{Size: 10, Top: 5}
	return row.New(12).Add(
		col.New(3).Add(
			text.New("INVOICE NUMBER", grey),
			text.New(fmt.Sprintf("%d", order.Number), main),
		),
		col.New(3).Add(
			text.New("DATE OF ISSUE", grey),
			text.New(order.CreatedAt.Format("2006-01-02"), main),
		),
		col.New(6),
	)
}

// partiesRow: comprador (izq) y vendedor (der).
func partiesRow(order *entity.Order, buyer *entity.User, seller entity.CompanyInfo) core.Row {
	buyerLines := []string{buyer.FullName(), buyer.Email}
	switch {
	case order.ShippingAddress != "":
		buyerLines = append(buyerLines, order.ShippingAddress)
	case len(buyer.Addresses) > 0:
		buyerLines = append(buyerLines, buyer.Addresses[0].String())
	}

	sellerAddress := entity.Address{
		Street: seller.Street, House: seller.House, Apartment: seller.Apartment,
		City: seller.City, PostalCode: seller.PostalCode, CountryName: seller.Country,
	}
	sellerLines := []string{sellerAddress.String(), seller.PhoneNumber, seller.Email, seller.Website}

	left := col.New(6).Add(text.New("BILLED TO", props.Text{Size: 9, Color: colorGray}))
	for i, l := range buyerLines {
		left.Add(text.New(l, props.Text{Size: 10, Top: float64(5 + 5*i)}))
	}
	right := col.New(6).Add(text.New(seller.Name, props.Text{Size: 16, Align: align.Right}))
	top := 7.0
	for _, l := range sellerLines {
		if l == "" {
			continue
		}
		right.Add(text.New(l, props.Text{Size: 10, Top: top, Align: align.Right}))
		top += 5
	}
	return row.New(32).Add(left, right)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Size: 9, Align: a, Color: colorGray, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("DESCRIPTION", 6, align.Left),
		h("UNIT COST", 2, align.Right),
		h("QTY", 2, align.Right),
		h("AMOUNT", 2, align.Right),
	)
}

// tableDetailRows: una fila por línea del pedido.
func (g *MarotoPDFGenerator) tableDetailRows(lines []entity.OrderProduct) []core.Row {
	result := make([]core.Row, 0, len(lines))
	cell := props.Text{Size: 10, Top: 1, Align: align.Right}
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(6).Add(text.New(l.ProductName, props.Text{Size: 10, Top: 1})),
			col.New(2).Add(text.New(g.money(l.SellingPrice), cell)),
			col.New(2).Add(text.New(fmt.Sprintf("%d", l.Quantity), cell)),
			col.New(2).Add(text.New(g.money(l.CalculateTotalSellingPrice()), cell)),
		))
	}
	return result
}

func (g *MarotoPDFGenerator) totalRow(total decimal.Decimal) core.Row {
	return row.New(22).Add(
		col.New(6).Add(
			text.New("INVOICE TOTAL", props.Text{Size: 9, Color: colorGray, Top: 3}),
			text.New(g.money(total), props.Text{Size: 22, Color: colorPrimary, Top: 8}),
		),
		col.New(4).Add(text.New("TOTAL", props.Text{Size: 10, Align: align.Right, Top: 1})),
		col.New(2).Add(text.New(g.money(total), props.Text{Size: 10, Align: align.Right, Top: 1, Style: fontstyle.Bold})),
	)
}

func paidRow() core.Row {
	return row.New(50).Add(col.New(12).Add(
		text.New("PAID", props.Text{
			Size: 80, Style: fontstyle.Bold, Align: align.Center, Color: colorPaid, Top: 5,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (g *MarotoPDFGenerator) money(d decimal.Decimal) string {
	return g.currency + entity.RoundMoney(d).StringFixed(2)
}
