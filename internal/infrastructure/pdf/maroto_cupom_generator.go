// Package pdf implementa a geração do cupom de venda PDV (comprovante não
// fiscal) usando Maroto v2.
//
// Layout da página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razão Social + CNPJ  │  N° Venda + Data            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE (opcional): Nome + CPF/CNPJ                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABELA: Qtd | Descrição | P.Unit | Desc. | Total            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAIS: Subtotal / Descontos / TOTAL PAGO / Pagamento       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de consulta da venda                             │
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

	"github.com/vitorsavi/pdv-api/internal/application/receipts"
	"github.com/vitorsavi/pdv-api/internal/domain/entity"
)

// ── Paleta de cores ───────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 96, Blue: 57}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoCupomGenerator implementa receipts.CupomPDFGenerator usando Maroto v2.
type MarotoCupomGenerator struct{}

// NewMarotoCupomGenerator constrói o gerador.
func NewMarotoCupomGenerator() *MarotoCupomGenerator { return &MarotoCupomGenerator{} }

// GenerateCupomPDF gera o PDF do cupom e devolve seus bytes.
func (g *MarotoCupomGenerator) GenerateCupomPDF(
	_ context.Context,
	sale *entity.Sale,
	company *entity.Company,
	customer *entity.Customer,
	lines []receipts.CupomLine,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Cupom de Venda PDV", true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(sale, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	if customer != nil {
		m.AddRows(customerRow(customer))
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	}

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(sale, lines)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(sale)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: gerar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Seções ────────────────────────────────────────────────────────────────────

// headerRow: razão social + CNPJ (esq) e número da venda + data (dir).
func headerRow(sale *entity.Sale, company *entity.Company) core.Row {
	data := sale.OpenedAt.Format("02/01/2006 15:04")
	if sale.FinalizedAt != nil {
		data = sale.FinalizedAt.Format("02/01/2006 15:04")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("CNPJ: "+company.CNPJ, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("CUPOM DE VENDA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(shortID(sale.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Data: "+data, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// customerRow: dados do cliente, quando a venda é identificada.
func customerRow(customer *entity.Customer) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   CPF/CNPJ: %s",
				customer.Name, nonEmpty(customer.TaxID, "-"),
			), props.Text{Size: 9, Top: 7}),
		),
	)
}

// tableHeaderRow: cabeçalho da tabela de itens.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qtd", 1, align.Center),
		h("Descrição", 5, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Desc.", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

// tableLineRows: uma linha por item do cupom.
func tableLineRows(lines []receipts.CupomLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				l.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				l.Description,
				props.Text{Size: 8, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				"R$ "+l.UnitPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1},
			)),
			col.New(2).Add(text.New(
				"R$ "+l.Discount.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1},
			)),
			col.New(2).Add(text.New(
				"R$ "+l.Total.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRows: subtotal, desconto da venda e total pago.
func totalsRows(sale *entity.Sale, lines []receipts.CupomLine) []core.Row {
	label := func(s string) core.Col {
		return col.New(9).Add(text.New(s, props.Text{
			Size: 9, Align: align.Right, Top: 1, Color: colorGray,
		}))
	}
	value := func(s string) core.Col {
		return col.New(3).Add(text.New(s, props.Text{
			Size: 9, Align: align.Right, Top: 1, Right: 1,
		}))
	}
	rows := []core.Row{
		row.New(6).Add(label("Subtotal:"), value("R$ "+sale.Subtotal.StringFixed(2))),
		row.New(6).Add(label("Desconto da venda:"), value("R$ "+sale.Discount.StringFixed(2))),
		row.New(8).Add(
			col.New(9).Add(text.New("TOTAL PAGO:", props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1, Color: colorPrimary,
			})),
			col.New(3).Add(text.New("R$ "+sale.Total.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1, Right: 1, Color: colorPrimary,
			})),
		),
	}
	if sale.PaymentMethod != "" {
		rows = append(rows, row.New(6).Add(
			label("Forma de pagamento:"), value(sale.PaymentMethod),
		))
	}
	return rows
}

// footerRows: QR de consulta + identificação completa da venda.
func footerRows(sale *entity.Sale) []core.Row {
	return []core.Row{
		row.New(24).Add(
			col.New(3).Add(code.NewQr(sale.ID, props.Rect{
				Center: false, Percent: 90,
			})),
			col.New(9).Add(
				text.New("Consulte esta venda pelo identificador:", props.Text{
					Size: 8, Top: 4, Color: colorGray,
				}),
				text.New(sale.ID, props.Text{Size: 8, Top: 10}),
				text.New("Documento sem valor fiscal.", props.Text{
					Size: 7, Top: 17, Color: colorGray,
				}),
			),
		),
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func nonEmpty(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
