package receipts

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vitorsavi/pdv-api/internal/domain/entity"
)

// CupomLine linha do cupom já enriquecida com a descrição do catálogo.
type CupomLine struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
}

// CupomPDFGenerator porto para a geração do cupom (PDF não fiscal).
type CupomPDFGenerator interface {
	GenerateCupomPDF(ctx context.Context, sale *entity.Sale, company *entity.Company, customer *entity.Customer, lines []CupomLine) ([]byte, error)
}

// NFCeBuilder porto para a montagem do XML da NFC-e.
type NFCeBuilder interface {
	BuildNFCeXML(ctx context.Context, sale *entity.Sale, company *entity.Company, lines []CupomLine) ([]byte, error)
}
