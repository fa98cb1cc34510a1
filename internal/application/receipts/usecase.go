package receipts

import (
	"context"
	"fmt"

	"github.com/vitorsavi/pdv-api/internal/domain"
	"github.com/vitorsavi/pdv-api/internal/domain/entity"
	"github.com/vitorsavi/pdv-api/internal/domain/repository"
)

// UseCase gera os documentos da venda finalizada: cupom em PDF e XML de
// NFC-e. Ambos exigem venda "finalizada"; venda aberta ou cancelada falha
// com ErrInvalidInput.
type UseCase struct {
	saleRepo     repository.SaleRepository
	itemRepo     repository.SaleItemRepository
	companyRepo  repository.CompanyRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	serviceRepo  repository.ServiceRepository
	pdfGen       CupomPDFGenerator
	nfceBuilder  NFCeBuilder
}

// NewUseCase constrói o caso de uso injetando todas as dependências.
func NewUseCase(
	saleRepo repository.SaleRepository,
	itemRepo repository.SaleItemRepository,
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	serviceRepo repository.ServiceRepository,
	pdfGen CupomPDFGenerator,
	nfceBuilder NFCeBuilder,
) *UseCase {
	return &UseCase{
		saleRepo:     saleRepo,
		itemRepo:     itemRepo,
		companyRepo:  companyRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		serviceRepo:  serviceRepo,
		pdfGen:       pdfGen,
		nfceBuilder:  nfceBuilder,
	}
}

// DownloadCupomPDF carrega os dados da venda e gera o cupom em PDF.
// Retorna (pdfBytes, filename, nil) no sucesso.
func (uc *UseCase) DownloadCupomPDF(ctx context.Context, companyID, saleID string) ([]byte, string, error) {
	sale, company, customer, lines, err := uc.loadFinalizedSale(ctx, companyID, saleID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err := uc.pdfGen.GenerateCupomPDF(ctx, sale, company, customer, lines)
	if err != nil {
		return nil, "", fmt.Errorf("cupom: gerar PDF: %w", err)
	}
	return pdfBytes, fmt.Sprintf("cupom-%s.pdf", sale.ID), nil
}

// DownloadNFCeXML carrega os dados da venda e monta o XML da NFC-e.
// Retorna (xmlBytes, filename, nil) no sucesso.
func (uc *UseCase) DownloadNFCeXML(ctx context.Context, companyID, saleID string) ([]byte, string, error) {
	sale, company, _, lines, err := uc.loadFinalizedSale(ctx, companyID, saleID)
	if err != nil {
		return nil, "", err
	}
	xmlBytes, err := uc.nfceBuilder.BuildNFCeXML(ctx, sale, company, lines)
	if err != nil {
		return nil, "", fmt.Errorf("nfce: montar XML: %w", err)
	}
	return xmlBytes, fmt.Sprintf("nfce-%s.xml", sale.ID), nil
}

func (uc *UseCase) loadFinalizedSale(ctx context.Context, companyID, saleID string) (*entity.Sale, *entity.Company, *entity.Customer, []CupomLine, error) {
	sale, err := uc.saleRepo.GetByID(companyID, saleID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if sale == nil {
		return nil, nil, nil, nil, domain.ErrNotFound
	}
	if sale.Status != entity.SaleFinalizada {
		return nil, nil, nil, nil, fmt.Errorf("%w: a venda está %s, só venda finalizada emite documento", domain.ErrInvalidInput, sale.Status)
	}

	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("cupom: obter empresa: %w", err)
	}
	if company == nil {
		// Empresa do token ausente no cadastro: recurso inexistente, não 500.
		return nil, nil, nil, nil, domain.ErrNotFound
	}

	var customer *entity.Customer
	if sale.CustomerID != nil {
		customer, err = uc.customerRepo.GetByID(companyID, *sale.CustomerID)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("cupom: obter cliente: %w", err)
		}
	}

	items, err := uc.itemRepo.ListBySale(sale.ID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	lines := make([]CupomLine, 0, len(items))
	for _, it := range items {
		line := CupomLine{
			Description: "item",
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			Total:       it.Total,
		}
		switch {
		case it.ProductID != nil:
			product, err := uc.productRepo.GetByID(companyID, *it.ProductID)
			if err != nil {
				return nil, nil, nil, nil, err
			}
			if product != nil {
				line.Description = product.Name
			}
		case it.ServiceID != nil:
			service, err := uc.serviceRepo.GetByID(companyID, *it.ServiceID)
			if err != nil {
				return nil, nil, nil, nil, err
			}
			if service != nil {
				line.Description = service.Name
			}
		}
		lines = append(lines, line)
	}
	return sale, company, customer, lines, nil
}
