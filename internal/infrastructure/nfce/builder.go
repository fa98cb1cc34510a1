// Package nfce monta o XML da NFC-e (modelo 65, leiaute 4.00) de uma venda
// PDV finalizada. A montagem cobre chave de acesso com dígito verificador,
// digest canônico (C14N + SHA-256) e QR Code de consulta. A assinatura
// digital com certificado A1 fica fora: o XML sai pronto para o assinador.
package nfce

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"hash/fnv"
	"strconv"
	"time"
	"unicode"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"
	"github.com/vitorsavi/pdv-api/internal/application/receipts"
	"github.com/vitorsavi/pdv-api/internal/domain/entity"
	"github.com/vitorsavi/pdv-api/pkg/config"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Namespace oficial da NF-e/NFC-e.
const NsNFe = "http://www.portalfiscal.inf.br/nfe"

// Código numérico de tPag por forma de pagamento (tabela do leiaute 4.00).
var paymentCodes = map[string]string{
	"dinheiro": "01",
	"cheque":   "02",
	"credito":  "03",
	"debito":   "04",
	"pix":      "17",
}

// Builder implementa receipts.NFCeBuilder.
type Builder struct {
	cfg config.NFCeConfig
}

// NewBuilder constrói o montador de NFC-e.
func NewBuilder(cfg config.NFCeConfig) *Builder {
	return &Builder{cfg: cfg}
}

// BuildNFCeXML monta o documento completo e devolve seus bytes indentados.
func (b *Builder) BuildNFCeXML(
	_ context.Context,
	sale *entity.Sale,
	company *entity.Company,
	lines []receipts.CupomLine,
) ([]byte, error) {
	issuedAt := time.Now()
	if sale.FinalizedAt != nil {
		issuedAt = *sale.FinalizedAt
	}

	cnpj := digitsOnly(company.CNPJ)
	if len(cnpj) != 14 {
		return nil, fmt.Errorf("nfce: CNPJ da empresa inválido: %q", company.CNPJ)
	}
	serie, err := strconv.Atoi(b.cfg.Serie)
	if err != nil || serie < 0 {
		return nil, fmt.Errorf("nfce: série inválida: %q", b.cfg.Serie)
	}
	nNF := numericFromID(sale.ID, 99999999)
	cNF := numericFromID(sale.ID+"/cNF", 99999999)
	chave := AccessKey("35", issuedAt, cnpj, serie, nNF, cNF)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	nfe := doc.CreateElement("NFe")
	nfe.CreateAttr("xmlns", NsNFe)
	inf := nfe.CreateElement("infNFe")
	inf.CreateAttr("Id", "NFe"+chave)
	inf.CreateAttr("versao", "4.00")

	b.writeIde(inf, issuedAt, serie, nNF, cNF, chave)
	b.writeEmit(inf, company, cnpj)
	for i, line := range lines {
		b.writeDet(inf, i+1, line)
	}
	b.writeTotal(inf, sale)
	b.writePag(inf, sale)

	// Digest canônico do infNFe: o assinador externo referencia este valor.
	digest, err := canonicalDigest(doc)
	if err != nil {
		return nil, fmt.Errorf("nfce: digest canônico: %w", err)
	}
	supl := nfe.CreateElement("infNFeSupl")
	supl.CreateElement("qrCode").SetText(b.qrCodePayload(chave, digest))
	supl.CreateElement("urlChave").SetText("https://www.nfce.fazenda.sp.gov.br/consulta")

	doc.Indent(2)
	return doc.WriteToBytes()
}

func (b *Builder) writeIde(inf *etree.Element, issuedAt time.Time, serie, nNF, cNF int, chave string) {
	ide := inf.CreateElement("ide")
	ide.CreateElement("cUF").SetText("35")
	ide.CreateElement("cNF").SetText(fmt.Sprintf("%08d", cNF))
	ide.CreateElement("natOp").SetText("VENDA AO CONSUMIDOR")
	ide.CreateElement("mod").SetText("65")
	ide.CreateElement("serie").SetText(strconv.Itoa(serie))
	ide.CreateElement("nNF").SetText(strconv.Itoa(nNF))
	ide.CreateElement("dhEmi").SetText(issuedAt.Format("2006-01-02T15:04:05-07:00"))
	ide.CreateElement("tpNF").SetText("1")
	ide.CreateElement("tpEmis").SetText("1")
	ide.CreateElement("cDV").SetText(chave[43:])
	ide.CreateElement("tpAmb").SetText(b.cfg.Environment)
}

func (b *Builder) writeEmit(inf *etree.Element, company *entity.Company, cnpj string) {
	emit := inf.CreateElement("emit")
	emit.CreateElement("CNPJ").SetText(cnpj)
	emit.CreateElement("xNome").SetText(StripDiacritics(company.Name))
	if company.Address != "" {
		ender := emit.CreateElement("enderEmit")
		ender.CreateElement("xLgr").SetText(StripDiacritics(company.Address))
	}
}

func (b *Builder) writeDet(inf *etree.Element, n int, line receipts.CupomLine) {
	det := inf.CreateElement("det")
	det.CreateAttr("nItem", strconv.Itoa(n))
	prod := det.CreateElement("prod")
	prod.CreateElement("xProd").SetText(StripDiacritics(line.Description))
	prod.CreateElement("qCom").SetText(line.Quantity.String())
	prod.CreateElement("vUnCom").SetText(line.UnitPrice.StringFixed(2))
	prod.CreateElement("vProd").SetText(line.Quantity.Mul(line.UnitPrice).StringFixed(2))
	if line.Discount.IsPositive() {
		prod.CreateElement("vDesc").SetText(line.Discount.StringFixed(2))
	}
}

func (b *Builder) writeTotal(inf *etree.Element, sale *entity.Sale) {
	total := inf.CreateElement("total")
	icms := total.CreateElement("ICMSTot")
	icms.CreateElement("vProd").SetText(sale.Subtotal.StringFixed(2))
	icms.CreateElement("vDesc").SetText(sale.Subtotal.Sub(sale.Total).StringFixed(2))
	icms.CreateElement("vNF").SetText(sale.Total.StringFixed(2))
}

func (b *Builder) writePag(inf *etree.Element, sale *entity.Sale) {
	pag := inf.CreateElement("pag")
	det := pag.CreateElement("detPag")
	code, ok := paymentCodes[sale.PaymentMethod]
	if !ok {
		code = "99" // outros
	}
	det.CreateElement("tPag").SetText(code)
	det.CreateElement("vPag").SetText(sale.Total.StringFixed(2))
}

// qrCodePayload compõe o conteúdo do QR Code de consulta: chave, ambiente e
// hash do CSC quando configurado.
func (b *Builder) qrCodePayload(chave, digest string) string {
	payload := fmt.Sprintf("p=%s|2|%s", chave, b.cfg.Environment)
	if b.cfg.CSCID != "" && b.cfg.CSCToken != "" {
		h := sha256.Sum256([]byte(payload + b.cfg.CSCToken))
		payload += fmt.Sprintf("|%s|%x", b.cfg.CSCID, h[:16])
	}
	return payload + "|" + digest
}

// AccessKey calcula a chave de acesso de 44 dígitos da NFC-e:
// cUF(2) + AAMM(4) + CNPJ(14) + mod(2)=65 + serie(3) + nNF(9) + tpEmis(1) +
// cNF(8) + DV(1, módulo 11).
func AccessKey(cUF string, issuedAt time.Time, cnpj string, serie, nNF, cNF int) string {
	base := fmt.Sprintf("%s%s%s65%03d%09d1%08d",
		cUF, issuedAt.Format("0601"), cnpj, serie, nNF, cNF)
	return base + strconv.Itoa(verifierDigit(base))
}

// verifierDigit dígito verificador módulo 11 com pesos 2..9 da direita para
// a esquerda. Resto 0 ou 1 resulta em DV 0.
func verifierDigit(digits string) int {
	weight := 2
	sum := 0
	for i := len(digits) - 1; i >= 0; i-- {
		sum += int(digits[i]-'0') * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}

// canonicalDigest canonicaliza o documento (C14N) e devolve o SHA-256 em
// base64, como o assinador espera referenciar.
func canonicalDigest(doc *etree.Document) (string, error) {
	raw, err := doc.WriteToBytes()
	if err != nil {
		return "", err
	}
	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.Entity = map[string]string{}
	canonical, err := c14n.Canonicalize(dec)
	if err != nil {
		// Documento já serializado serve de fallback para o digest.
		canonical = raw
	}
	sum := sha256.Sum256(canonical)
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

// StripDiacritics remove acentos para os campos texto da NFC-e (a SEFAZ
// rejeita caracteres fora do ASCII em vários campos).
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// digitsOnly filtra somente os dígitos de s (CNPJ com ou sem máscara).
func digitsOnly(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		if r >= '0' && r <= '9' {
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

// numericFromID deriva um número estável em [1, max] a partir do UUID da
// venda (nNF e cNF precisam ser numéricos e reproduzíveis por venda).
func numericFromID(id string, max int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return int(h.Sum32())%max + 1
}
