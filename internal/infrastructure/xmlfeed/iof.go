package xmlfeed

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/feedlink/backend/internal/domain"
)

// IOF 3.0 defaults
const (
	defaultVAT      = "23.0"
	defaultCurrency = "PLN"
	defaultStock    = "0"
)

// parseIOF handles IOF 3.0 offers (IdoSell based wholesalers)
func parseIOF(root *etree.Element, lang string) []domain.NormalizedProduct {
	nodes := productNodes(root)
	products := make([]domain.NormalizedProduct, 0, len(nodes))
	for _, prod := range nodes {
		products = append(products, mapIOFProduct(prod, lang))
	}
	return products
}

func mapIOFProduct(prod *etree.Element, lang string) domain.NormalizedProduct {
	desc := prod.SelectElement("description")
	gross, net := iofPrice(prod)

	return domain.NormalizedProduct{
		ProductID:    attrValue(prod, "id", ""),
		EAN:          attrValue(prod, "code_on_card", ""),
		Name:         ExtractCDATA(desc, "name", lang),
		Producer:     childAttr(prod, "producer", "name", ""),
		Category:     childAttr(prod, "category", "name", ""),
		CategoryPath: childAttr(prod, "category_idosell", "path", ""),
		Version:      iofVersion(desc, lang),
		PriceGross:   gross,
		PriceNet:     net,
		VAT:          attrValue(prod, "vat", defaultVAT),
		Currency:     attrValue(prod, "currency", defaultCurrency),
		Stock:        iofStock(prod),
		URL:          childAttr(prod, "card", "url", ""),
		Description:  truncate(ExtractCDATA(desc, "long_desc", lang), DescriptionLimit),
	}
}

// iofVersion prefers the translated version name and falls back to the name attribute
func iofVersion(desc *etree.Element, lang string) string {
	if desc == nil {
		return ""
	}
	version := desc.SelectElement("version")
	if version == nil {
		return ""
	}
	for _, name := range version.SelectElements("name") {
		if name.SelectAttrValue(langAttr, "") != lang {
			continue
		}
		if text := name.Text(); text != "" {
			return strings.TrimSpace(text)
		}
		break
	}
	return version.SelectAttrValue("name", "")
}

// iofPrice resolves gross and net prices: base price, then the sizes price,
// then the first size-level price if gross is still unset.
func iofPrice(prod *etree.Element) (gross, net string) {
	if price := prod.SelectElement("price"); price != nil {
		gross = attrValue(price, "gross", "")
		net = attrValue(price, "net", "")
	}

	sizes := prod.SelectElement("sizes")
	if sizes == nil {
		return gross, net
	}
	if price := sizes.SelectElement("price"); price != nil {
		gross = attrValue(price, "gross", gross)
		net = attrValue(price, "net", net)
	}
	for _, size := range sizes.SelectElements("size") {
		price := size.SelectElement("price")
		if price == nil || gross != "" {
			continue
		}
		gross = attrValue(price, "gross", gross)
		net = attrValue(price, "net", net)
	}
	return gross, net
}

// iofStock resolves the stock quantity: base stock, overridden by the sizes stock,
// plus every size-level quantity. Sizes that do not coerce to an integer, or whose
// addition would overflow, are skipped.
func iofStock(prod *etree.Element) string {
	stock := childAttr(prod, "stock", "quantity", defaultStock)

	sizes := prod.SelectElement("sizes")
	if sizes == nil {
		return stock
	}
	stock = childAttr(sizes, "stock", "quantity", stock)

	for _, size := range sizes.SelectElements("size") {
		sizeStock := size.SelectElement("stock")
		if sizeStock == nil {
			continue
		}
		total, ok := ParseQuantity(stock)
		if !ok {
			continue
		}
		qty, ok := ParseQuantity(attrValue(sizeStock, "quantity", defaultStock))
		if !ok {
			continue
		}
		sum, ok := addQuantity(total, qty)
		if !ok {
			continue
		}
		stock = strconv.Itoa(sum)
	}
	return stock
}
